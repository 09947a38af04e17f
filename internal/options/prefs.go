package options

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ViewMode is how results are rendered: a compact table or card blocks.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

func (m ViewMode) valid() bool { return m == ViewGrid || m == ViewList }

type prefs struct {
	ViewMode ViewMode `json:"view_mode"`
}

type prefsFile struct {
	path string
}

func (p *prefsFile) load() (prefs, error) {
	var out prefs
	b, err := os.ReadFile(p.path)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(b, &out)
	return out, err
}

func (p *prefsFile) save(v prefs) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.path, b, 0o644)
}

// ViewMode returns the current rendering mode.
func (s *Store) ViewMode() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewMode
}

// SetViewMode switches the rendering mode and persists it when a prefs
// file is configured. Persistence failures are not fatal; the mode still
// changes for the running session.
func (s *Store) SetViewMode(m ViewMode) error {
	if !m.valid() {
		m = ViewGrid
	}
	s.mu.Lock()
	s.viewMode = m
	pf := s.prefs
	s.mu.Unlock()

	if pf == nil {
		return nil
	}
	return pf.save(prefs{ViewMode: m})
}

// ToggleViewMode flips grid<->list and reports the new mode.
func (s *Store) ToggleViewMode() (ViewMode, error) {
	next := ViewGrid
	if s.ViewMode() == ViewGrid {
		next = ViewList
	}
	err := s.SetViewMode(next)
	return next, err
}
