// Package options owns the canonical query state plus the refresh signals
// every list consumer reacts to. All mutation goes through the store; other
// components only read copies and subscribe to change events.
package options

import (
	"sync"

	"github.com/an4s911/library-fullstack/internal/query"
)

// Event is a bitmask describing what changed in one store transaction.
// A single user action produces exactly one notification, so consumers
// never fetch twice for one click.
type Event uint8

const (
	EventOptions Event = 1 << iota // query options changed
	EventBooks                     // books refresh signal ticked
	EventFilters                   // facet lists refresh signal ticked
)

// Scope names a refresh signal for TriggerRefresh.
type Scope int

const (
	RefreshAll Scope = iota
	RefreshBooks
	RefreshFilters
)

// Field is one entry of a partial options update.
type Field struct {
	apply func(*query.Options)
	page  bool
}

func WithFreeText(s string) Field {
	return Field{apply: func(o *query.Options) { o.FreeText = s }}
}

func WithScope(sc query.SearchScope) Field {
	return Field{apply: func(o *query.Options) { o.Scope = sc }}
}

func WithAuthors(ids ...string) Field {
	ids = query.DedupIDs(ids)
	return Field{apply: func(o *query.Options) { o.AuthorIDs = ids }}
}

func WithGenres(ids ...string) Field {
	ids = query.DedupIDs(ids)
	return Field{apply: func(o *query.Options) { o.GenreIDs = ids }}
}

// WithBorrowed sets the tri-state borrowed filter; nil means "any".
func WithBorrowed(v *bool) Field {
	return Field{apply: func(o *query.Options) { o.Borrowed = v }}
}

func WithBorrowAllowed(v *bool) Field {
	return Field{apply: func(o *query.Options) { o.BorrowAllowed = v }}
}

func WithSort(key query.SortKey, desc bool) Field {
	return Field{apply: func(o *query.Options) {
		o.SortBy = key
		o.SortDesc = desc
	}}
}

// WithPage sets the page number explicitly, which also suppresses the
// reset-to-page-1 rule for the whole update.
func WithPage(n int) Field {
	return Field{apply: func(o *query.Options) { o.PageNum = n }, page: true}
}

type subscriber struct {
	id int
	fn func(Event)
}

// Store is the single writer of query.Options and the two refresh ticks.
type Store struct {
	mu          sync.Mutex
	opts        query.Options
	booksTick   uint64
	filtersTick uint64
	subs        []subscriber
	nextSubID   int
	prefs       *prefsFile
	viewMode    ViewMode
}

// New builds a store around the given initial options.
func New(initial query.Options, storeOpts ...StoreOption) *Store {
	s := &Store{opts: initial.Clone(), viewMode: ViewGrid}
	for _, so := range storeOpts {
		so(s)
	}
	if s.prefs != nil {
		if p, err := s.prefs.load(); err == nil && p.ViewMode.valid() {
			s.viewMode = p.ViewMode
		}
	}
	return s
}

// StoreOption configures a Store at construction time.
type StoreOption func(*Store)

// WithPrefsFile persists the view-mode flag to path and restores it at
// startup, replacing the browser's localStorage role.
func WithPrefsFile(path string) StoreOption {
	return func(s *Store) { s.prefs = &prefsFile{path: path} }
}

// Options returns a copy of the current options.
func (s *Store) Options() query.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts.Clone()
}

// Update merges the given fields into the current options and notifies
// subscribers once. Touching anything other than the page number resets
// the page to 1 unless the update also sets the page explicitly.
func (s *Store) Update(fields ...Field) {
	s.apply(0, fields)
}

// UpdateAndRefresh is Update plus a refresh tick, delivered as a single
// notification so one user action causes one fetch.
func (s *Store) UpdateAndRefresh(scope Scope, fields ...Field) {
	s.apply(s.tick(scope), fields)
}

// TriggerRefresh ticks the named signal (or both for RefreshAll) without
// touching the options, forcing observers to re-fetch an unchanged query.
func (s *Store) TriggerRefresh(scope Scope) {
	s.apply(s.tick(scope), nil)
}

// Clear resets the search term, scope, every filter and the page position,
// then forces a books refresh. Sort order is kept.
func (s *Store) Clear() {
	s.UpdateAndRefresh(RefreshBooks,
		WithFreeText(""),
		WithScope(""),
		WithAuthors(),
		WithGenres(),
		WithBorrowed(nil),
		WithBorrowAllowed(nil),
	)
}

// BooksTick reports the current books refresh generation.
func (s *Store) BooksTick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.booksTick
}

// FiltersTick reports the current facet-lists refresh generation.
func (s *Store) FiltersTick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filtersTick
}

// Subscribe registers fn for store notifications and returns a cancel
// function. Notifications are delivered synchronously in call order.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) tick(scope Scope) Event {
	var ev Event
	if scope == RefreshAll || scope == RefreshBooks {
		ev |= EventBooks
	}
	if scope == RefreshAll || scope == RefreshFilters {
		ev |= EventFilters
	}
	return ev
}

func (s *Store) apply(ev Event, fields []Field) {
	s.mu.Lock()

	if len(fields) > 0 {
		next := s.opts.Clone()
		explicitPage := false
		touched := false
		for _, f := range fields {
			f.apply(&next)
			if f.page {
				explicitPage = true
			} else {
				touched = true
			}
		}
		if touched && !explicitPage {
			next.PageNum = 1
		}
		s.opts = next
		ev |= EventOptions
	}

	if ev&EventBooks != 0 {
		s.booksTick++
	}
	if ev&EventFilters != 0 {
		s.filtersTick++
	}

	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	if ev == 0 {
		return
	}
	for _, sub := range subs {
		sub.fn(ev)
	}
}
