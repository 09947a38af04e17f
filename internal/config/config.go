package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Server-side page cap; asking for more gets a 400.
const maxPageSize = 50

// Config is everything the frontend needs to reach and render the catalog.
type Config struct {
	BaseURL  string
	PageSize int
	StateDir string // cookies + prefs live here
	Timeout  time.Duration
}

// Load reads .env (when present) and the BOOKSHELF_* variables, applying
// defaults for anything unset.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		BaseURL:  getenv("BOOKSHELF_BASE_URL", "http://localhost:8000"),
		PageSize: getint("BOOKSHELF_PAGE_SIZE", 8),
		StateDir: getenv("BOOKSHELF_STATE_DIR", defaultStateDir()),
		Timeout:  time.Duration(getint("BOOKSHELF_TIMEOUT", 15)) * time.Second,
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = 8
	}
	if cfg.PageSize > maxPageSize {
		cfg.PageSize = maxPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return cfg
}

// CookieFile is where the session jar is persisted.
func (c Config) CookieFile() string { return filepath.Join(c.StateDir, "cookies.json") }

// PrefsFile is where view-mode preferences are persisted.
func (c Config) PrefsFile() string { return filepath.Join(c.StateDir, "prefs.json") }

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bookshelf"
	}
	return filepath.Join(home, ".bookshelf")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
