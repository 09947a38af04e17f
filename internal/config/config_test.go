package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"BOOKSHELF_BASE_URL", "BOOKSHELF_PAGE_SIZE", "BOOKSHELF_STATE_DIR", "BOOKSHELF_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.BaseURL != "http://localhost:8000" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.PageSize != 8 {
		t.Errorf("PageSize = %d", cfg.PageSize)
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BOOKSHELF_BASE_URL", "https://books.example.org")
	t.Setenv("BOOKSHELF_PAGE_SIZE", "24")
	t.Setenv("BOOKSHELF_STATE_DIR", "/tmp/bookshelf-test")
	t.Setenv("BOOKSHELF_TIMEOUT", "30")

	cfg := Load()

	if cfg.BaseURL != "https://books.example.org" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.PageSize != 24 {
		t.Errorf("PageSize = %d", cfg.PageSize)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.CookieFile() != "/tmp/bookshelf-test/cookies.json" {
		t.Errorf("CookieFile = %q", cfg.CookieFile())
	}
	if cfg.PrefsFile() != "/tmp/bookshelf-test/prefs.json" {
		t.Errorf("PrefsFile = %q", cfg.PrefsFile())
	}
}

func TestLoad_SanitizesBadValues(t *testing.T) {
	t.Setenv("BOOKSHELF_PAGE_SIZE", "9999")
	t.Setenv("BOOKSHELF_TIMEOUT", "-5")

	cfg := Load()

	if cfg.PageSize != maxPageSize {
		t.Errorf("PageSize = %d, want the cap %d", cfg.PageSize, maxPageSize)
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}

	t.Setenv("BOOKSHELF_PAGE_SIZE", "not a number")
	if got := Load().PageSize; got != 8 {
		t.Errorf("PageSize = %d, want the default", got)
	}
}
