package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Session cookies survive process restarts through a small JSON file, the
// terminal equivalent of the browser keeping its cookie store. Only name,
// value and expiry are kept; everything is scoped to the base URL.

type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

func (c *Client) loadCookies() {
	b, err := os.ReadFile(c.jarFile)
	if err != nil {
		return
	}
	var stored []storedCookie
	if err := json.Unmarshal(b, &stored); err != nil {
		return
	}
	cookies := make([]*http.Cookie, 0, len(stored))
	now := time.Now()
	for _, sc := range stored {
		if !sc.Expires.IsZero() && sc.Expires.Before(now) {
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Name:    sc.Name,
			Value:   sc.Value,
			Expires: sc.Expires,
		})
	}
	c.hc.Jar.SetCookies(c.base, cookies)
}

// SaveCookies writes the current session cookies to the configured file.
// A no-op when no cookie file was set.
func (c *Client) SaveCookies() error {
	if c.jarFile == "" {
		return nil
	}
	cookies := c.hc.Jar.Cookies(c.base)
	stored := make([]storedCookie, 0, len(cookies))
	for _, ck := range cookies {
		stored = append(stored, storedCookie{
			Name:    ck.Name,
			Value:   ck.Value,
			Expires: ck.Expires,
		})
	}
	if err := os.MkdirAll(filepath.Dir(c.jarFile), 0o700); err != nil {
		return err
	}
	b, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	return os.WriteFile(c.jarFile, b, 0o600)
}

// ClearCookies drops the persisted session (used by logout).
func (c *Client) ClearCookies() error {
	// The jar only deletes cookies it is told to expire.
	var expired []*http.Cookie
	for _, ck := range c.hc.Jar.Cookies(c.base) {
		expired = append(expired, &http.Cookie{Name: ck.Name, MaxAge: -1})
	}
	c.hc.Jar.SetCookies(c.base, expired)
	if c.jarFile == "" {
		return nil
	}
	err := os.Remove(c.jarFile)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
