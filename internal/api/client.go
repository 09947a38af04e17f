// Package api is the HTTP client for the library backend. It owns the
// session cookies, the CSRF handshake and the error taxonomy; everything
// above it works with plain Go values.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	csrfCookie   = "csrftoken"
	csrfHeader   = "X-CSRFToken"
	maxBodyBytes = 1 << 20
)

// Client talks to one backend instance.
type Client struct {
	base    *url.URL
	hc      *http.Client
	jarFile string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request round trip.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.hc.Timeout = d }
}

// WithHTTPClient swaps the underlying client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithCookieFile persists session cookies to path so one-shot commands
// stay logged in between runs. Call SaveCookies before exiting.
func WithCookieFile(path string) Option {
	return func(c *Client) { c.jarFile = path }
}

// New builds a client for baseURL (scheme + host, no trailing path).
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		base: base,
		hc:   &http.Client{Jar: jar, Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.hc.Jar == nil {
		c.hc.Jar = jar
	}
	if c.jarFile != "" {
		c.loadCookies()
	}
	return c, nil
}

func (c *Client) endpoint(path string) string {
	return c.base.String() + path
}

// csrfToken returns the csrftoken cookie value, if the jar has one.
func (c *Client) csrfToken() string {
	for _, ck := range c.hc.Jar.Cookies(c.base) {
		if ck.Name == csrfCookie {
			return ck.Value
		}
	}
	return ""
}

// ensureCSRF primes the csrftoken cookie by loading the login page once.
// The backend refuses state-changing requests without it.
func (c *Client) ensureCSRF(ctx context.Context) error {
	if c.csrfToken() != "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/login/"), nil)
	if err != nil {
		return transportErr("/login/", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return transportErr("/login/", err)
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	resp.Body.Close()
	return nil
}

// getJSON issues a GET and decodes the 2xx body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return transportErr(path, err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, path, out)
}

// sendJSON issues a state-changing request with a JSON body and the CSRF
// header. A nil body sends an empty request.
func (c *Client) sendJSON(ctx context.Context, method, path string, body any, out any) error {
	if err := c.ensureCSRF(ctx); err != nil {
		return err
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return decodeErr(path, 0, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), rd)
	if err != nil {
		return transportErr(path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(csrfHeader, c.csrfToken())
	return c.do(req, path, out)
}

// sendForm issues a state-changing request with a pre-built body (form
// posts, multipart uploads).
func (c *Client) sendForm(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	if err := c.ensureCSRF(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return transportErr(path, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(csrfHeader, c.csrfToken())
	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, path string, out any) error {
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.hc.Do(req)
	if err != nil {
		return transportErr(path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return transportErr(path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Kind:     KindAPI,
			Status:   resp.StatusCode,
			Message:  serverMessage(body),
			Endpoint: path,
		}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return decodeErr(path, resp.StatusCode, err)
	}
	return nil
}

// serverMessage pulls the error (or message) field out of an error body.
func serverMessage(body []byte) string {
	var env struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	if env.Error != "" {
		return env.Error
	}
	return env.Message
}
