package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Login opens a session with the backend. The session and csrftoken
// cookies land in the jar; SaveCookies makes them survive the process.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	return c.sendForm(ctx, http.MethodPost, "/login/",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()), nil)
}

// Logout ends the session server-side and clears local cookies either way;
// a dead session is not worth keeping around.
func (c *Client) Logout(ctx context.Context) error {
	err := c.sendJSON(ctx, http.MethodPost, "/logout/", nil, nil)
	if clearErr := c.ClearCookies(); err == nil {
		err = clearErr
	}
	return err
}
