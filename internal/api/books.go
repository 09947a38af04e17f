package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/an4s911/library-fullstack/internal/query"
)

// Book is one catalog row as the backend returns it. Author is the plain
// name (empty when the book has none).
type Book struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	Genres       []string `json:"genres"`
	DateAdded    BookDate `json:"dateAdded"`
	AllowBorrow  bool     `json:"allowBorrow"`
	BorrowerName string   `json:"borrowerName"`
}

// ListPage is one page of results plus the pagination metadata the pager
// reads. It is replaced wholesale on every successful fetch.
type ListPage struct {
	Books       []Book `json:"books"`
	CurrentPage int    `json:"current_page"`
	TotalPages  int    `json:"total_pages"`
	TotalItems  int    `json:"total_items"`
}

// BookDate tolerates the backend's datetime formats (with or without zone).
type BookDate struct {
	time.Time
}

var bookDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (d *BookDate) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		d.Time = time.Time{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	var lastErr error
	for _, layout := range bookDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			d.Time = t
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// GetBooks fetches one page of books for the given options. The query
// string is exactly query.Options.Encode: that encoding is the wire
// contract with the backend's filtering.
func (c *Client) GetBooks(ctx context.Context, opts query.Options) (*ListPage, error) {
	var page ListPage
	path := "/api/get-books/"
	if qs := opts.Encode(); qs != "" {
		path += "?" + qs
	}
	if err := c.getJSON(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetBook fetches a single book by id.
func (c *Client) GetBook(ctx context.Context, id int) (*Book, error) {
	var out struct {
		Book Book `json:"book"`
	}
	path := fmt.Sprintf("/api/get-book/%d/", id)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out.Book, nil
}

// NewBook is the add-book payload. AuthorID and GenreIDs reference facets
// from GetFacets; the backend validates they exist.
type NewBook struct {
	Title       string `json:"title"`
	AuthorID    string `json:"author"`
	AllowBorrow bool   `json:"allowBorrow"`
	GenreIDs    []int  `json:"genres"`
}

// AddBook creates one book. The caller triggers the books refresh after a
// success; the client never mutates local state on its own.
func (c *Client) AddBook(ctx context.Context, nb NewBook) error {
	return c.sendJSON(ctx, http.MethodPost, "/api/add-book/", nb, nil)
}

// ImportBooks uploads a CSV of books as multipart form data. The reader is
// streamed, so callers can wrap it to observe progress.
func (c *Client) ImportBooks(ctx context.Context, filename string, r io.Reader) error {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	return c.sendForm(ctx, http.MethodPost, "/api/add-books/", mw.FormDataContentType(), pr, nil)
}

// SetAllowBorrow flips whether a book can be lent out.
func (c *Client) SetAllowBorrow(ctx context.Context, id int, allow bool) error {
	body := struct {
		AllowBorrow bool `json:"allowBorrow"`
	}{AllowBorrow: allow}
	return c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/api/edit-book/%d/", id), body, nil)
}

// BorrowBook records that borrowerName took the book out.
func (c *Client) BorrowBook(ctx context.Context, id int, borrowerName string) error {
	body := struct {
		BorrowerName string `json:"borrowerName"`
	}{BorrowerName: borrowerName}
	return c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/api/borrow-book/%d/", id), body, nil)
}

// UnborrowBook records the book as returned.
func (c *Client) UnborrowBook(ctx context.Context, id int) error {
	return c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/api/unborrow-book/%d/", id), nil, nil)
}

// DeleteBook removes the book permanently. Confirmation is the UI's job.
func (c *Client) DeleteBook(ctx context.Context, id int) error {
	return c.sendJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/delete-book/%d/", id), nil, nil)
}
