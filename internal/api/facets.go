package api

import (
	"context"
	"fmt"
	"net/http"
)

// FacetKind selects which filterable attribute list an operation targets.
// Dispatch is an exhaustive switch, not a string-keyed table, so a new
// kind fails to compile until every call site handles it.
type FacetKind int

const (
	FacetAuthor FacetKind = iota
	FacetGenre
)

func (k FacetKind) String() string {
	switch k {
	case FacetAuthor:
		return "author"
	case FacetGenre:
		return "genre"
	}
	return fmt.Sprintf("FacetKind(%d)", int(k))
}

// Facet is one selectable filter entry (an author or a genre).
type Facet struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GetFacets fetches the full list for the filter panel.
func (c *Client) GetFacets(ctx context.Context, kind FacetKind) ([]Facet, error) {
	switch kind {
	case FacetAuthor:
		var out struct {
			Authors []Facet `json:"authors"`
		}
		if err := c.getJSON(ctx, "/api/get-authors/", &out); err != nil {
			return nil, err
		}
		return out.Authors, nil
	case FacetGenre:
		var out struct {
			Genres []Facet `json:"genres"`
		}
		if err := c.getJSON(ctx, "/api/get-genres/", &out); err != nil {
			return nil, err
		}
		return out.Genres, nil
	}
	return nil, fmt.Errorf("unknown facet kind %v", kind)
}

// AddFacet creates an author or genre by name and returns the row the
// server answered with (the existing one when the name was taken).
func (c *Client) AddFacet(ctx context.Context, kind FacetKind, name string) (*Facet, error) {
	body := struct {
		Name string `json:"name"`
	}{Name: name}

	switch kind {
	case FacetAuthor:
		var out struct {
			Author Facet `json:"author"`
		}
		if err := c.sendJSON(ctx, http.MethodPost, "/api/add-author/", body, &out); err != nil {
			return nil, err
		}
		return &out.Author, nil
	case FacetGenre:
		var out struct {
			Genre Facet `json:"genre"`
		}
		if err := c.sendJSON(ctx, http.MethodPost, "/api/add-genre/", body, &out); err != nil {
			return nil, err
		}
		return &out.Genre, nil
	}
	return nil, fmt.Errorf("unknown facet kind %v", kind)
}
