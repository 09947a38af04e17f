package ui

import (
	"strings"

	"github.com/an4s911/library-fullstack/internal/options"
	"github.com/an4s911/library-fullstack/internal/query"
)

// Controls maps user actions onto the options store. Every method is one
// store transaction, so each action causes exactly one list fetch — never
// zero, never a duplicate.
type Controls struct {
	Store *options.Store
}

// Search commits a free-text term and scope (the submit of the search bar).
func (c Controls) Search(text string, scope query.SearchScope) {
	c.Store.Update(
		options.WithFreeText(strings.TrimSpace(text)),
		options.WithScope(scope),
	)
}

// Sort applies a sort selection.
func (c Controls) Sort(key query.SortKey, desc bool) {
	c.Store.Update(options.WithSort(key, desc))
}

// ApplyFilters commits the whole filter panel at once (the Apply button).
func (c Controls) ApplyFilters(authorIDs, genreIDs []string, borrowed, borrowAllowed *bool) {
	c.Store.Update(
		options.WithAuthors(authorIDs...),
		options.WithGenres(genreIDs...),
		options.WithBorrowed(borrowed),
		options.WithBorrowAllowed(borrowAllowed),
	)
}

// FilterAuthors replaces only the author filter.
func (c Controls) FilterAuthors(ids []string) {
	c.Store.Update(options.WithAuthors(ids...))
}

// FilterGenres replaces only the genre filter.
func (c Controls) FilterGenres(ids []string) {
	c.Store.Update(options.WithGenres(ids...))
}

// FilterBorrowed sets the borrowed radio; nil is "any".
func (c Controls) FilterBorrowed(v *bool) {
	c.Store.Update(options.WithBorrowed(v))
}

// FilterBorrowAllowed sets the borrow-allowed radio; nil is "any".
func (c Controls) FilterBorrowAllowed(v *bool) {
	c.Store.Update(options.WithBorrowAllowed(v))
}

// Clear is the panel's Clear button: drop search and filters, back to page
// one, re-fetch.
func (c Controls) Clear() {
	c.Store.Clear()
}

// ParseTriState reads the any/yes/no answer of a tri-state radio. nil
// means "any".
func ParseTriState(s string) (v *bool, ok bool) {
	t := true
	f := false
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "any", "all", "":
		return nil, true
	case "yes", "true", "y":
		return &t, true
	case "no", "false", "n":
		return &f, true
	}
	return nil, false
}
