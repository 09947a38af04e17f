package query

import (
	"net/url"
	"strconv"
	"strings"
)

// SearchScope selects which fields the free-text term matches against.
type SearchScope string

const (
	ScopeAll      SearchScope = "all"
	ScopeTitle    SearchScope = "title"
	ScopeAuthor   SearchScope = "author"
	ScopeBorrower SearchScope = "borrower"
)

// SortKey is one of the server's sortable fields.
type SortKey string

const (
	SortTitle        SortKey = "title"
	SortAuthor       SortKey = "author"
	SortDateAdded    SortKey = "dateAdded"
	SortBorrowerName SortKey = "borrowerName"
	SortBorrowDate   SortKey = "borrowDate"
	SortReturnDate   SortKey = "returnDate"
)

// Options is the canonical search/filter/sort/pagination state for the
// book list. Zero values mean "unset" and are omitted on the wire.
type Options struct {
	FreeText      string
	Scope         SearchScope
	AuthorIDs     []string // set semantics, first-seen order
	GenreIDs      []string
	Borrowed      *bool // nil = any
	BorrowAllowed *bool // nil = any
	SortBy        SortKey
	SortDesc      bool
	PageNum       int
	PageSize      int
}

// Default returns the session-start options: first page, given page size.
func Default(pageSize int) Options {
	return Options{PageNum: 1, PageSize: pageSize}
}

// Clone returns a deep copy; filter slices are not shared.
func (o Options) Clone() Options {
	c := o
	if o.AuthorIDs != nil {
		c.AuthorIDs = append([]string(nil), o.AuthorIDs...)
	}
	if o.GenreIDs != nil {
		c.GenreIDs = append([]string(nil), o.GenreIDs...)
	}
	if o.Borrowed != nil {
		v := *o.Borrowed
		c.Borrowed = &v
	}
	if o.BorrowAllowed != nil {
		v := *o.BorrowAllowed
		c.BorrowAllowed = &v
	}
	return c
}

// Encode serializes the options into the exact query string the backend
// parses. Unset fields are omitted, multi-valued filters repeat the key once
// per element, and key order is fixed so the same options always produce the
// same string. Values are escaped the way URLSearchParams escapes them
// (spaces become '+').
func (o Options) Encode() string {
	var pairs []string
	add := func(key, value string) {
		pairs = append(pairs, key+"="+url.QueryEscape(value))
	}

	if o.FreeText != "" {
		add("q", o.FreeText)
	}
	if o.Scope != "" {
		add("search_in", string(o.Scope))
	}
	for _, id := range o.AuthorIDs {
		add("filter_author", id)
	}
	for _, id := range o.GenreIDs {
		add("filter_genre", id)
	}
	if o.Borrowed != nil {
		add("filter_borrowed", strconv.FormatBool(*o.Borrowed))
	}
	if o.BorrowAllowed != nil {
		add("filter_borrow_allowed", strconv.FormatBool(*o.BorrowAllowed))
	}
	if o.SortBy != "" {
		add("sort_by", string(o.SortBy))
		add("sort_desc", strconv.FormatBool(o.SortDesc))
	}
	if o.PageSize > 0 {
		add("pg_size", strconv.Itoa(o.PageSize))
	}
	if o.PageNum > 0 {
		add("pg_num", strconv.Itoa(o.PageNum))
	}

	return strings.Join(pairs, "&")
}

// ParseScope maps user input to a SearchScope; unknown input reports false.
func ParseScope(s string) (SearchScope, bool) {
	switch SearchScope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeAll:
		return ScopeAll, true
	case ScopeTitle:
		return ScopeTitle, true
	case ScopeAuthor:
		return ScopeAuthor, true
	case ScopeBorrower:
		return ScopeBorrower, true
	}
	return "", false
}

// ParseSortKey maps user input to a SortKey. Input is matched
// case-insensitively against the wire names.
func ParseSortKey(s string) (SortKey, bool) {
	for _, k := range []SortKey{
		SortTitle, SortAuthor, SortDateAdded,
		SortBorrowerName, SortBorrowDate, SortReturnDate,
	} {
		if strings.EqualFold(strings.TrimSpace(s), string(k)) {
			return k, true
		}
	}
	return "", false
}

// DedupIDs trims, drops empties and removes duplicates while keeping
// first-seen order, so filter sets stay sets no matter what the caller
// collected.
func DedupIDs(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
