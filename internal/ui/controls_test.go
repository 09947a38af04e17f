package ui

import (
	"testing"

	"github.com/an4s911/library-fullstack/internal/options"
	"github.com/an4s911/library-fullstack/internal/query"
)

func TestControls_OneTransactionPerAction(t *testing.T) {
	store := options.New(query.Default(8))
	c := Controls{Store: store}
	calls := 0
	store.Subscribe(func(options.Event) { calls++ })

	b := true
	c.Search("dune  ", query.ScopeTitle)
	c.Sort(query.SortAuthor, true)
	c.ApplyFilters([]string{"4"}, []string{"3", "7"}, &b, nil)
	c.Clear()

	if calls != 4 {
		t.Fatalf("4 actions caused %d notifications", calls)
	}
}

func TestControls_SearchTrimsAndResetsPage(t *testing.T) {
	store := options.New(query.Default(8))
	c := Controls{Store: store}
	store.Update(options.WithPage(5))

	c.Search("  dune  ", query.ScopeAll)

	got := store.Options()
	if got.FreeText != "dune" {
		t.Fatalf("FreeText = %q", got.FreeText)
	}
	if got.PageNum != 1 {
		t.Fatalf("page = %d, want 1", got.PageNum)
	}
}

func TestControls_ApplyFiltersDedupes(t *testing.T) {
	store := options.New(query.Default(8))
	c := Controls{Store: store}

	c.ApplyFilters([]string{"4", "4"}, []string{"3", " 3", "7"}, nil, nil)

	got := store.Options()
	if len(got.AuthorIDs) != 1 || got.AuthorIDs[0] != "4" {
		t.Fatalf("authors = %v", got.AuthorIDs)
	}
	if len(got.GenreIDs) != 2 {
		t.Fatalf("genres = %v", got.GenreIDs)
	}
}

func TestParseTriState(t *testing.T) {
	if v, ok := ParseTriState("any"); !ok || v != nil {
		t.Fatalf("any = %v, %v", v, ok)
	}
	if v, ok := ParseTriState("YES"); !ok || v == nil || !*v {
		t.Fatalf("yes = %v, %v", v, ok)
	}
	if v, ok := ParseTriState("n"); !ok || v == nil || *v {
		t.Fatalf("n = %v, %v", v, ok)
	}
	if _, ok := ParseTriState("maybe"); ok {
		t.Fatal("maybe accepted")
	}
}
