package pager

import (
	"testing"

	"github.com/an4s911/library-fullstack/internal/options"
	"github.com/an4s911/library-fullstack/internal/query"
)

func TestNext_StopsAtLastPage(t *testing.T) {
	store := options.New(query.Default(8))
	p := New(store)
	p.SetPageInfo(1, 3)

	// Page 1 -> 2 -> 3, then a no-op at the end.
	if !p.Next() {
		t.Fatal("Next from page 1 of 3 should move")
	}
	if got := store.Options().PageNum; got != 2 {
		t.Fatalf("page = %d, want 2", got)
	}
	p.SetPageInfo(2, 3)
	if !p.Next() {
		t.Fatal("Next from page 2 of 3 should move")
	}
	p.SetPageInfo(3, 3)

	if p.Next() {
		t.Fatal("Next on the last page must be a no-op")
	}
	if got := store.Options().PageNum; got != 3 {
		t.Fatalf("page = %d, want 3", got)
	}
}

func TestPrev_StopsAtFirstPage(t *testing.T) {
	store := options.New(query.Default(8))
	p := New(store)
	p.SetPageInfo(1, 3)

	if p.Prev() {
		t.Fatal("Prev on page 1 must be a no-op")
	}
	if got := store.Options().PageNum; got != 1 {
		t.Fatalf("page = %d, want 1", got)
	}
}

func TestGoto_Clamps(t *testing.T) {
	store := options.New(query.Default(8))
	p := New(store)
	p.SetPageInfo(2, 5)

	if got := p.Goto(99); got != 5 {
		t.Fatalf("Goto(99) committed %d, want 5", got)
	}
	if got := store.Options().PageNum; got != 5 {
		t.Fatalf("page = %d, want 5", got)
	}

	if got := p.Goto(0); got != 1 {
		t.Fatalf("Goto(0) committed %d, want 1", got)
	}
}

func TestNavigation_DoesNotResetFilters(t *testing.T) {
	store := options.New(query.Default(8))
	store.Update(options.WithGenres("3"))
	p := New(store)
	p.SetPageInfo(1, 4)

	p.Next()

	got := store.Options()
	if got.PageNum != 2 {
		t.Fatalf("page = %d, want 2", got.PageNum)
	}
	if len(got.GenreIDs) != 1 || got.GenreIDs[0] != "3" {
		t.Fatalf("genre filter lost during navigation: %v", got.GenreIDs)
	}
}

func TestSetPageInfo_SanitizesServerValues(t *testing.T) {
	store := options.New(query.Default(8))
	p := New(store)

	p.SetPageInfo(0, 0)

	if p.Current() != 1 || p.Total() != 1 {
		t.Fatalf("got %d/%d, want 1/1", p.Current(), p.Total())
	}
}
