package query

import (
	"strings"
	"testing"
)

func TestEncode_Deterministic(t *testing.T) {
	b := true
	o := Options{
		FreeText:  "dune messiah",
		Scope:     ScopeTitle,
		AuthorIDs: []string{"4", "9"},
		GenreIDs:  []string{"3", "7"},
		Borrowed:  &b,
		SortBy:    SortAuthor,
		SortDesc:  true,
		PageNum:   2,
		PageSize:  8,
	}

	first := o.Encode()
	second := o.Encode()
	if first != second {
		t.Fatalf("Encode not deterministic:\n%s\n%s", first, second)
	}
}

func TestEncode_OmitsUnsetFields(t *testing.T) {
	o := Default(8)
	got := o.Encode()

	if got != "pg_size=8&pg_num=1" {
		t.Fatalf("default options encoded as %q", got)
	}
	for _, key := range []string{"q=", "search_in=", "filter_author=", "filter_genre=", "filter_borrowed=", "filter_borrow_allowed=", "sort_by=", "sort_desc="} {
		if strings.Contains(got, key) {
			t.Errorf("unset field %s must not be emitted (got %q)", key, got)
		}
	}
}

func TestEncode_RepeatedFilterKeys(t *testing.T) {
	o := Options{GenreIDs: []string{"3", "7"}, PageSize: 8, PageNum: 1}

	got := o.Encode()
	want := "filter_genre=3&filter_genre=7&pg_size=8&pg_num=1"
	if got != want {
		t.Fatalf("Encode = %q, want %q", got, want)
	}
}

func TestEncode_TriStates(t *testing.T) {
	f := false
	tr := true
	o := Options{Borrowed: &f, BorrowAllowed: &tr}

	got := o.Encode()
	if got != "filter_borrowed=false&filter_borrow_allowed=true" {
		t.Fatalf("Encode = %q", got)
	}
}

func TestEncode_SortDescOnlyWithSortKey(t *testing.T) {
	o := Options{SortDesc: true, PageSize: 8, PageNum: 1}
	if got := o.Encode(); strings.Contains(got, "sort_desc") {
		t.Fatalf("sort_desc emitted without sort_by: %q", got)
	}

	o.SortBy = SortDateAdded
	got := o.Encode()
	if !strings.Contains(got, "sort_by=dateAdded&sort_desc=true") {
		t.Fatalf("sort pair missing: %q", got)
	}
}

func TestEncode_EscapesLikeTheBrowser(t *testing.T) {
	o := Options{FreeText: "war & peace"}
	got := o.Encode()
	if got != "q=war+%26+peace" {
		t.Fatalf("Encode = %q", got)
	}
}

func TestClone_DoesNotShareSlices(t *testing.T) {
	o := Options{AuthorIDs: []string{"1"}, GenreIDs: []string{"2"}}
	c := o.Clone()
	c.AuthorIDs[0] = "changed"
	if o.AuthorIDs[0] != "1" {
		t.Fatal("Clone shares the author slice")
	}
}

func TestParseScope(t *testing.T) {
	if s, ok := ParseScope(" Borrower "); !ok || s != ScopeBorrower {
		t.Fatalf("ParseScope = %v, %v", s, ok)
	}
	if _, ok := ParseScope("publisher"); ok {
		t.Fatal("ParseScope accepted an unknown scope")
	}
}

func TestParseSortKey(t *testing.T) {
	if k, ok := ParseSortKey("dateadded"); !ok || k != SortDateAdded {
		t.Fatalf("ParseSortKey = %v, %v", k, ok)
	}
	if _, ok := ParseSortKey("isbn"); ok {
		t.Fatal("ParseSortKey accepted an unknown key")
	}
}

func TestDedupIDs(t *testing.T) {
	got := DedupIDs([]string{" 3", "7", "3", "", "7 "})
	if len(got) != 2 || got[0] != "3" || got[1] != "7" {
		t.Fatalf("DedupIDs = %v", got)
	}
}
