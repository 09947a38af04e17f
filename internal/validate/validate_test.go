package validate

import (
	"strings"
	"testing"
)

func TestNewBook(t *testing.T) {
	cases := []struct {
		name     string
		title    string
		authorID string
		genres   []int
		wantErr  string
	}{
		{"valid", "Dune", "4", []int{3}, ""},
		{"empty title", "   ", "4", []int{3}, "title"},
		{"no author", "Dune", "", []int{3}, "author"},
		{"no genres", "Dune", "4", nil, "genre"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := NewBook(tc.title, tc.authorID, tc.genres)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err = %v, want mention of %q", err, tc.wantErr)
			}
		})
	}
}

func TestBorrowerName(t *testing.T) {
	got, err := BorrowerName("  Ada Lovelace  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Ada Lovelace" {
		t.Fatalf("got %q", got)
	}

	if _, err := BorrowerName("   "); err == nil {
		t.Fatal("blank name accepted")
	}
	if _, err := BorrowerName(strings.Repeat("x", 151)); err == nil {
		t.Fatal("oversized name accepted")
	}
}

func TestImportCSV(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		wantRows int
		wantErr  string
	}{
		{
			name:     "valid with extra columns",
			input:    "Title,Author,Genres\nDune,Frank Herbert,Sci-Fi;Classic\nEmma,Jane Austen,\n",
			wantRows: 2,
		},
		{
			name:    "empty file",
			input:   "",
			wantErr: "empty",
		},
		{
			name:    "missing author column",
			input:   "title,genres\nDune,Sci-Fi\n",
			wantErr: "missing required column: author",
		},
		{
			name:    "header only",
			input:   "title,author\n",
			wantErr: "no book rows",
		},
		{
			name:    "blank author cell",
			input:   "title,author\nDune,Frank Herbert\nEmma,\n",
			wantErr: "line 3: empty author",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := ImportCSV(strings.NewReader(tc.input))
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("err = %v, want mention of %q", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rows != tc.wantRows {
				t.Fatalf("rows = %d, want %d", rows, tc.wantRows)
			}
		})
	}
}
