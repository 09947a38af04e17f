package ui

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/an4s911/library-fullstack/internal/api"
	"github.com/an4s911/library-fullstack/internal/options"
)

var (
	okColor     = color.New(color.FgGreen)
	errColor    = color.New(color.FgRed)
	dimColor    = color.New(color.Faint)
	titleColor  = color.New(color.Bold)
	borrowColor = color.New(color.FgYellow)
)

// Renderer writes pages, facet lists and toasts to the terminal.
type Renderer struct {
	Out io.Writer
}

// Success prints a green toast.
func (r Renderer) Success(format string, args ...any) {
	okColor.Fprintf(r.Out, format+"\n", args...)
}

// Error prints a red toast. The list on screen is left as it was.
func (r Renderer) Error(err error) {
	errColor.Fprintf(r.Out, "error: %v\n", err)
}

// Loading prints the stand-in for the skeleton loader.
func (r Renderer) Loading() {
	dimColor.Fprintln(r.Out, "loading…")
}

// Page renders one fetched page in the chosen view mode, followed by the
// pagination line.
func (r Renderer) Page(page api.ListPage, mode options.ViewMode) {
	if len(page.Books) == 0 {
		dimColor.Fprintln(r.Out, "no books match the current filters")
	} else if mode == options.ViewList {
		r.renderTable(page.Books)
	} else {
		r.renderCards(page.Books)
	}
	dimColor.Fprintf(r.Out, "page %d of %d, %d book(s) total\n",
		page.CurrentPage, page.TotalPages, page.TotalItems)
}

func (r Renderer) renderTable(books []api.Book) {
	table := tablewriter.NewWriter(r.Out)
	table.SetHeader([]string{"ID", "Title", "Author", "Genres", "Added", "Borrowed By"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	for _, b := range books {
		added := ""
		if !b.DateAdded.IsZero() {
			added = b.DateAdded.Format("Jan 2, 2006")
		}
		table.Append([]string{
			strconv.Itoa(b.ID),
			b.Title,
			b.Author,
			strings.Join(b.Genres, ", "),
			added,
			b.BorrowerName,
		})
	}
	table.Render()
}

func (r Renderer) renderCards(books []api.Book) {
	for _, b := range books {
		fmt.Fprintln(r.Out)
		titleColor.Fprintf(r.Out, "#%d %s\n", b.ID, b.Title)
		if b.Author != "" {
			fmt.Fprintf(r.Out, "   by %s\n", b.Author)
		}
		if len(b.Genres) > 0 {
			dimColor.Fprintf(r.Out, "   [%s]\n", strings.Join(b.Genres, "] ["))
		}
		if !b.DateAdded.IsZero() {
			dimColor.Fprintf(r.Out, "   added %s\n", b.DateAdded.Format("Jan 2, 2006"))
		}
		if b.BorrowerName != "" {
			borrowColor.Fprintf(r.Out, "   borrowed by %s\n", b.BorrowerName)
		}
		if !b.AllowBorrow {
			dimColor.Fprintln(r.Out, "   borrowing disabled")
		}
	}
	fmt.Fprintln(r.Out)
}

// Book renders the detail view of a single book.
func (r Renderer) Book(b api.Book) {
	titleColor.Fprintf(r.Out, "#%d %s\n", b.ID, b.Title)
	if b.Author != "" {
		fmt.Fprintf(r.Out, "author:    %s\n", b.Author)
	}
	if len(b.Genres) > 0 {
		fmt.Fprintf(r.Out, "genres:    %s\n", strings.Join(b.Genres, ", "))
	}
	if !b.DateAdded.IsZero() {
		fmt.Fprintf(r.Out, "added:     %s\n", b.DateAdded.Format("Jan 2, 2006 15:04"))
	}
	fmt.Fprintf(r.Out, "borrowing: %s\n", map[bool]string{true: "allowed", false: "disabled"}[b.AllowBorrow])
	if b.BorrowerName != "" {
		borrowColor.Fprintf(r.Out, "borrowed by %s\n", b.BorrowerName)
	}
}

// Facets renders a facet list sorted for humans (case-insensitive,
// accent-aware), while the IDs stay what the filter commands take.
func (r Renderer) Facets(kind api.FacetKind, facets []api.Facet) {
	sorted := make([]api.Facet, len(facets))
	copy(sorted, facets)
	coll := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(sorted, func(i, j int) bool {
		return coll.CompareString(sorted[i].Name, sorted[j].Name) < 0
	})

	titleColor.Fprintf(r.Out, "%ss:\n", kind)
	for _, f := range sorted {
		fmt.Fprintf(r.Out, "  %4d  %s\n", f.ID, f.Name)
	}
	if len(sorted) == 0 {
		dimColor.Fprintln(r.Out, "  (none yet)")
	}
}
