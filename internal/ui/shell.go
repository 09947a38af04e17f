// Package ui is the terminal frontend: an interactive shell over the
// options store, the list fetcher and the REST client. The shell loop is
// single-threaded; network calls are the only suspension points.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/an4s911/library-fullstack/internal/api"
	"github.com/an4s911/library-fullstack/internal/fetcher"
	"github.com/an4s911/library-fullstack/internal/options"
	"github.com/an4s911/library-fullstack/internal/pager"
	"github.com/an4s911/library-fullstack/internal/query"
	"github.com/an4s911/library-fullstack/internal/validate"
)

type fetchResult struct {
	page *api.ListPage
	err  error
}

// Shell runs the browse session.
type Shell struct {
	client   *api.Client
	store    *options.Store
	controls Controls
	fetch    *fetcher.Fetcher
	pager    *pager.Pager
	render   Renderer
	timeout  time.Duration

	results     chan fetchResult
	facets      map[api.FacetKind][]api.Facet
	facetsStale bool

	line *liner.State
}

// NewShell wires the whole consumer graph around one store and client.
func NewShell(client *api.Client, store *options.Store, timeout time.Duration) *Shell {
	s := &Shell{
		client:   client,
		store:    store,
		controls: Controls{Store: store},
		pager:    pager.New(store),
		render:   Renderer{Out: os.Stdout},
		timeout:  timeout,
		results:  make(chan fetchResult, 8),
		facets:   map[api.FacetKind][]api.Facet{},
	}
	s.fetch = fetcher.New(store, client,
		fetcher.WithTimeout(timeout),
		fetcher.OnLoading(func(on bool) {
			if on {
				s.render.Loading()
			}
		}),
		fetcher.OnPage(func(p api.ListPage) {
			s.pager.SetPageInfo(p.CurrentPage, p.TotalPages)
			s.results <- fetchResult{page: &p}
		}),
		fetcher.OnError(func(err error) {
			s.results <- fetchResult{err: err}
		}),
	)
	store.Subscribe(func(ev options.Event) {
		if ev&options.EventFilters != 0 {
			s.facetsStale = true
		}
	})
	return s
}

var commandNames = []string{
	"help", "search", "scope", "sort", "filter", "filters", "clear",
	"next", "prev", "page", "show", "refresh", "layout", "authors",
	"genres", "add-author", "add-genre", "add", "import", "borrow",
	"return", "allow", "delete", "login", "logout", "exit", "quit",
}

// Run starts the shell: initial fetch, then the prompt loop until exit.
func (s *Shell) Run() error {
	s.line = liner.NewLiner()
	s.line.SetCtrlCAborts(true)
	s.line.SetCompleter(func(line string) (out []string) {
		for _, name := range commandNames {
			if strings.HasPrefix(name, strings.ToLower(line)) {
				out = append(out, name)
			}
		}
		return out
	})
	defer s.line.Close()

	unbind := s.fetch.Bind()
	defer unbind()

	s.fetch.Refresh()
	s.awaitList()

	for {
		input, err := s.line.Prompt("bookshelf> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		s.line.AppendHistory(input)

		args := strings.Fields(input)
		if args[0] == "exit" || args[0] == "quit" {
			return nil
		}
		s.dispatch(args)
	}
}

// awaitList blocks until the fetch settles, then renders the outcome. If
// several fetches were racing, only the final settled state arrives here.
func (s *Shell) awaitList() {
	var res fetchResult
	select {
	case res = <-s.results:
	case <-time.After(s.timeout + 2*time.Second):
		s.render.Error(errors.New("timed out waiting for the book list"))
		return
	}
	// Collapse anything that settled while we were waiting.
	for {
		select {
		case next := <-s.results:
			res = next
		default:
			if res.err != nil {
				s.render.Error(res.err)
				return
			}
			s.render.Page(*res.page, s.store.ViewMode())
			return
		}
	}
}

func (s *Shell) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *Shell) dispatch(args []string) {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "help":
		s.printHelp()
	case "search":
		s.controls.Search(strings.Join(rest, " "), s.store.Options().Scope)
		s.awaitList()
	case "scope":
		if len(rest) != 1 {
			s.render.Error(errors.New("usage: scope <all|title|author|borrower>"))
			return
		}
		scope, ok := query.ParseScope(rest[0])
		if !ok {
			s.render.Error(fmt.Errorf("unknown scope %q", rest[0]))
			return
		}
		s.controls.Search(s.store.Options().FreeText, scope)
		s.awaitList()
	case "sort":
		s.cmdSort(rest)
	case "filter":
		s.cmdFilter(rest)
	case "filters":
		s.cmdFilterPanel()
	case "clear":
		s.controls.Clear()
		s.awaitList()
	case "next":
		if !s.pager.Next() {
			s.render.Success("already on the last page")
			return
		}
		s.awaitList()
	case "prev":
		if !s.pager.Prev() {
			s.render.Success("already on the first page")
			return
		}
		s.awaitList()
	case "page":
		if len(rest) != 1 {
			s.render.Error(errors.New("usage: page <number>"))
			return
		}
		n, err := strconv.Atoi(rest[0])
		if err != nil {
			s.render.Error(errors.New("page number must be an integer"))
			return
		}
		s.pager.Goto(n)
		s.awaitList()
	case "show":
		s.cmdShow(rest)
	case "refresh":
		s.store.TriggerRefresh(options.RefreshBooks)
		s.awaitList()
	case "layout":
		mode, err := s.store.ToggleViewMode()
		if err != nil {
			s.render.Error(err)
		}
		s.render.Success("layout: %s", mode)
		if page, ok := s.fetch.Page(); ok {
			s.render.Page(page, mode)
		}
	case "authors":
		s.cmdFacets(api.FacetAuthor)
	case "genres":
		s.cmdFacets(api.FacetGenre)
	case "add-author":
		s.cmdAddFacet(api.FacetAuthor, rest)
	case "add-genre":
		s.cmdAddFacet(api.FacetGenre, rest)
	case "add":
		s.cmdAddBook()
	case "import":
		s.cmdImport(rest)
	case "borrow":
		s.cmdBorrow(rest)
	case "return":
		s.cmdUnborrow(rest)
	case "allow":
		s.cmdAllow(rest)
	case "delete":
		s.cmdDelete(rest)
	case "login":
		s.cmdLogin()
	case "logout":
		s.cmdLogout()
	default:
		s.render.Error(fmt.Errorf("unknown command %q, try help", cmd))
	}
}

func (s *Shell) cmdSort(rest []string) {
	if len(rest) < 1 {
		s.render.Error(errors.New("usage: sort <title|author|dateAdded|borrowerName|borrowDate|returnDate> [asc|desc]"))
		return
	}
	key, ok := query.ParseSortKey(rest[0])
	if !ok {
		s.render.Error(fmt.Errorf("unknown sort key %q", rest[0]))
		return
	}
	desc := false
	if len(rest) > 1 {
		switch strings.ToLower(rest[1]) {
		case "desc":
			desc = true
		case "asc":
		default:
			s.render.Error(fmt.Errorf("unknown sort direction %q", rest[1]))
			return
		}
	}
	s.controls.Sort(key, desc)
	s.awaitList()
}

func (s *Shell) cmdFilter(rest []string) {
	if len(rest) < 1 {
		s.render.Error(errors.New("usage: filter <authors|genres|borrowed|allowed> ..."))
		return
	}
	switch rest[0] {
	case "authors":
		s.controls.FilterAuthors(rest[1:])
	case "genres":
		s.controls.FilterGenres(rest[1:])
	case "borrowed":
		v, ok := ParseTriState(strings.Join(rest[1:], ""))
		if !ok {
			s.render.Error(errors.New("usage: filter borrowed <any|yes|no>"))
			return
		}
		s.controls.FilterBorrowed(v)
	case "allowed":
		v, ok := ParseTriState(strings.Join(rest[1:], ""))
		if !ok {
			s.render.Error(errors.New("usage: filter allowed <any|yes|no>"))
			return
		}
		s.controls.FilterBorrowAllowed(v)
	default:
		s.render.Error(fmt.Errorf("unknown filter %q", rest[0]))
		return
	}
	s.awaitList()
}

// cmdFilterPanel is the whole filter panel with an Apply at the end: all
// answers are committed as one update and one fetch.
func (s *Shell) cmdFilterPanel() {
	authors, err := s.promptIDs("author ids (space separated, empty for all): ")
	if err != nil {
		return
	}
	genres, err := s.promptIDs("genre ids (space separated, empty for all): ")
	if err != nil {
		return
	}
	borrowed, err := s.promptTriState("borrowed [any/yes/no]: ")
	if err != nil {
		return
	}
	allowed, err := s.promptTriState("borrowing allowed [any/yes/no]: ")
	if err != nil {
		return
	}
	s.controls.ApplyFilters(authors, genres, borrowed, allowed)
	s.awaitList()
}

func (s *Shell) cmdShow(rest []string) {
	id, err := s.argID(rest, "usage: show <id>")
	if err != nil {
		s.render.Error(err)
		return
	}
	ctx, cancel := s.ctx()
	defer cancel()
	book, err := s.client.GetBook(ctx, id)
	if err != nil {
		s.render.Error(err)
		return
	}
	s.render.Book(*book)
}

func (s *Shell) cmdFacets(kind api.FacetKind) {
	facets, err := s.loadFacets(kind)
	if err != nil {
		s.render.Error(err)
		return
	}
	s.render.Facets(kind, facets)
}

func (s *Shell) cmdAddFacet(kind api.FacetKind, rest []string) {
	name := strings.TrimSpace(strings.Join(rest, " "))
	if name == "" {
		s.render.Error(fmt.Errorf("usage: add-%s <name>", kind))
		return
	}
	ctx, cancel := s.ctx()
	defer cancel()
	facet, err := s.client.AddFacet(ctx, kind, name)
	if err != nil {
		s.render.Error(err)
		return
	}
	s.render.Success("%s %q (id %d)", kind, facet.Name, facet.ID)
	s.store.TriggerRefresh(options.RefreshFilters)
}

func (s *Shell) cmdAddBook() {
	title, err := s.prompt("title: ")
	if err != nil {
		return
	}

	authors, err := s.loadFacets(api.FacetAuthor)
	if err == nil {
		s.render.Facets(api.FacetAuthor, authors)
	}
	authorID, err := s.prompt("author id: ")
	if err != nil {
		return
	}

	genres, err := s.loadFacets(api.FacetGenre)
	if err == nil {
		s.render.Facets(api.FacetGenre, genres)
	}
	genreIDs, err := s.promptIDs("genre ids (space separated): ")
	if err != nil {
		return
	}
	allow, err := s.confirm("allow borrowing?")
	if err != nil {
		return
	}

	ids := make([]int, 0, len(genreIDs))
	for _, g := range genreIDs {
		n, err := strconv.Atoi(g)
		if err != nil {
			s.render.Error(fmt.Errorf("genre id %q is not a number", g))
			return
		}
		ids = append(ids, n)
	}

	if err := validate.NewBook(title, authorID, ids); err != nil {
		s.render.Error(err)
		return
	}

	ctx, cancel := s.ctx()
	defer cancel()
	err = s.client.AddBook(ctx, api.NewBook{
		Title:       title,
		AuthorID:    authorID,
		AllowBorrow: allow,
		GenreIDs:    ids,
	})
	if err != nil {
		s.render.Error(err)
		return
	}
	s.render.Success("book added")
	s.store.TriggerRefresh(options.RefreshBooks)
	s.awaitList()
}

func (s *Shell) cmdImport(rest []string) {
	if len(rest) != 1 {
		s.render.Error(errors.New("usage: import <books.csv>"))
		return
	}
	path := rest[0]

	f, err := os.Open(path)
	if err != nil {
		s.render.Error(err)
		return
	}
	rows, err := validate.ImportCSV(f)
	f.Close()
	if err != nil {
		s.render.Error(fmt.Errorf("%s: %w", path, err))
		return
	}

	f, err = os.Open(path)
	if err != nil {
		s.render.Error(err)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		s.render.Error(err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout*4)
	defer cancel()
	fmt.Printf("uploading %d book(s)\n", rows)
	if err := s.client.ImportBooks(ctx, info.Name(), newProgressReader(f, info.Size())); err != nil {
		fmt.Println()
		s.render.Error(err)
		return
	}
	fmt.Println()
	s.render.Success("imported %d book(s)", rows)
	s.store.TriggerRefresh(options.RefreshBooks)
	s.awaitList()
}

func (s *Shell) cmdBorrow(rest []string) {
	if len(rest) < 2 {
		s.render.Error(errors.New("usage: borrow <id> <borrower name>"))
		return
	}
	id, err := s.argID(rest[:1], "usage: borrow <id> <borrower name>")
	if err != nil {
		s.render.Error(err)
		return
	}
	name, err := validate.BorrowerName(strings.Join(rest[1:], " "))
	if err != nil {
		s.render.Error(err)
		return
	}
	ctx, cancel := s.ctx()
	defer cancel()
	if err := s.client.BorrowBook(ctx, id, name); err != nil {
		s.render.Error(err)
		return
	}
	s.render.Success("book %d lent to %s", id, name)
	s.store.TriggerRefresh(options.RefreshBooks)
	s.awaitList()
}

func (s *Shell) cmdUnborrow(rest []string) {
	id, err := s.argID(rest, "usage: return <id>")
	if err != nil {
		s.render.Error(err)
		return
	}
	ctx, cancel := s.ctx()
	defer cancel()
	if err := s.client.UnborrowBook(ctx, id); err != nil {
		s.render.Error(err)
		return
	}
	s.render.Success("book %d returned", id)
	s.store.TriggerRefresh(options.RefreshBooks)
	s.awaitList()
}

func (s *Shell) cmdAllow(rest []string) {
	if len(rest) != 2 || (rest[1] != "on" && rest[1] != "off") {
		s.render.Error(errors.New("usage: allow <id> <on|off>"))
		return
	}
	id, err := s.argID(rest[:1], "usage: allow <id> <on|off>")
	if err != nil {
		s.render.Error(err)
		return
	}
	allow := rest[1] == "on"
	ctx, cancel := s.ctx()
	defer cancel()
	if err := s.client.SetAllowBorrow(ctx, id, allow); err != nil {
		s.render.Error(err)
		return
	}
	s.render.Success("borrowing %s for book %d", map[bool]string{true: "enabled", false: "disabled"}[allow], id)
	s.store.TriggerRefresh(options.RefreshBooks)
	s.awaitList()
}

func (s *Shell) cmdDelete(rest []string) {
	id, err := s.argID(rest, "usage: delete <id>")
	if err != nil {
		s.render.Error(err)
		return
	}
	ok, err := s.confirm(fmt.Sprintf("book %d will be permanently deleted. Continue?", id))
	if err != nil || !ok {
		return
	}
	ctx, cancel := s.ctx()
	defer cancel()
	if err := s.client.DeleteBook(ctx, id); err != nil {
		s.render.Error(err)
		return
	}
	s.render.Success("book %d deleted", id)
	s.store.TriggerRefresh(options.RefreshBooks)
	s.awaitList()
}

func (s *Shell) cmdLogin() {
	username, err := s.prompt("username: ")
	if err != nil {
		return
	}
	password, err := readPassword("password: ")
	if err != nil {
		s.render.Error(err)
		return
	}
	ctx, cancel := s.ctx()
	defer cancel()
	if err := s.client.Login(ctx, username, password); err != nil {
		s.render.Error(err)
		return
	}
	if err := s.client.SaveCookies(); err != nil {
		s.render.Error(err)
	}
	s.render.Success("logged in as %s", username)
	s.store.TriggerRefresh(options.RefreshBooks)
	s.awaitList()
}

func (s *Shell) cmdLogout() {
	ctx, cancel := s.ctx()
	defer cancel()
	if err := s.client.Logout(ctx); err != nil {
		s.render.Error(err)
		return
	}
	s.render.Success("logged out")
}

// loadFacets serves from cache until a facet refresh tick marks it stale.
func (s *Shell) loadFacets(kind api.FacetKind) ([]api.Facet, error) {
	if s.facetsStale {
		s.facets = map[api.FacetKind][]api.Facet{}
		s.facetsStale = false
	}
	if cached, ok := s.facets[kind]; ok {
		return cached, nil
	}
	ctx, cancel := s.ctx()
	defer cancel()
	facets, err := s.client.GetFacets(ctx, kind)
	if err != nil {
		return nil, err
	}
	s.facets[kind] = facets
	return facets, nil
}

func (s *Shell) prompt(label string) (string, error) {
	v, err := s.line.Prompt(label)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

func (s *Shell) promptIDs(label string) ([]string, error) {
	v, err := s.prompt(label)
	if err != nil {
		return nil, err
	}
	return strings.Fields(v), nil
}

func (s *Shell) promptTriState(label string) (*bool, error) {
	for {
		v, err := s.prompt(label)
		if err != nil {
			return nil, err
		}
		if parsed, ok := ParseTriState(v); ok {
			return parsed, nil
		}
		fmt.Println("answer any, yes or no")
	}
}

func (s *Shell) confirm(question string) (bool, error) {
	v, err := s.prompt(question + " [y/N] ")
	if err != nil {
		return false, err
	}
	v = strings.ToLower(v)
	return v == "y" || v == "yes", nil
}

func (s *Shell) argID(rest []string, usage string) (int, error) {
	if len(rest) != 1 {
		return 0, errors.New(usage)
	}
	id, err := strconv.Atoi(rest[0])
	if err != nil || id < 1 {
		return 0, errors.New("id must be a positive integer")
	}
	return id, nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (s *Shell) printHelp() {
	fmt.Print(`browse commands:
  search <text>          search within the current scope
  scope <s>              all | title | author | borrower
  sort <key> [asc|desc]  title | author | dateAdded | borrowerName | borrowDate | returnDate
  filter authors <ids>   replace the author filter (empty = all)
  filter genres <ids>    replace the genre filter
  filter borrowed <v>    any | yes | no
  filter allowed <v>     any | yes | no
  filters                fill the whole filter panel, then apply once
  clear                  drop search + filters, back to page 1
  next / prev / page <n> move through result pages
  layout                 toggle grid/list rendering
  refresh                re-run the current query

  show <id>              book details
  add                    add a book (interactive)
  import <file.csv>      bulk add books from CSV
  borrow <id> <name>     lend a book out
  return <id>            take a book back
  allow <id> <on|off>    enable/disable borrowing
  delete <id>            delete a book (asks first)

  authors / genres       facet lists for filtering
  add-author <name>      create an author
  add-genre <name>       create a genre

  login / logout         backend session
  exit                   leave
`)
}
