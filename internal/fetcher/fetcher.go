// Package fetcher keeps the displayed book list in sync with the options
// store. It reacts to option changes and books-refresh ticks, issues the
// list request for a snapshot of the options, and guarantees the newest
// snapshot is what ends up displayed even when responses come back out of
// order.
package fetcher

import (
	"context"
	"sync"
	"time"

	"github.com/an4s911/library-fullstack/internal/api"
	"github.com/an4s911/library-fullstack/internal/options"
	"github.com/an4s911/library-fullstack/internal/query"
)

// BooksAPI is the one backend call the fetcher needs.
type BooksAPI interface {
	GetBooks(ctx context.Context, opts query.Options) (*api.ListPage, error)
}

// Fetcher bridges the options store to the list endpoint.
type Fetcher struct {
	store   *options.Store
	backend BooksAPI
	timeout time.Duration

	mu       sync.Mutex
	gen      uint64 // generation of the newest issued request
	loading  bool
	page     api.ListPage
	havePage bool

	onPage    func(api.ListPage)
	onError   func(error)
	onLoading func(bool)
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// OnPage is called with every freshly applied page.
func OnPage(fn func(api.ListPage)) Option {
	return func(f *Fetcher) { f.onPage = fn }
}

// OnError is called when a fetch fails; the previous page stays displayed.
func OnError(fn func(error)) Option {
	return func(f *Fetcher) { f.onError = fn }
}

// OnLoading observes loading-state transitions. It fires once per visible
// transition: back-to-back refreshes do not flicker it.
func OnLoading(fn func(bool)) Option {
	return func(f *Fetcher) { f.onLoading = fn }
}

// WithTimeout bounds each list request.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// New wires a fetcher to the store and backend. Call Bind to start
// reacting to store changes, Refresh for the initial load.
func New(store *options.Store, backend BooksAPI, opts ...Option) *Fetcher {
	f := &Fetcher{store: store, backend: backend, timeout: 15 * time.Second}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Bind subscribes to the store; option changes and books ticks each cause
// one fetch. Returns the unsubscribe function.
func (f *Fetcher) Bind() (cancel func()) {
	return f.store.Subscribe(func(ev options.Event) {
		if ev&(options.EventOptions|options.EventBooks) != 0 {
			f.Refresh()
		}
	})
}

// Refresh snapshots the current options and issues a request for them.
// If an older request is still in flight its response will be discarded:
// only the newest snapshot may populate the list.
func (f *Fetcher) Refresh() {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	snapshot := f.store.Options()
	wasLoading := f.loading
	f.loading = true
	f.mu.Unlock()

	if !wasLoading && f.onLoading != nil {
		f.onLoading(true)
	}

	go f.fetch(gen, snapshot)
}

func (f *Fetcher) fetch(gen uint64, snapshot query.Options) {
	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()

	page, err := f.backend.GetBooks(ctx, snapshot)

	f.mu.Lock()
	if gen != f.gen {
		// Stale response: a newer request owns the loading state now.
		f.mu.Unlock()
		return
	}
	f.loading = false
	if err == nil {
		f.page = *page
		f.havePage = true
	}
	f.mu.Unlock()

	if err != nil {
		// Keep the last-known-good page; just report.
		if f.onError != nil {
			f.onError(err)
		}
	} else if f.onPage != nil {
		f.onPage(*page)
	}
	if f.onLoading != nil {
		f.onLoading(false)
	}
}

// Page returns the last successfully fetched page. ok is false before the
// first success.
func (f *Fetcher) Page() (page api.ListPage, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page, f.havePage
}

// IsLoading reports whether a request is outstanding.
func (f *Fetcher) IsLoading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}
