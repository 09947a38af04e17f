package options

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/an4s911/library-fullstack/internal/query"
)

func newTestStore() *Store {
	return New(query.Default(8))
}

func TestUpdate_ResetsPageOnFilterChange(t *testing.T) {
	s := newTestStore()
	s.Update(WithPage(5))
	require.Equal(t, 5, s.Options().PageNum)

	s.Update(WithGenres("3", "7"))

	got := s.Options()
	assert.Equal(t, 1, got.PageNum, "changing a filter must land on page 1")
	assert.Equal(t, []string{"3", "7"}, got.GenreIDs)
}

func TestUpdate_SortChangeResetsPage(t *testing.T) {
	s := newTestStore()
	s.Update(WithPage(5))

	s.Update(WithSort(query.SortAuthor, true))

	got := s.Options()
	assert.Equal(t, 1, got.PageNum)
	assert.Equal(t, query.SortAuthor, got.SortBy)
	assert.True(t, got.SortDesc)
}

func TestUpdate_ExplicitPageSuppressesReset(t *testing.T) {
	s := newTestStore()

	s.Update(WithSort(query.SortAuthor, true), WithPage(4))

	got := s.Options()
	assert.Equal(t, 4, got.PageNum)
	assert.Equal(t, query.SortAuthor, got.SortBy)
	assert.True(t, got.SortDesc)
}

func TestUpdate_PageOnlyKeepsFilters(t *testing.T) {
	s := newTestStore()
	s.Update(WithFreeText("dune"))

	s.Update(WithPage(2))

	got := s.Options()
	assert.Equal(t, "dune", got.FreeText)
	assert.Equal(t, 2, got.PageNum)
}

func TestUpdate_OneNotificationPerTransaction(t *testing.T) {
	s := newTestStore()
	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })

	s.Update(WithFreeText("dune"), WithScope(query.ScopeTitle), WithAuthors("4"))

	require.Len(t, events, 1, "a multi-field update is one transaction")
	assert.Equal(t, EventOptions, events[0])
}

func TestUpdateAndRefresh_CombinesEvents(t *testing.T) {
	s := newTestStore()
	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })

	before := s.BooksTick()
	s.UpdateAndRefresh(RefreshBooks, WithFreeText("x"))

	require.Len(t, events, 1)
	assert.Equal(t, EventOptions|EventBooks, events[0])
	assert.Equal(t, before+1, s.BooksTick())
}

func TestTriggerRefresh_Scopes(t *testing.T) {
	s := newTestStore()
	var last Event
	s.Subscribe(func(ev Event) { last = ev })

	s.TriggerRefresh(RefreshFilters)
	assert.Equal(t, EventFilters, last)
	assert.Equal(t, uint64(1), s.FiltersTick())
	assert.Equal(t, uint64(0), s.BooksTick())

	s.TriggerRefresh(RefreshAll)
	assert.Equal(t, EventBooks|EventFilters, last)
	assert.Equal(t, uint64(1), s.BooksTick())
	assert.Equal(t, uint64(2), s.FiltersTick())
}

func TestUpdate_NoFieldsNoNotification(t *testing.T) {
	s := newTestStore()
	calls := 0
	s.Subscribe(func(Event) { calls++ })

	s.Update()

	assert.Zero(t, calls)
}

func TestClear_KeepsSortResetsRest(t *testing.T) {
	s := newTestStore()
	b := true
	s.Update(
		WithFreeText("dune"),
		WithScope(query.ScopeAuthor),
		WithAuthors("4"),
		WithGenres("3"),
		WithBorrowed(&b),
		WithSort(query.SortDateAdded, true),
	)
	s.Update(WithPage(3))

	var last Event
	calls := 0
	s.Subscribe(func(ev Event) { last = ev; calls++ })
	s.Clear()

	got := s.Options()
	assert.Empty(t, got.FreeText)
	assert.Empty(t, got.Scope)
	assert.Empty(t, got.AuthorIDs)
	assert.Empty(t, got.GenreIDs)
	assert.Nil(t, got.Borrowed)
	assert.Nil(t, got.BorrowAllowed)
	assert.Equal(t, 1, got.PageNum)
	assert.Equal(t, query.SortDateAdded, got.SortBy, "clear must not drop the sort order")
	assert.True(t, got.SortDesc)

	assert.Equal(t, 1, calls)
	assert.Equal(t, EventOptions|EventBooks, last)
}

func TestSubscribe_CancelStopsDelivery(t *testing.T) {
	s := newTestStore()
	calls := 0
	cancel := s.Subscribe(func(Event) { calls++ })

	s.Update(WithFreeText("a"))
	cancel()
	s.Update(WithFreeText("b"))

	assert.Equal(t, 1, calls)
}

func TestOptions_ReturnsACopy(t *testing.T) {
	s := newTestStore()
	s.Update(WithGenres("3"))

	got := s.Options()
	got.GenreIDs[0] = "tampered"

	assert.Equal(t, []string{"3"}, s.Options().GenreIDs)
}

func TestViewMode_PersistsAcrossStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	s := New(query.Default(8), WithPrefsFile(path))
	require.Equal(t, ViewGrid, s.ViewMode())

	mode, err := s.ToggleViewMode()
	require.NoError(t, err)
	assert.Equal(t, ViewList, mode)

	again := New(query.Default(8), WithPrefsFile(path))
	assert.Equal(t, ViewList, again.ViewMode())
}

func TestViewMode_MissingPrefsFileFallsBack(t *testing.T) {
	s := New(query.Default(8), WithPrefsFile(filepath.Join(t.TempDir(), "absent.json")))
	assert.Equal(t, ViewGrid, s.ViewMode())
}
