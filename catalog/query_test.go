package catalog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensemblefm/ensemble/catalog"
	"github.com/ensemblefm/ensemble/db"
)

func intp(i int) *int { return &i }

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func fixtureMusicians() []*db.Musician {
	guitar, piano := 1, 2
	return []*db.Musician{
		{
			ID: 1, FirstName: "Alice", LastName: "Smith", Phone: "5550000001",
			DOB: date(1990, 4, 2), InstrumentID: &guitar,
			Instrument: db.Instrument{ID: guitar, Name: "Guitar"},
			Performances: []db.Performance{
				{MusicianID: intp(1), SongID: intp(10)},
			},
		},
		{
			ID: 2, FirstName: "Bob", LastName: "Jones", Phone: "5550000003",
			DOB: date(1985, 7, 19), InstrumentID: &piano,
			Instrument: db.Instrument{ID: piano, Name: "Piano"},
		},
		{
			ID: 3, FirstName: "Carla", LastName: "Smith", Phone: "5550000002",
			DOB: date(2000, 1, 30),
			Performances: []db.Performance{
				{MusicianID: intp(3), SongID: intp(10)},
				{MusicianID: intp(3), SongID: intp(11)},
			},
		},
	}
}

func names(musicians []*db.Musician) []string {
	out := make([]string, 0, len(musicians))
	for _, m := range musicians {
		out = append(out, m.FirstName)
	}
	return out
}

func TestComposeNoFilters(t *testing.T) {
	t.Parallel()

	musicians := fixtureMusicians()
	got, filtered := catalog.ComposeMusicians(musicians, catalog.MusicianFilters{}, catalog.SortState{})

	assert.False(t, filtered)
	assert.Len(t, got, len(musicians))
	// default sort: last name then first name, ascending together
	assert.Equal(t, []string{"Bob", "Alice", "Carla"}, names(got))
}

func TestComposeFilterSubsetLaw(t *testing.T) {
	t.Parallel()

	musicians := fixtureMusicians()
	filters := catalog.MusicianFilters{Search: "smith"}
	got, filtered := catalog.ComposeMusicians(musicians, filters, catalog.SortState{})

	assert.True(t, filtered)
	require.Len(t, got, 2)
	for _, m := range got {
		assert.Equal(t, "Smith", m.LastName)
	}
}

func TestComposeFilterByInstrument(t *testing.T) {
	t.Parallel()

	got, filtered := catalog.ComposeMusicians(
		fixtureMusicians(),
		catalog.MusicianFilters{InstrumentID: intp(2)},
		catalog.SortState{},
	)
	assert.True(t, filtered)
	require.Len(t, got, 1)
	assert.Equal(t, "Bob", got[0].FirstName)
}

func TestComposeFilterBySong(t *testing.T) {
	t.Parallel()

	got, _ := catalog.ComposeMusicians(
		fixtureMusicians(),
		catalog.MusicianFilters{SongID: intp(11)},
		catalog.SortState{},
	)
	require.Len(t, got, 1)
	assert.Equal(t, "Carla", got[0].FirstName)
}

func TestComposeFiltersConjunctive(t *testing.T) {
	t.Parallel()

	got, _ := catalog.ComposeMusicians(
		fixtureMusicians(),
		catalog.MusicianFilters{SongID: intp(10), Search: "ali"},
		catalog.SortState{},
	)
	require.Len(t, got, 1)
	assert.Equal(t, "Alice", got[0].FirstName)
}

func TestComposeSortComparators(t *testing.T) {
	t.Parallel()

	musicians := fixtureMusicians()

	got, _ := catalog.ComposeMusicians(musicians, catalog.MusicianFilters{},
		catalog.SortState{Field: catalog.SortByPhone})
	assert.Equal(t, []string{"Alice", "Carla", "Bob"}, names(got))

	got, _ = catalog.ComposeMusicians(musicians, catalog.MusicianFilters{},
		catalog.SortState{Field: catalog.SortByAge})
	assert.Equal(t, []string{"Bob", "Alice", "Carla"}, names(got))

	got, _ = catalog.ComposeMusicians(musicians, catalog.MusicianFilters{},
		catalog.SortState{Field: catalog.SortByAge, Direction: catalog.Descending})
	assert.Equal(t, []string{"Carla", "Alice", "Bob"}, names(got))

	// no primary instrument sorts as the empty name, first
	got, _ = catalog.ComposeMusicians(musicians, catalog.MusicianFilters{},
		catalog.SortState{Field: catalog.SortByPrimaryInstrument})
	assert.Equal(t, []string{"Carla", "Alice", "Bob"}, names(got))
}

func TestComposeDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	musicians := fixtureMusicians()
	_, _ = catalog.ComposeMusicians(musicians, catalog.MusicianFilters{},
		catalog.SortState{Field: catalog.SortByPhone, Direction: catalog.Descending})
	assert.Equal(t, []string{"Alice", "Bob", "Carla"}, names(musicians))
}

func TestSortToggle(t *testing.T) {
	t.Parallel()

	start := catalog.SortState{Field: catalog.SortByName, Direction: catalog.Ascending}

	// clicking the active column flips direction, twice restores it
	once := start.Resolve("Name")
	assert.Equal(t, catalog.SortState{Field: catalog.SortByName, Direction: catalog.Descending}, once)
	assert.Equal(t, start, once.Resolve("Name"))

	// the filter button never touches sort state
	state := catalog.SortState{Field: catalog.SortByAge, Direction: catalog.Descending}
	assert.Equal(t, state, state.Resolve(catalog.ActionFilter))

	// no button at all keeps the round-tripped state
	assert.Equal(t, state, state.Resolve(""))

	// a different column is adopted ascending, whatever came before
	assert.Equal(t,
		catalog.SortState{Field: catalog.SortByPhone, Direction: catalog.Ascending},
		state.Resolve("Phone"))
}

func TestSortTokensRoundTrip(t *testing.T) {
	t.Parallel()

	for _, field := range []catalog.SortField{
		catalog.SortByName,
		catalog.SortByPhone,
		catalog.SortByAge,
		catalog.SortByPrimaryInstrument,
	} {
		assert.Equal(t, field, catalog.ParseSortField(field.String()))
	}
	assert.Equal(t, catalog.SortByName, catalog.ParseSortField("Musician"))

	assert.Equal(t, catalog.Descending, catalog.ParseSortDirection("desc"))
	assert.Equal(t, catalog.Ascending, catalog.ParseSortDirection(""))
	assert.Equal(t, catalog.Ascending, catalog.ParseSortDirection("asc"))
	assert.Equal(t, "desc", catalog.Descending.String())
	assert.Equal(t, "asc", catalog.Ascending.String())
}
