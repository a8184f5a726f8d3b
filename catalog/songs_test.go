package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensemblefm/ensemble/catalog"
	"github.com/ensemblefm/ensemble/db"
)

func seedPerformers(t *testing.T, svc *catalog.Service) (int, int) {
	t.Helper()
	first, err := svc.CreateMusician(catalog.MusicianInput{
		FirstName: "Alice", LastName: "Smith", Phone: "5550000001",
		DOB: date(1990, 4, 2), SIN: "111111111",
	})
	require.NoError(t, err)
	second, err := svc.CreateMusician(catalog.MusicianInput{
		FirstName: "Bob", LastName: "Jones", Phone: "5550000002",
		DOB: date(1985, 7, 19), SIN: "222222222",
	})
	require.NoError(t, err)
	return first.ID, second.ID
}

func performerIDs(t *testing.T, dbc *db.DB, songID int) []int {
	t.Helper()
	var performances []*db.Performance
	require.NoError(t, dbc.Where("song_id=?", songID).Order("musician_id").Find(&performances).Error)
	ids := make([]int, 0, len(performances))
	for _, p := range performances {
		ids = append(ids, *p.MusicianID)
	}
	return ids
}

func TestCreateSong(t *testing.T) {
	svc, dbc := testService(t)
	m1, m2 := seedPerformers(t, svc)

	albumID, genreID := 1, 1
	song, err := svc.CreateSong(catalog.SongInput{
		Title:              "Yesterday",
		AlbumID:            &albumID,
		GenreID:            &genreID,
		SelectedPerformers: []string{"1", "2"},
	})
	require.NoError(t, err)
	require.NotZero(t, song.ID)
	assert.Equal(t, []int{m1, m2}, performerIDs(t, dbc, song.ID))

	loaded, err := svc.GetSong(song.ID)
	require.NoError(t, err)
	assert.Equal(t, "Yesterday", loaded.Title)
	assert.Equal(t, "First Takes", loaded.Album.Name)
	assert.Equal(t, "Rock", loaded.Genre.Name)
	assert.Len(t, loaded.Performances, 2)
}

func TestCreateSongValidation(t *testing.T) {
	svc, dbc := testService(t)

	_, err := svc.CreateSong(catalog.SongInput{})
	require.Error(t, err)
	assert.Equal(t, catalog.KindValidation, catalog.KindOf(err))
	assert.Contains(t, catalog.FieldsOf(err), "Title")

	var count int
	require.NoError(t, dbc.Model(&db.Song{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateSongReconcilesPerformers(t *testing.T) {
	svc, dbc := testService(t)
	m1, m2 := seedPerformers(t, svc)

	song, err := svc.CreateSong(catalog.SongInput{
		Title:              "Yesterday",
		SelectedPerformers: []string{"1"},
	})
	require.NoError(t, err)
	require.Equal(t, []int{m1}, performerIDs(t, dbc, song.ID))

	updated, err := svc.UpdateSong(song.ID, catalog.SongInput{
		Title:              "Yesterday (Remastered)",
		SelectedPerformers: []string{"2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Yesterday (Remastered)", updated.Title)
	assert.Equal(t, []int{m2}, performerIDs(t, dbc, song.ID))
	assert.Equal(t, 1, updated.Version)
}

func TestUpdateSongOmittedSelectionClearsAll(t *testing.T) {
	svc, dbc := testService(t)
	seedPerformers(t, svc)

	// song performed by both musicians, then a submission with no
	// selections at all
	song, err := svc.CreateSong(catalog.SongInput{
		Title:              "Yesterday",
		SelectedPerformers: []string{"1", "2"},
	})
	require.NoError(t, err)

	_, err = svc.UpdateSong(song.ID, catalog.SongInput{Title: "Yesterday"})
	require.NoError(t, err)
	assert.Empty(t, performerIDs(t, dbc, song.ID))
}

func TestUpdateSongNotFound(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.UpdateSong(42, catalog.SongInput{Title: "Nope"})
	require.Error(t, err)
	assert.Equal(t, catalog.KindNotFound, catalog.KindOf(err))
}

func TestDeleteSong(t *testing.T) {
	svc, dbc := testService(t)
	seedPerformers(t, svc)

	song, err := svc.CreateSong(catalog.SongInput{
		Title:              "Yesterday",
		SelectedPerformers: []string{"1", "2"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSong(song.ID))

	_, err = svc.GetSong(song.ID)
	assert.Equal(t, catalog.KindNotFound, catalog.KindOf(err))
	assert.Empty(t, performerIDs(t, dbc, song.ID))

	// the performers themselves are untouched
	var count int
	require.NoError(t, dbc.Model(&db.Musician{}).Count(&count).Error)
	assert.Equal(t, 2, count)
}

func TestSongOptions(t *testing.T) {
	svc, _ := testService(t)
	m1, _ := seedPerformers(t, svc)

	albumID := 1
	options, err := svc.SongOptions(&albumID, nil, map[int]struct{}{m1: {}})
	require.NoError(t, err)

	require.Len(t, options.Albums, 1)
	assert.Equal(t, "First Takes (1998) - Rock", options.Albums[0].Label)
	assert.True(t, options.Albums[0].Selected)

	require.Len(t, options.Genres, 1)
	assert.Equal(t, "Rock", options.Genres[0].Label)

	require.Len(t, options.SelectedPerformers, 1)
	assert.Equal(t, "Smith, Alice", options.SelectedPerformers[0].Label)
	require.Len(t, options.AvailablePerformers, 1)
	assert.Equal(t, "Jones, Bob", options.AvailablePerformers[0].Label)
}
