package ctrlcatalog

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ensemblefm/ensemble/catalog"
	"github.com/ensemblefm/ensemble/db"
	"github.com/ensemblefm/ensemble/reconcile"
	"github.com/ensemblefm/ensemble/server/ctrlcatalog/params"
)

type songView struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Album      string   `json:"album,omitempty"`
	Genre      string   `json:"genre,omitempty"`
	Performers []string `json:"performers,omitempty"`
	Version    int      `json:"version"`
}

func newSongView(s *db.Song) songView {
	view := songView{
		ID:      s.ID,
		Title:   s.Title,
		Genre:   s.Genre.Name,
		Version: s.Version,
	}
	if s.AlbumID != nil {
		view.Album = s.Album.FullSummary()
	}
	// song genre falls back to the album's when not set directly
	if view.Genre == "" && s.AlbumID != nil {
		view.Genre = s.Album.Genre.Name
	}
	for _, p := range s.Performances {
		view.Performers = append(view.Performers, p.Musician.FormalName())
	}
	return view
}

type songFormData struct {
	Song        songView                 `json:"song"`
	Error       string                   `json:"error,omitempty"`
	FieldErrors map[string]string        `json:"fieldErrors,omitempty"`
	Options     *catalog.SongFormOptions `json:"options,omitempty"`
}

func (c *Controller) ServeSongs(r *http.Request) *Response {
	songs, err := c.catalog.ListSongs()
	if err != nil {
		return &Response{code: 500, err: "listing songs"}
	}
	views := make([]songView, 0, len(songs))
	for _, s := range songs {
		views = append(views, newSongView(s))
	}
	return &Response{data: views}
}

func (c *Controller) ServeSong(r *http.Request) *Response {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return &Response{code: 400, err: "please provide a valid id"}
	}
	song, err := c.catalog.GetSong(id)
	if err != nil {
		return c.respondError(err)
	}
	return &Response{data: newSongView(song)}
}

func (c *Controller) ServeSongCreateDo(r *http.Request) *Response {
	in := songInputFromParams(params.New(r))
	song, err := c.catalog.CreateSong(in)
	if err != nil {
		return c.redisplaySong(in, err)
	}
	return &Response{
		redirect: "/songs",
		flashN:   []string{"song " + song.Title + " created"},
	}
}

func (c *Controller) ServeSongUpdateDo(r *http.Request) *Response {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return &Response{code: 400, err: "please provide a valid id"}
	}
	in := songInputFromParams(params.New(r))
	song, err := c.catalog.UpdateSong(id, in)
	if err != nil {
		return c.redisplaySong(in, err)
	}
	return &Response{
		redirect: "/songs",
		flashN:   []string{"song " + song.Title + " updated"},
	}
}

func (c *Controller) ServeSongDeleteDo(r *http.Request) *Response {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return &Response{code: 400, err: "please provide a valid id"}
	}
	if err := c.catalog.DeleteSong(id); err != nil {
		return c.respondError(err)
	}
	return &Response{
		redirect: "/songs",
		flashN:   []string{"song deleted"},
	}
}

func (c *Controller) redisplaySong(in catalog.SongInput, err error) *Response {
	switch catalog.KindOf(err) {
	case catalog.KindNotFound:
		return &Response{code: 404, err: "not found"}
	case catalog.KindConcurrency:
		return &Response{code: 500, err: catalog.MessageOf(err)}
	}
	options, oerr := c.catalog.SongOptions(
		in.AlbumID,
		in.GenreID,
		reconcile.ParseKeys(in.SelectedPerformers),
	)
	if oerr != nil {
		return &Response{code: 500, err: "loading form options"}
	}
	return &Response{data: songFormData{
		Song:        songView{Title: in.Title},
		Error:       catalog.MessageOf(err),
		FieldErrors: catalog.FieldsOf(err),
		Options:     options,
	}}
}

// songFilterOptions builds the musician list's song filter dropdown,
// ordered by title
func (c *Controller) songFilterOptions(selected *int) ([]catalog.Option, error) {
	songs, err := c.catalog.ListSongs()
	if err != nil {
		return nil, err
	}
	sort.Slice(songs, func(i, j int) bool {
		return songs[i].Title < songs[j].Title
	})
	options := make([]catalog.Option, 0, len(songs))
	for _, s := range songs {
		options = append(options, catalog.Option{
			ID:       s.ID,
			Label:    s.Title,
			Selected: selected != nil && *selected == s.ID,
		})
	}
	return options, nil
}

func songInputFromParams(p params.Params) catalog.SongInput {
	return catalog.SongInput{
		Title:              p.GetOr("title", ""),
		AlbumID:            p.GetIntPtr("albumId"),
		GenreID:            p.GetIntPtr("genreId"),
		SelectedPerformers: p.GetOrList("selectedPerformers", nil),
	}
}
