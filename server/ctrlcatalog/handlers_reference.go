package ctrlcatalog

import (
	"net/http"

	"github.com/ensemblefm/ensemble/db"
	"github.com/ensemblefm/ensemble/reconcile"
	"github.com/ensemblefm/ensemble/server/ctrlcatalog/params"
)

type instrumentView struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type genreView struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type albumView struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Year    int    `json:"year"`
	Genre   string `json:"genre,omitempty"`
	Summary string `json:"summary"`
}

func (c *Controller) ServeInstruments(r *http.Request) *Response {
	var instruments []*db.Instrument
	if err := c.DB.Order("name").Find(&instruments).Error; err != nil {
		return &Response{code: 500, err: "listing instruments"}
	}
	views := make([]instrumentView, 0, len(instruments))
	for _, i := range instruments {
		views = append(views, instrumentView{ID: i.ID, Name: i.Name})
	}
	return &Response{data: views}
}

func (c *Controller) ServeGenres(r *http.Request) *Response {
	var genres []*db.Genre
	if err := c.DB.Order("name").Find(&genres).Error; err != nil {
		return &Response{code: 500, err: "listing genres"}
	}
	views := make([]genreView, 0, len(genres))
	for _, g := range genres {
		views = append(views, genreView{ID: g.ID, Name: g.Name})
	}
	return &Response{data: views}
}

func (c *Controller) ServeAlbums(r *http.Request) *Response {
	var albums []*db.Album
	err := c.DB.
		Preload("Genre").
		Order("name, year_produced").
		Find(&albums).
		Error
	if err != nil {
		return &Response{code: 500, err: "listing albums"}
	}
	views := make([]albumView, 0, len(albums))
	for _, a := range albums {
		views = append(views, albumView{
			ID:      a.ID,
			Name:    a.Name,
			Year:    a.YearProduced,
			Genre:   a.Genre.Name,
			Summary: a.FullSummary(),
		})
	}
	return &Response{data: views}
}

// ServeMusicianFormOptions serves a blank or pre-selected musician form's
// reference data. selections round-trip through the same parameter names
// the save endpoints read
func (c *Controller) ServeMusicianFormOptions(r *http.Request) *Response {
	p := params.New(r)
	playing := reconcile.ParseKeys(p.GetOrList("selectedInstruments", nil))
	dropdown, assignments, err := c.catalog.MusicianOptions(p.GetIntPtr("instrumentId"), playing)
	if err != nil {
		return &Response{code: 500, err: "loading form options"}
	}
	return &Response{data: musicianFormData{
		InstrumentOptions: dropdown,
		Instruments:       assignments,
	}}
}

func (c *Controller) ServeSongFormOptions(r *http.Request) *Response {
	p := params.New(r)
	performing := reconcile.ParseKeys(p.GetOrList("selectedPerformers", nil))
	options, err := c.catalog.SongOptions(p.GetIntPtr("albumId"), p.GetIntPtr("genreId"), performing)
	if err != nil {
		return &Response{code: 500, err: "loading form options"}
	}
	return &Response{data: songFormData{Options: options}}
}
