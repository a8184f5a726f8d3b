package ctrlcatalog

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ensemblefm/ensemble/catalog"
	"github.com/ensemblefm/ensemble/db"
	"github.com/ensemblefm/ensemble/reconcile"
	"github.com/ensemblefm/ensemble/server/ctrlcatalog/params"
)

const dateFormat = "2006-01-02"

type musicianView struct {
	ID                int      `json:"id"`
	FirstName         string   `json:"firstName"`
	MiddleName        string   `json:"middleName,omitempty"`
	LastName          string   `json:"lastName"`
	FormalName        string   `json:"formalName"`
	Phone             string   `json:"phone"`
	DOB               string   `json:"dob"`
	SIN               string   `json:"sin"`
	PrimaryInstrument string   `json:"primaryInstrument,omitempty"`
	Plays             []string `json:"plays,omitempty"`
	Performances      []string `json:"performances,omitempty"`
	Version           int      `json:"version"`
}

func newMusicianView(m *db.Musician) musicianView {
	view := musicianView{
		ID:                m.ID,
		FirstName:         m.FirstName,
		MiddleName:        m.MiddleName,
		LastName:          m.LastName,
		FormalName:        m.FormalName(),
		Phone:             m.Phone,
		DOB:               m.DOB.Format(dateFormat),
		SIN:               m.SIN,
		PrimaryInstrument: m.Instrument.Name,
		Version:           m.Version,
	}
	for _, p := range m.Plays {
		view.Plays = append(view.Plays, p.Instrument.Name)
	}
	for _, p := range m.Performances {
		view.Performances = append(view.Performances, p.Song.Title)
	}
	return view
}

type musicianListData struct {
	Musicians     []musicianView   `json:"musicians"`
	SortField     string           `json:"sortField"`
	SortDirection string           `json:"sortDirection"`
	Filtered      bool             `json:"filtered"`
	Instruments   []catalog.Option `json:"instruments"`
	Songs         []catalog.Option `json:"songs"`
}

type musicianFormData struct {
	Musician          musicianView      `json:"musician"`
	Error             string            `json:"error,omitempty"`
	FieldErrors       map[string]string `json:"fieldErrors,omitempty"`
	InstrumentOptions []catalog.Option  `json:"instrumentOptions"`
	Instruments       []catalog.Option  `json:"instruments"`
}

// ServeMusicians serves the musician list. the sort state round-trips via
// sortField/sortDirection, actionButton carries the clicked column or the
// literal "Filter", and the three filters are conjunctive and optional
func (c *Controller) ServeMusicians(r *http.Request) *Response {
	p := params.New(r)
	state := catalog.SortState{
		Field:     catalog.ParseSortField(p.GetOr("sortField", "Name")),
		Direction: catalog.ParseSortDirection(p.GetOr("sortDirection", "")),
	}
	state = state.Resolve(p.GetOr("actionButton", ""))
	filters := catalog.MusicianFilters{
		InstrumentID: p.GetIntPtr("instrumentId"),
		SongID:       p.GetIntPtr("songId"),
		Search:       p.GetOr("searchString", ""),
	}

	musicians, filtered, err := c.catalog.ListMusicians(filters, state)
	if err != nil {
		return &Response{code: 500, err: "listing musicians"}
	}

	dropdown, _, err := c.catalog.MusicianOptions(filters.InstrumentID, nil)
	if err != nil {
		return &Response{code: 500, err: "loading filter options"}
	}
	songs, err := c.songFilterOptions(filters.SongID)
	if err != nil {
		return &Response{code: 500, err: "loading filter options"}
	}

	data := musicianListData{
		Musicians:     make([]musicianView, 0, len(musicians)),
		SortField:     state.Field.String(),
		SortDirection: state.Direction.String(),
		Filtered:      filtered,
		Instruments:   dropdown,
		Songs:         songs,
	}
	for _, m := range musicians {
		data.Musicians = append(data.Musicians, newMusicianView(m))
	}
	return &Response{data: data}
}

func (c *Controller) ServeMusician(r *http.Request) *Response {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return &Response{code: 400, err: "please provide a valid id"}
	}
	musician, err := c.catalog.GetMusician(id)
	if err != nil {
		return c.respondError(err)
	}
	return &Response{data: newMusicianView(musician)}
}

func (c *Controller) ServeMusicianCreateDo(r *http.Request) *Response {
	in := musicianInputFromParams(params.New(r))
	musician, err := c.catalog.CreateMusician(in)
	if err != nil {
		return c.redisplayMusician(in, err)
	}
	return &Response{
		redirect: "/musicians",
		flashN:   []string{"musician " + musician.FormalName() + " created"},
	}
}

func (c *Controller) ServeMusicianUpdateDo(r *http.Request) *Response {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return &Response{code: 400, err: "please provide a valid id"}
	}
	in := musicianInputFromParams(params.New(r))
	musician, err := c.catalog.UpdateMusician(id, in)
	if err != nil {
		return c.redisplayMusician(in, err)
	}
	return &Response{
		redirect: "/musicians",
		flashN:   []string{"musician " + musician.FormalName() + " updated"},
	}
}

func (c *Controller) ServeMusicianDeleteDo(r *http.Request) *Response {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return &Response{code: 400, err: "please provide a valid id"}
	}
	if err := c.catalog.DeleteMusician(id); err != nil {
		if kind := catalog.KindOf(err); kind == catalog.KindInUse {
			// redisplay the delete confirmation with the blocking reason
			musician, gerr := c.catalog.GetMusician(id)
			if gerr != nil {
				return c.respondError(gerr)
			}
			return &Response{data: musicianFormData{
				Musician: newMusicianView(musician),
				Error:    catalog.MessageOf(err),
			}}
		}
		return c.respondError(err)
	}
	return &Response{
		redirect: "/musicians",
		flashN:   []string{"musician deleted"},
	}
}

// redisplayMusician turns a failed save into a form payload carrying the
// user's values and selections, so nothing typed is lost
func (c *Controller) redisplayMusician(in catalog.MusicianInput, err error) *Response {
	switch catalog.KindOf(err) {
	case catalog.KindNotFound:
		return &Response{code: 404, err: "not found"}
	case catalog.KindConcurrency:
		// the row changed under the edit and still exists. failing loudly
		// beats silently overwriting someone else's save
		return &Response{code: 500, err: catalog.MessageOf(err)}
	}
	dropdown, assignments, oerr := c.catalog.MusicianOptions(
		in.InstrumentID,
		reconcile.ParseKeys(in.SelectedInstruments),
	)
	if oerr != nil {
		return &Response{code: 500, err: "loading form options"}
	}
	return &Response{data: musicianFormData{
		Musician:          musicianViewFromInput(in),
		Error:             catalog.MessageOf(err),
		FieldErrors:       catalog.FieldsOf(err),
		InstrumentOptions: dropdown,
		Instruments:       assignments,
	}}
}

func (c *Controller) respondError(err error) *Response {
	switch catalog.KindOf(err) {
	case catalog.KindNotFound:
		return &Response{code: 404, err: "not found"}
	default:
		return &Response{code: 500, err: catalog.MessageOf(err)}
	}
}

func musicianInputFromParams(p params.Params) catalog.MusicianInput {
	in := catalog.MusicianInput{
		FirstName:           p.GetOr("firstName", ""),
		MiddleName:          p.GetOr("middleName", ""),
		LastName:            p.GetOr("lastName", ""),
		Phone:               p.GetOr("phone", ""),
		SIN:                 p.GetOr("sin", ""),
		InstrumentID:        p.GetIntPtr("instrumentId"),
		SelectedInstruments: p.GetOrList("selectedInstruments", nil),
	}
	if dob, err := p.GetDate("dob"); err == nil {
		in.DOB = dob
	}
	return in
}

func musicianViewFromInput(in catalog.MusicianInput) musicianView {
	view := musicianView{
		FirstName:  in.FirstName,
		MiddleName: in.MiddleName,
		LastName:   in.LastName,
		Phone:      in.Phone,
		SIN:        in.SIN,
	}
	if !in.DOB.IsZero() {
		view.DOB = in.DOB.Format(dateFormat)
	}
	return view
}
