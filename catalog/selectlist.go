package catalog

import (
	"sort"

	"github.com/ensemblefm/ensemble/db"
)

// Option is one entry of a dropdown or checkbox list
type Option struct {
	ID       int    `json:"id"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

func selected(id int, sel *int) bool {
	return sel != nil && *sel == id
}

// InstrumentOptions builds the primary instrument dropdown, ordered by name
func InstrumentOptions(instruments []*db.Instrument, sel *int) []Option {
	options := make([]Option, 0, len(instruments))
	for _, inst := range instruments {
		options = append(options, Option{
			ID:       inst.ID,
			Label:    inst.Name,
			Selected: selected(inst.ID, sel),
		})
	}
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Label < options[j].Label
	})
	return options
}

// GenreOptions builds the genre dropdown, ordered by name
func GenreOptions(genres []*db.Genre, sel *int) []Option {
	options := make([]Option, 0, len(genres))
	for _, genre := range genres {
		options = append(options, Option{
			ID:       genre.ID,
			Label:    genre.Name,
			Selected: selected(genre.ID, sel),
		})
	}
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Label < options[j].Label
	})
	return options
}

// AlbumOptions builds the album dropdown, ordered by name then year, each
// labelled with the album's full summary
func AlbumOptions(albums []*db.Album, sel *int) []Option {
	ordered := make([]*db.Album, len(albums))
	copy(ordered, albums)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Name != ordered[j].Name {
			return ordered[i].Name < ordered[j].Name
		}
		return ordered[i].YearProduced < ordered[j].YearProduced
	})
	options := make([]Option, 0, len(ordered))
	for _, album := range ordered {
		options = append(options, Option{
			ID:       album.ID,
			Label:    album.FullSummary(),
			Selected: selected(album.ID, sel),
		})
	}
	return options
}

// InstrumentAssignments builds the musician form's checkbox universe,
// marking the instruments the musician currently plays
func InstrumentAssignments(instruments []*db.Instrument, playing map[int]struct{}) []Option {
	options := make([]Option, 0, len(instruments))
	for _, inst := range instruments {
		_, assigned := playing[inst.ID]
		options = append(options, Option{
			ID:       inst.ID,
			Label:    inst.Name,
			Selected: assigned,
		})
	}
	return options
}

// SplitPerformers partitions all musicians into the ones currently
// performing on a song and the rest, each half ordered by display name.
// the song form renders these as its assigned/available dual lists
func SplitPerformers(musicians []*db.Musician, performing map[int]struct{}) (sel, avail []Option) {
	for _, m := range musicians {
		option := Option{ID: m.ID, Label: m.FormalName()}
		if _, ok := performing[m.ID]; ok {
			option.Selected = true
			sel = append(sel, option)
		} else {
			avail = append(avail, option)
		}
	}
	byLabel := func(options []Option) func(i, j int) bool {
		return func(i, j int) bool { return options[i].Label < options[j].Label }
	}
	sort.SliceStable(sel, byLabel(sel))
	sort.SliceStable(avail, byLabel(avail))
	return sel, avail
}
