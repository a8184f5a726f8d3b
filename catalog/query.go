package catalog

import (
	"sort"
	"strings"

	"github.com/ensemblefm/ensemble/db"
)

// SortField enumerates the musician list's sortable columns. anything
// unrecognized falls back to sorting by name, so clicking an unknown
// column header still gives a sensible list
type SortField int

const (
	SortByName SortField = iota
	SortByPhone
	SortByAge
	SortByPrimaryInstrument
)

func ParseSortField(s string) SortField {
	switch s {
	case "Phone":
		return SortByPhone
	case "Age":
		return SortByAge
	case "Primary Instrument":
		return SortByPrimaryInstrument
	default:
		return SortByName
	}
}

func (f SortField) String() string {
	switch f {
	case SortByPhone:
		return "Phone"
	case SortByAge:
		return "Age"
	case SortByPrimaryInstrument:
		return "Primary Instrument"
	default:
		return "Name"
	}
}

type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// ParseSortDirection parses the round-tripped direction token. anything
// but "desc", including a missing token, means ascending
func ParseSortDirection(s string) SortDirection {
	if s == "desc" {
		return Descending
	}
	return Ascending
}

func (d SortDirection) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

func (d SortDirection) flip() SortDirection {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// ActionFilter is the submit button that changes filters without touching
// the sort state
const ActionFilter = "Filter"

// SortState is the (field, direction) pair round-tripped through request
// parameters between renders of the list
type SortState struct {
	Field     SortField
	Direction SortDirection
}

// Resolve applies a clicked action button to the prior sort state. no
// button or the filter button leaves the state alone; clicking the active
// column flips its direction; clicking another column adopts it ascending
func (s SortState) Resolve(actionButton string) SortState {
	if actionButton == "" || actionButton == ActionFilter {
		return s
	}
	field := ParseSortField(actionButton)
	if field == s.Field {
		return SortState{Field: field, Direction: s.Direction.flip()}
	}
	return SortState{Field: field, Direction: Ascending}
}

// MusicianFilters are the optional, conjunctive list predicates. zero
// values add no predicate at all
type MusicianFilters struct {
	InstrumentID *int
	SongID       *int
	Search       string
}

func (f MusicianFilters) active() bool {
	return f.InstrumentID != nil || f.SongID != nil || f.Search != ""
}

func (f MusicianFilters) match(m *db.Musician) bool {
	if f.InstrumentID != nil {
		if m.InstrumentID == nil || *m.InstrumentID != *f.InstrumentID {
			return false
		}
	}
	if f.SongID != nil {
		var performs bool
		for _, p := range m.Performances {
			if p.SongID != nil && *p.SongID == *f.SongID {
				performs = true
				break
			}
		}
		if !performs {
			return false
		}
	}
	if f.Search != "" {
		search := strings.ToUpper(f.Search)
		if !strings.Contains(strings.ToUpper(m.FirstName), search) &&
			!strings.Contains(strings.ToUpper(m.LastName), search) {
			return false
		}
	}
	return true
}

// comparators order ascending. descending runs the same comparator
// negated, so compound keys like (last, first) follow the direction
// together instead of splitting
var comparators = map[SortField]func(a, b *db.Musician) int{
	SortByName: func(a, b *db.Musician) int {
		if c := strings.Compare(a.LastName, b.LastName); c != 0 {
			return c
		}
		return strings.Compare(a.FirstName, b.FirstName)
	},
	SortByPhone: func(a, b *db.Musician) int {
		return strings.Compare(a.Phone, b.Phone)
	},
	SortByAge: func(a, b *db.Musician) int {
		switch {
		case a.DOB.Before(b.DOB):
			return -1
		case a.DOB.After(b.DOB):
			return 1
		default:
			return 0
		}
	},
	SortByPrimaryInstrument: func(a, b *db.Musician) int {
		// a missing primary instrument sorts as the empty name, first
		return strings.Compare(a.Instrument.Name, b.Instrument.Name)
	},
}

// ComposeMusicians filters then sorts the loaded musician list. the input
// slice is left alone. the returned flag reports whether any filter was
// applied, for the caller to surface an indicator
func ComposeMusicians(musicians []*db.Musician, filters MusicianFilters, state SortState) ([]*db.Musician, bool) {
	out := make([]*db.Musician, 0, len(musicians))
	for _, m := range musicians {
		if filters.match(m) {
			out = append(out, m)
		}
	}
	cmp := comparators[state.Field]
	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if state.Direction == Descending {
			c = -c
		}
		return c < 0
	})
	return out, filters.active()
}
