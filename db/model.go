package db

import (
	"fmt"
	"time"
)

// q:  why in tarnation are all the foreign keys pointers to ints?
//
// a:  so they will be true sqlite null values instead of go zero
//     values when we save a row without that value

// Musician represents the musicians table. the Plays and Performances
// collections are owned by the row and only ever written explicitly, so
// gorm's automatic association saving is disabled on them
type Musician struct {
	ID         int `gorm:"primary_key"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int       `gorm:"not null"`
	FirstName  string    `gorm:"not null"`
	MiddleName string
	LastName   string    `gorm:"not null;index"`
	Phone      string    `gorm:"not null"`
	DOB        time.Time `gorm:"not null"`
	SIN        string    `gorm:"not null;unique_index"`
	// primary instrument. nullable on purpose, not every musician has one
	InstrumentID *int          `gorm:"index" sql:"type:int REFERENCES instruments(id)"`
	Instrument   Instrument    `gorm:"association_autoupdate:false;association_autocreate:false"`
	Plays        []Plays       `gorm:"association_autoupdate:false;association_autocreate:false"`
	Performances []Performance `gorm:"association_autoupdate:false;association_autocreate:false"`
}

// FormalName renders "Last, First M." for select lists
func (m *Musician) FormalName() string {
	name := fmt.Sprintf("%s, %s", m.LastName, m.FirstName)
	if m.MiddleName != "" {
		name = fmt.Sprintf("%s %c.", name, m.MiddleName[0])
	}
	return name
}

// Instrument represents the instruments table
type Instrument struct {
	ID   int    `gorm:"primary_key"`
	Name string `gorm:"not null"`
}

// Plays represents the plays join table (musician <-> instrument)
type Plays struct {
	ID           int        `gorm:"primary_key"`
	MusicianID   *int       `gorm:"not null;unique_index:idx_plays_pair" sql:"type:int REFERENCES musicians(id) ON DELETE CASCADE"`
	Musician     Musician   `gorm:"association_autoupdate:false;association_autocreate:false"`
	InstrumentID *int       `gorm:"not null;unique_index:idx_plays_pair" sql:"type:int REFERENCES instruments(id)"`
	Instrument   Instrument `gorm:"association_autoupdate:false;association_autocreate:false"`
}

// Song represents the songs table
type Song struct {
	ID           int `gorm:"primary_key"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int           `gorm:"not null"`
	Title        string        `gorm:"not null;index"`
	AlbumID      *int          `gorm:"index" sql:"type:int REFERENCES albums(id)"`
	Album        Album         `gorm:"association_autoupdate:false;association_autocreate:false"`
	GenreID      *int          `gorm:"index" sql:"type:int REFERENCES genres(id)"`
	Genre        Genre         `gorm:"association_autoupdate:false;association_autocreate:false"`
	Performances []Performance `gorm:"association_autoupdate:false;association_autocreate:false"`
}

// Performance represents the performances join table (musician <-> song).
// the musician reference has no ON DELETE action, so a musician who
// performed on a song cannot be deleted out from under it
type Performance struct {
	ID         int      `gorm:"primary_key"`
	MusicianID *int     `gorm:"not null;unique_index:idx_performances_pair" sql:"type:int REFERENCES musicians(id)"`
	Musician   Musician `gorm:"association_autoupdate:false;association_autocreate:false"`
	SongID     *int     `gorm:"not null;unique_index:idx_performances_pair" sql:"type:int REFERENCES songs(id) ON DELETE CASCADE"`
	Song       Song     `gorm:"association_autoupdate:false;association_autocreate:false"`
}

// Album represents the albums table
type Album struct {
	ID           int    `gorm:"primary_key"`
	Name         string `gorm:"not null;index"`
	YearProduced int
	GenreID      *int  `gorm:"index" sql:"type:int REFERENCES genres(id)"`
	Genre        Genre `gorm:"association_autoupdate:false;association_autocreate:false"`
}

// FullSummary renders the album's select list label
func (a *Album) FullSummary() string {
	summary := fmt.Sprintf("%s (%d)", a.Name, a.YearProduced)
	if a.Genre.Name != "" {
		summary = fmt.Sprintf("%s - %s", summary, a.Genre.Name)
	}
	return summary
}

// Genre represents the genres table
type Genre struct {
	ID   int    `gorm:"primary_key"`
	Name string `gorm:"not null"`
}

// Setting represents the settings table
type Setting struct {
	Key   string `gorm:"primary_key;auto_increment:false"`
	Value string
}
