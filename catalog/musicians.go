package catalog

import (
	"time"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"github.com/ensemblefm/ensemble/db"
	"github.com/ensemblefm/ensemble/reconcile"
)

// MusicianInput is the allow-list of musician fields a request may write.
// anything not here (identity, version, association rows) can't be posted
// into the row, which is the point
type MusicianInput struct {
	FirstName    string    `validate:"required,max=50"`
	MiddleName   string    `validate:"omitempty,max=50"`
	LastName     string    `validate:"required,max=100"`
	Phone        string    `validate:"required,len=10,numeric"`
	DOB          time.Time `validate:"required,lt"`
	SIN          string    `validate:"required,len=9,numeric"`
	InstrumentID *int
	// instrument ids ticked on the form. unticked boxes are absent, so a
	// nil slice means "clear everything"
	SelectedInstruments []string
}

// ListMusicians loads every musician with its associations hydrated, then
// filters and sorts per the request. the flag reports whether any filter
// was applied
func (s *Service) ListMusicians(filters MusicianFilters, state SortState) ([]*db.Musician, bool, error) {
	var musicians []*db.Musician
	err := s.db.
		Preload("Instrument").
		Preload("Plays.Instrument").
		Preload("Performances.Song").
		Find(&musicians).
		Error
	if err != nil {
		return nil, false, errors.Wrap(err, "listing musicians")
	}
	ordered, filtered := ComposeMusicians(musicians, filters, state)
	return ordered, filtered, nil
}

// GetMusician loads one fully hydrated musician aggregate
func (s *Service) GetMusician(id int) (*db.Musician, error) {
	musician := &db.Musician{}
	err := s.db.
		Preload("Instrument").
		Preload("Plays.Instrument").
		Preload("Performances.Song").
		First(musician, id).
		Error
	if db.IsNotFound(err) {
		return nil, newError(KindNotFound, msgNotFound, err)
	}
	if err != nil {
		return nil, errors.Wrap(err, "loading musician")
	}
	return musician, nil
}

// CreateMusician validates the input, inserts the row, and attaches the
// requested instrument memberships. for a brand new musician the current
// membership is empty, so the reconciler adds everything requested
func (s *Service) CreateMusician(in MusicianInput) (*db.Musician, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	musician := &db.Musician{
		FirstName:    in.FirstName,
		MiddleName:   in.MiddleName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		DOB:          in.DOB,
		SIN:          in.SIN,
		InstrumentID: in.InstrumentID,
	}
	err := s.saveTx(func(tx *gorm.DB) error {
		instruments, err := allInstruments(tx)
		if err != nil {
			return err
		}
		if err := tx.Create(musician).Error; err != nil {
			return err
		}
		delta := reconcile.Diff(
			nil,
			reconcile.ParseKeys(in.SelectedInstruments),
			instrumentIDs(instruments),
		)
		return applyPlaysDelta(tx, musician.ID, delta)
	})
	if err != nil {
		return nil, classifyMusicianSave(err)
	}
	return musician, nil
}

// UpdateMusician reconciles the musician's plays against the submitted
// membership and applies the allow-listed scalar fields, all in one
// transaction so a partial commit can't happen. the scalar update is
// guarded by the row's version marker
func (s *Service) UpdateMusician(id int, in MusicianInput) (*db.Musician, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	musician := &db.Musician{}
	err := s.saveTx(func(tx *gorm.DB) error {
		*musician = db.Musician{}
		err := tx.Preload("Plays").First(musician, id).Error
		if db.IsNotFound(err) {
			return newError(KindNotFound, msgNotFound, err)
		}
		if err != nil {
			return errors.Wrap(err, "loading musician")
		}
		instruments, err := allInstruments(tx)
		if err != nil {
			return err
		}
		current := make(map[int]struct{}, len(musician.Plays))
		for _, p := range musician.Plays {
			if p.InstrumentID != nil {
				current[*p.InstrumentID] = struct{}{}
			}
		}
		delta := reconcile.Diff(
			current,
			reconcile.ParseKeys(in.SelectedInstruments),
			instrumentIDs(instruments),
		)
		if err := applyPlaysDelta(tx, id, delta); err != nil {
			return err
		}
		res := tx.
			Model(&db.Musician{}).
			Where("id=? AND version=?", id, musician.Version).
			Updates(map[string]interface{}{
				"first_name":    in.FirstName,
				"middle_name":   in.MiddleName,
				"last_name":     in.LastName,
				"phone":         in.Phone,
				"dob":           in.DOB,
				"sin":           in.SIN,
				"instrument_id": in.InstrumentID,
				"version":       musician.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return staleRowError(tx, &db.Musician{}, id)
		}
		return nil
	})
	if err != nil {
		return nil, classifyMusicianSave(err)
	}
	return s.GetMusician(id)
}

// DeleteMusician removes the musician and its plays. a musician who
// performed on any song is protected by the performances foreign key; the
// violation rolls the whole transaction back, plays included
func (s *Service) DeleteMusician(id int) error {
	err := s.saveTx(func(tx *gorm.DB) error {
		musician := &db.Musician{}
		err := tx.First(musician, id).Error
		if db.IsNotFound(err) {
			return newError(KindNotFound, msgNotFound, err)
		}
		if err != nil {
			return errors.Wrap(err, "loading musician")
		}
		if err := tx.Where("musician_id=?", id).Delete(db.Plays{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Musician{ID: id}).Error
	})
	if err == nil {
		return nil
	}
	if cerr, ok := err.(*Error); ok {
		return cerr
	}
	if db.IsForeignKeyConstraint(err) {
		return newError(KindInUse, msgMusicianInUse, err)
	}
	return newError(KindPersistence, msgPersistence, err)
}

// MusicianOptions builds the musician form's option lists: the primary
// instrument dropdown and the plays checkbox universe. called both for a
// fresh form and to redisplay after a failed save
func (s *Service) MusicianOptions(primary *int, playing map[int]struct{}) ([]Option, []Option, error) {
	instruments, err := allInstruments(s.db.DB)
	if err != nil {
		return nil, nil, err
	}
	return InstrumentOptions(instruments, primary), InstrumentAssignments(instruments, playing), nil
}

func instrumentIDs(instruments []*db.Instrument) []int {
	ids := make([]int, 0, len(instruments))
	for _, inst := range instruments {
		ids = append(ids, inst.ID)
	}
	return ids
}

func applyPlaysDelta(tx *gorm.DB, musicianID int, delta reconcile.Delta[int]) error {
	for _, instID := range delta.Remove {
		err := tx.
			Where("musician_id=? AND instrument_id=?", musicianID, instID).
			Delete(db.Plays{}).
			Error
		if err != nil {
			return err
		}
	}
	for _, instID := range delta.Add {
		instID := instID
		musicianID := musicianID
		err := tx.Create(&db.Plays{
			MusicianID:   &musicianID,
			InstrumentID: &instID,
		}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func classifyMusicianSave(err error) error {
	if cerr, ok := err.(*Error); ok {
		return cerr
	}
	if db.IsUniqueConstraint(err, "musicians.sin") {
		return newError(KindDuplicateSIN, msgDuplicateSIN, err)
	}
	return newError(KindPersistence, msgPersistence, err)
}
