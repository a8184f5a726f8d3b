// Package catalog implements the music catalog's core operations: list
// composition, select list building, and musician/song CRUD with
// association reconciliation
package catalog

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"github.com/ensemblefm/ensemble/db"
)

// save attempts before giving up on transient sqlite contention
const maxSaveAttempts = 3

type Service struct {
	db       *db.DB
	validate *validator.Validate
}

func NewService(dbc *db.DB) *Service {
	return &Service{
		db:       dbc,
		validate: validator.New(),
	}
}

// saveTx runs one operation in one transaction, retrying the whole thing
// while the database reports lock contention. reads inside the callback
// therefore always see the snapshot the writes commit against
func (s *Service) saveTx(cb func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		if err = s.db.Transaction(cb); err == nil {
			return nil
		}
		if !db.IsBusy(err) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	return newError(KindRetryLimit, msgRetryLimit, err)
}

// check validates an input struct, translating validator errors into
// per-field messages the form can show next to each input
func (s *Service) check(in interface{}) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return newError(KindValidation, msgValidation, err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &Error{Kind: KindValidation, Message: msgValidation, Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "cannot be blank"
	case "max":
		return fmt.Sprintf("cannot be longer than %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s digits", fe.Param())
	case "numeric":
		return "must contain only digits"
	case "lt":
		return "must be in the past"
	default:
		return "is invalid"
	}
}

func allInstruments(tx *gorm.DB) ([]*db.Instrument, error) {
	var instruments []*db.Instrument
	if err := tx.Order("id").Find(&instruments).Error; err != nil {
		return nil, errors.Wrap(err, "listing instruments")
	}
	return instruments, nil
}

func allMusicians(tx *gorm.DB) ([]*db.Musician, error) {
	var musicians []*db.Musician
	if err := tx.Order("id").Find(&musicians).Error; err != nil {
		return nil, errors.Wrap(err, "listing musicians")
	}
	return musicians, nil
}

// staleRowError decides what a missed version guard means: if the row is
// gone the edit degrades to not-found, otherwise someone else changed it
// and the conflict is surfaced as-is rather than silently overwritten
func staleRowError(tx *gorm.DB, model interface{}, id int) error {
	var count int
	if err := tx.Model(model).Where("id=?", id).Count(&count).Error; err != nil {
		return errors.Wrap(err, "checking row exists")
	}
	if count == 0 {
		return newError(KindNotFound, msgNotFound, nil)
	}
	return newError(KindConcurrency, msgConcurrency, nil)
}
