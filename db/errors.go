package db

import (
	"errors"
	"strings"

	"github.com/jinzhu/gorm"
	"github.com/mattn/go-sqlite3"
)

// sqliteErr digs the driver error out of err. gorm sometimes hands back a
// gorm.Errors bundle rather than a wrapped chain, so check both
func sqliteErr(err error) (sqlite3.Error, bool) {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr, true
	}
	var gerrs gorm.Errors
	if errors.As(err, &gerrs) {
		for _, e := range gerrs.GetErrors() {
			if errors.As(e, &serr) {
				return serr, true
			}
		}
	}
	return sqlite3.Error{}, false
}

// IsNotFound reports whether err means the requested row doesn't exist
func IsNotFound(err error) bool {
	return gorm.IsRecordNotFoundError(err)
}

// IsUniqueConstraint reports whether err is a unique constraint violation.
// hint, if given, must appear in the constraint's message, eg. "musicians.sin"
func IsUniqueConstraint(err error, hint string) bool {
	serr, ok := sqliteErr(err)
	if !ok || serr.ExtendedCode != sqlite3.ErrConstraintUnique {
		return false
	}
	return hint == "" || strings.Contains(serr.Error(), hint)
}

// IsForeignKeyConstraint reports whether err is a foreign key violation,
// eg. deleting a musician who still has performances
func IsForeignKeyConstraint(err error) bool {
	serr, ok := sqliteErr(err)
	if !ok {
		return false
	}
	return serr.ExtendedCode == sqlite3.ErrConstraintForeignKey ||
		serr.ExtendedCode == sqlite3.ErrConstraintTrigger
}

// IsBusy reports whether err is transient lock contention worth retrying
func IsBusy(err error) bool {
	serr, ok := sqliteErr(err)
	if !ok {
		return false
	}
	return serr.Code == sqlite3.ErrBusy || serr.Code == sqlite3.ErrLocked
}
