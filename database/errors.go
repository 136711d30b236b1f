package database

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// IsUniqueViolation reports a UNIQUE or PRIMARY KEY constraint failure.
func IsUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

const foreignKeyFailed = "FOREIGN KEY constraint failed"

// IsForeignKeyViolation reports a FOREIGN KEY constraint failure. SQLite
// raises ON DELETE RESTRICT from an internal trigger, so that case carries
// the trigger extended code with the foreign key message.
func IsForeignKeyViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	if se.ExtendedCode == sqlite3.ErrConstraintForeignKey {
		return true
	}
	return se.Code == sqlite3.ErrConstraint && strings.Contains(se.Error(), foreignKeyFailed)
}

// IsConstraintViolation reports any constraint failure, triggers included.
func IsConstraintViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrConstraint
	}
	return false
}
