package data

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when an email address is already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateTitle is returned when a post title is already taken.
	ErrDuplicateTitle = errors.New("post title already exists")
)

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint failure.
// The constraint is the sole serialization point for concurrent writers racing
// on email or title uniqueness; the losing writer gets the translated sentinel.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
