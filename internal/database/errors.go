package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCourseNotFound   = errors.New("course not found")
	ErrLocationNotFound = errors.New("location not found")
	ErrSessionNotFound  = errors.New("study session not found")
	ErrAlreadyInSession = errors.New("user is already in a study session")
	ErrNotInSession     = errors.New("user is not in this study session")
	ErrSessionClosed    = errors.New("study session is closed")
	ErrDuplicate        = errors.New("record already exists")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
)

// isDuplicateErr reports whether err is a unique constraint violation.
// gorm translates most of them, the string match covers drivers that don't.
func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
