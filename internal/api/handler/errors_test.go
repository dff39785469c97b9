package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/studylync/studylync/internal/database"
	"github.com/studylync/studylync/internal/membership"
	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	wrap := func(err error) error { return fmt.Errorf("failed to do something: %w", err) }

	tests := []struct {
		name       string
		err        error
		badRequest []error
		want       int
	}{
		{"duplicate", database.ErrDuplicate, nil, http.StatusConflict},
		{"already in session", wrap(database.ErrAlreadyInSession), nil, http.StatusConflict},
		{"not in session", wrap(database.ErrNotInSession), nil, http.StatusConflict},
		{"closed", wrap(database.ErrSessionClosed), nil, http.StatusConflict},
		{"missing path resource", wrap(database.ErrSessionNotFound), nil, http.StatusNotFound},
		{"missing user", wrap(database.ErrUserNotFound), nil, http.StatusNotFound},
		{"missing body reference", wrap(database.ErrCourseNotFound), []error{database.ErrCourseNotFound, database.ErrLocationNotFound}, http.StatusBadRequest},
		{"user stays 404 on create", wrap(database.ErrUserNotFound), []error{database.ErrCourseNotFound}, http.StatusNotFound},
		{"invalid rating", database.ErrInvalidRating, nil, http.StatusBadRequest},
		{"invalid status", membership.ErrInvalidStatus, nil, http.StatusBadRequest},
		{"unknown", errors.New("disk I/O error"), nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorStatus(tt.err, tt.badRequest...))
		})
	}
}

func TestParseUintParam(t *testing.T) {
	id, err := parseUintParam("42")
	assert.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, in := range []string{"", "-1", "abc", "1.5", "99999999999999999999999"} {
		_, err := parseUintParam(in)
		assert.Error(t, err, in)
	}
}
