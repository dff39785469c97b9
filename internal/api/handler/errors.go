package handler

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/studylync/studylync/internal/database"
	"github.com/studylync/studylync/internal/membership"
)

// respondError writes err as JSON with a matching status code.
// badRequest lists not-found errors that refer to the request body rather than the path,
// those are reported as 400.
func respondError(c *gin.Context, err error, badRequest ...error) {
	status := errorStatus(err, badRequest...)
	if status == http.StatusInternalServerError {
		log.Error("Request failed",
			"request_id", c.GetString(RequestIDKey),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func errorStatus(err error, badRequest ...error) int {
	is := func(targets ...error) bool {
		return lo.ContainsBy(targets, func(target error) bool { return errors.Is(err, target) })
	}

	switch {
	case is(badRequest...):
		return http.StatusBadRequest
	case is(database.ErrDuplicate, database.ErrAlreadyInSession, database.ErrNotInSession, database.ErrSessionClosed):
		return http.StatusConflict
	case is(database.ErrUserNotFound, database.ErrCourseNotFound, database.ErrLocationNotFound, database.ErrSessionNotFound):
		return http.StatusNotFound
	case is(database.ErrInvalidRating, membership.ErrInvalidStatus):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
