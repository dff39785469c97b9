package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/studylync/studylync/internal/api/models"
	"github.com/studylync/studylync/internal/database"
	"github.com/studylync/studylync/internal/membership"
)

// GetSessions lists study sessions, optionally filtered by ?course=.
func (h *Handler) GetSessions(c *gin.Context) {
	sessions, err := h.query.Sessions(c.Request.Context(), c.Query("course"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToStudySessions(sessions))
}

func (h *Handler) GetSession(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	detail, err := h.query.Session(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToStudySessionDetail(*detail, h.config))
}

func (h *Handler) CreateSession(c *gin.Context) {
	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	input := membership.CreateSessionInput{
		CourseTitle:  req.CourseTitle,
		LocationID:   req.LocationID,
		Status:       database.SessionStatus(req.Status),
		Description:  req.Description,
		CreatorNetID: req.CreatorNetID,
	}
	if req.Location != nil {
		input.Location = lo.ToPtr(models.ToDatabaseLocation(*req.Location))
	}

	session, err := h.membership.CreateSession(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, database.ErrCourseNotFound, database.ErrLocationNotFound)
		return
	}
	c.JSON(http.StatusCreated, models.ToStudySession(*session))
}

func (h *Handler) JoinSession(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}
	var req models.MembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	detail, err := h.membership.JoinSession(c.Request.Context(), req.NetID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToStudySessionDetail(*detail, h.config))
}

func (h *Handler) LeaveSession(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}
	var req models.MembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.membership.LeaveSession(c.Request.Context(), req.NetID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteSession(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	if err := h.membership.DeleteSession(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetTopCourses returns the courses with the most students in their sessions.
func (h *Handler) GetTopCourses(c *gin.Context) {
	rows, err := h.query.TopCourses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToCourseAttendances(rows))
}

func sessionIDParam(c *gin.Context) (uint, bool) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid study session ID"})
		return 0, false
	}
	return id, true
}
