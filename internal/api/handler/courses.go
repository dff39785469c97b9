package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studylync/studylync/internal/api/models"
	"github.com/studylync/studylync/internal/database"
)

func (h *Handler) GetCourses(c *gin.Context) {
	courses, err := h.db.GetCourses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToCourses(courses))
}

func (h *Handler) GetCourse(c *gin.Context) {
	course, err := h.db.GetCourse(c.Request.Context(), c.Param("title"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToCourse(*course))
}

func (h *Handler) CreateCourse(c *gin.Context) {
	var req models.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	course := database.Course{Title: req.Title, Name: req.Name}
	if err := h.db.CreateCourse(c.Request.Context(), &course); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ToCourse(course))
}
