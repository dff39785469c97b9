package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studylync/studylync/internal/api/models"
)

func (h *Handler) GetLocations(c *gin.Context) {
	locations, err := h.db.GetLocations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToLocations(locations))
}

func (h *Handler) GetLocation(c *gin.Context) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	location, err := h.db.GetLocation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToLocation(*location))
}

func (h *Handler) CreateLocation(c *gin.Context) {
	var req models.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	location := models.ToDatabaseLocation(req)
	if err := h.db.CreateLocation(c.Request.Context(), &location); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ToLocation(location))
}
