package handler

import (
	"net/http"
	"strconv"

	"github.com/ccoveille/go-safecast"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/studylync/studylync/internal/config"
	"github.com/studylync/studylync/internal/database"
	"github.com/studylync/studylync/internal/membership"
	"github.com/studylync/studylync/internal/query"
)

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "request_id"

type Handler struct {
	db         database.DB
	query      *query.Service
	membership *membership.Service
	config     *config.Config
}

func New(db database.DB, q *query.Service, m *membership.Service, cfg *config.Config) *Handler {
	return &Handler{
		db:         db,
		query:      q,
		membership: m,
		config:     cfg,
	}
}

// Health reports whether the server can reach its database.
func (h *Handler) Health(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		log.Error("Health check failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Database connection failed",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "StudyLync server is running",
	})
}

func parseUintParam(param string) (uint, error) {
	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, err
	}
	return safecast.ToUint(id)
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
}
