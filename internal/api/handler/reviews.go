package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studylync/studylync/internal/api/models"
	"github.com/studylync/studylync/internal/database"
)

// GetReviewSummary returns the most recent reviews together with the average rating.
func (h *Handler) GetReviewSummary(c *gin.Context) {
	summary, err := h.query.ReviewSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToReviewSummary(*summary))
}

func (h *Handler) GetReviews(c *gin.Context) {
	reviews, err := h.query.Reviews(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToReviews(reviews))
}

func (h *Handler) CreateReview(c *gin.Context) {
	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	comment := req.Comment
	if comment == "" {
		comment = req.ReviewText
	}

	review := database.Review{
		UserNetID: req.UserNetID,
		SessionID: req.SessionID,
		Rating:    req.Rating,
		Comment:   comment,
	}
	if err := h.db.CreateReview(c.Request.Context(), &review); err != nil {
		respondError(c, err, database.ErrSessionNotFound)
		return
	}
	h.query.InvalidateReviews(c.Request.Context())

	c.JSON(http.StatusCreated, models.ToCreatedReview(review))
}
