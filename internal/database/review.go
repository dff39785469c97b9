package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Review is a rating left by a user, optionally for a study session.
// The session reference is cleared when the session is deleted.
type Review struct {
	ID        uint   `gorm:"primaryKey"`
	UserNetID string `gorm:"not null;index;size:64"`
	SessionID *uint  `gorm:"index"`
	Rating    int    `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   string
	CreatedAt time.Time
}

// ReviewView is a review joined with its author and session.
type ReviewView struct {
	ID                 uint
	UserNetID          string
	FirstName          string
	LastName           string
	SessionID          *uint
	SessionDescription *string
	SessionReviewCount int64
	Rating             int
	Comment            string
	CreatedAt          time.Time
}

// CreateReview stores a review after checking its author and session exist.
func (c *Client) CreateReview(ctx context.Context, review *Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return ErrInvalidRating
	}
	err := c.transaction(ctx, func(tx *gorm.DB) error {
		var users int64
		if err := tx.Model(&User{}).Where("net_id = ?", review.UserNetID).Count(&users).Error; err != nil {
			return err
		}
		if users == 0 {
			return ErrUserNotFound
		}
		if review.SessionID != nil {
			var sessions int64
			if err := tx.Model(&StudySession{}).Where("id = ?", *review.SessionID).Count(&sessions).Error; err != nil {
				return err
			}
			if sessions == 0 {
				return ErrSessionNotFound
			}
		}
		return tx.Create(review).Error
	})
	if err != nil && !isDomainErr(err) {
		log.Error("failed to create review", "error", err)
	}
	return err
}

func (c *Client) reviewViews(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).
		Table("reviews AS r").
		Select(`r.id, r.user_net_id, COALESCE(u.first_name, '') AS first_name, COALESCE(u.last_name, '') AS last_name,
			r.session_id, s.description AS session_description,
			(SELECT COUNT(*) FROM reviews r2 WHERE r2.session_id = r.session_id) AS session_review_count,
			r.rating, r.comment, r.created_at`).
		Joins("LEFT JOIN users u ON u.net_id = r.user_net_id").
		Joins("LEFT JOIN study_sessions s ON s.id = r.session_id").
		Order("r.created_at DESC, r.id DESC")
}

// GetReviews returns every review, newest first.
func (c *Client) GetReviews(ctx context.Context) ([]ReviewView, error) {
	var reviews []ReviewView
	if err := c.reviewViews(ctx).Scan(&reviews).Error; err != nil {
		log.Error("failed to get reviews", "error", err)
		return nil, err
	}
	return reviews, nil
}

// GetRecentReviews returns the newest reviews.
func (c *Client) GetRecentReviews(ctx context.Context, limit int) ([]ReviewView, error) {
	var reviews []ReviewView
	if err := c.reviewViews(ctx).Limit(limit).Scan(&reviews).Error; err != nil {
		log.Error("failed to get recent reviews", "error", err)
		return nil, err
	}
	return reviews, nil
}

// GetAverageRating returns the average of all ratings rounded to two decimals, 0 without reviews.
func (c *Client) GetAverageRating(ctx context.Context) (float64, error) {
	var avg sql.NullFloat64
	if err := c.db.WithContext(ctx).Model(&Review{}).Select("ROUND(AVG(rating), 2)").Row().Scan(&avg); err != nil {
		log.Error("failed to get average rating", "error", err)
		return 0, err
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}
