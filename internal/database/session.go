package database

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionStatus is the lifecycle state of a study session.
type SessionStatus string

const (
	SessionStatusActive SessionStatus = "active"
	SessionStatusClosed SessionStatus = "closed"
)

// Valid reports whether s is a known status.
func (s SessionStatus) Valid() bool {
	return s == SessionStatusActive || s == SessionStatusClosed
}

// StudySession represents a study session for a course at a location.
// Deleting a session detaches its participants and reviews.
type StudySession struct {
	ID           uint          `gorm:"primaryKey"`
	CourseTitle  string        `gorm:"not null;index;size:32"`
	Course       Course        `gorm:"foreignKey:CourseTitle;references:Title"`
	LocationID   uint          `gorm:"not null;index"`
	Location     Location      `gorm:"foreignKey:LocationID"`
	Status       SessionStatus `gorm:"not null;default:'active'"`
	Description  string
	Participants []User   `gorm:"foreignKey:SessionID;constraint:OnDelete:SET NULL;"`
	Reviews      []Review `gorm:"foreignKey:SessionID;constraint:OnDelete:SET NULL;"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SessionView is the denormalized read model of a study session.
type SessionView struct {
	ID               uint
	CourseTitle      string
	CourseName       string
	LocationID       uint
	LocationName     string
	Latitude         float64
	Longitude        float64
	Address          string
	Status           SessionStatus
	Description      string
	ParticipantCount int64
	CreatedAt        time.Time
}

// CourseAttendance is the number of students currently in sessions of a course.
type CourseAttendance struct {
	CourseTitle  string
	CourseName   string
	StudentCount int64
}

// CreateSessionParams describes a new study session.
// Either LocationID or NewLocation must be set, NewLocation is ignored when LocationID is.
// If CreatorNetID is set the creator joins the session in the same transaction,
// which is refused for a closed session.
type CreateSessionParams struct {
	CourseTitle  string
	LocationID   *uint
	NewLocation  *Location
	Status       SessionStatus
	Description  string
	CreatorNetID string
}

func (c *Client) CreateSession(ctx context.Context, params CreateSessionParams) (*StudySession, error) {
	session := StudySession{
		CourseTitle: params.CourseTitle,
		Status:      params.Status,
		Description: params.Description,
	}
	if session.Status == "" {
		session.Status = SessionStatusActive
	}
	if session.Status == SessionStatusClosed && params.CreatorNetID != "" {
		return nil, ErrSessionClosed
	}

	err := c.transaction(ctx, func(tx *gorm.DB) error {
		var courses int64
		if err := tx.Model(&Course{}).Where("title = ?", params.CourseTitle).Count(&courses).Error; err != nil {
			return err
		}
		if courses == 0 {
			return ErrCourseNotFound
		}

		switch {
		case params.LocationID != nil:
			var locations int64
			if err := tx.Model(&Location{}).Where("id = ?", *params.LocationID).Count(&locations).Error; err != nil {
				return err
			}
			if locations == 0 {
				return ErrLocationNotFound
			}
			session.LocationID = *params.LocationID
		case params.NewLocation != nil:
			location := *params.NewLocation
			location.ID = 0
			if location.Address == "" {
				location.Address = DefaultAddress
			}
			if err := tx.Create(&location).Error; err != nil {
				return err
			}
			session.LocationID = location.ID
		default:
			return ErrLocationNotFound
		}

		if err := tx.Omit(clause.Associations).Create(&session).Error; err != nil {
			return err
		}

		if params.CreatorNetID != "" {
			return assignParticipant(tx, params.CreatorNetID, session.ID)
		}
		return nil
	})
	if err != nil {
		if !isDomainErr(err) {
			log.Error("failed to create study session", "error", err)
		}
		return nil, err
	}
	return &session, nil
}

// JoinSession assigns the user to the session if the user is not in any session yet.
func (c *Client) JoinSession(ctx context.Context, netID string, sessionID uint) error {
	err := c.transaction(ctx, func(tx *gorm.DB) error {
		var session StudySession
		if err := tx.Select("id", "status").First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		if session.Status == SessionStatusClosed {
			return ErrSessionClosed
		}
		return assignParticipant(tx, netID, sessionID)
	})
	if err != nil && !isDomainErr(err) {
		log.Error("failed to join study session", "error", err)
	}
	return err
}

// assignParticipant sets the user's session only while it is unset.
// The check and the write are a single statement, zero affected rows are classified afterwards.
func assignParticipant(tx *gorm.DB, netID string, sessionID uint) error {
	res := tx.Model(&User{}).
		Where("net_id = ? AND session_id IS NULL", netID).
		Update("session_id", sessionID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return classifyUser(tx, netID, ErrAlreadyInSession)
}

// classifyUser returns ErrUserNotFound if the user doesn't exist, otherwise fallback.
func classifyUser(tx *gorm.DB, netID string, fallback error) error {
	var users int64
	if err := tx.Model(&User{}).Where("net_id = ?", netID).Count(&users).Error; err != nil {
		return err
	}
	if users == 0 {
		return ErrUserNotFound
	}
	return fallback
}

// LeaveSession removes the user from the session. The user must currently be in it.
func (c *Client) LeaveSession(ctx context.Context, netID string, sessionID uint) error {
	err := c.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&User{}).
			Where("net_id = ? AND session_id = ?", netID, sessionID).
			Update("session_id", nil)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		return classifyUser(tx, netID, ErrNotInSession)
	})
	if err != nil && !isDomainErr(err) {
		log.Error("failed to leave study session", "error", err)
	}
	return err
}

// DeleteSession removes the session and detaches its participants and reviews.
// It returns the users that were in the session.
func (c *Client) DeleteSession(ctx context.Context, id uint) ([]User, error) {
	var participants []User
	err := c.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Order("net_id").Find(&participants).Error; err != nil {
			return err
		}
		if err := tx.Model(&User{}).Where("session_id = ?", id).Update("session_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&Review{}).Where("session_id = ?", id).Update("session_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&StudySession{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSessionNotFound
		}
		return nil
	})
	if err != nil {
		if !isDomainErr(err) {
			log.Error("failed to delete study session", "error", err)
		}
		return nil, err
	}
	return participants, nil
}

// DetachAllParticipants clears the session of every user and returns the number of users affected.
func (c *Client) DetachAllParticipants(ctx context.Context) (int64, error) {
	res := c.db.WithContext(ctx).Model(&User{}).
		Where("session_id IS NOT NULL").
		Update("session_id", nil)
	if res.Error != nil {
		log.Error("failed to detach participants", "error", res.Error)
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (c *Client) GetSessionsCreatedBefore(ctx context.Context, before time.Time) ([]StudySession, error) {
	var sessions []StudySession
	if err := c.db.WithContext(ctx).Where("created_at < ?", before).Order("id").Find(&sessions).Error; err != nil {
		log.Error("failed to get expired study sessions", "error", err)
		return nil, err
	}
	return sessions, nil
}

func (c *Client) sessionViews(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).
		Table("study_sessions AS s").
		Select(`s.id, s.course_title, COALESCE(c.name, '') AS course_name, s.location_id,
			COALESCE(l.name, '') AS location_name, COALESCE(l.latitude, 0) AS latitude,
			COALESCE(l.longitude, 0) AS longitude, COALESCE(l.address, '') AS address,
			s.status, s.description, s.created_at, COUNT(u.net_id) AS participant_count`).
		Joins("LEFT JOIN courses c ON c.title = s.course_title").
		Joins("LEFT JOIN locations l ON l.id = s.location_id").
		Joins("LEFT JOIN users u ON u.session_id = s.id").
		Group("s.id, s.course_title, c.name, s.location_id, l.name, l.latitude, l.longitude, l.address, s.status, s.description, s.created_at")
}

func (c *Client) GetSession(ctx context.Context, id uint) (*SessionView, error) {
	var views []SessionView
	if err := c.sessionViews(ctx).Where("s.id = ?", id).Scan(&views).Error; err != nil {
		log.Error("failed to get study session", "error", err)
		return nil, err
	}
	if len(views) == 0 {
		return nil, ErrSessionNotFound
	}
	return &views[0], nil
}

// GetSessionViews returns all sessions, newest first. An empty courseTitle matches every course.
func (c *Client) GetSessionViews(ctx context.Context, courseTitle string) ([]SessionView, error) {
	query := c.sessionViews(ctx)
	if courseTitle != "" {
		query = query.Where("s.course_title = ?", courseTitle)
	}
	var views []SessionView
	if err := query.Order("s.created_at DESC, s.id DESC").Scan(&views).Error; err != nil {
		log.Error("failed to get study sessions", "error", err)
		return nil, err
	}
	return views, nil
}

// GetTopCourses ranks courses by the number of students currently in their sessions.
// Sessions without participants count as zero.
func (c *Client) GetTopCourses(ctx context.Context, limit int) ([]CourseAttendance, error) {
	var rows []CourseAttendance
	err := c.db.WithContext(ctx).
		Table("study_sessions AS s").
		Select("s.course_title, COALESCE(c.name, '') AS course_name, COUNT(u.net_id) AS student_count").
		Joins("LEFT JOIN courses c ON c.title = s.course_title").
		Joins("LEFT JOIN users u ON u.session_id = s.id").
		Group("s.course_title, c.name").
		Order("student_count DESC, s.course_title").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		log.Error("failed to get top courses", "error", err)
		return nil, err
	}
	return rows, nil
}

func isDomainErr(err error) bool {
	for _, target := range []error{
		ErrUserNotFound,
		ErrCourseNotFound,
		ErrLocationNotFound,
		ErrSessionNotFound,
		ErrAlreadyInSession,
		ErrNotInSession,
		ErrSessionClosed,
		ErrDuplicate,
		ErrInvalidRating,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
