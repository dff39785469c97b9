package database

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// User represents a student.
// SessionID points to the study session the user currently takes part in, if any.
type User struct {
	NetID        string   `gorm:"primaryKey;size:64"`
	FirstName    string   `gorm:"not null"`
	LastName     string   `gorm:"not null"`
	Email        string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	SessionID    *uint    `gorm:"index"`
	Reviews      []Review `gorm:"foreignKey:UserNetID;references:NetID;constraint:OnDelete:CASCADE;"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (c *Client) CreateUser(ctx context.Context, user *User) error {
	if err := c.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		log.Error("failed to create user", "error", err)
		return err
	}
	return nil
}

func (c *Client) GetUser(ctx context.Context, netID string) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Where("net_id = ?", netID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		log.Error("failed to get user", "error", err)
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.db.WithContext(ctx).Order("net_id").Find(&users).Error; err != nil {
		log.Error("failed to get users", "error", err)
		return nil, err
	}
	return users, nil
}

// GetUsersBySession returns the current participants of a study session.
func (c *Client) GetUsersBySession(ctx context.Context, sessionID uint) ([]User, error) {
	var users []User
	if err := c.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("net_id").Find(&users).Error; err != nil {
		log.Error("failed to get session participants", "error", err)
		return nil, err
	}
	return users, nil
}
