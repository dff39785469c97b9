package models

import (
	"time"
)

// Course is the API representation of a course.
type Course struct {
	Title string `json:"title"`
	Name  string `json:"name"`
}

// User is the API representation of a user. It never contains password material.
type User struct {
	NetID     string `json:"netId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	SessionID *uint  `json:"sessionId"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type Location struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// StudySession is a study session as shown on the map.
type StudySession struct {
	ID               uint      `json:"id"`
	CourseTitle      string    `json:"courseTitle"`
	CourseName       string    `json:"courseName"`
	LocationID       uint      `json:"locationId"`
	LocationName     string    `json:"locationName"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Address          string    `json:"address"`
	Status           string    `json:"status"`
	Description      string    `json:"description"`
	ParticipantCount int64     `json:"participantCount"`
	CreatedAt        time.Time `json:"createdAt"`
	Participants     []User    `json:"participants,omitempty"`
}

type Review struct {
	ID                 uint      `json:"id"`
	UserNetID          string    `json:"userNetId"`
	FirstName          string    `json:"firstName,omitempty"`
	LastName           string    `json:"lastName,omitempty"`
	SessionID          *uint     `json:"sessionId"`
	SessionDescription *string   `json:"sessionDescription,omitempty"`
	SessionReviewCount int64     `json:"sessionReviewCount"`
	Rating             int       `json:"rating"`
	Comment            string    `json:"comment"`
	CreatedAt          time.Time `json:"createdAt"`
	CreatedAgo         string    `json:"createdAgo"`
}

// ReviewSummary holds the most recent reviews and the overall average rating.
type ReviewSummary struct {
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"averageRating"`
}

type CourseAttendance struct {
	CourseTitle  string `json:"courseTitle"`
	CourseName   string `json:"courseName"`
	StudentCount int64  `json:"studentCount"`
}

// Request bodies

type CreateCourseRequest struct {
	Title string `json:"title" binding:"required,max=32"`
	Name  string `json:"name" binding:"required"`
}

type CreateUserRequest struct {
	NetID     string `json:"netId" binding:"required,max=64"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,max=72"`
}

type LoginRequest struct {
	NetID    string `json:"netId" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateLocationRequest struct {
	Name      string   `json:"name" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"required,min=-180,max=180"`
	Address   string   `json:"address"`
}

// CreateSessionRequest references an existing location by ID or describes a new one inline.
type CreateSessionRequest struct {
	CourseTitle  string                 `json:"courseTitle" binding:"required"`
	LocationID   *uint                  `json:"locationId"`
	Location     *CreateLocationRequest `json:"location"`
	Status       string                 `json:"status" binding:"omitempty,oneof=active closed"`
	Description  string                 `json:"description"`
	CreatorNetID string                 `json:"creatorNetId"`
}

type MembershipRequest struct {
	NetID string `json:"netId" binding:"required"`
}

// CreateReviewRequest accepts the review text as comment or reviewText.
type CreateReviewRequest struct {
	UserNetID  string `json:"userNetId" binding:"required"`
	SessionID  *uint  `json:"sessionId"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Comment    string `json:"comment"`
	ReviewText string `json:"reviewText"`
}
