package database

import (
	"context"
	"time"
)

// DB describes the persistence operations used by the rest of the application.
type DB interface {
	UserDB
	CourseDB
	LocationDB
	SessionDB
	ReviewDB

	GetStats(ctx context.Context) (*Stats, error)
	Ping(ctx context.Context) error
	Close() error
}

type UserDB interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, netID string) (*User, error)
	GetUsers(ctx context.Context) ([]User, error)
	GetUsersBySession(ctx context.Context, sessionID uint) ([]User, error)
}

type CourseDB interface {
	CreateCourse(ctx context.Context, course *Course) error
	GetCourse(ctx context.Context, title string) (*Course, error)
	GetCourses(ctx context.Context) ([]Course, error)
}

type LocationDB interface {
	CreateLocation(ctx context.Context, location *Location) error
	GetLocation(ctx context.Context, id uint) (*Location, error)
	GetLocations(ctx context.Context) ([]Location, error)
}

type SessionDB interface {
	CreateSession(ctx context.Context, params CreateSessionParams) (*StudySession, error)
	GetSession(ctx context.Context, id uint) (*SessionView, error)
	GetSessionViews(ctx context.Context, courseTitle string) ([]SessionView, error)
	GetSessionsCreatedBefore(ctx context.Context, before time.Time) ([]StudySession, error)
	JoinSession(ctx context.Context, netID string, sessionID uint) error
	LeaveSession(ctx context.Context, netID string, sessionID uint) error
	DeleteSession(ctx context.Context, id uint) ([]User, error)
	DetachAllParticipants(ctx context.Context) (int64, error)
	GetTopCourses(ctx context.Context, limit int) ([]CourseAttendance, error)
}

type ReviewDB interface {
	CreateReview(ctx context.Context, review *Review) error
	GetReviews(ctx context.Context) ([]ReviewView, error)
	GetRecentReviews(ctx context.Context, limit int) ([]ReviewView, error)
	GetAverageRating(ctx context.Context) (float64, error)
}
