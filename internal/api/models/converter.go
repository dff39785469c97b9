package models

import (
	"github.com/mergestat/timediff"
	"github.com/samber/lo"
	"github.com/studylync/studylync/internal/cache"
	"github.com/studylync/studylync/internal/config"
	"github.com/studylync/studylync/internal/database"
	"github.com/studylync/studylync/internal/gravatar"
	"github.com/studylync/studylync/internal/query"
)

func ToCourse(c database.Course) Course {
	return Course{Title: c.Title, Name: c.Name}
}

func ToCourses(courses []database.Course) []Course {
	return lo.Map(courses, func(c database.Course, _ int) Course { return ToCourse(c) })
}

// ToUser converts a database.User, dropping the password hash.
func ToUser(u database.User, cfg *config.Config) User {
	user := User{
		NetID:     u.NetID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		SessionID: u.SessionID,
	}
	if cfg != nil {
		user.AvatarURL = gravatar.URL(u.Email, cfg.Gravatar)
	}
	return user
}

func ToUsers(users []database.User, cfg *config.Config) []User {
	return lo.Map(users, func(u database.User, _ int) User { return ToUser(u, cfg) })
}

func ToLocation(l database.Location) Location {
	return Location{
		ID:        l.ID,
		Name:      l.Name,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Address:   l.Address,
	}
}

func ToLocations(locations []database.Location) []Location {
	return lo.Map(locations, func(l database.Location, _ int) Location { return ToLocation(l) })
}

// ToDatabaseLocation converts an inline location of a request.
func ToDatabaseLocation(r CreateLocationRequest) database.Location {
	return database.Location{
		Name:      r.Name,
		Latitude:  lo.FromPtr(r.Latitude),
		Longitude: lo.FromPtr(r.Longitude),
		Address:   r.Address,
	}
}

func ToStudySession(v database.SessionView) StudySession {
	return StudySession{
		ID:               v.ID,
		CourseTitle:      v.CourseTitle,
		CourseName:       v.CourseName,
		LocationID:       v.LocationID,
		LocationName:     v.LocationName,
		Latitude:         v.Latitude,
		Longitude:        v.Longitude,
		Address:          v.Address,
		Status:           string(v.Status),
		Description:      v.Description,
		ParticipantCount: v.ParticipantCount,
		CreatedAt:        v.CreatedAt,
	}
}

func ToStudySessions(views []database.SessionView) []StudySession {
	return lo.Map(views, func(v database.SessionView, _ int) StudySession { return ToStudySession(v) })
}

// ToStudySessionDetail includes the participants of the session.
func ToStudySessionDetail(d query.SessionDetail, cfg *config.Config) StudySession {
	session := ToStudySession(d.SessionView)
	session.Participants = ToUsers(d.Participants, cfg)
	return session
}

func ToReview(r database.ReviewView) Review {
	return Review{
		ID:                 r.ID,
		UserNetID:          r.UserNetID,
		FirstName:          r.FirstName,
		LastName:           r.LastName,
		SessionID:          r.SessionID,
		SessionDescription: r.SessionDescription,
		SessionReviewCount: r.SessionReviewCount,
		Rating:             r.Rating,
		Comment:            r.Comment,
		CreatedAt:          r.CreatedAt,
		CreatedAgo:         timediff.TimeDiff(r.CreatedAt),
	}
}

func ToReviews(reviews []database.ReviewView) []Review {
	return lo.Map(reviews, func(r database.ReviewView, _ int) Review { return ToReview(r) })
}

// ToCreatedReview converts a freshly stored review.
func ToCreatedReview(r database.Review) Review {
	return Review{
		ID:         r.ID,
		UserNetID:  r.UserNetID,
		SessionID:  r.SessionID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
		CreatedAgo: timediff.TimeDiff(r.CreatedAt),
	}
}

func ToReviewSummary(s cache.ReviewSummary) ReviewSummary {
	return ReviewSummary{
		Reviews:       ToReviews(s.Reviews),
		AverageRating: s.AverageRating,
	}
}

func ToCourseAttendances(rows []database.CourseAttendance) []CourseAttendance {
	return lo.Map(rows, func(r database.CourseAttendance, _ int) CourseAttendance {
		return CourseAttendance{CourseTitle: r.CourseTitle, CourseName: r.CourseName, StudentCount: r.StudentCount}
	})
}
