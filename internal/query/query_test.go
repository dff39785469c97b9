package query

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/studylync/studylync/internal/cache"
	"github.com/studylync/studylync/internal/config"
	"github.com/studylync/studylync/internal/database"
	dbmock "github.com/studylync/studylync/internal/database/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *dbmock.MockDB) {
	t.Helper()
	db := dbmock.NewMockDB()
	cfg := &config.Config{
		Cache: &config.CacheConfig{Type: config.CacheTypeMemory, TTL: 60},
		Stats: &config.StatsConfig{TopCourses: 2, RecentReviews: 2},
	}
	return New(db, cache.NewQueryCache(cfg.Cache), cfg), db
}

func seed(t *testing.T, db *dbmock.MockDB) *database.StudySession {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, db.CreateCourse(ctx, &database.Course{Title: "CS411", Name: "Database Systems"}))
	for _, id := range []string{"alice", "bob"} {
		require.NoError(t, db.CreateUser(ctx, &database.User{NetID: id, FirstName: id, LastName: "X", Email: id + "@illinois.edu"}))
	}
	s, err := db.CreateSession(ctx, database.CreateSessionParams{
		CourseTitle:  "CS411",
		NewLocation:  &database.Location{Name: "Grainger"},
		Description:  "project",
		CreatorNetID: "alice",
	})
	require.NoError(t, err)
	return s
}

func TestSession(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	s := seed(t, db)

	detail, err := svc.Session(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Database Systems", detail.CourseName)
	assert.Equal(t, int64(1), detail.ParticipantCount)
	require.Len(t, detail.Participants, 1)
	assert.Equal(t, "alice", detail.Participants[0].NetID)

	_, err = svc.Session(ctx, s.ID+1)
	assert.ErrorIs(t, err, database.ErrSessionNotFound)
}

func TestTopCourses_Cached(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	s := seed(t, db)

	rows, err := svc.TopCourses(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].StudentCount)

	require.NoError(t, db.JoinSession(ctx, "bob", s.ID))

	// served from cache until invalidated
	rows, err = svc.TopCourses(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows[0].StudentCount)
	assert.Equal(t, 1, db.GetTopCoursesCalls)

	svc.InvalidateAttendance(ctx)
	rows, err = svc.TopCourses(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows[0].StudentCount)
	assert.Equal(t, 2, db.GetTopCoursesCalls)
}

func TestTopCourses_Error(t *testing.T) {
	svc, db := newTestService(t)
	db.GetTopCoursesError = errors.New("boom")

	_, err := svc.TopCourses(context.Background())
	assert.Error(t, err)
}

func TestReviewSummary(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	s := seed(t, db)

	summary, err := svc.ReviewSummary(ctx)
	require.NoError(t, err)
	assert.Empty(t, summary.Reviews)
	assert.Equal(t, float64(0), summary.AverageRating)

	for _, r := range []int{5, 4, 4} {
		require.NoError(t, db.CreateReview(ctx, &database.Review{UserNetID: "bob", SessionID: lo.ToPtr(s.ID), Rating: r}))
	}

	// stale until invalidated
	summary, err = svc.ReviewSummary(ctx)
	require.NoError(t, err)
	assert.Empty(t, summary.Reviews)

	svc.InvalidateReviews(ctx)
	summary, err = svc.ReviewSummary(ctx)
	require.NoError(t, err)
	assert.Len(t, summary.Reviews, 2)
	assert.InDelta(t, 4.33, summary.AverageRating, 1e-9)
	assert.Equal(t, int64(3), summary.Reviews[0].SessionReviewCount)
	assert.Equal(t, 2, db.GetRecentReviewsCalls)

	require.NoError(t, db.CreateReview(ctx, &database.Review{UserNetID: "alice", Rating: 1}))
	svc.InvalidateReviews(ctx)
	summary, err = svc.ReviewSummary(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, summary.AverageRating, 1e-9)
}

func TestReviewSummary_Error(t *testing.T) {
	svc, db := newTestService(t)
	db.GetReviewsError = errors.New("boom")

	_, err := svc.ReviewSummary(context.Background())
	assert.Error(t, err)
}

// pausingDB holds the first aggregate read open after the value was loaded,
// so a write can land between the load and the cache fill.
type pausingDB struct {
	*dbmock.MockDB
	loaded  chan struct{}
	release chan struct{}
	once    sync.Once
}

func newPausingDB(db *dbmock.MockDB) *pausingDB {
	return &pausingDB{MockDB: db, loaded: make(chan struct{}), release: make(chan struct{})}
}

func (p *pausingDB) pause() {
	p.once.Do(func() {
		close(p.loaded)
		<-p.release
	})
}

func (p *pausingDB) GetAverageRating(ctx context.Context) (float64, error) {
	avg, err := p.MockDB.GetAverageRating(ctx)
	p.pause()
	return avg, err
}

func (p *pausingDB) GetTopCourses(ctx context.Context, limit int) ([]database.CourseAttendance, error) {
	rows, err := p.MockDB.GetTopCourses(ctx, limit)
	p.pause()
	return rows, err
}

func newPausingService(t *testing.T) (*Service, *pausingDB) {
	t.Helper()
	db := newPausingDB(dbmock.NewMockDB())
	cfg := &config.Config{
		Cache: &config.CacheConfig{Type: config.CacheTypeMemory, TTL: 60},
		Stats: &config.StatsConfig{TopCourses: 2, RecentReviews: 2},
	}
	return New(db, cache.NewQueryCache(cfg.Cache), cfg), db
}

func TestReviewSummary_InvalidationDuringLoad(t *testing.T) {
	svc, db := newPausingService(t)
	ctx := context.Background()
	s := seed(t, db.MockDB)

	done := make(chan error, 1)
	go func() {
		_, err := svc.ReviewSummary(ctx)
		done <- err
	}()

	<-db.loaded
	require.NoError(t, db.CreateReview(ctx, &database.Review{UserNetID: "bob", SessionID: lo.ToPtr(s.ID), Rating: 5}))
	svc.InvalidateReviews(ctx)
	close(db.release)
	require.NoError(t, <-done)

	summary, err := svc.ReviewSummary(ctx)
	require.NoError(t, err)
	assert.Len(t, summary.Reviews, 1)
	assert.InDelta(t, 5.0, summary.AverageRating, 1e-9)
}

func TestTopCourses_InvalidationDuringLoad(t *testing.T) {
	svc, db := newPausingService(t)
	ctx := context.Background()
	s := seed(t, db.MockDB)

	done := make(chan error, 1)
	go func() {
		_, err := svc.TopCourses(ctx)
		done <- err
	}()

	<-db.loaded
	require.NoError(t, db.JoinSession(ctx, "bob", s.ID))
	svc.InvalidateAttendance(ctx)
	close(db.release)
	require.NoError(t, <-done)

	rows, err := svc.TopCourses(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].StudentCount)
}
