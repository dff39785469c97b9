// Package query provides the read side of StudyLync: denormalized session views and
// aggregates, the latter served through a read-through cache.
package query

import (
	"context"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/studylync/studylync/internal/cache"
	"github.com/studylync/studylync/internal/config"
	"github.com/studylync/studylync/internal/database"
	"golang.org/x/sync/errgroup"
)

// SessionDetail is a session view together with its participants.
type SessionDetail struct {
	database.SessionView
	Participants []database.User
}

type Service struct {
	db    database.DB
	cache *cache.QueryCache

	topCourses    int
	recentReviews int

	// bumped on every invalidation, a fill that raced one is dropped
	topCoursesGen    atomic.Uint64
	reviewSummaryGen atomic.Uint64
}

func New(db database.DB, qc *cache.QueryCache, cfg *config.Config) *Service {
	return &Service{
		db:            db,
		cache:         qc,
		topCourses:    cfg.GetTopCourses(),
		recentReviews: cfg.GetRecentReviews(),
	}
}

// Sessions lists sessions, optionally only those of one course.
func (s *Service) Sessions(ctx context.Context, courseTitle string) ([]database.SessionView, error) {
	return s.db.GetSessionViews(ctx, courseTitle)
}

// Session returns one session with its participants.
func (s *Service) Session(ctx context.Context, id uint) (*SessionDetail, error) {
	view, err := s.db.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	participants, err := s.db.GetUsersBySession(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SessionDetail{SessionView: *view, Participants: participants}, nil
}

// TopCourses returns the courses with the most students currently in their sessions.
func (s *Service) TopCourses(ctx context.Context) ([]database.CourseAttendance, error) {
	return readThrough(ctx, s.cache.TopCourses, s.topCourses, &s.topCoursesGen,
		func(ctx context.Context) ([]database.CourseAttendance, error) {
			return s.db.GetTopCourses(ctx, s.topCourses)
		})
}

// ReviewSummary returns the most recent reviews and the average rating of all reviews.
func (s *Service) ReviewSummary(ctx context.Context) (*cache.ReviewSummary, error) {
	summary, err := readThrough(ctx, s.cache.ReviewSummary, s.recentReviews, &s.reviewSummaryGen, s.loadReviewSummary)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *Service) loadReviewSummary(ctx context.Context) (cache.ReviewSummary, error) {
	var summary cache.ReviewSummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		reviews, err := s.db.GetRecentReviews(gctx, s.recentReviews)
		summary.Reviews = reviews
		return err
	})
	g.Go(func() error {
		avg, err := s.db.GetAverageRating(gctx)
		summary.AverageRating = avg
		return err
	})
	if err := g.Wait(); err != nil {
		return cache.ReviewSummary{}, err
	}
	return summary, nil
}

// readThrough serves key from c or loads and caches it.
// The loaded value is only kept if no invalidation happened while it was read.
func readThrough[T any](ctx context.Context, c *cache.PrefixedCache[T], key int, gen *atomic.Uint64, load func(context.Context) (T, error)) (T, error) {
	if v, err := c.Get(ctx, key); err == nil {
		log.Debug("Serving from cache", "key", c.Key(key))
		return v, nil
	}

	before := gen.Load()
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if gen.Load() != before {
		return v, nil
	}
	if err := c.Set(ctx, key, v); err != nil {
		log.Warn("failed to cache query result", "key", c.Key(key), "error", err)
		return v, nil
	}
	// an invalidation between the check and Set must not be lost
	if gen.Load() != before {
		if err := c.Delete(ctx, key); err != nil {
			log.Warn("failed to drop raced cache entry", "key", c.Key(key), "error", err)
		}
	}
	return v, nil
}

// Reviews returns all reviews, newest first.
func (s *Service) Reviews(ctx context.Context) ([]database.ReviewView, error) {
	return s.db.GetReviews(ctx)
}

// InvalidateAttendance must be called after every membership change.
func (s *Service) InvalidateAttendance(ctx context.Context) {
	s.topCoursesGen.Add(1)
	s.cache.InvalidateTopCourses(ctx, s.topCourses)
}

// InvalidateReviews must be called after a review was added or a session was deleted.
func (s *Service) InvalidateReviews(ctx context.Context) {
	s.reviewSummaryGen.Add(1)
	s.cache.InvalidateReviewSummary(ctx, s.recentReviews)
}

// CacheStats reports hit and miss counters of the aggregate caches.
func (s *Service) CacheStats() []*cache.Stats {
	return s.cache.GetStats()
}
