package cache

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/eko/gocache/lib/v4/codec"
	"github.com/studylync/studylync/internal/config"
	"github.com/studylync/studylync/internal/database"
)

// Cache key prefixes.
const (
	TopCoursesCachePrefix    = "studylync-top-courses-"
	ReviewSummaryCachePrefix = "studylync-review-summary-"
)

// ReviewSummary is the cached result of the recent reviews view.
type ReviewSummary struct {
	Reviews       []database.ReviewView `json:"reviews"`
	AverageRating float64               `json:"averageRating"`
}

// QueryCache holds the caches of the aggregate views.
// Entries are only ever deleted by key, the redis store may be shared with other applications.
type QueryCache struct {
	TopCourses    *PrefixedCache[[]database.CourseAttendance]
	ReviewSummary *PrefixedCache[ReviewSummary]
}

func NewQueryCache(cfg *config.CacheConfig) *QueryCache {
	ttl := time.Duration(cfg.GetCacheTTL()) * time.Second
	return &QueryCache{
		TopCourses: NewPrefixedCache[[]database.CourseAttendance](
			newCacheInstanceByType(cfg),
			TopCoursesCachePrefix,
			ttl,
		),
		ReviewSummary: NewPrefixedCache[ReviewSummary](
			newCacheInstanceByType(cfg),
			ReviewSummaryCachePrefix,
			ttl,
		),
	}
}

// InvalidateTopCourses drops the cached attendance ranking for the given limit.
func (q *QueryCache) InvalidateTopCourses(ctx context.Context, limit int) {
	if err := q.TopCourses.Delete(ctx, limit); err != nil {
		log.Warn("failed to invalidate top courses cache", "error", err)
	}
}

// InvalidateReviewSummary drops the cached review summary for the given limit.
func (q *QueryCache) InvalidateReviewSummary(ctx context.Context, limit int) {
	if err := q.ReviewSummary.Delete(ctx, limit); err != nil {
		log.Warn("failed to invalidate review summary cache", "error", err)
	}
}

type Stats struct {
	*codec.Stats
	CacheName string `json:"cacheName"`
	CacheType string `json:"cacheType"`
}

func (q *QueryCache) GetStats() []*Stats {
	return []*Stats{
		{
			Stats:     q.TopCourses.GetStats(),
			CacheName: "top-courses",
			CacheType: q.TopCourses.GetType(),
		},
		{
			Stats:     q.ReviewSummary.GetStats(),
			CacheName: "review-summary",
			CacheType: q.ReviewSummary.GetType(),
		},
	}
}
