package cache

import (
	"context"
	"testing"

	"github.com/studylync/studylync/internal/config"
	"github.com/studylync/studylync/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixedCache_MemoryStore(t *testing.T) {
	ctx := context.Background()
	qc := NewQueryCache(&config.CacheConfig{Type: config.CacheTypeMemory, TTL: 60})

	_, err := qc.TopCourses.Get(ctx, 3)
	require.Error(t, err)

	rows := []database.CourseAttendance{
		{CourseTitle: "CS225", CourseName: "Data Structures", StudentCount: 4},
		{CourseTitle: "CS411", CourseName: "Database Systems", StudentCount: 1},
	}
	require.NoError(t, qc.TopCourses.Set(ctx, 3, rows))

	got, err := qc.TopCourses.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	// different key, same store
	_, err = qc.TopCourses.Get(ctx, 5)
	assert.Error(t, err)

	qc.InvalidateTopCourses(ctx, 3)
	_, err = qc.TopCourses.Get(ctx, 3)
	assert.Error(t, err)
}

func TestQueryCache_SeparateStores(t *testing.T) {
	ctx := context.Background()
	qc := NewQueryCache(&config.CacheConfig{Type: config.CacheTypeMemory})

	require.NoError(t, qc.ReviewSummary.Set(ctx, 3, ReviewSummary{AverageRating: 4.5}))
	qc.InvalidateTopCourses(ctx, 3)

	got, err := qc.ReviewSummary.Get(ctx, 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, got.AverageRating, 1e-9)

	qc.InvalidateReviewSummary(ctx, 3)
	_, err = qc.ReviewSummary.Get(ctx, 3)
	assert.Error(t, err)

	stats := qc.GetStats()
	require.Len(t, stats, 2)
	assert.Equal(t, "top-courses", stats[0].CacheName)
	assert.Equal(t, "review-summary", stats[1].CacheName)
	assert.Equal(t, "go-cache", stats[0].CacheType)
}
