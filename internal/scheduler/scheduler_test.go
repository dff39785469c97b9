package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func TestRunJobNow(t *testing.T) {
	s := newTestScheduler(t)

	var runs atomic.Int32
	require.NoError(t, s.AddSingletonJob("expire", "Expire sessions", "every hour",
		gocron.DurationJob(time.Hour),
		func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	))
	s.Start()

	require.NoError(t, s.RunJobNow("expire"))
	assert.Eventually(t, func() bool {
		info, ok := s.GetJob("expire")
		return ok && info.Status == JobStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	info, _ := s.GetJob("expire")
	assert.Equal(t, 1, info.RunCount)
	assert.Equal(t, int32(1), runs.Load())
	assert.True(t, info.Singleton)
}

func TestRunJobNow_Failure(t *testing.T) {
	s := newTestScheduler(t)

	require.NoError(t, s.AddSingletonJob("broken", "Broken", "every hour",
		gocron.DurationJob(time.Hour),
		func(ctx context.Context) error { return errors.New("db locked") },
	))
	s.Start()

	require.NoError(t, s.RunJobNow("broken"))
	assert.Eventually(t, func() bool {
		info, _ := s.GetJob("broken")
		return info.Status == JobStatusFailed
	}, 2*time.Second, 10*time.Millisecond)

	info, _ := s.GetJob("broken")
	assert.Equal(t, 1, info.ErrorCount)
	assert.Equal(t, "db locked", info.LastError)
}

func TestDisabledJobIsSkipped(t *testing.T) {
	s := newTestScheduler(t)

	var runs atomic.Int32
	require.NoError(t, s.AddSingletonJob("expire", "Expire", "every hour",
		gocron.DurationJob(time.Hour),
		func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	))
	s.Start()

	require.NoError(t, s.SetJobEnabled("expire", false))
	require.NoError(t, s.RunJobNow("expire"))
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(0), runs.Load())
	info, _ := s.GetJob("expire")
	assert.Equal(t, JobStatusScheduled, info.Status)
}

func TestUnknownJob(t *testing.T) {
	s := newTestScheduler(t)

	assert.ErrorIs(t, s.RunJobNow("missing"), ErrJobNotFound)
	assert.ErrorIs(t, s.SetJobEnabled("missing", true), ErrJobNotFound)
	_, ok := s.GetJob("missing")
	assert.False(t, ok)
}

func TestGetJobs(t *testing.T) {
	s := newTestScheduler(t)
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.AddSingletonJob("b-job", "B", "every hour", gocron.DurationJob(time.Hour), noop))
	require.NoError(t, s.AddSingletonJob("a-job", "A", "every hour", gocron.DurationJob(time.Hour), noop))

	jobs := s.GetJobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "a-job", jobs[0].ID)
	assert.Equal(t, "b-job", jobs[1].ID)

	// snapshots are detached from the scheduler state
	jobs[0].Enabled = false
	info, _ := s.GetJob("a-job")
	assert.True(t, info.Enabled)
}
