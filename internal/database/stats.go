package database

import (
	"context"

	"github.com/charmbracelet/log"
)

// Stats holds row counts of the StudyLync tables.
type Stats struct {
	Users          int64
	AssignedUsers  int64
	Courses        int64
	Locations      int64
	Sessions       int64
	ActiveSessions int64
	Reviews        int64
}

func (c *Client) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	db := c.db.WithContext(ctx)

	counts := []struct {
		model any
		where string
		args  []any
		dst   *int64
	}{
		{model: &User{}, dst: &stats.Users},
		{model: &User{}, where: "session_id IS NOT NULL", dst: &stats.AssignedUsers},
		{model: &Course{}, dst: &stats.Courses},
		{model: &Location{}, dst: &stats.Locations},
		{model: &StudySession{}, dst: &stats.Sessions},
		{model: &StudySession{}, where: "status = ?", args: []any{SessionStatusActive}, dst: &stats.ActiveSessions},
		{model: &Review{}, dst: &stats.Reviews},
	}

	for _, cnt := range counts {
		query := db.Model(cnt.model)
		if cnt.where != "" {
			query = query.Where(cnt.where, cnt.args...)
		}
		if err := query.Count(cnt.dst).Error; err != nil {
			log.Error("failed to count rows", "error", err)
			return nil, err
		}
	}

	return &stats, nil
}
