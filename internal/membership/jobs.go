package membership

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
	"github.com/studylync/studylync/internal/scheduler"
)

const ExpireSessionsJobID = "expire-sessions"

// RegisterJobs adds the session housekeeping jobs to the scheduler.
func (s *Service) RegisterJobs(sched *scheduler.Scheduler) error {
	if s.maxAge <= 0 {
		log.Info("Session expiry is disabled")
		return nil
	}

	return sched.AddSingletonJob(
		ExpireSessionsJobID,
		"Expire study sessions",
		s.expireSchedule,
		gocron.CronJob(s.expireSchedule, false),
		func(ctx context.Context) error {
			n, err := s.ExpireSessions(ctx)
			if n > 0 {
				log.Info("Expired study sessions", "count", n)
			}
			return err
		},
	)
}
