// Package membership manages who takes part in which study session.
// A user is in at most one session at a time.
package membership

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/studylync/studylync/internal/config"
	"github.com/studylync/studylync/internal/database"
	"github.com/studylync/studylync/internal/notify"
	"github.com/studylync/studylync/internal/query"
)

var ErrInvalidStatus = errors.New("invalid study session status")

// notifyTimeout bounds a single background notification, mail goes out one participant at a time.
const notifyTimeout = 2 * time.Minute

// CreateSessionInput describes a new study session.
// Location is created on the fly unless LocationID is set.
type CreateSessionInput struct {
	CourseTitle  string
	LocationID   *uint
	Location     *database.Location
	Status       database.SessionStatus
	Description  string
	CreatorNetID string
}

type Service struct {
	db       database.DB
	query    *query.Service
	notifier notify.Notifier
	pending  sync.WaitGroup

	notifyTimeout  time.Duration
	maxAge         time.Duration
	expireSchedule string
	now            func() time.Time
}

func New(db database.DB, q *query.Service, notifier notify.Notifier, cfg *config.Config) *Service {
	s := &Service{
		db:       db,
		query:    q,
		notifier: notifier,
		now:      time.Now,

		notifyTimeout: notifyTimeout,
	}
	if notifier == nil {
		s.notifier = notify.Noop{}
	}
	if cfg.Sessions != nil {
		s.maxAge = time.Duration(cfg.Sessions.MaxAge) * time.Hour
		s.expireSchedule = cfg.Sessions.ExpireSchedule
	}
	return s
}

// CreateSession creates a study session and, if a creator is given, makes them its first participant.
func (s *Service) CreateSession(ctx context.Context, in CreateSessionInput) (*database.SessionView, error) {
	if in.Status != "" && !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	session, err := s.db.CreateSession(ctx, database.CreateSessionParams{
		CourseTitle:  in.CourseTitle,
		LocationID:   in.LocationID,
		NewLocation:  in.Location,
		Status:       in.Status,
		Description:  in.Description,
		CreatorNetID: in.CreatorNetID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create study session: %w", err)
	}
	s.query.InvalidateAttendance(ctx)

	view, err := s.db.GetSession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	log.Info("Created study session", "id", view.ID, "course", view.CourseTitle, "creator", in.CreatorNetID)
	created := *view
	s.dispatch(ctx, "session created", view.ID, func(ctx context.Context) error {
		return s.notifier.SessionCreated(ctx, created)
	})
	return view, nil
}

// JoinSession adds the user to the session and returns the session with its participants.
func (s *Service) JoinSession(ctx context.Context, netID string, sessionID uint) (*query.SessionDetail, error) {
	if err := s.db.JoinSession(ctx, netID, sessionID); err != nil {
		return nil, fmt.Errorf("failed to join study session: %w", err)
	}
	s.query.InvalidateAttendance(ctx)
	log.Debug("User joined study session", "user", netID, "session", sessionID)

	return s.query.Session(ctx, sessionID)
}

// LeaveSession removes the user from the session they are in.
func (s *Service) LeaveSession(ctx context.Context, netID string, sessionID uint) error {
	if err := s.db.LeaveSession(ctx, netID, sessionID); err != nil {
		return fmt.Errorf("failed to leave study session: %w", err)
	}
	s.query.InvalidateAttendance(ctx)
	log.Debug("User left study session", "user", netID, "session", sessionID)
	return nil
}

// DeleteSession removes the session, detaches everyone in it and notifies them.
func (s *Service) DeleteSession(ctx context.Context, sessionID uint) error {
	view, err := s.db.GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete study session: %w", err)
	}

	participants, err := s.db.DeleteSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete study session: %w", err)
	}
	s.query.InvalidateAttendance(ctx)
	s.query.InvalidateReviews(ctx)

	log.Info("Deleted study session", "id", sessionID, "participants", len(participants))
	s.dispatch(ctx, "session cancelled", sessionID, func(ctx context.Context) error {
		return s.notifier.SessionCancelled(ctx, *view, participants)
	})
	return nil
}

// ExpireSessions deletes every session older than the configured maximum age.
func (s *Service) ExpireSessions(ctx context.Context) (int, error) {
	if s.maxAge <= 0 {
		return 0, nil
	}

	sessions, err := s.db.GetSessionsCreatedBefore(ctx, s.now().Add(-s.maxAge))
	if err != nil {
		return 0, fmt.Errorf("failed to get expired study sessions: %w", err)
	}

	var expired int
	for _, session := range sessions {
		if err := ctx.Err(); err != nil {
			return expired, err
		}
		if err := s.DeleteSession(ctx, session.ID); err != nil {
			if errors.Is(err, database.ErrSessionNotFound) {
				continue
			}
			return expired, err
		}
		expired++
	}
	return expired, nil
}

// dispatch sends a notification in the background. It keeps the values of ctx
// but not its cancellation, a finished request must not abort the delivery.
func (s *Service) dispatch(ctx context.Context, event string, sessionID uint, send func(context.Context) error) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			log.Error("failed to send notification", "event", event, "id", sessionID, "error", err)
		}
	}()
}

// Wait blocks until all notifications sent so far are delivered or have failed.
func (s *Service) Wait() {
	s.pending.Wait()
}
