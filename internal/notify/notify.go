// Package notify defines how study session events reach people outside the API.
package notify

import (
	"context"
	"errors"

	"github.com/studylync/studylync/internal/database"
)

// Notifier is informed about study session lifecycle events.
type Notifier interface {
	// SessionCreated is called after a study session was created.
	SessionCreated(ctx context.Context, session database.SessionView) error
	// SessionCancelled is called after a study session was deleted, with the users that were in it.
	SessionCancelled(ctx context.Context, session database.SessionView, participants []database.User) error
}

// Multi fans out every event to all of its notifiers.
type Multi []Notifier

func (m Multi) SessionCreated(ctx context.Context, session database.SessionView) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.SessionCreated(ctx, session))
	}
	return errors.Join(errs...)
}

func (m Multi) SessionCancelled(ctx context.Context, session database.SessionView, participants []database.User) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.SessionCancelled(ctx, session, participants))
	}
	return errors.Join(errs...)
}

// Noop discards every event.
type Noop struct{}

func (Noop) SessionCreated(context.Context, database.SessionView) error { return nil }

func (Noop) SessionCancelled(context.Context, database.SessionView, []database.User) error {
	return nil
}
