package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/studylync/studylync/internal/database"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	created   int
	cancelled int
	err       error
}

func (r *recorder) SessionCreated(context.Context, database.SessionView) error {
	r.created++
	return r.err
}

func (r *recorder) SessionCancelled(context.Context, database.SessionView, []database.User) error {
	r.cancelled++
	return r.err
}

func TestMulti(t *testing.T) {
	ok := &recorder{}
	failing := &recorder{err: errors.New("smtp down")}
	m := Multi{failing, ok, Noop{}}

	err := m.SessionCreated(context.Background(), database.SessionView{ID: 1})
	assert.ErrorIs(t, err, failing.err)

	err = m.SessionCancelled(context.Background(), database.SessionView{ID: 1}, nil)
	assert.Error(t, err)

	// a failing notifier does not stop the others
	assert.Equal(t, 1, ok.created)
	assert.Equal(t, 1, ok.cancelled)
}

func TestMulti_Empty(t *testing.T) {
	assert.NoError(t, Multi{}.SessionCreated(context.Background(), database.SessionView{}))
}
