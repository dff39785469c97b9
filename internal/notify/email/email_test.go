package email

import (
	"context"
	"testing"

	"github.com/studylync/studylync/internal/config"
	"github.com/studylync/studylync/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateEmailBody(t *testing.T) {
	body, err := generateEmailBody(Cancellation{
		FirstName:    "Alice",
		CourseTitle:  "CS411",
		CourseName:   "Database Systems",
		LocationName: "Grainger Library",
		Description:  "midterm <prep>",
		StudyLyncURL: "https://studylync.example.com",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Hi Alice,")
	assert.Contains(t, body, "CS411 (Database Systems)")
	assert.Contains(t, body, "Grainger Library")
	assert.Contains(t, body, "midterm &lt;prep&gt;")
	assert.Contains(t, body, `href="https://studylync.example.com"`)
}

func TestGenerateEmailBody_Minimal(t *testing.T) {
	body, err := generateEmailBody(Cancellation{FirstName: "Bob", CourseTitle: "CS225"})
	require.NoError(t, err)

	assert.Contains(t, body, "<strong>CS225</strong>")
	assert.NotContains(t, body, "Find a new study session")
}

func TestSessionCancelled_Disabled(t *testing.T) {
	n := New(&config.EmailConfig{Enabled: false}, "")
	err := n.SessionCancelled(context.Background(), database.SessionView{CourseTitle: "CS411"}, []database.User{
		{NetID: "alice", Email: "alice@illinois.edu"},
	})
	assert.NoError(t, err)
}

func TestSessionCancelled_SkipsEmptyEmail(t *testing.T) {
	// no SMTP server is contacted when nobody has an address
	n := New(&config.EmailConfig{Enabled: true, SMTPHost: "localhost", SMTPPort: 1}, "")
	err := n.SessionCancelled(context.Background(), database.SessionView{}, []database.User{{NetID: "alice"}})
	assert.NoError(t, err)
}
