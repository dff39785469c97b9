package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "listen: 127.0.0.1:8080\n"))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, DatabaseDriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "./data/studylync.db", cfg.Database.Path)
	assert.Equal(t, 10, cfg.Database.ConnectTimeout)
	assert.Equal(t, CacheTypeMemory, cfg.Cache.Type)
	assert.Equal(t, 300, cfg.Cache.GetCacheTTL())
	assert.Equal(t, 12, cfg.Sessions.MaxAge)
	assert.Equal(t, 3, cfg.GetTopCourses())
	assert.Equal(t, 3, cfg.GetRecentReviews())
	assert.False(t, cfg.Email.Enabled)
	assert.False(t, cfg.Ntfy.Enabled)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("STUDYLYNC_STATS_TOP_COURSES", "5")
	t.Setenv("STUDYLYNC_DATABASE_PATH", "/tmp/other.db")

	cfg, err := Load(writeConfig(t, "log_level: DEBUG\nserver_url: http://example.com/\n"))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.GetTopCourses())
	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "http://example.com", cfg.ServerURL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "postgres without dsn",
			content: "database:\n  driver: postgres\n",
			errMsg:  "database DSN is required",
		},
		{
			name:    "unknown driver",
			content: "database:\n  driver: mysql\n",
			errMsg:  "unsupported database driver",
		},
		{
			name:    "redis without url",
			content: "cache:\n  type: redis\n",
			errMsg:  "Redis URL is required",
		},
		{
			name:    "bad cron",
			content: "sessions:\n  max_age: 4\n  expire_schedule: every minute\n",
			errMsg:  "valid cron expression",
		},
		{
			name:    "email without host",
			content: "email:\n  enabled: true\n  from_email: a@b.c\n",
			errMsg:  "SMTP host is required",
		},
		{
			name:    "ntfy without topic",
			content: "ntfy:\n  enabled: true\n  topic: \"\"\n",
			errMsg:  "ntfy topic is required",
		},
		{
			name:    "negative stats",
			content: "stats:\n  top_courses: -1\n",
			errMsg:  "top courses must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_ExpiryDisabledSkipsSchedule(t *testing.T) {
	cfg, err := Load(writeConfig(t, "sessions:\n  max_age: 0\n  expire_schedule: nonsense\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Sessions.MaxAge)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	assert.Error(t, err)
}
