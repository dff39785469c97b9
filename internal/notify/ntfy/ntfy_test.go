package ntfy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/studylync/studylync/internal/config"
	"github.com/studylync/studylync/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCreated(t *testing.T) {
	var (
		got  Message
		auth string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(&config.NtfyConfig{ServerURL: srv.URL, Topic: "campus", Token: "tk"}, "https://studylync.example.com")
	err := c.SessionCreated(context.Background(), database.SessionView{
		CourseTitle:  "CS411",
		CourseName:   "Database Systems",
		LocationName: "Grainger",
		Description:  "bring laptops",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tk", auth)
	assert.Equal(t, "campus", got.Topic)
	assert.Equal(t, "New study session", got.Title)
	assert.Contains(t, got.Message, "CS411 (Database Systems)")
	assert.Contains(t, got.Message, "Grainger")
	assert.Contains(t, got.Message, "bring laptops")
	assert.Equal(t, "https://studylync.example.com", got.Click)
}

func TestSessionCancelled_BasicAuth(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "u", user)
		assert.Equal(t, "p", pass)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	c := NewClient(&config.NtfyConfig{ServerURL: srv.URL, Topic: "campus", Username: "u", Password: "p"}, "")
	err := c.SessionCancelled(context.Background(), database.SessionView{CourseTitle: "CS225"}, []database.User{{NetID: "a"}, {NetID: "b"}})
	require.NoError(t, err)
	assert.Contains(t, got.Message, "Participants removed:** 2")
}

func TestSendMessage_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic not allowed", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(&config.NtfyConfig{ServerURL: srv.URL, Topic: "campus"}, "")
	err := c.SendMessage(context.Background(), Message{Title: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "topic not allowed")
}
