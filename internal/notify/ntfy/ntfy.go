package ntfy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/studylync/studylync/internal/config"
	"github.com/studylync/studylync/internal/database"
)

// Client represents a ntfy notification client.
type Client struct {
	serverURL  string
	topic      string
	username   string
	password   string
	token      string
	appURL     string
	httpClient *http.Client
}

// Message represents a ntfy message.
type Message struct {
	Topic    string   `json:"topic"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Priority int      `json:"priority,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Click    string   `json:"click,omitempty"`
}

// NewClient creates a new ntfy client. appURL is linked from every message.
func NewClient(cfg *config.NtfyConfig, appURL string) *Client {
	if cfg.ServerURL != "" {
		if _, err := url.Parse(cfg.ServerURL); err != nil {
			log.Error("Invalid ntfy server URL", "error", err)
		}
	}

	return &Client{
		serverURL: cfg.ServerURL,
		topic:     cfg.Topic,
		username:  cfg.Username,
		password:  cfg.Password,
		token:     cfg.Token,
		appURL:    appURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SendMessage publishes a message to the configured topic.
func (c *Client) SendMessage(ctx context.Context, msg Message) error {
	if c.topic != "" {
		msg.Topic = c.topic
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Markdown", "yes")

	// Token takes precedence over username/password
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else if c.username != "" && c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		if len(body) > 0 {
			return fmt.Errorf("ntfy server returned status %d: %s", resp.StatusCode, body)
		}
		return fmt.Errorf("ntfy server returned status %d", resp.StatusCode)
	}

	log.Debug("Sent ntfy notification", "topic", msg.Topic, "title", msg.Title)
	return nil
}

// SessionCreated announces a new study session.
func (c *Client) SessionCreated(ctx context.Context, session database.SessionView) error {
	var b strings.Builder
	fmt.Fprintf(&b, "📚 **Course:** %s", session.CourseTitle)
	if session.CourseName != "" {
		fmt.Fprintf(&b, " (%s)", session.CourseName)
	}
	fmt.Fprintf(&b, "\n📍 **Location:** %s\n", session.LocationName)
	if session.Description != "" {
		fmt.Fprintf(&b, "\n%s", session.Description)
	}

	return c.SendMessage(ctx, Message{
		Title:    "New study session",
		Message:  b.String(),
		Priority: 3,
		Tags:     []string{"books", "studylync", "session-created"},
		Click:    c.appURL,
	})
}

// SessionCancelled announces a deleted study session.
func (c *Client) SessionCancelled(ctx context.Context, session database.SessionView, participants []database.User) error {
	var b strings.Builder
	fmt.Fprintf(&b, "📚 **Course:** %s\n", session.CourseTitle)
	fmt.Fprintf(&b, "📍 **Location:** %s\n", session.LocationName)
	fmt.Fprintf(&b, "👥 **Participants removed:** %d", len(participants))

	return c.SendMessage(ctx, Message{
		Title:    "Study session cancelled",
		Message:  b.String(),
		Priority: 3,
		Tags:     []string{"x", "studylync", "session-cancelled"},
		Click:    c.appURL,
	})
}
