package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/charmbracelet/log"
	"github.com/studylync/studylync/internal/config"
	"github.com/studylync/studylync/internal/database"
	mail "github.com/xhit/go-simple-mail/v2"
)

// NotificationService sends emails to participants of cancelled study sessions.
type NotificationService struct {
	config    *config.EmailConfig
	serverURL string
}

// Cancellation contains the data for a single cancellation email.
type Cancellation struct {
	UserEmail    string
	FirstName    string
	CourseTitle  string
	CourseName   string
	LocationName string
	Description  string
	StudyLyncURL string
}

// New creates a new email notification service.
func New(cfg *config.EmailConfig, serverURL string) *NotificationService {
	return &NotificationService{
		config:    cfg,
		serverURL: serverURL,
	}
}

// SessionCreated doesn't send any email.
func (n *NotificationService) SessionCreated(context.Context, database.SessionView) error {
	return nil
}

// SessionCancelled sends every former participant an email about the cancelled session.
func (n *NotificationService) SessionCancelled(_ context.Context, session database.SessionView, participants []database.User) error {
	if n.config == nil || !n.config.Enabled {
		log.Debug("Email notifications are disabled, skipping notification")
		return nil
	}

	var errs []error
	for _, p := range participants {
		if p.Email == "" {
			log.Warn("User email is empty, skipping notification", "user", p.NetID)
			continue
		}
		errs = append(errs, n.sendCancellation(Cancellation{
			UserEmail:    p.Email,
			FirstName:    p.FirstName,
			CourseTitle:  session.CourseTitle,
			CourseName:   session.CourseName,
			LocationName: session.LocationName,
			Description:  session.Description,
			StudyLyncURL: n.serverURL,
		}))
	}
	return errors.Join(errs...)
}

func (n *NotificationService) sendCancellation(c Cancellation) error {
	body, err := generateEmailBody(c)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}
	subject := fmt.Sprintf("[StudyLync] Study session for %s cancelled", c.CourseTitle)
	return n.sendEmail(c.UserEmail, subject, body)
}

//go:embed templates/*.html
var templatesFS embed.FS

// generateEmailBody creates the HTML email body.
func generateEmailBody(c Cancellation) (string, error) {
	t, err := template.New("").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "session_cancelled.html", c); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// sendEmail sends an email using go-simple-mail library.
func (n *NotificationService) sendEmail(to, subject, body string) error {
	server := mail.NewSMTPClient()
	server.Host = n.config.SMTPHost
	server.Port = n.config.SMTPPort
	server.Username = n.config.Username
	server.Password = n.config.Password

	switch {
	case n.config.UseSSL:
		server.Encryption = mail.EncryptionSSLTLS
	case n.config.UseTLS:
		server.Encryption = mail.EncryptionSTARTTLS
	default:
		server.Encryption = mail.EncryptionNone
	}

	if n.config.InsecureSkipVerify {
		server.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	server.KeepAlive = false
	server.ConnectTimeout = 10 * time.Second
	server.SendTimeout = 10 * time.Second

	smtpClient, err := server.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() {
		if closeErr := smtpClient.Close(); closeErr != nil {
			log.Warn("Failed to close SMTP client", "error", closeErr)
		}
	}()

	fromName := n.config.FromName
	if fromName == "" {
		fromName = "StudyLync"
	}

	email := mail.NewMSG()
	email.SetFrom(fmt.Sprintf("%s <%s>", fromName, n.config.FromEmail))
	email.AddTo(to)
	email.SetSubject(subject)
	email.SetBody(mail.TextHTML, body)

	if err := email.Send(smtpClient); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info("Email notification sent", "to", to, "subject", subject)
	return nil
}
