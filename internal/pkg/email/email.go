package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/hadir-app/hadir-backend/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// Sender abstracts the SMTP transport so the mailer can be tested.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer renders notification emails and sends them over SMTP.
type Mailer struct {
	cfg       config.SMTPConfig
	link      string
	sender    Sender
	templates *template.Template
	backoff   time.Duration
}

// NewMailer returns nil when SMTP is not configured.
func NewMailer(cfg config.SMTPConfig, frontendURL string) (*Mailer, error) {
	if cfg.Host == "" {
		slog.Warn("SMTP not configured, email notifications disabled")
		return nil, nil
	}
	return newMailer(cfg, frontendURL, gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password))
}

func newMailer(cfg config.SMTPConfig, frontendURL string, sender Sender) (*Mailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &Mailer{
		cfg:       cfg,
		link:      frontendURL,
		sender:    sender,
		templates: tmpl,
		backoff:   time.Second,
	}, nil
}

type notificationEmailData struct {
	Title   string
	Message string
	Link    string
	AppName string
}

// Send delivers one notification email. It retries with exponential backoff
// and gives up early when ctx is done.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	var html bytes.Buffer
	data := notificationEmailData{
		Title:   subject,
		Message: body,
		Link:    m.link,
		AppName: m.cfg.FromName,
	}
	if err := m.templates.ExecuteTemplate(&html, "notification.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.From, m.cfg.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	msg.AddAlternative("text/html", html.String())

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := m.sender.DialAndSend(msg)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			select {
			case <-time.After(m.backoff << (attempt - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
