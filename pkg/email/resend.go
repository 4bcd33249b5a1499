package email

import (
	"bytes"
	"html/template"
	"time"

	"github.com/resendlabs/resend-go"
	"github.com/sefazor/cityevents-backend/internal/config"
	"go.uber.org/zap"
)

// Sender delivers transactional mail.
type Sender interface {
	SendWelcomeEmail(email string, name *string) error
}

type EmailService struct {
	client   *resend.Client
	from     string
	fromName string
	logger   *zap.Logger
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!doctype html>
<html>
  <body>
    <h1>Welcome{{if .Name}}, {{.Name}}{{end}}!</h1>
    <p>Your account {{.Email}} is ready. You can now rate events and publish your own.</p>
    <p>&copy; {{.Year}} {{.FromName}}</p>
  </body>
</html>`))

func NewEmailService(cfg config.EmailConfig, logger *zap.Logger) *EmailService {
	return &EmailService{
		client:   resend.NewClient(cfg.ResendAPIKey),
		from:     cfg.FromAddress,
		fromName: cfg.FromName,
		logger:   logger.Named("email"),
	}
}

func (s *EmailService) SendWelcomeEmail(email string, name *string) error {
	body, err := renderWelcome(s.fromName, email, name, time.Now())
	if err != nil {
		s.logger.Error("render welcome email", zap.String("to", email), zap.Error(err))
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{email},
		Subject: "Welcome to " + s.fromName,
		Html:    body,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Error("send welcome email", zap.String("to", email), zap.Error(err))
		return err
	}

	s.logger.Info("sent welcome email", zap.String("to", email), zap.String("id", resp.Id))
	return nil
}

func renderWelcome(fromName, email string, name *string, now time.Time) (string, error) {
	displayName := ""
	if name != nil {
		displayName = *name
	}

	var body bytes.Buffer
	err := welcomeTemplate.Execute(&body, map[string]interface{}{
		"Name":     displayName,
		"Email":    email,
		"Year":     now.Year(),
		"FromName": fromName,
	})
	if err != nil {
		return "", err
	}
	return body.String(), nil
}

// NopSender is used when no mail provider is configured.
type NopSender struct{}

func (NopSender) SendWelcomeEmail(string, *string) error { return nil }
