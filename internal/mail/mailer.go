// Package mail delivers templated emails over SMTP. It runs inside the
// queue consumer, never inside a request: the HTTP layer only ever
// publishes email events and moves on.
package mail

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/roomhive/room-rental-api/internal/queue"
)

// Sender delivers a rendered email template to a recipient.
type Sender interface {
	Send(ev queue.EmailRequestedEvent) error
}

// SMTPSender sends mail through a plain SMTP relay. Credentials come
// from environment variables so the consumer can run without a config
// file, matching how the broker URL is resolved.
type SMTPSender struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	BaseURL  string // public base URL used in action links
}

// NewSMTPSenderFromEnv builds a sender from SMTP_HOST, SMTP_PORT,
// SMTP_USERNAME, SMTP_PASSWORD, SMTP_FROM and PUBLIC_BASE_URL.
func NewSMTPSenderFromEnv() *SMTPSender {
	s := &SMTPSender{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
		BaseURL:  os.Getenv("PUBLIC_BASE_URL"),
	}
	if s.Port == "" {
		s.Port = "587"
	}
	if s.BaseURL == "" {
		s.BaseURL = "http://localhost:8080"
	}
	return s
}

// Send renders the event's template and delivers it. Unknown template
// kinds are an error so poison messages get rejected by the consumer
// instead of silently acked.
func (s *SMTPSender) Send(ev queue.EmailRequestedEvent) error {
	subject, body, err := s.render(ev)
	if err != nil {
		return err
	}
	msg := strings.Join([]string{
		"From: " + s.From,
		"To: " + ev.To,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	addr := s.Host + ":" + s.Port
	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}
	return smtp.SendMail(addr, auth, s.From, []string{ev.To}, []byte(msg))
}

func (s *SMTPSender) render(ev queue.EmailRequestedEvent) (subject, body string, err error) {
	switch ev.Template {
	case queue.TemplateVerifyEmail:
		link := fmt.Sprintf("%s/v1/auth/verify-email?token=%s", s.BaseURL, ev.Data["token"])
		return "Verify your email",
			fmt.Sprintf("Hi %s,\n\nWelcome to RoomHive. Please verify your email within the next hour:\n\n%s\n\nIf you did not sign up, ignore this message.\n", ev.Name, link),
			nil
	case queue.TemplateResetPassword:
		link := fmt.Sprintf("%s/reset-password?token=%s", s.BaseURL, ev.Data["token"])
		return "Reset your password",
			fmt.Sprintf("Hi %s,\n\nA password reset was requested for your account. The link below is valid for one hour:\n\n%s\n\nIf you did not request this, ignore this message.\n", ev.Name, link),
			nil
	case queue.TemplateWelcome:
		return "Welcome to RoomHive",
			fmt.Sprintf("Hi %s,\n\nYour email is verified and your account is ready.\n", ev.Name),
			nil
	}
	return "", "", fmt.Errorf("unknown email template %q", ev.Template)
}
