// Package queue defines the email event payload and runs the background
// consumer that hands each event to the SMTP sender.
package queue

// Email template kinds understood by the consumer.
const (
	TemplateVerifyEmail   = "verify-email"
	TemplateResetPassword = "reset-password"
	TemplateWelcome       = "welcome"
)

// EmailRequestedEvent is published whenever the service wants an email
// delivered. Dispatch is fire-and-forget from the publisher's point of
// view: the consumer owns retries and delivery, and a failed publish is
// only logged, never surfaced to the request that triggered it.
type EmailRequestedEvent struct {
	To          string            `json:"to"`
	Name        string            `json:"name"`
	Template    string            `json:"template"`
	Data        map[string]string `json:"data"`
	RequestedAt string            `json:"requested_at"`
}
