package email

import "context"

// Message is a plain-text email to a single recipient.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// EmailSender provides a testable abstraction over SES delivery.
type EmailSender interface {
	Send(ctx context.Context, msg Message) error
}
