package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const contactEmailTimeout = 10 * time.Second

// ContactMessage is a visitor's submission from the public contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// BuildContactEmail addresses msg to recipient with the visitor as reply-to.
func BuildContactEmail(clubName, recipient string, msg ContactMessage, received time.Time) Message {
	clubName = strings.TrimSpace(clubName)
	if clubName == "" {
		clubName = "the club"
	}
	topic := strings.TrimSpace(msg.Subject)
	if topic == "" {
		topic = "General enquiry"
	}

	lines := []string{
		fmt.Sprintf("New message from the %s contact form.", clubName),
		"",
		fmt.Sprintf("Name: %s", strings.TrimSpace(msg.Name)),
		fmt.Sprintf("Email: %s", strings.TrimSpace(msg.Email)),
	}
	if phone := strings.TrimSpace(msg.Phone); phone != "" {
		lines = append(lines, fmt.Sprintf("Phone: %s", phone))
	}
	lines = append(lines,
		fmt.Sprintf("Topic: %s", topic),
		fmt.Sprintf("Received: %s", received.UTC().Format(time.RFC1123)),
		"",
		strings.TrimSpace(msg.Message),
	)

	return Message{
		To:      recipient,
		ReplyTo: strings.TrimSpace(msg.Email),
		Subject: fmt.Sprintf("[%s] %s", clubName, topic),
		Body:    strings.Join(lines, "\n"),
	}
}

// SendAsync delivers msg in the background. The send outlives the request
// that triggered it but is bounded by its own timeout. done, if not nil, is
// closed once the attempt finishes.
func SendAsync(ctx context.Context, sender EmailSender, msg Message, logger *zerolog.Logger, done chan<- struct{}) {
	if sender == nil || msg.Subject == "" || msg.Body == "" {
		if done != nil {
			close(done)
		}
		return
	}

	go func() {
		if done != nil {
			defer close(done)
		}
		sendCtx, cancel := detachedContext(ctx, contactEmailTimeout)
		defer cancel()
		if err := sender.Send(sendCtx, msg); err != nil {
			if logger != nil {
				logger.Error().Err(err).Str("subject", msg.Subject).Msg("Failed to send email")
			}
			return
		}
		if logger != nil {
			logger.Info().Str("subject", msg.Subject).Msg("Email sent")
		}
	}()
}

// detachedContext keeps ctx's values but not its cancellation.
func detachedContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}
