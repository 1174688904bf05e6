package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	awspkg "github.com/shopswift/commerce-backend/pkg/aws"
)

// EmailMessage is the job notification-service consumes from the mail queue.
type EmailMessage struct {
	EventType   string    `json:"event_type"`
	Recipient   string    `json:"recipient"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	Category    string    `json:"category,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// SQSMailer hands mail to notification-service through a queue.
type SQSMailer struct {
	queue awspkg.SQSSender
	now   func() time.Time
}

func NewSQSMailer(queue awspkg.SQSSender) *SQSMailer {
	return &SQSMailer{queue: queue, now: time.Now}
}

func (m *SQSMailer) Send(ctx context.Context, to, subject, htmlBody, category string) error {
	body, err := json.Marshal(EmailMessage{
		EventType:   "email.send",
		Recipient:   to,
		Subject:     subject,
		Body:        htmlBody,
		Category:    category,
		RequestedAt: m.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email message: %w", err)
	}

	attrs := map[string]string{"event_type": "email.send"}
	if category != "" {
		attrs["category"] = category
	}
	if err := m.queue.SendMessage(ctx, string(body), attrs); err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}
	return nil
}
