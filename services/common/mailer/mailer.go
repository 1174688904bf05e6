package mailer

import (
	"context"
	"fmt"
	"strings"

	awspkg "github.com/shopswift/commerce-backend/pkg/aws"
)

// Mailer delivers one HTML message. category tags the mail for the
// provider's analytics ("Password Reset").
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, category string) error
}

// Config selects the transport. Transport is "smtp" or "sqs".
type Config struct {
	Transport string
	SMTP      SMTPConfig
	QueueURL  string
}

// New builds the mailer named by cfg.Transport. sqs may be nil unless the
// transport is "sqs".
func New(cfg Config, sqs awspkg.SQSSender) (Mailer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Transport)) {
	case "", "smtp":
		return NewSMTPMailer(cfg.SMTP)
	case "sqs":
		if sqs == nil {
			return nil, fmt.Errorf("sqs mail transport needs a queue client")
		}
		return NewSQSMailer(sqs), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Transport)
	}
}
