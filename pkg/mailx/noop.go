package mailx

import (
	"context"
	"log/slog"
)

// LogSender is a Sender that only logs. Used in dev and tests where no SMTP
// relay is configured; the code or link still shows up in the service logs.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(_ context.Context, email Email) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("mail suppressed (no SMTP configured)",
		"to", email.To,
		"subject", email.Subject,
		"body", email.Body,
	)
	return nil
}
