package notify

import (
	"context"
	"log/slog"
)

// LogNotifier delivers notifications as structured log events.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier writing to the default logger.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: slog.Default()}
}

// NewLogNotifierWithLogger creates a LogNotifier writing to logger.
func NewLogNotifierWithLogger(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs the notification at warn level.
func (l *LogNotifier) Send(ctx context.Context, notification Notification) error {
	l.logger.WarnContext(ctx, "notification",
		"subject", notification.Subject,
		"body", notification.Body,
	)
	return nil
}
