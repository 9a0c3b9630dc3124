package notify

import (
	"context"
	"log/slog"
)

// LogDispatcher renders notifications and logs them instead of sending.
// It stands in for SMTP in development environments without a mail host.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Send(ctx context.Context, t Type, to string, data map[string]string) error {
	rendered, err := Render(t, data)
	if err != nil {
		return err
	}
	d.logger.InfoContext(ctx, "notification (log only)",
		"type", t, "to", to, "subject", rendered.Subject)
	return nil
}
