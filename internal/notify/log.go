package notify

import (
	"context"

	applog "expensemate/internal/log"
)

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger *applog.Logger
}

func NewLogNotifier(logger *applog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.WithComponent(applog.ComponentNotify)}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) error {
	fields := applog.NewFields().
		WithNotification(n.ID, n.Title, n.Severity.String(), n.Action).
		ToSlice()
	l.logger.InfoContext(ctx, "Notification raised", fields...)
	return nil
}
