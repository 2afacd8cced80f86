package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"expensemate/internal/notify"
)

// NotificationLog persists delivered notifications.
type NotificationLog interface {
	RecordNotification(ctx context.Context, n notify.Notification, receivedAt time.Time) error
	RecentNotifications(ctx context.Context, limit int) ([]notify.Notification, error)
}

// Consumer delivers notifications from the broker to a handler until ctx
// is cancelled.
type Consumer interface {
	ConsumeWithReconnect(ctx context.Context, handler func(context.Context, notify.Notification) error) error
}

// NotificationWorker records every notification published by the web
// process into the notification log.
type NotificationWorker struct {
	log    NotificationLog
	logger *slog.Logger
	now    func() time.Time
}

func NewNotificationWorker(log NotificationLog, logger *slog.Logger) *NotificationWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationWorker{
		log:    log,
		logger: logger,
		now:    time.Now,
	}
}

// HandleNotification stores one notification. Redeliveries of the same ID
// are absorbed by the log.
func (w *NotificationWorker) HandleNotification(ctx context.Context, n notify.Notification) error {
	w.logger.InfoContext(ctx, "Processing notification",
		"notification_id", n.ID,
		"severity", n.Severity.String(),
		"action", n.Action)

	if err := w.log.RecordNotification(ctx, n, w.now().UTC()); err != nil {
		return fmt.Errorf("record notification %s: %w", n.ID, err)
	}
	return nil
}

// Run consumes until ctx is cancelled. Cancellation is a clean exit.
func (w *NotificationWorker) Run(ctx context.Context, consumer Consumer) error {
	w.logStartupSummary(ctx)

	err := consumer.ConsumeWithReconnect(ctx, w.HandleNotification)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("consume notifications: %w", err)
	}
	return nil
}

func (w *NotificationWorker) logStartupSummary(ctx context.Context) {
	recent, err := w.log.RecentNotifications(ctx, 5)
	if err != nil {
		w.logger.WarnContext(ctx, "Failed to read notification log", "error", err)
		return
	}
	for _, n := range recent {
		w.logger.DebugContext(ctx, "Recent notification",
			"notification_id", n.ID,
			"title", n.Title,
			"created_at", n.CreatedAt)
	}
	w.logger.InfoContext(ctx, "Notification log ready", "recent", len(recent))
}
