// Package notify carries user-facing notifications from the placeholder
// actions to whoever displays or records them.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidSeverity = errors.New("invalid severity")

type Severity uint8

const (
	SeverityInfo Severity = iota + 1
	SeveritySuccess
	SeverityWarning
	SeverityError
)

func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "info":
		return SeverityInfo, nil
	case "success":
		return SeveritySuccess, nil
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSeverity, s)
}

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// Duration is how long the toast stays on screen.
func (s Severity) Duration() time.Duration {
	if s == SeverityError || s == SeverityWarning {
		return 5 * time.Second
	}
	return 3 * time.Second
}

// Notification is a (title, message, severity) triple plus the action that
// raised it.
type Notification struct {
	ID        string
	Title     string
	Message   string
	Severity  Severity
	Action    string
	CreatedAt time.Time
}

func New(title, message string, severity Severity) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now().UTC(),
	}
}

// WithAction tags the notification with the UI action that produced it.
func (n Notification) WithAction(action string) Notification {
	n.Action = action
	return n
}

// NotImplemented is shown for every action the demo does not perform.
func NotImplemented(action string) Notification {
	return New("Feature not implemented", "This feature is not available in the demo version.", SeverityInfo).
		WithAction(action)
}

// ExpenseSubmitted acknowledges the new-expense form.
func ExpenseSubmitted() Notification {
	return New("Expense submitted", "Your expense has been submitted for approval.", SeveritySuccess).
		WithAction("submit")
}

// Notifier delivers notifications. Delivery is fire-and-forget; callers log
// errors and carry on.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// Multi fans a notification out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, notifier := range m {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
