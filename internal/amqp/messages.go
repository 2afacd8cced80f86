package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"expensemate/internal/notify"
)

// NotificationMessage is the wire form of a notification on the queue.
type NotificationMessage struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Action    string    `json:"action,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewNotificationMessage(n notify.Notification) *NotificationMessage {
	return &NotificationMessage{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Severity:  n.Severity.String(),
		Action:    n.Action,
		CreatedAt: n.CreatedAt,
	}
}

// ToJSON converts the message to JSON bytes
func (m *NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// Notification converts the message back to a domain notification.
func (m *NotificationMessage) Notification() (notify.Notification, error) {
	if m.ID == "" {
		return notify.Notification{}, fmt.Errorf("notification message without id")
	}
	sev, err := notify.ParseSeverity(m.Severity)
	if err != nil {
		return notify.Notification{}, err
	}
	return notify.Notification{
		ID:        m.ID,
		Title:     m.Title,
		Message:   m.Message,
		Severity:  sev,
		Action:    m.Action,
		CreatedAt: m.CreatedAt,
	}, nil
}

// NotificationMessageFromJSON parses and validates a queue payload.
func NotificationMessageFromJSON(data []byte) (notify.Notification, error) {
	var msg NotificationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return notify.Notification{}, err
	}
	return msg.Notification()
}
