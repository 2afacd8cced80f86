// Package store defines the record provider port and the seed dataset
// shared by its adapters.
package store

import (
	"context"
	"errors"

	"expensemate/internal/core"
)

// ErrUnavailable is returned when a provider cannot be reached.
var ErrUnavailable = errors.New("record provider unavailable")

// Ports for outbound adapters.
type (
	// RecordLister returns every expense record in store order.
	RecordLister interface {
		ListRecords(ctx context.Context) ([]core.ExpenseRecord, error)
	}

	// Pinger is implemented by providers backed by a remote service.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)
