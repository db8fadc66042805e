// Package counter provides the durable visit counter behind the HTTP handler.
//
// Every implementation is bound to one record at construction and relies on
// its backing store for atomicity. None of them keeps the count in process
// memory except MemoryCounter, whose cache is the store.
package counter

import (
	"context"
	"errors"
	"fmt"
)

// DefaultKey names the single counter record.
const DefaultKey = "visits"

// ErrStore marks every failure of the backing store: connectivity,
// permission, throttling or a malformed record.
var ErrStore = errors.New("counter store failed")

type Counter interface {
	// Up increments the record by one and returns the new value.
	// An absent record counts as zero, so the first call returns 1.
	Up(ctx context.Context) (int64, error)
	// Get returns the current value without modifying it, 0 when absent.
	Get(ctx context.Context) (int64, error)
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}
