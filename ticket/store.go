package ticket

import (
	"context"
	"errors"
)

// =============================================================================
// STORE INTERFACE - Ticket persistence
// =============================================================================

var (
	// ErrTicketNotFound is returned when a referenced ticket doesn't exist.
	ErrTicketNotFound = errors.New("ticket not found")
)

// Store persists ticket records across their lifecycle. Implementations:
// ticket/store (in-memory, for tests and dev) and store/sqlite.
type Store interface {
	// CreatePending stores a new pending ticket, assigning its ID, and
	// returns the stored record.
	CreatePending(ctx context.Context, t Ticket) (Ticket, error)

	// Get returns a ticket by ID regardless of status.
	Get(ctx context.Context, id int64) (Ticket, error)

	// Update replaces a ticket record, typically to settle it.
	Update(ctx context.Context, t Ticket) error

	// ListPending returns all pending tickets ordered by ID.
	ListPending(ctx context.Context) ([]Ticket, error)

	// ListCompleted returns all completed tickets ordered by ID.
	ListCompleted(ctx context.Context) ([]Ticket, error)
}
