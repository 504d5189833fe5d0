// Package store provides ticket.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/parking-engine/ticket"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	tickets map[int64]ticket.Ticket
	nextID  int64
}

func NewMemory() *Memory {
	return &Memory{tickets: make(map[int64]ticket.Ticket), nextID: 1}
}

// CreatePending stores a new pending ticket and assigns the next ID.
func (m *Memory) CreatePending(_ context.Context, t ticket.Ticket) (ticket.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t.ID = m.nextID
	m.nextID++
	t.Status = ticket.StatusPending
	m.tickets[t.ID] = t
	return t, nil
}

// Get returns a ticket by ID.
func (m *Memory) Get(_ context.Context, id int64) (ticket.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tickets[id]
	if !ok {
		return ticket.Ticket{}, ticket.ErrTicketNotFound
	}
	return t, nil
}

// Update replaces an existing ticket record.
func (m *Memory) Update(_ context.Context, t ticket.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tickets[t.ID]; !ok {
		return ticket.ErrTicketNotFound
	}
	m.tickets[t.ID] = t
	return nil
}

// ListPending returns all pending tickets ordered by ID.
func (m *Memory) ListPending(ctx context.Context) ([]ticket.Ticket, error) {
	return m.listByStatus(ticket.StatusPending), nil
}

// ListCompleted returns all completed tickets ordered by ID.
func (m *Memory) ListCompleted(ctx context.Context) ([]ticket.Ticket, error) {
	return m.listByStatus(ticket.StatusCompleted), nil
}

func (m *Memory) listByStatus(status ticket.Status) []ticket.Ticket {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ticket.Ticket
	for _, t := range m.tickets {
		if t.Status == status {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Compile-time check that Memory implements ticket.Store.
var _ ticket.Store = (*Memory)(nil)
