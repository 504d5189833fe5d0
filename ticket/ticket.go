// Package ticket implements the parking ticket lifecycle around the tariff
// engine: pending tickets opened at entry, checkout against an exit time,
// lost-ticket reporting, and receipt rendering for completed tickets.
package ticket

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/parking-engine/tariff"
)

// =============================================================================
// TICKET RECORD
// =============================================================================

// Status is the lifecycle state of a ticket.
type Status string

const (
	StatusPending   Status = "pending"   // car is in the facility
	StatusCompleted Status = "completed" // fee settled (checkout or lost ticket)
)

// Ticket is the persisted record for one parking stay. The fee engine
// treats these purely as input fields; Total is a convenience stamp and
// receipts recompute the breakdown from the other fields rather than
// trusting it.
type Ticket struct {
	ID              int64                   `json:"ticket_id"`
	Zone            tariff.Zone             `json:"zone"`
	MemberTier      tariff.Tier             `json:"member_tier"`
	EntryTime       string                  `json:"entry_time"`
	DayType         tariff.DayType          `json:"day_type"`
	Validation      *tariff.ValidationClaim `json:"validation"`
	LostTicket      bool                    `json:"lost_ticket"`
	ExitTime        string                  `json:"exit_time,omitempty"`
	DurationMinutes *int                    `json:"duration_minutes,omitempty"`
	Total           decimal.Decimal         `json:"total"`
	Status          Status                  `json:"status"`
}

// Context assembles the fee computation input for this ticket. A lost
// ticket carries a zero duration; the engine ignores it anyway.
func (t Ticket) Context() tariff.TicketContext {
	minutes := 0
	if t.DurationMinutes != nil {
		minutes = *t.DurationMinutes
	}
	return tariff.TicketContext{
		Zone:            t.Zone,
		DayType:         t.DayType,
		Tier:            t.MemberTier,
		DurationMinutes: &minutes,
		Validation:      t.Validation,
		LostTicket:      t.LostTicket,
		EntryAt:         t.EntryTime,
		ExitAt:          t.ExitTime,
	}
}

// Fee recomputes the itemized breakdown for this ticket.
func (t Ticket) Fee(table *tariff.PolicyTable) tariff.FeeBreakdown {
	return tariff.ComputeFee(t.Context(), table)
}

// =============================================================================
// LIFECYCLE ERRORS
// =============================================================================

var (
	// ErrExitBeforeEntry is returned when a checkout exit time precedes
	// the recorded entry time.
	ErrExitBeforeEntry = errors.New("exit time cannot be earlier than entry time")

	// ErrBadTimestamp is returned when an entry/exit timestamp cannot be
	// parsed as ISO-8601 local time.
	ErrBadTimestamp = errors.New("invalid timestamp")

	// ErrAlreadyCompleted is returned when trying to settle a ticket twice.
	ErrAlreadyCompleted = errors.New("ticket already completed")
)

// =============================================================================
// LIFECYCLE OPERATIONS
// =============================================================================

// timeLayouts mirror the timestamp forms the tariff engine accepts.
var timeLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05"}

// Duration computes the whole-minute stay length between two local
// timestamps, rounded down. Unlike the lenient engine, this is boundary
// code: malformed or out-of-order timestamps are rejected.
func Duration(entryAt, exitAt string) (int, error) {
	entry, err := parseLocal(entryAt)
	if err != nil {
		return 0, fmt.Errorf("entry time: %w", err)
	}
	exit, err := parseLocal(exitAt)
	if err != nil {
		return 0, fmt.Errorf("exit time: %w", err)
	}
	if exit.Before(entry) {
		return 0, ErrExitBeforeEntry
	}
	return int(exit.Sub(entry) / time.Minute), nil
}

// ValidTimestamp reports whether s parses as an accepted local timestamp.
func ValidTimestamp(s string) bool {
	_, err := parseLocal(s)
	return err == nil
}

func parseLocal(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, s)
}

// Checkout settles a pending ticket against an exit time: derives the
// duration, computes the fee, and returns the completed ticket together
// with its breakdown. The input ticket is not mutated.
func Checkout(t Ticket, exitAt string, table *tariff.PolicyTable) (Ticket, tariff.FeeBreakdown, error) {
	if t.Status == StatusCompleted {
		return t, tariff.FeeBreakdown{}, ErrAlreadyCompleted
	}

	minutes, err := Duration(t.EntryTime, exitAt)
	if err != nil {
		return t, tariff.FeeBreakdown{}, err
	}

	t.ExitTime = exitAt
	t.DurationMinutes = &minutes
	t.Status = StatusCompleted

	fee := t.Fee(table)
	t.Total = fee.Total
	return t, fee, nil
}

// ReportLost settles a pending ticket as lost: the fee collapses to the
// flat lost-ticket penalty for the ticket's zone and tier.
func ReportLost(t Ticket, table *tariff.PolicyTable) (Ticket, tariff.FeeBreakdown, error) {
	if t.Status == StatusCompleted {
		return t, tariff.FeeBreakdown{}, ErrAlreadyCompleted
	}

	t.LostTicket = true
	t.ExitTime = ""
	t.DurationMinutes = nil
	t.Status = StatusCompleted

	fee := t.Fee(table)
	t.Total = fee.Total
	return t, fee, nil
}
