/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  All monetary fields are rendered as fixed two-decimal strings ("4.00"),
  never JSON numbers, so clients are not exposed to float rounding.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/parking-engine/tariff"
	"github.com/warp/parking-engine/ticket"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ValidationDTO carries a retailer validation claim.
type ValidationDTO struct {
	Store string          `json:"store"`
	Spend decimal.Decimal `json:"spend"`
}

// QuoteRequest asks for a fee computation without touching any ticket.
type QuoteRequest struct {
	Zone            string         `json:"zone"`
	DayType         string         `json:"day_type"`
	MemberTier      string         `json:"member_tier"`
	DurationMinutes *int           `json:"duration_minutes"`
	Validation      *ValidationDTO `json:"validation,omitempty"`
	LostTicket      bool           `json:"lost_ticket,omitempty"`
	EntryAt         string         `json:"entry_at,omitempty"`
	ExitAt          string         `json:"exit_at,omitempty"`
}

// CreateTicketRequest opens a new pending ticket at entry.
type CreateTicketRequest struct {
	Zone       string         `json:"zone"`
	MemberTier string         `json:"member_tier"`
	DayType    string         `json:"day_type"`
	EntryTime  string         `json:"entry_time"`
	Validation *ValidationDTO `json:"validation,omitempty"`
}

// CheckoutRequest settles a pending ticket against an exit time.
type CheckoutRequest struct {
	ExitTime string `json:"exit_time"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// PenaltiesDTO mirrors the fixed-shape penalty record of a breakdown.
type PenaltiesDTO struct {
	Overnight  string `json:"overnight"`
	LostTicket string `json:"lost_ticket"`
}

// FeeBreakdownDTO is the itemized fee in API responses.
type FeeBreakdownDTO struct {
	Total             string       `json:"total"`
	TimeCharge        string       `json:"time_charge"`
	MemberFreeMinutes int          `json:"member_free_minutes"`
	ValidationHours   int          `json:"validation_hours"`
	Penalties         PenaltiesDTO `json:"penalties"`
}

func feeDTO(fee tariff.FeeBreakdown) FeeBreakdownDTO {
	return FeeBreakdownDTO{
		Total:             fee.Total.StringFixed(2),
		TimeCharge:        fee.TimeCharge.StringFixed(2),
		MemberFreeMinutes: fee.MemberFreeMinutes,
		ValidationHours:   fee.ValidationHours,
		Penalties: PenaltiesDTO{
			Overnight:  fee.Penalties.Overnight.StringFixed(2),
			LostTicket: fee.Penalties.LostTicket.StringFixed(2),
		},
	}
}

// TicketDTO represents a ticket in API responses.
type TicketDTO struct {
	TicketID        int64          `json:"ticket_id"`
	Zone            string         `json:"zone"`
	MemberTier      string         `json:"member_tier"`
	EntryTime       string         `json:"entry_time"`
	DayType         string         `json:"day_type"`
	Validation      *ValidationDTO `json:"validation"`
	LostTicket      bool           `json:"lost_ticket"`
	ExitTime        string         `json:"exit_time,omitempty"`
	DurationMinutes *int           `json:"duration_minutes,omitempty"`
	Total           string         `json:"total"`
	Status          string         `json:"status"`
}

func ticketDTO(t ticket.Ticket) TicketDTO {
	dto := TicketDTO{
		TicketID:        t.ID,
		Zone:            string(t.Zone),
		MemberTier:      string(t.MemberTier),
		EntryTime:       t.EntryTime,
		DayType:         string(t.DayType),
		LostTicket:      t.LostTicket,
		ExitTime:        t.ExitTime,
		DurationMinutes: t.DurationMinutes,
		Total:           t.Total.StringFixed(2),
		Status:          string(t.Status),
	}
	if t.Validation != nil {
		dto.Validation = &ValidationDTO{Store: t.Validation.Store, Spend: t.Validation.Spend}
	}
	return dto
}

// SettlementDTO pairs a settled ticket with its fee breakdown.
type SettlementDTO struct {
	Ticket TicketDTO       `json:"ticket"`
	Fee    FeeBreakdownDTO `json:"fee"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
