/*
handlers.go - HTTP handlers for the parking API

PURPOSE:
  Implements the request handling layer: decoding, boundary validation,
  calls into the tariff engine and ticket lifecycle, and JSON encoding.

BOUNDARY VALIDATION:
  The fee engine itself is deliberately lenient (degenerate inputs degrade
  to a zero breakdown), so this layer is where invalid enum values and
  malformed timestamps are rejected with 400s before they reach it.

ENDPOINTS:
  POST /api/quotes               Compute a fee without touching tickets
  POST /api/tickets              Open a pending ticket at entry
  GET  /api/tickets/pending      List pending tickets
  GET  /api/tickets/completed    List completed tickets
  GET  /api/tickets/{id}         Fetch one ticket
  POST /api/tickets/{id}/checkout  Settle against an exit time
  POST /api/tickets/{id}/lost      Settle as a lost ticket
  GET  /api/tickets/{id}/receipt   Plain-text receipt (completed only)
  GET  /api/policy               The active policy table

SEE ALSO:
  - dto.go: Request/response shapes
  - server.go: Routing and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/warp/parking-engine/factory"
	"github.com/warp/parking-engine/tariff"
	"github.com/warp/parking-engine/ticket"
)

// Handler holds the API dependencies: the ticket store and the policy
// table loaded once at startup. The table is read-only; handlers never
// mutate or reload it.
type Handler struct {
	store ticket.Store
	table *tariff.PolicyTable
}

// NewHandler creates an API handler.
func NewHandler(store ticket.Store, table *tariff.PolicyTable) *Handler {
	return &Handler{store: store, table: table}
}

// =============================================================================
// QUOTES
// =============================================================================

// Quote computes a fee breakdown from raw ticket attributes.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tc, err := h.ticketContext(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	fee := tariff.ComputeFee(tc, h.table)
	respondJSON(w, http.StatusOK, feeDTO(fee))
}

func (h *Handler) ticketContext(req QuoteRequest) (tariff.TicketContext, error) {
	zone, err := tariff.ParseZone(req.Zone)
	if err != nil {
		return tariff.TicketContext{}, err
	}
	dayType, err := tariff.ParseDayType(req.DayType)
	if err != nil {
		return tariff.TicketContext{}, err
	}
	tier, err := tariff.ParseTier(req.MemberTier)
	if err != nil {
		return tariff.TicketContext{}, err
	}

	tc := tariff.TicketContext{
		Zone:       zone,
		DayType:    dayType,
		Tier:       tier,
		LostTicket: req.LostTicket,
		EntryAt:    req.EntryAt,
		ExitAt:     req.ExitAt,
	}
	if req.Validation != nil {
		tc.Validation = &tariff.ValidationClaim{Store: req.Validation.Store, Spend: req.Validation.Spend}
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes < 0 {
			return tariff.TicketContext{}, errors.New("duration_minutes must be >= 0")
		}
		tc.DurationMinutes = req.DurationMinutes
	} else if req.LostTicket {
		// A lost ticket has no meaningful duration; the engine ignores it.
		zero := 0
		tc.DurationMinutes = &zero
	}
	return tc, nil
}

// =============================================================================
// TICKET LIFECYCLE
// =============================================================================

// CreateTicket opens a pending ticket at facility entry.
func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	zone, err := tariff.ParseZone(req.Zone)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	tier, err := tariff.ParseTier(req.MemberTier)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	dayType, err := tariff.ParseDayType(req.DayType)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !ticket.ValidTimestamp(req.EntryTime) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("entry_time: invalid timestamp %q", req.EntryTime))
		return
	}

	t := ticket.Ticket{
		Zone:       zone,
		MemberTier: tier,
		DayType:    dayType,
		EntryTime:  req.EntryTime,
	}
	if req.Validation != nil {
		t.Validation = &tariff.ValidationClaim{Store: req.Validation.Store, Spend: req.Validation.Spend}
	}

	created, err := h.store.CreatePending(r.Context(), t)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, ticketDTO(created))
}

// ListPending lists all open tickets.
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	h.listTickets(w, r, h.store.ListPending)
}

// ListCompleted lists all settled tickets.
func (h *Handler) ListCompleted(w http.ResponseWriter, r *http.Request) {
	h.listTickets(w, r, h.store.ListCompleted)
}

func (h *Handler) listTickets(w http.ResponseWriter, r *http.Request, list func(ctx context.Context) ([]ticket.Ticket, error)) {
	tickets, err := list(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	dtos := make([]TicketDTO, 0, len(tickets))
	for _, t := range tickets {
		dtos = append(dtos, ticketDTO(t))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// GetTicket fetches one ticket by ID.
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTicket(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, ticketDTO(t))
}

// Checkout settles a pending ticket against an exit time and returns the
// completed ticket with its fee breakdown.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTicket(w, r)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settled, fee, err := ticket.Checkout(t, req.ExitTime, h.table)
	if err != nil {
		respondError(w, settlementStatus(err), err.Error())
		return
	}
	if err := h.store.Update(r.Context(), settled); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, SettlementDTO{Ticket: ticketDTO(settled), Fee: feeDTO(fee)})
}

// ReportLost settles a pending ticket as lost; the fee collapses to the
// flat lost-ticket penalty.
func (h *Handler) ReportLost(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTicket(w, r)
	if !ok {
		return
	}

	settled, fee, err := ticket.ReportLost(t, h.table)
	if err != nil {
		respondError(w, settlementStatus(err), err.Error())
		return
	}
	if err := h.store.Update(r.Context(), settled); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, SettlementDTO{Ticket: ticketDTO(settled), Fee: feeDTO(fee)})
}

// GetReceipt renders the plain-text receipt for a completed ticket. The
// fee is recomputed from the stored fields, never read back from the
// stamped total.
func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTicket(w, r)
	if !ok {
		return
	}
	if t.Status != ticket.StatusCompleted {
		respondError(w, http.StatusConflict, "receipt requires a completed ticket")
		return
	}

	fee := t.Fee(h.table)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, ticket.RenderReceipt(t, fee))
}

// =============================================================================
// POLICY
// =============================================================================

// GetPolicy returns the active policy table as JSON.
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	pj := factory.NewPolicyFactory().ToJSON(h.table)
	respondJSON(w, http.StatusOK, pj)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) loadTicket(w http.ResponseWriter, r *http.Request) (ticket.Ticket, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid ticket id")
		return ticket.Ticket{}, false
	}

	t, err := h.store.Get(r.Context(), id)
	if errors.Is(err, ticket.ErrTicketNotFound) {
		respondError(w, http.StatusNotFound, "ticket not found")
		return ticket.Ticket{}, false
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return ticket.Ticket{}, false
	}
	return t, true
}

func settlementStatus(err error) int {
	switch {
	case errors.Is(err, ticket.ErrAlreadyCompleted):
		return http.StatusConflict
	case errors.Is(err, ticket.ErrExitBeforeEntry), errors.Is(err, ticket.ErrBadTimestamp):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already written; nothing sensible left to do.
		return
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, ErrorResponse{Error: msg})
}
