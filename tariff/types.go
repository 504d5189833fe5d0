/*
Package tariff provides the core parking fee computation engine.

PURPOSE:
  This package contains the domain types and the pure fee algorithm for a
  mall parking facility. Given a ticket context (zone, day type, membership
  tier, duration, optional retailer validation) and an immutable PolicyTable,
  it produces a fully itemized FeeBreakdown.

KEY CONCEPTS IN THIS FILE (types.go):
  - Zone / DayType / Tier: Enumerated ticket attributes
  - ValidationClaim: A retailer validation claim (store + spend)
  - TicketContext: All inputs to a single fee computation
  - FeeBreakdown: The itemized result (charges, perks, penalties)

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for every monetary quantity - never
     binary floating point
  2. Purity: ComputeFee has no hidden state and no I/O; identical inputs
     always yield identical breakdowns
  3. Leniency: Malformed business input degrades to a zero-valued
     breakdown instead of an error (the boundary rejects bad enums)

USAGE:
  table := factory.Default()
  mins := 180
  fee := tariff.ComputeFee(tariff.TicketContext{
      Zone:            tariff.ZoneRegular,
      DayType:         tariff.DayWeekday,
      Tier:            tariff.TierMember,
      DurationMinutes: &mins,
  }, table)
  fmt.Println(fee.Total.StringFixed(2))

SEE ALSO:
  - policy.go: PolicyTable schema and validation
  - engine.go: The fee computation algorithm
*/
package tariff

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// ZONES
// =============================================================================

// Zone identifies a parking zone. Each zone carries its own rate shape
// (see RateKind in policy.go).
type Zone string

const (
	ZoneRegular   Zone = "REGULAR"
	ZonePreferred Zone = "PREFERRED"
	ZoneOutdoor   Zone = "OUTDOOR"
	ZoneValet     Zone = "VALET"
	ZoneStaff     Zone = "STAFF"
)

// ParseZone validates a zone identifier. Callers at the boundary (API, UI)
// should reject invalid zones before building a TicketContext.
func ParseZone(s string) (Zone, error) {
	switch Zone(s) {
	case ZoneRegular, ZonePreferred, ZoneOutdoor, ZoneValet, ZoneStaff:
		return Zone(s), nil
	}
	return "", &UnknownEnumError{Kind: "zone", Value: s, Err: ErrUnknownZone}
}

// =============================================================================
// DAY TYPES
// =============================================================================

// DayType selects the rate row within a zone policy.
type DayType string

const (
	DayWeekday       DayType = "WEEKDAY"
	DayWeekend       DayType = "WEEKEND"
	DayPublicHoliday DayType = "PUBLIC_HOLIDAY"
)

// ParseDayType validates a day type identifier.
func ParseDayType(s string) (DayType, error) {
	switch DayType(s) {
	case DayWeekday, DayWeekend, DayPublicHoliday:
		return DayType(s), nil
	}
	return "", &UnknownEnumError{Kind: "day_type", Value: s, Err: ErrUnknownDayType}
}

// =============================================================================
// MEMBERSHIP TIERS
// =============================================================================

// Tier identifies a membership tier.
type Tier string

const (
	TierNonMember Tier = "NON-MEMBER"
	TierMember    Tier = "MEMBER"
	TierSilver    Tier = "SILVER"
	TierGold      Tier = "GOLD"
	TierStaff     Tier = "STAFF"
)

// ParseTier validates a membership tier identifier.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierNonMember, TierMember, TierSilver, TierGold, TierStaff:
		return Tier(s), nil
	}
	return "", &UnknownEnumError{Kind: "member_tier", Value: s, Err: ErrUnknownTier}
}

// IsMember reports whether the tier counts as a member for penalty lookups.
// STAFF is treated as a member here even though it carries no perks.
func (t Tier) IsMember() bool {
	switch t {
	case TierMember, TierSilver, TierGold, TierStaff:
		return true
	}
	return false
}

// =============================================================================
// VALIDATION CLAIM
// =============================================================================

// ValidationClaim is a retailer validation presented with a ticket.
// The claimed store is matched case-insensitively against the policy's
// validation partners; the claimed spend must meet the partner's minimum.
type ValidationClaim struct {
	Store string          `json:"store"`
	Spend decimal.Decimal `json:"spend"`
}

// =============================================================================
// TICKET CONTEXT - Inputs to one fee computation
// =============================================================================

// TicketContext carries every input ComputeFee consumes. It is constructed
// per calculation and never persisted by the engine.
//
// DurationMinutes is a pointer because "missing" and "zero" differ: a
// missing duration short-circuits to the zero breakdown, while a zero
// duration is billable in zones without a grace period. The duration is
// ignored entirely when LostTicket is set.
//
// EntryAt/ExitAt are optional ISO-8601 local timestamps without a timezone
// ("2006-01-02T15:04"). They only feed the overnight cutoff check; parse
// failures silently disable the penalty.
type TicketContext struct {
	Zone            Zone
	DayType         DayType
	Tier            Tier
	DurationMinutes *int
	Validation      *ValidationClaim
	LostTicket      bool
	EntryAt         string
	ExitAt          string
}

// =============================================================================
// FEE BREAKDOWN - Itemized computation result
// =============================================================================

// Penalties is the fixed-shape penalty record of a breakdown. Lost-ticket
// and overnight never coexist: a lost ticket short-circuits before the
// overnight logic runs.
type Penalties struct {
	Overnight  decimal.Decimal
	LostTicket decimal.Decimal
}

// FeeBreakdown is the immutable result of a fee computation. All monetary
// fields carry fixed two-decimal semantics; render with StringFixed(2).
//
// MemberFreeMinutes reports the tier perk that was granted, even for zones
// where it has no billing effect (e.g. VALET). ValidationHours reports the
// partner perk actually granted - zero whenever the claim is disqualified.
type FeeBreakdown struct {
	Total             decimal.Decimal
	TimeCharge        decimal.Decimal
	MemberFreeMinutes int
	ValidationHours   int
	Penalties         Penalties
}

// MustMoney parses a monetary literal, returning zero on failure.
// Intended for trusted, hard-coded amounts.
func MustMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
