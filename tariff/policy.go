/*
policy.go - Policy table schema and validation

PURPOSE:
  Defines the declarative rule table the fee engine consumes: per-zone rate
  schedules, membership perks, penalty amounts, validation partner rules,
  and the overnight cutoff time. The table is built once at process start
  (see the factory package), validated, and then threaded through as an
  explicit read-only argument - never ambient global state.

RATE SHAPES:
  Each zone kind has a distinct pricing contract, modeled as a tagged
  variant (RateKind) rather than chained zone-name conditionals:

    RateFlatBlock    Flat charge covering the first 2 hours, then per-hour.
                     Free hours eat into the flat block (REGULAR).
    RatePerHour      Straight per-hour billing (PREFERRED).
    RatePerEntry     One charge per entry, member/non-member rates;
                     duration and free hours never apply (OUTDOOR).
    RateFlatOverage  Flat charge for the first 2 hours, per-hour overage
                     on raw hours; no free-hour concept (VALET).
    RateHourlyCapped Per-hour billing clamped to the zone's daily cap
                     (STAFF).

FREE-HOUR STACKING:
  The kind also decides how membership and validation free hours combine:
  flat-block and per-hour zones stack both additively; hourly-capped zones
  honor validation hours only; per-entry and flat-overage zones honor
  neither. The membership perk is still reported on the breakdown either
  way.

SEE ALSO:
  - engine.go: Consumes this table
  - factory/policy.go: JSON loading and the default 1U policy
*/
package tariff

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RATE KINDS - Tagged pricing variant per zone
// =============================================================================

type RateKind string

const (
	RateFlatBlock    RateKind = "flat_block"
	RatePerHour      RateKind = "per_hour"
	RatePerEntry     RateKind = "per_entry"
	RateFlatOverage  RateKind = "flat_overage"
	RateHourlyCapped RateKind = "hourly_capped"
)

// FlatBlockHours is the width of the discounted entry block used by the
// flat-block and flat-overage shapes.
const FlatBlockHours = 2

// honorsFreeHours reports whether billable hours are reduced by free hours
// before pricing. Per-entry and flat-overage zones bill on raw input.
func (k RateKind) honorsFreeHours() bool {
	switch k {
	case RateFlatBlock, RatePerHour, RateHourlyCapped:
		return true
	}
	return false
}

// stacksMembership reports whether the membership perk contributes to the
// free-hour total. Hourly-capped (staff) zones take validation hours only.
func (k RateKind) stacksMembership() bool {
	return k == RateFlatBlock || k == RatePerHour
}

// acceptsValidation mirrors honorsFreeHours: a validation claim is only
// eligible in zones where free hours have a billing effect.
func (k RateKind) acceptsValidation() bool { return k.honorsFreeHours() }

// =============================================================================
// RATE ROWS - Day-type specific amounts
// =============================================================================

// RateRow holds the monetary rates for one day type. Which fields are
// meaningful depends on the zone's RateKind; Validate enforces the match.
type RateRow struct {
	FirstBlockFlat    decimal.Decimal // flat_block, flat_overage
	PerHour           decimal.Decimal // flat_block, per_hour, flat_overage, hourly_capped
	PerEntryMember    decimal.Decimal // per_entry
	PerEntryNonMember decimal.Decimal // per_entry
}

// =============================================================================
// ZONE POLICY
// =============================================================================

// ZonePolicy is the complete ruleset for one zone.
type ZonePolicy struct {
	Kind             RateKind
	MembersOnly      bool
	GraceMinutes     int
	Rates            map[DayType]RateRow
	DailyCap         *decimal.Decimal
	OvernightPenalty decimal.Decimal
}

// rateFor selects the rate row for a day type, falling back to the weekday
// row when the day type is unrecognized.
func (zp ZonePolicy) rateFor(day DayType) RateRow {
	if r, ok := zp.Rates[day]; ok {
		return r
	}
	return zp.Rates[DayWeekday]
}

// =============================================================================
// MEMBERSHIPS, PENALTIES, VALIDATION PARTNERS
// =============================================================================

// MembershipPerk describes what a tier is entitled to. The zero value
// (unknown tier) grants nothing.
type MembershipPerk struct {
	FreeHours int
	DailyCap  *decimal.Decimal
}

// LostTicketPenalties is a fixed-shape penalty record with one named amount
// per claimant class.
type LostTicketPenalties struct {
	NonMember decimal.Decimal
	Member    decimal.Decimal
	Valet     decimal.Decimal
}

// PenaltySchedule groups the flat penalty amounts of the table.
type PenaltySchedule struct {
	LostTicket LostTicketPenalties
}

// ValidationPartner describes a retailer validation deal: spend at least
// MinSpend at the partner and FreeHours come off the bill.
type ValidationPartner struct {
	MinSpend  decimal.Decimal
	FreeHours int
}

// =============================================================================
// CUTOFF TIME
// =============================================================================

// CutoffTime is a time of day marking the start of the overnight-penalty
// window. An exit strictly after the cutoff on a later calendar day than
// the entry incurs the zone's overnight penalty.
type CutoffTime struct {
	Hour   int
	Minute int
}

// ParseCutoff parses an "HH:MM" time of day.
func ParseCutoff(s string) (CutoffTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return CutoffTime{}, fmt.Errorf("cutoff time %q: %w", s, err)
	}
	ct := CutoffTime{Hour: h, Minute: m}
	if !ct.valid() {
		return CutoffTime{}, fmt.Errorf("cutoff time %q: out of range", s)
	}
	return ct, nil
}

func (c CutoffTime) valid() bool {
	return c.Hour >= 0 && c.Hour < 24 && c.Minute >= 0 && c.Minute < 60
}

// secondsOfDay positions the cutoff on a seconds-since-midnight scale for
// strict comparison against an exit clock.
func (c CutoffTime) secondsOfDay() int { return c.Hour*3600 + c.Minute*60 }

func (c CutoffTime) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// =============================================================================
// POLICY TABLE
// =============================================================================

// PolicyTable is the immutable rule table for the whole facility. Build it
// via the factory package, call Validate once, then treat it as read-only.
// The engine never mutates it, so it is safe for concurrent use.
type PolicyTable struct {
	Cutoff      CutoffTime
	Zones       map[Zone]ZonePolicy
	Memberships map[Tier]MembershipPerk
	Penalties   PenaltySchedule
	// Partners is keyed by lowercase partner name; use Partner for lookups.
	Partners map[string]ValidationPartner
}

// Partner looks up a validation partner case-insensitively.
func (t *PolicyTable) Partner(store string) (ValidationPartner, bool) {
	p, ok := t.Partners[strings.ToLower(strings.TrimSpace(store))]
	return p, ok
}

// Validate checks the structural invariants the engine relies on. It is
// meant to run once at load time; a table that passes never causes the
// engine to misprice due to a missing row or field.
func (t *PolicyTable) Validate() error {
	if !t.Cutoff.valid() {
		return &PolicyError{Field: "cutoff_time", Reason: "out of range"}
	}
	if len(t.Zones) == 0 {
		return &PolicyError{Field: "zones", Reason: "no zones configured"}
	}

	for zone, zp := range t.Zones {
		if err := validateZone(zone, zp); err != nil {
			return err
		}
	}

	for tier, perk := range t.Memberships {
		if perk.FreeHours < 0 {
			return &PolicyError{Field: fmt.Sprintf("memberships.%s.free_hours", tier), Reason: "negative"}
		}
		if perk.DailyCap != nil && perk.DailyCap.IsNegative() {
			return &PolicyError{Field: fmt.Sprintf("memberships.%s.daily_cap", tier), Reason: "negative"}
		}
	}

	lt := t.Penalties.LostTicket
	for field, amount := range map[string]decimal.Decimal{
		"penalties.lost_ticket.non_member": lt.NonMember,
		"penalties.lost_ticket.member":     lt.Member,
		"penalties.lost_ticket.valet":      lt.Valet,
	} {
		if amount.IsNegative() {
			return &PolicyError{Field: field, Reason: "negative"}
		}
	}

	for name, p := range t.Partners {
		if name != strings.ToLower(name) {
			return &PolicyError{Field: fmt.Sprintf("validations.partners.%s", name), Reason: "key must be lowercase"}
		}
		if p.MinSpend.IsNegative() {
			return &PolicyError{Field: fmt.Sprintf("validations.partners.%s.min_spend", name), Reason: "negative"}
		}
		if p.FreeHours < 0 {
			return &PolicyError{Field: fmt.Sprintf("validations.partners.%s.free_hours", name), Reason: "negative"}
		}
	}

	return nil
}

func validateZone(zone Zone, zp ZonePolicy) error {
	switch zp.Kind {
	case RateFlatBlock, RatePerHour, RatePerEntry, RateFlatOverage, RateHourlyCapped:
	default:
		return &PolicyError{Zone: zone, Field: "kind", Reason: fmt.Sprintf("unrecognized rate kind %q", zp.Kind)}
	}

	if zp.GraceMinutes < 0 {
		return &PolicyError{Zone: zone, Field: "grace_minutes", Reason: "negative"}
	}
	if zp.OvernightPenalty.IsNegative() {
		return &PolicyError{Zone: zone, Field: "overnight_penalty", Reason: "negative"}
	}
	if zp.DailyCap != nil && zp.DailyCap.IsNegative() {
		return &PolicyError{Zone: zone, Field: "daily_cap", Reason: "negative"}
	}
	// The staff shape clamps unconditionally, so the cap must exist.
	if zp.Kind == RateHourlyCapped && zp.DailyCap == nil {
		return &PolicyError{Zone: zone, Field: "daily_cap", Reason: "required for hourly_capped zones"}
	}

	// The weekday row doubles as the fallback for unrecognized day types.
	if _, ok := zp.Rates[DayWeekday]; !ok {
		return &PolicyError{Zone: zone, Field: "weekday", Reason: "missing rate row"}
	}

	for day, row := range zp.Rates {
		if err := validateRateRow(zone, zp.Kind, day, row); err != nil {
			return err
		}
	}
	return nil
}

func validateRateRow(zone Zone, kind RateKind, day DayType, row RateRow) error {
	field := func(name string) string { return fmt.Sprintf("%s.%s", strings.ToLower(string(day)), name) }

	check := func(name string, amount decimal.Decimal) error {
		if amount.IsNegative() {
			return &PolicyError{Zone: zone, Field: field(name), Reason: "negative"}
		}
		return nil
	}

	switch kind {
	case RateFlatBlock, RateFlatOverage:
		if err := check("first2h_flat", row.FirstBlockFlat); err != nil {
			return err
		}
		return check("per_hour", row.PerHour)
	case RatePerHour, RateHourlyCapped:
		return check("per_hour", row.PerHour)
	case RatePerEntry:
		if err := check("per_entry_member", row.PerEntryMember); err != nil {
			return err
		}
		return check("per_entry_non_member", row.PerEntryNonMember)
	}
	return nil
}
