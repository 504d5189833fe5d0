/*
engine.go - The fee computation algorithm

PURPOSE:
  ComputeFee maps (TicketContext, PolicyTable) to an itemized FeeBreakdown.
  It is a pure function: no hidden state, no I/O, no errors. Every
  degenerate input degrades to a defined numeric fallback, so concurrent
  callers can invoke it freely against a shared read-only table.

ALGORITHM (strict order, each step consumes the previous step's result):
  1. Guard: missing table/zone/day type/duration -> zero breakdown
  2. Lost ticket: flat penalty by claimant class, skip everything else
  3. Grace period: stays shorter than the zone grace are entirely free
  4. Billable hours: floor(minutes/60), minimum one full hour
  5. Membership free hours (always reported, even where not honored)
  6. Validation free hours (eligible zones only, partner + min spend)
  7. Free-hour stacking per the zone's rate kind
  8. Billable-hour reduction for zones that honor free hours
  9. Zone pricing dispatched on the rate kind
 10. Tier daily cap (all zones except flat-overage)
 11. Zone daily cap
 12. Overnight cutoff penalty (needs parseable entry/exit timestamps)
 13. Finalize

TIE-BREAKS:
  - Duration exactly at the grace period is billable (strict less-than
    is free)
  - A 1-59 minute stay bills as exactly one hour
  - Exit exactly at the cutoff time of day carries no penalty (strict
    greater-than)

SEE ALSO:
  - policy.go: Rate kinds and the stacking rules they imply
  - types.go: TicketContext and FeeBreakdown
*/
package tariff

import (
	"time"

	"github.com/shopspring/decimal"
)

// stayLayouts are the accepted entry/exit timestamp forms: ISO-8601 local
// time without a timezone, with or without seconds.
var stayLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05"}

// ComputeFee computes the itemized parking fee for one ticket.
//
// It never returns an error. Absent policy, zone, day type, or duration
// produce the zero breakdown; unrecognized day types fall back to the
// weekday rate row; unrecognized tiers carry no perks; unparsable
// timestamps disable the overnight penalty. Boundary code is responsible
// for rejecting invalid enums before they get here.
func ComputeFee(tc TicketContext, table *PolicyTable) FeeBreakdown {
	var fee FeeBreakdown

	// Step 1: fee is undefined without the basics - charge nothing.
	if table == nil || tc.Zone == "" || tc.DayType == "" || tc.DurationMinutes == nil {
		return fee
	}

	// Step 2: a lost ticket replaces the whole computation with a flat
	// penalty. Duration and validation are ignored from here on.
	if tc.LostTicket {
		lt := table.Penalties.LostTicket
		var penalty decimal.Decimal
		switch {
		case tc.Zone == ZoneValet:
			penalty = lt.Valet
		case tc.Tier.IsMember():
			penalty = lt.Member
		default:
			penalty = lt.NonMember
		}
		fee.Penalties.LostTicket = penalty
		fee.Total = penalty
		return fee
	}

	zp, ok := table.Zones[tc.Zone]
	if !ok {
		// A zone absent from the table prices as undefined, same as the
		// missing-input guard.
		return fee
	}

	// Step 3: inside the grace window the stay is entirely free,
	// independent of tier or validation.
	minutes := *tc.DurationMinutes
	if minutes < zp.GraceMinutes {
		return fee
	}

	// Step 4: no fractional-hour billing. Anything under a full hour
	// (including a zero-minute stay in a zone without grace) bills as one.
	hours := minutes / 60
	if hours == 0 {
		hours = 1
	}

	// Step 5: the tier perk is reported on the breakdown regardless of
	// whether this zone honors it for billing.
	perk := table.Memberships[tc.Tier]
	fee.MemberFreeMinutes = perk.FreeHours * 60

	// Step 6: validation hours require an eligible zone, a configured
	// partner (case-insensitive), and spend at or above the minimum.
	validationHours := 0
	if tc.Validation != nil && zp.Kind.acceptsValidation() {
		if p, ok := table.Partner(tc.Validation.Store); ok {
			if tc.Validation.Spend.GreaterThanOrEqual(p.MinSpend) {
				validationHours = p.FreeHours
			}
		}
	}
	fee.ValidationHours = validationHours

	// Step 7: stacking is a property of the zone's rate shape.
	totalFree := 0
	switch {
	case zp.Kind.stacksMembership():
		totalFree = perk.FreeHours + validationHours
	case zp.Kind == RateHourlyCapped:
		totalFree = validationHours
	}

	// Step 8
	hoursToBill := hours
	if zp.Kind.honorsFreeHours() {
		hoursToBill = max(hours-totalFree, 0)
	}

	// Step 9: price on the day-type rate row (weekday fallback).
	rate := zp.rateFor(tc.DayType)
	var charge decimal.Decimal
	switch zp.Kind {
	case RateFlatBlock:
		charge = flatBlockCharge(rate, hoursToBill, totalFree)
	case RatePerHour:
		if hoursToBill > 0 {
			charge = rate.PerHour.Mul(decimalHours(hoursToBill))
		}
	case RatePerEntry:
		if memberEntryTier(tc.Tier) {
			charge = rate.PerEntryMember
		} else {
			charge = rate.PerEntryNonMember
		}
	case RateFlatOverage:
		// Raw hours, never hoursToBill: valet has no free-hour concept.
		charge = rate.FirstBlockFlat
		if hours > FlatBlockHours {
			charge = charge.Add(rate.PerHour.Mul(decimalHours(hours - FlatBlockHours)))
		}
	case RateHourlyCapped:
		charge = rate.PerHour.Mul(decimalHours(hoursToBill))
		// Unconditional clamp, distinct from the general cap steps below.
		if zp.DailyCap != nil && charge.GreaterThan(*zp.DailyCap) {
			charge = *zp.DailyCap
		}
	}

	// Step 10: the tier cap applies everywhere except flat-overage zones.
	if zp.Kind != RateFlatOverage && perk.DailyCap != nil && charge.GreaterThan(*perk.DailyCap) {
		charge = *perk.DailyCap
	}

	// Step 11: the zone cap clamps after the tier cap; the tighter of the
	// two governs since both are clamps.
	if zp.DailyCap != nil && charge.GreaterThan(*zp.DailyCap) {
		charge = *zp.DailyCap
	}

	// Step 12: overnight penalty stacks on top of the capped time charge
	// when the exit crosses into a later calendar day past the cutoff.
	if entry, exit, ok := parseStay(tc.EntryAt, tc.ExitAt); ok {
		if calendarDateAfter(exit, entry) && clockSeconds(exit) > table.Cutoff.secondsOfDay() {
			fee.Penalties.Overnight = zp.OvernightPenalty
			fee.TimeCharge = charge
			fee.Total = charge.Add(zp.OvernightPenalty)
			return fee
		}
	}

	// Step 13
	fee.TimeCharge = charge
	fee.Total = charge
	return fee
}

// flatBlockCharge prices the flat-block shape. Free hours consume the
// discounted block first: once they cover it entirely, only the per-hour
// rate remains; a partially covered block still charges in full.
func flatBlockCharge(rate RateRow, hoursToBill, totalFree int) decimal.Decimal {
	switch {
	case hoursToBill <= 0:
		return decimal.Zero
	case totalFree >= FlatBlockHours:
		return rate.PerHour.Mul(decimalHours(hoursToBill))
	case hoursToBill <= FlatBlockHours-totalFree:
		return rate.FirstBlockFlat
	default:
		overage := hoursToBill - (FlatBlockHours - totalFree)
		return rate.FirstBlockFlat.Add(rate.PerHour.Mul(decimalHours(overage)))
	}
}

// memberEntryTier reports whether the tier gets the member per-entry rate.
// STAFF deliberately does not, unlike the lost-ticket member grouping.
func memberEntryTier(t Tier) bool {
	switch t {
	case TierMember, TierSilver, TierGold:
		return true
	}
	return false
}

// parseStay parses both stay timestamps; either failing disables the
// overnight check entirely.
func parseStay(entryAt, exitAt string) (entry, exit time.Time, ok bool) {
	if entryAt == "" || exitAt == "" {
		return time.Time{}, time.Time{}, false
	}
	entry, ok = parseLocal(entryAt)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	exit, ok = parseLocal(exitAt)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return entry, exit, true
}

func parseLocal(s string) (time.Time, bool) {
	for _, layout := range stayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// calendarDateAfter reports whether a's calendar date is strictly later
// than b's, ignoring the time of day.
func calendarDateAfter(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad > bd
}

func clockSeconds(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

func decimalHours(h int) decimal.Decimal { return decimal.NewFromInt(int64(h)) }
