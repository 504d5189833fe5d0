/*
Package factory provides JSON to Go policy table conversion.

PURPOSE:
  Converts JSON policy definitions into a validated tariff.PolicyTable.
  This enables rate configuration without code changes - operations staff
  can adjust rates, caps, and validation partners in JSON, and the factory
  builds the proper Go structs.

WHY JSON?
  - Non-developers can modify rates
  - Easy integration with an admin UI
  - Version control for rate tables
  - Database storage of policy configs

JSON SCHEMA:
  {
    "cutoff_time": "04:00",
    "zones": {
      "REGULAR": {
        "members_only": false,
        "grace_minutes": 15,
        "weekday": {"first2h_flat": "4.00", "per_hour": "4.00"},
        "weekend": {"first2h_flat": "2.00", "per_hour": "4.00"},
        "public_holiday": {"first2h_flat": "2.00", "per_hour": "3.00"},
        "daily_cap": "20.00",
        "overnight_penalty": "80.00"
      },
      ...
    },
    "memberships": {
      "GOLD": {"free_hours": 4, "daily_cap": "15.00"}
    },
    "penalties": {
      "lost_ticket": {"non_member": "50.00", "member": "30.00", "valet": "80.00"}
    },
    "validations": {
      "partners": {"woolworths": {"min_spend": "30", "free_hours": 2}}
    }
  }

  Monetary values may be JSON strings or numbers; strings are preferred
  to keep two-decimal amounts exact in version control diffs.

  A zone may carry an explicit "kind"; when omitted the kind is inferred
  from the zone identifier (REGULAR -> flat_block, PREFERRED -> per_hour,
  OUTDOOR -> per_entry, VALET -> flat_overage, STAFF -> hourly_capped).

USAGE:
  f := factory.NewPolicyFactory()

  // From JSON
  table, err := f.ParsePolicy(jsonStr)

  // From a file at startup
  table, err := f.LoadFile("./policy.json")

  // The built-in 1U Shopping Centre table
  table := factory.Default()

SEE ALSO:
  - tariff/policy.go: PolicyTable definition and validation
  - presets.go: The default 1U policy JSON
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/parking-engine/tariff"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PolicyJSON is the JSON representation of a complete policy table.
type PolicyJSON struct {
	CutoffTime  string                    `json:"cutoff_time"`
	Zones       map[string]ZoneJSON       `json:"zones"`
	Memberships map[string]MembershipJSON `json:"memberships"`
	Penalties   PenaltiesJSON             `json:"penalties"`
	Validations ValidationsJSON           `json:"validations"`
}

// ZoneJSON represents one zone's rate schedule.
type ZoneJSON struct {
	Kind             string           `json:"kind,omitempty"` // inferred from zone id when omitted
	MembersOnly      bool             `json:"members_only"`
	GraceMinutes     int              `json:"grace_minutes"`
	Weekday          *RateJSON        `json:"weekday,omitempty"`
	Weekend          *RateJSON        `json:"weekend,omitempty"`
	PublicHoliday    *RateJSON        `json:"public_holiday,omitempty"`
	DailyCap         *decimal.Decimal `json:"daily_cap,omitempty"`
	OvernightPenalty decimal.Decimal  `json:"overnight_penalty"`
}

// RateJSON represents one day-type rate row.
type RateJSON struct {
	First2hFlat       decimal.Decimal `json:"first2h_flat,omitempty"`
	PerHour           decimal.Decimal `json:"per_hour,omitempty"`
	PerEntryMember    decimal.Decimal `json:"per_entry_member,omitempty"`
	PerEntryNonMember decimal.Decimal `json:"per_entry_non_member,omitempty"`
}

// MembershipJSON represents one tier's perks.
type MembershipJSON struct {
	FreeHours int              `json:"free_hours"`
	DailyCap  *decimal.Decimal `json:"daily_cap"`
}

// PenaltiesJSON represents the flat penalty amounts.
type PenaltiesJSON struct {
	LostTicket LostTicketJSON `json:"lost_ticket"`
}

// LostTicketJSON represents the lost-ticket penalty per claimant class.
type LostTicketJSON struct {
	NonMember decimal.Decimal `json:"non_member"`
	Member    decimal.Decimal `json:"member"`
	Valet     decimal.Decimal `json:"valet"`
}

// ValidationsJSON represents the retailer validation configuration.
type ValidationsJSON struct {
	Partners map[string]PartnerJSON `json:"partners"`
}

// PartnerJSON represents one validation partner's deal.
type PartnerJSON struct {
	MinSpend  decimal.Decimal `json:"min_spend"`
	FreeHours int             `json:"free_hours"`
}

// =============================================================================
// POLICY FACTORY
// =============================================================================

// PolicyFactory converts JSON policies to tariff tables.
type PolicyFactory struct{}

// NewPolicyFactory creates a new policy factory.
func NewPolicyFactory() *PolicyFactory {
	return &PolicyFactory{}
}

// ParsePolicy parses a JSON string into a validated PolicyTable.
func (f *PolicyFactory) ParsePolicy(jsonStr string) (*tariff.PolicyTable, error) {
	var pj PolicyJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return nil, fmt.Errorf("failed to parse policy JSON: %w", err)
	}
	return f.FromJSON(pj)
}

// LoadFile reads and parses a policy table from a JSON file.
func (f *PolicyFactory) LoadFile(path string) (*tariff.PolicyTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return f.ParsePolicy(string(data))
}

// FromJSON converts PolicyJSON to a validated PolicyTable.
func (f *PolicyFactory) FromJSON(pj PolicyJSON) (*tariff.PolicyTable, error) {
	cutoff, err := tariff.ParseCutoff(pj.CutoffTime)
	if err != nil {
		return nil, err
	}

	table := &tariff.PolicyTable{
		Cutoff:      cutoff,
		Zones:       make(map[tariff.Zone]tariff.ZonePolicy, len(pj.Zones)),
		Memberships: make(map[tariff.Tier]tariff.MembershipPerk, len(pj.Memberships)),
		Partners:    make(map[string]tariff.ValidationPartner, len(pj.Validations.Partners)),
		Penalties: tariff.PenaltySchedule{
			LostTicket: tariff.LostTicketPenalties{
				NonMember: pj.Penalties.LostTicket.NonMember,
				Member:    pj.Penalties.LostTicket.Member,
				Valet:     pj.Penalties.LostTicket.Valet,
			},
		},
	}

	for id, zj := range pj.Zones {
		zone := tariff.Zone(id)
		kind, err := parseKind(zone, zj.Kind)
		if err != nil {
			return nil, err
		}

		zp := tariff.ZonePolicy{
			Kind:             kind,
			MembersOnly:      zj.MembersOnly,
			GraceMinutes:     zj.GraceMinutes,
			Rates:            make(map[tariff.DayType]tariff.RateRow, 3),
			DailyCap:         zj.DailyCap,
			OvernightPenalty: zj.OvernightPenalty,
		}
		if zj.Weekday != nil {
			zp.Rates[tariff.DayWeekday] = rateRow(*zj.Weekday)
		}
		if zj.Weekend != nil {
			zp.Rates[tariff.DayWeekend] = rateRow(*zj.Weekend)
		}
		if zj.PublicHoliday != nil {
			zp.Rates[tariff.DayPublicHoliday] = rateRow(*zj.PublicHoliday)
		}
		table.Zones[zone] = zp
	}

	for id, mj := range pj.Memberships {
		table.Memberships[tariff.Tier(id)] = tariff.MembershipPerk{
			FreeHours: mj.FreeHours,
			DailyCap:  mj.DailyCap,
		}
	}

	// Partner names are matched case-insensitively; normalize the keys.
	for name, vj := range pj.Validations.Partners {
		table.Partners[strings.ToLower(name)] = tariff.ValidationPartner{
			MinSpend:  vj.MinSpend,
			FreeHours: vj.FreeHours,
		}
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// ToJSON converts a PolicyTable back to its JSON representation.
func (f *PolicyFactory) ToJSON(table *tariff.PolicyTable) PolicyJSON {
	pj := PolicyJSON{
		CutoffTime:  table.Cutoff.String(),
		Zones:       make(map[string]ZoneJSON, len(table.Zones)),
		Memberships: make(map[string]MembershipJSON, len(table.Memberships)),
		Penalties: PenaltiesJSON{LostTicket: LostTicketJSON{
			NonMember: table.Penalties.LostTicket.NonMember,
			Member:    table.Penalties.LostTicket.Member,
			Valet:     table.Penalties.LostTicket.Valet,
		}},
		Validations: ValidationsJSON{Partners: make(map[string]PartnerJSON, len(table.Partners))},
	}

	for zone, zp := range table.Zones {
		zj := ZoneJSON{
			Kind:             string(zp.Kind),
			MembersOnly:      zp.MembersOnly,
			GraceMinutes:     zp.GraceMinutes,
			DailyCap:         zp.DailyCap,
			OvernightPenalty: zp.OvernightPenalty,
		}
		if r, ok := zp.Rates[tariff.DayWeekday]; ok {
			zj.Weekday = rateJSON(r)
		}
		if r, ok := zp.Rates[tariff.DayWeekend]; ok {
			zj.Weekend = rateJSON(r)
		}
		if r, ok := zp.Rates[tariff.DayPublicHoliday]; ok {
			zj.PublicHoliday = rateJSON(r)
		}
		pj.Zones[string(zone)] = zj
	}

	for tier, perk := range table.Memberships {
		pj.Memberships[string(tier)] = MembershipJSON{FreeHours: perk.FreeHours, DailyCap: perk.DailyCap}
	}
	for name, p := range table.Partners {
		pj.Validations.Partners[name] = PartnerJSON{MinSpend: p.MinSpend, FreeHours: p.FreeHours}
	}

	return pj
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func rateRow(rj RateJSON) tariff.RateRow {
	return tariff.RateRow{
		FirstBlockFlat:    rj.First2hFlat,
		PerHour:           rj.PerHour,
		PerEntryMember:    rj.PerEntryMember,
		PerEntryNonMember: rj.PerEntryNonMember,
	}
}

func rateJSON(r tariff.RateRow) *RateJSON {
	return &RateJSON{
		First2hFlat:       r.FirstBlockFlat,
		PerHour:           r.PerHour,
		PerEntryMember:    r.PerEntryMember,
		PerEntryNonMember: r.PerEntryNonMember,
	}
}

// parseKind resolves a zone's rate kind: an explicit kind wins, otherwise
// the standard zone identifiers imply their shape.
func parseKind(zone tariff.Zone, explicit string) (tariff.RateKind, error) {
	if explicit != "" {
		switch k := tariff.RateKind(explicit); k {
		case tariff.RateFlatBlock, tariff.RatePerHour, tariff.RatePerEntry,
			tariff.RateFlatOverage, tariff.RateHourlyCapped:
			return k, nil
		}
		return "", fmt.Errorf("zone %s: unknown rate kind %q", zone, explicit)
	}

	switch zone {
	case tariff.ZoneRegular:
		return tariff.RateFlatBlock, nil
	case tariff.ZonePreferred:
		return tariff.RatePerHour, nil
	case tariff.ZoneOutdoor:
		return tariff.RatePerEntry, nil
	case tariff.ZoneValet:
		return tariff.RateFlatOverage, nil
	case tariff.ZoneStaff:
		return tariff.RateHourlyCapped, nil
	}
	return "", fmt.Errorf("zone %s: rate kind required for non-standard zones", zone)
}
