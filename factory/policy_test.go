package factory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/parking-engine/tariff"
)

func TestParsePolicy_Default(t *testing.T) {
	// GIVEN: The built-in 1U policy JSON
	// WHEN: Parsing it
	// THEN: The table carries the published rates, caps, and perks

	table, err := NewPolicyFactory().ParsePolicy(DefaultPolicyJSON())
	require.NoError(t, err)

	assert.Equal(t, "04:00", table.Cutoff.String())
	assert.Len(t, table.Zones, 5)

	regular := table.Zones[tariff.ZoneRegular]
	assert.Equal(t, tariff.RateFlatBlock, regular.Kind)
	assert.Equal(t, 15, regular.GraceMinutes)
	assert.True(t, regular.Rates[tariff.DayWeekday].FirstBlockFlat.Equal(decimal.NewFromInt(4)))
	assert.True(t, regular.Rates[tariff.DayWeekend].FirstBlockFlat.Equal(decimal.NewFromInt(2)))
	assert.True(t, regular.Rates[tariff.DayPublicHoliday].PerHour.Equal(decimal.NewFromInt(3)))
	require.NotNil(t, regular.DailyCap)
	assert.True(t, regular.DailyCap.Equal(decimal.NewFromInt(20)))
	assert.True(t, regular.OvernightPenalty.Equal(decimal.NewFromInt(80)))

	preferred := table.Zones[tariff.ZonePreferred]
	assert.Equal(t, tariff.RatePerHour, preferred.Kind)
	assert.True(t, preferred.MembersOnly)

	outdoor := table.Zones[tariff.ZoneOutdoor]
	assert.Equal(t, tariff.RatePerEntry, outdoor.Kind)
	assert.True(t, outdoor.Rates[tariff.DayWeekday].PerEntryMember.Equal(decimal.NewFromInt(2)))
	assert.True(t, outdoor.Rates[tariff.DayWeekday].PerEntryNonMember.Equal(decimal.NewFromInt(4)))

	valet := table.Zones[tariff.ZoneValet]
	assert.Equal(t, tariff.RateFlatOverage, valet.Kind)
	assert.True(t, valet.OvernightPenalty.Equal(decimal.NewFromInt(120)))

	staff := table.Zones[tariff.ZoneStaff]
	assert.Equal(t, tariff.RateHourlyCapped, staff.Kind)
	require.NotNil(t, staff.DailyCap)
	assert.True(t, staff.DailyCap.Equal(decimal.NewFromInt(7)))

	gold := table.Memberships[tariff.TierGold]
	assert.Equal(t, 4, gold.FreeHours)
	require.NotNil(t, gold.DailyCap)
	assert.True(t, gold.DailyCap.Equal(decimal.NewFromInt(15)))

	assert.True(t, table.Penalties.LostTicket.NonMember.Equal(decimal.NewFromInt(50)))
	assert.True(t, table.Penalties.LostTicket.Member.Equal(decimal.NewFromInt(30)))
	assert.True(t, table.Penalties.LostTicket.Valet.Equal(decimal.NewFromInt(80)))

	partner, ok := table.Partner("Woolworths")
	require.True(t, ok)
	assert.Equal(t, 2, partner.FreeHours)
	assert.True(t, partner.MinSpend.Equal(decimal.NewFromInt(30)))
}

func TestDefault_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { Default() })
}

func TestParsePolicy_MalformedJSON(t *testing.T) {
	_, err := NewPolicyFactory().ParsePolicy("{not json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse policy JSON")
}

func TestParsePolicy_InvalidTableRejected(t *testing.T) {
	// Structurally valid JSON that fails table validation: staff zone
	// without the cap its shape requires.
	jsonStr := `{
		"cutoff_time": "04:00",
		"zones": {
			"STAFF": {"weekday": {"per_hour": "1.00"}}
		}
	}`
	_, err := NewPolicyFactory().ParsePolicy(jsonStr)
	require.Error(t, err)
	assert.ErrorIs(t, err, tariff.ErrInvalidPolicy)
}

func TestParsePolicy_ExplicitKindWins(t *testing.T) {
	jsonStr := `{
		"cutoff_time": "04:00",
		"zones": {
			"REGULAR": {
				"kind": "per_hour",
				"weekday": {"per_hour": "3.50"}
			}
		}
	}`
	table, err := NewPolicyFactory().ParsePolicy(jsonStr)
	require.NoError(t, err)
	assert.Equal(t, tariff.RatePerHour, table.Zones[tariff.ZoneRegular].Kind)
}

func TestParsePolicy_UnknownKindRejected(t *testing.T) {
	jsonStr := `{
		"cutoff_time": "04:00",
		"zones": {
			"REGULAR": {"kind": "surge", "weekday": {"per_hour": "3.50"}}
		}
	}`
	_, err := NewPolicyFactory().ParsePolicy(jsonStr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown rate kind")
}

func TestParsePolicy_NonStandardZoneNeedsKind(t *testing.T) {
	jsonStr := `{
		"cutoff_time": "04:00",
		"zones": {
			"ROOFTOP": {"weekday": {"per_hour": "3.50"}}
		}
	}`
	_, err := NewPolicyFactory().ParsePolicy(jsonStr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate kind required")
}

func TestParsePolicy_NumericAmountsAccepted(t *testing.T) {
	// Monetary values may arrive as JSON numbers instead of strings.
	jsonStr := `{
		"cutoff_time": "04:00",
		"zones": {
			"PREFERRED": {"weekday": {"per_hour": 3.5}}
		}
	}`
	table, err := NewPolicyFactory().ParsePolicy(jsonStr)
	require.NoError(t, err)
	row := table.Zones[tariff.ZonePreferred].Rates[tariff.DayWeekday]
	assert.True(t, row.PerHour.Equal(decimal.RequireFromString("3.5")))
}

func TestParsePolicy_PartnerKeysNormalized(t *testing.T) {
	jsonStr := `{
		"cutoff_time": "04:00",
		"zones": {
			"REGULAR": {"grace_minutes": 15, "weekday": {"first2h_flat": "4.00", "per_hour": "4.00"}}
		},
		"validations": {
			"partners": {"Woolworths": {"min_spend": "30", "free_hours": 2}}
		}
	}`
	table, err := NewPolicyFactory().ParsePolicy(jsonStr)
	require.NoError(t, err)

	_, ok := table.Partner("WOOLWORTHS")
	assert.True(t, ok)
}

func TestToJSON_RoundTrip(t *testing.T) {
	// GIVEN: The default table
	// WHEN: Converting to JSON and back
	// THEN: The rebuilt table prices identically

	f := NewPolicyFactory()
	table := Default()

	rebuilt, err := f.FromJSON(f.ToJSON(table))
	require.NoError(t, err)

	minutes := 360
	tc := tariff.TicketContext{
		Zone:            tariff.ZoneRegular,
		DayType:         tariff.DayWeekday,
		Tier:            tariff.TierGold,
		DurationMinutes: &minutes,
	}
	before := tariff.ComputeFee(tc, table)
	after := tariff.ComputeFee(tc, rebuilt)
	assert.True(t, before.Total.Equal(after.Total),
		"expected %s, got %s", before.Total.StringFixed(2), after.Total.StringFixed(2))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.json")
	require.NoError(t, os.WriteFile(path, []byte(DefaultPolicyJSON()), 0o644))

	table, err := NewPolicyFactory().LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, table.Zones, 5)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := NewPolicyFactory().LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read policy file")
}
