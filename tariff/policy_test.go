package tariff

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimalTable() *PolicyTable {
	cap20 := decimal.NewFromInt(20)
	return &PolicyTable{
		Cutoff: CutoffTime{Hour: 4, Minute: 0},
		Zones: map[Zone]ZonePolicy{
			ZoneRegular: {
				Kind:         RateFlatBlock,
				GraceMinutes: 15,
				Rates: map[DayType]RateRow{
					DayWeekday: {
						FirstBlockFlat: decimal.NewFromInt(4),
						PerHour:        decimal.NewFromInt(4),
					},
				},
				DailyCap:         &cap20,
				OvernightPenalty: decimal.NewFromInt(80),
			},
		},
		Memberships: map[Tier]MembershipPerk{
			TierNonMember: {FreeHours: 0},
		},
		Penalties: PenaltySchedule{
			LostTicket: LostTicketPenalties{
				NonMember: decimal.NewFromInt(50),
				Member:    decimal.NewFromInt(30),
				Valet:     decimal.NewFromInt(80),
			},
		},
		Partners: map[string]ValidationPartner{
			"woolworths": {MinSpend: decimal.NewFromInt(30), FreeHours: 2},
		},
	}
}

func TestPolicyTable_Validate_Minimal(t *testing.T) {
	require.NoError(t, minimalTable().Validate())
}

func TestPolicyTable_Validate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PolicyTable)
	}{
		{"cutoff hour out of range", func(p *PolicyTable) { p.Cutoff.Hour = 24 }},
		{"cutoff minute out of range", func(p *PolicyTable) { p.Cutoff.Minute = 60 }},
		{"no zones", func(p *PolicyTable) { p.Zones = nil }},
		{"unknown rate kind", func(p *PolicyTable) {
			zp := p.Zones[ZoneRegular]
			zp.Kind = RateKind("surge")
			p.Zones[ZoneRegular] = zp
		}},
		{"negative grace", func(p *PolicyTable) {
			zp := p.Zones[ZoneRegular]
			zp.GraceMinutes = -1
			p.Zones[ZoneRegular] = zp
		}},
		{"negative overnight penalty", func(p *PolicyTable) {
			zp := p.Zones[ZoneRegular]
			zp.OvernightPenalty = decimal.NewFromInt(-1)
			p.Zones[ZoneRegular] = zp
		}},
		{"negative zone cap", func(p *PolicyTable) {
			bad := decimal.NewFromInt(-5)
			zp := p.Zones[ZoneRegular]
			zp.DailyCap = &bad
			p.Zones[ZoneRegular] = zp
		}},
		{"missing weekday row", func(p *PolicyTable) {
			zp := p.Zones[ZoneRegular]
			zp.Rates = map[DayType]RateRow{DayWeekend: zp.Rates[DayWeekday]}
			p.Zones[ZoneRegular] = zp
		}},
		{"negative flat rate", func(p *PolicyTable) {
			zp := p.Zones[ZoneRegular]
			row := zp.Rates[DayWeekday]
			row.FirstBlockFlat = decimal.NewFromInt(-4)
			zp.Rates[DayWeekday] = row
		}},
		{"hourly capped without cap", func(p *PolicyTable) {
			p.Zones[ZoneStaff] = ZonePolicy{
				Kind: RateHourlyCapped,
				Rates: map[DayType]RateRow{
					DayWeekday: {PerHour: decimal.NewFromInt(1)},
				},
			}
		}},
		{"negative membership free hours", func(p *PolicyTable) {
			p.Memberships[TierMember] = MembershipPerk{FreeHours: -1}
		}},
		{"negative lost ticket penalty", func(p *PolicyTable) {
			p.Penalties.LostTicket.Member = decimal.NewFromInt(-30)
		}},
		{"partner key not lowercase", func(p *PolicyTable) {
			p.Partners["Woolworths"] = ValidationPartner{MinSpend: decimal.NewFromInt(30), FreeHours: 2}
		}},
		{"negative partner min spend", func(p *PolicyTable) {
			p.Partners["coles"] = ValidationPartner{MinSpend: decimal.NewFromInt(-1), FreeHours: 1}
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			table := minimalTable()
			c.mutate(table)
			err := table.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPolicy), "expected ErrInvalidPolicy, got %v", err)
		})
	}
}

func TestPolicyTable_Partner_CaseInsensitive(t *testing.T) {
	table := minimalTable()

	for _, store := range []string{"woolworths", "Woolworths", "WOOLWORTHS", "  Woolworths  "} {
		partner, ok := table.Partner(store)
		require.True(t, ok, "lookup %q", store)
		assert.Equal(t, 2, partner.FreeHours)
	}

	_, ok := table.Partner("coles")
	assert.False(t, ok)
}

func TestZonePolicy_RateFor_FallsBackToWeekday(t *testing.T) {
	zp := minimalTable().Zones[ZoneRegular]

	row := zp.rateFor(DayWeekend)
	assert.True(t, row.FirstBlockFlat.Equal(decimal.NewFromInt(4)))
}

func TestParseCutoff(t *testing.T) {
	cases := []struct {
		in      string
		want    CutoffTime
		wantErr bool
	}{
		{"04:00", CutoffTime{4, 0}, false},
		{"23:59", CutoffTime{23, 59}, false},
		{"4:5", CutoffTime{4, 5}, false},
		{"25:00", CutoffTime{}, true},
		{"04:61", CutoffTime{}, true},
		{"garbage", CutoffTime{}, true},
		{"", CutoffTime{}, true},
	}

	for _, c := range cases {
		got, err := ParseCutoff(c.in)
		if c.wantErr {
			assert.Error(t, err, "input %q", c.in)
			continue
		}
		require.NoError(t, err, "input %q", c.in)
		assert.Equal(t, c.want, got)
	}
}

func TestParseEnums(t *testing.T) {
	zone, err := ParseZone("PREFERRED")
	require.NoError(t, err)
	assert.Equal(t, ZonePreferred, zone)

	_, err = ParseZone("BASEMENT")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownZone))

	day, err := ParseDayType("PUBLIC_HOLIDAY")
	require.NoError(t, err)
	assert.Equal(t, DayPublicHoliday, day)

	_, err = ParseDayType("FRIDAY")
	assert.True(t, errors.Is(err, ErrUnknownDayType))

	tier, err := ParseTier("GOLD")
	require.NoError(t, err)
	assert.Equal(t, TierGold, tier)

	_, err = ParseTier("PLATINUM")
	assert.True(t, errors.Is(err, ErrUnknownTier))
}

func TestTier_IsMember(t *testing.T) {
	assert.False(t, TierNonMember.IsMember())
	assert.True(t, TierMember.IsMember())
	assert.True(t, TierSilver.IsMember())
	assert.True(t, TierGold.IsMember())
	assert.True(t, TierStaff.IsMember())
}
