package sqlite

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/parking-engine/tariff"
	"github.com/warp/parking-engine/ticket"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestStore_CreateAndGet(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	created, err := st.CreatePending(ctx, ticket.Ticket{
		Zone:       tariff.ZoneRegular,
		MemberTier: tariff.TierMember,
		EntryTime:  "2025-10-18T10:00",
		DayType:    tariff.DayWeekday,
		Validation: &tariff.ValidationClaim{
			Store: "Woolworths",
			Spend: decimal.RequireFromString("45.00"),
		},
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, ticket.StatusPending, created.Status)

	got, err := st.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, tariff.ZoneRegular, got.Zone)
	assert.Equal(t, tariff.TierMember, got.MemberTier)
	assert.Equal(t, "2025-10-18T10:00", got.EntryTime)
	assert.Empty(t, got.ExitTime)
	assert.Nil(t, got.DurationMinutes)
	require.NotNil(t, got.Validation)
	assert.Equal(t, "Woolworths", got.Validation.Store)
	assert.True(t, got.Validation.Spend.Equal(decimal.RequireFromString("45.00")))
}

func TestStore_Get_NotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := st.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ticket.ErrTicketNotFound)
}

func TestStore_Update_SettlesTicket(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	created, err := st.CreatePending(ctx, ticket.Ticket{
		Zone: tariff.ZoneRegular, MemberTier: tariff.TierNonMember,
		EntryTime: "2025-10-18T10:00", DayType: tariff.DayWeekday,
	})
	require.NoError(t, err)

	minutes := 180
	created.ExitTime = "2025-10-18T13:00"
	created.DurationMinutes = &minutes
	created.Total = decimal.RequireFromString("8.00")
	created.Status = ticket.StatusCompleted
	require.NoError(t, st.Update(ctx, created))

	got, err := st.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusCompleted, got.Status)
	assert.Equal(t, "2025-10-18T13:00", got.ExitTime)
	require.NotNil(t, got.DurationMinutes)
	assert.Equal(t, 180, *got.DurationMinutes)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("8.00")),
		"expected 8.00, got %s", got.Total.StringFixed(2))
}

func TestStore_Update_NotFound(t *testing.T) {
	st := newTestStore(t)

	err := st.Update(context.Background(), ticket.Ticket{ID: 404})
	assert.ErrorIs(t, err, ticket.ErrTicketNotFound)
}

func TestStore_ListByStatus(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		created, err := st.CreatePending(ctx, ticket.Ticket{
			Zone: tariff.ZoneOutdoor, MemberTier: tariff.TierNonMember,
			EntryTime: "2025-10-18T10:00", DayType: tariff.DayWeekend,
		})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	settled, err := st.Get(ctx, ids[0])
	require.NoError(t, err)
	settled.Status = ticket.StatusCompleted
	settled.LostTicket = true
	settled.Total = decimal.RequireFromString("50.00")
	require.NoError(t, st.Update(ctx, settled))

	pending, err := st.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, ids[1], pending[0].ID)
	assert.Equal(t, ids[2], pending[1].ID)

	completed, err := st.ListCompleted(ctx)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, ids[0], completed[0].ID)
	assert.True(t, completed[0].LostTicket)
}

func TestStore_DecimalTotalSurvivesRoundTrip(t *testing.T) {
	// Totals are stored as TEXT; two-decimal amounts come back exact.
	st := newTestStore(t)
	ctx := context.Background()

	created, err := st.CreatePending(ctx, ticket.Ticket{
		Zone: tariff.ZoneValet, MemberTier: tariff.TierGold,
		EntryTime: "2025-10-18T10:00", DayType: tariff.DayPublicHoliday,
	})
	require.NoError(t, err)

	created.Total = decimal.RequireFromString("35.00")
	created.Status = ticket.StatusCompleted
	require.NoError(t, st.Update(ctx, created))

	got, err := st.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "35.00", got.Total.StringFixed(2))
}
