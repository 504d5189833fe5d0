package store

import (
	"context"
	"errors"
	"testing"

	"github.com/warp/parking-engine/tariff"
	"github.com/warp/parking-engine/ticket"
)

func TestMemory_CreateAndGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	created, err := m.CreatePending(ctx, ticket.Ticket{
		Zone:       tariff.ZoneRegular,
		MemberTier: tariff.TierMember,
		EntryTime:  "2025-10-18T10:00",
		DayType:    tariff.DayWeekday,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected an assigned ID")
	}
	if created.Status != ticket.StatusPending {
		t.Errorf("expected pending status, got %s", created.Status)
	}

	got, err := m.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Zone != tariff.ZoneRegular || got.MemberTier != tariff.TierMember {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestMemory_Get_NotFound(t *testing.T) {
	m := NewMemory()

	_, err := m.Get(context.Background(), 42)
	if !errors.Is(err, ticket.ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestMemory_Update(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	created, err := m.CreatePending(ctx, ticket.Ticket{
		Zone: tariff.ZoneRegular, MemberTier: tariff.TierNonMember,
		EntryTime: "2025-10-18T10:00", DayType: tariff.DayWeekday,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created.Status = ticket.StatusCompleted
	created.ExitTime = "2025-10-18T13:00"
	if err := m.Update(ctx, created); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := m.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != ticket.StatusCompleted || got.ExitTime != "2025-10-18T13:00" {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestMemory_Update_NotFound(t *testing.T) {
	m := NewMemory()

	err := m.Update(context.Background(), ticket.Ticket{ID: 99})
	if !errors.Is(err, ticket.ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestMemory_ListByStatus(t *testing.T) {
	// GIVEN: Three tickets, the middle one settled
	// WHEN: Listing pending and completed
	// THEN: Each list holds the right tickets in ID order

	m := NewMemory()
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		created, err := m.CreatePending(ctx, ticket.Ticket{
			Zone: tariff.ZoneRegular, MemberTier: tariff.TierNonMember,
			EntryTime: "2025-10-18T10:00", DayType: tariff.DayWeekday,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids = append(ids, created.ID)
	}

	middle, _ := m.Get(ctx, ids[1])
	middle.Status = ticket.StatusCompleted
	if err := m.Update(ctx, middle); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pending, err := m.ListPending(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != ids[0] || pending[1].ID != ids[2] {
		t.Errorf("unexpected pending list: %+v", pending)
	}

	completed, err := m.ListCompleted(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != ids[1] {
		t.Errorf("unexpected completed list: %+v", completed)
	}
}
