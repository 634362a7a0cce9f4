package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/engine/store"
)

func punch(kind engine.PunchKind, t time.Time) engine.PunchEvent {
	return engine.PunchEvent{EmployeeID: "emp-1", Kind: kind, At: t}
}

func TestMemory_AppendPunchEnforcesAlternation(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	base := time.Date(2025, time.April, 7, 9, 0, 0, 0, time.UTC)

	// OUT with nothing open
	if _, err := mem.AppendPunch(ctx, punch(engine.PunchOut, base)); !errors.Is(err, engine.ErrNoOpenPunch) {
		t.Fatalf("expected ErrNoOpenPunch, got %v", err)
	}

	if _, err := mem.AppendPunch(ctx, punch(engine.PunchIn, base)); err != nil {
		t.Fatalf("first IN: %v", err)
	}

	// Double IN
	if _, err := mem.AppendPunch(ctx, punch(engine.PunchIn, base.Add(time.Hour))); !errors.Is(err, engine.ErrOpenPunchExists) {
		t.Fatalf("expected ErrOpenPunchExists, got %v", err)
	}

	if _, err := mem.AppendPunch(ctx, punch(engine.PunchOut, base.Add(8*time.Hour))); err != nil {
		t.Fatalf("OUT: %v", err)
	}
}

func TestMemory_AppendPunchFillsID(t *testing.T) {
	mem := store.NewMemory()
	p, err := mem.AppendPunch(context.Background(),
		punch(engine.PunchIn, time.Date(2025, time.April, 7, 9, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatal(err)
	}
	if p.ID == "" {
		t.Error("expected a generated punch ID")
	}
}

func TestMemory_DeletePunch(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	p, err := mem.AppendPunch(ctx,
		punch(engine.PunchIn, time.Date(2025, time.April, 7, 9, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatal(err)
	}

	if err := mem.DeletePunch(ctx, "emp-1", p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := mem.DeletePunch(ctx, "emp-1", p.ID); !errors.Is(err, engine.ErrPunchNotFound) {
		t.Errorf("expected ErrPunchNotFound, got %v", err)
	}
}

func TestMemory_ResolveExceptionTerminalOnce(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	ex, err := mem.CreateException(ctx, engine.ExceptionRequest{
		EmployeeID: "emp-1",
		Day:        engine.NewDay(2025, time.April, 7),
		Kind:       engine.ExceptionLeave,
	})
	if err != nil {
		t.Fatal(err)
	}
	if ex.Status != engine.StatusPending {
		t.Fatalf("expected PENDING default, got %s", ex.Status)
	}

	if err := mem.ResolveException(ctx, ex.ID, engine.StatusApproved, "hr-1"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	// Idempotent re-approval
	if err := mem.ResolveException(ctx, ex.ID, engine.StatusApproved, "hr-2"); err != nil {
		t.Errorf("re-approval must be a no-op, got %v", err)
	}
	// Conflicting resolution
	if err := mem.ResolveException(ctx, ex.ID, engine.StatusRejected, "hr-3"); !errors.Is(err, engine.ErrRequestFinalized) {
		t.Errorf("expected ErrRequestFinalized, got %v", err)
	}
}

func TestMemory_PunchesInRangeFiltersByDay(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	d1 := engine.NewDay(2025, time.April, 7)
	d2 := engine.NewDay(2025, time.May, 7)
	for _, d := range []engine.Day{d1, d2} {
		if _, err := mem.AppendPunch(ctx, punch(engine.PunchIn, d.At(engine.NewClockTime(9, 0)))); err != nil {
			t.Fatal(err)
		}
		if _, err := mem.AppendPunch(ctx, punch(engine.PunchOut, d.At(engine.NewClockTime(17, 0)))); err != nil {
			t.Fatal(err)
		}
	}

	april := engine.MonthPeriod{Year: 2025, Month: time.April}
	got, err := mem.PunchesInRange(ctx, "emp-1", april.Start(), april.End())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 April punches, got %d", len(got))
	}
}
