package elevrequests

import (
	"sync"
	"testing"

	"github.com/adiga/ElevatorControllerSystem/internal/elevconsts"
	"github.com/adiga/ElevatorControllerSystem/internal/logger"
	"github.com/rs/zerolog"
)

func TestSetIsIdempotent(t *testing.T) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	rs := NewRequestState()

	for i := 0; i < 5; i++ {
		rs.Set(elevconsts.HallUp2)
		if !rs.Pending(elevconsts.HallUp2) {
			t.Fatalf("Pending(HallUp2) = false after %d sets", i+1)
		}
	}

	rs.Clear(elevconsts.HallUp2)
	if rs.Pending(elevconsts.HallUp2) {
		t.Errorf("Pending(HallUp2) = true after clear")
	}
}

func TestInvalidCallsAreIgnored(t *testing.T) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	rs := NewRequestState()

	bogus := elevconsts.CallKind{Floor: elevconsts.Floor3, Button: elevconsts.HallUp}
	rs.Set(bogus)
	if rs.Pending(bogus) {
		t.Errorf("Pending(%v) = true, expected invalid call to never be pending", bogus)
	}
	if len(rs.PendingCalls()) != 0 {
		t.Errorf("PendingCalls() = %v, expected none", rs.PendingCalls())
	}
}

func TestAnyAt(t *testing.T) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	rs := NewRequestState()

	if rs.AnyAt(elevconsts.Floor2) {
		t.Errorf("AnyAt(Floor2) = true on empty state")
	}
	rs.Set(elevconsts.HallDown2)
	if !rs.AnyAt(elevconsts.Floor2) {
		t.Errorf("AnyAt(Floor2) = false with HallDown2 pending")
	}
	if rs.AnyAt(elevconsts.Floor1) || rs.AnyAt(elevconsts.Floor3) {
		t.Errorf("AnyAt reports calls on floors without any")
	}
}

func TestSnapshotOrder(t *testing.T) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	rs := NewRequestState()
	rs.Set(elevconsts.CarCall3)
	rs.Set(elevconsts.HallDown3)

	snapshot := rs.Snapshot()
	for i, call := range elevconsts.AllCalls {
		expected := call == elevconsts.CarCall3 || call == elevconsts.HallDown3
		if snapshot[i] != expected {
			t.Errorf("Snapshot()[%d] (%v) = %v, expected %v", i, call, snapshot[i], expected)
		}
	}
}

// Setters and clearers of unrelated calls never lose each other's flags.
func TestConcurrentSetAndClear(t *testing.T) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	rs := NewRequestState()
	wg := sync.WaitGroup{}

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			rs.Set(elevconsts.CarCall1)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			rs.Set(elevconsts.HallDown3)
			rs.Clear(elevconsts.HallDown3)
		}
	}()
	wg.Wait()

	if !rs.Pending(elevconsts.CarCall1) {
		t.Errorf("Pending(CarCall1) = false, flag lost by unrelated clears")
	}
	if rs.Pending(elevconsts.HallDown3) {
		t.Errorf("Pending(HallDown3) = true, expected last clear to win")
	}
}
