package keypad

import (
	"testing"

	"github.com/adiga/ElevatorControllerSystem/internal/elevconsts"
	"github.com/adiga/ElevatorControllerSystem/internal/elevrequests"
	"github.com/adiga/ElevatorControllerSystem/internal/logger"
	"github.com/rs/zerolog"
)

// Records every keypad access and delay in order.
type fakeMatrix struct {
	lines map[uint8]uint8
	trace []string
}

func (f *fakeMatrix) ReadKeypadLine(lineSelect uint8) uint8 {
	f.trace = append(f.trace, "read")
	return lineSelect | f.lines[lineSelect]
}

func (f *fakeMatrix) ReleaseLines() {
	f.trace = append(f.trace, "release")
}

func (f *fakeMatrix) DelayMs(ms int) {
	f.trace = append(f.trace, "delay")
}

func TestDecodeTable(t *testing.T) {
	tests := []struct {
		bits uint8
		call elevconsts.CallKind
	}{
		{18, elevconsts.HallUp1},
		{34, elevconsts.HallUp2},
		{66, elevconsts.HallDown2},
		{20, elevconsts.CarCall1},
		{36, elevconsts.CarCall2},
		{68, elevconsts.CarCall3},
		{40, elevconsts.HallDown3},
		{40 | 0x80, elevconsts.HallDown3},
	}

	for _, test := range tests {
		call, ok := Decode(test.bits)
		if !ok || call != test.call {
			t.Errorf("Decode(%d) = %v, %v, expected %v, true", test.bits, call, ok, test.call)
		}
		code, ok := Encode(test.call)
		if !ok || code != test.bits&INPUT_MASK {
			t.Errorf("Encode(%v) = %d, %v, expected %d", test.call, code, ok, test.bits&INPUT_MASK)
		}
	}
}

func TestDecodeIgnoresUnknownPatterns(t *testing.T) {
	for _, bits := range []uint8{0, 1, 17, 33, 65, 0x32, 0x72, 0x0F, 0x7F} {
		if call, ok := Decode(bits); ok {
			t.Errorf("Decode(%d) = %v, expected the pattern to be ignored", bits, call)
		}
	}
}

func TestScanSetsFlagsAndSettles(t *testing.T) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	matrix := &fakeMatrix{lines: map[uint8]uint8{
		0x02: 0x20, //5: hall up at 2
		0x04: 0x40, //9: car call 3
	}}
	requests := elevrequests.NewRequestState()
	scanner := NewScanner(matrix, matrix, requests)

	calls := scanner.Scan()

	if len(calls) != 2 || calls[0] != elevconsts.HallUp2 || calls[1] != elevconsts.CarCall3 {
		t.Errorf("Scan() = %v, expected [HallUp(2) CarCall(3)]", calls)
	}
	if !requests.Pending(elevconsts.HallUp2) || !requests.Pending(elevconsts.CarCall3) {
		t.Errorf("PendingCalls() = %v, expected HallUp(2) and CarCall(3)", requests.PendingCalls())
	}
	if len(requests.PendingCalls()) != 2 {
		t.Errorf("PendingCalls() = %v, expected exactly two", requests.PendingCalls())
	}

	expectedTrace := []string{"read", "read", "read", "read", "delay", "release"}
	if len(matrix.trace) != len(expectedTrace) {
		t.Fatalf("trace = %v, expected %v", matrix.trace, expectedTrace)
	}
	for i := range expectedTrace {
		if matrix.trace[i] != expectedTrace[i] {
			t.Errorf("trace = %v, expected %v", matrix.trace, expectedTrace)
			break
		}
	}
}

func TestHeldKeyIsIdempotent(t *testing.T) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	matrix := &fakeMatrix{lines: map[uint8]uint8{0x08: 0x20}}
	requests := elevrequests.NewRequestState()
	scanner := NewScanner(matrix, matrix, requests)

	for i := 0; i < 3; i++ {
		scanner.Scan()
		if !requests.Pending(elevconsts.HallDown3) {
			t.Fatalf("Pending(HallDown3) = false after scan %d", i+1)
		}
	}
	if len(requests.PendingCalls()) != 1 {
		t.Errorf("PendingCalls() = %v, expected only HallDown(3)", requests.PendingCalls())
	}
}

func TestBounceRaisesNoCall(t *testing.T) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	matrix := &fakeMatrix{lines: map[uint8]uint8{
		0x01: 0x10, //unused key 1
		0x02: 0x30, //two keys in one row
	}}
	requests := elevrequests.NewRequestState()
	scanner := NewScanner(matrix, matrix, requests)

	if calls := scanner.Scan(); len(calls) != 0 {
		t.Errorf("Scan() = %v, expected no calls", calls)
	}
	if len(requests.PendingCalls()) != 0 {
		t.Errorf("PendingCalls() = %v, expected none", requests.PendingCalls())
	}
}
