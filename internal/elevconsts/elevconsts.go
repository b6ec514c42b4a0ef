package elevconsts

import (
	"errors"
	"fmt"
	"time"
)

const (
	N_FLOORS  = 3
	N_BUTTONS = 3
	N_CALLS   = 7 //3 car calls, 2 hall up, 2 hall down
)

const (
	DWELL_TICKS   = 25
	TICK_MS       = 10
	DWELL_MS      = DWELL_TICKS * TICK_MS //motor-off stop at every served floor
	KEY_SETTLE_MS = TICK_MS               //contact bounce delay after one keypad scan
)

// Duty cycle register values out of DUTY_PERIOD.
const (
	DUTY_PERIOD       = 250
	DEFAULT_DUTY_UP   = 225
	DEFAULT_DUTY_DOWN = 190
	DUTY_IDLE         = 0
)

var ErrInvalidCall = errors.New("invalid call kind")

func DwellDuration() time.Duration {
	return DWELL_MS * time.Millisecond
}

type Floor int

const (
	NoFloor Floor = 0
	Floor1  Floor = 1
	Floor2  Floor = 2
	Floor3  Floor = 3
)

func (f Floor) Valid() bool {
	return f >= Floor1 && f <= Floor3
}

func (f Floor) IsTerminus() bool {
	return f == Floor1 || f == Floor3
}

func (f Floor) String() string {
	if !f.Valid() {
		return "F_NONE"
	}
	return fmt.Sprintf("F%d", int(f))
}

type Dirn int

const (
	Down Dirn = -1
	Idle Dirn = 0
	Up   Dirn = 1
)

func (d Dirn) String() string {
	switch d {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Idle:
		return "Idle"
	default:
		return "Undefined"
	}
}

type Button int

const (
	HallUp Button = iota
	HallDown
	Cab
)

func (b Button) String() string {
	switch b {
	case HallUp:
		return "B_HallUp"
	case HallDown:
		return "B_HallDown"
	case Cab:
		return "B_Cab"
	default:
		return "B_UNDEFINED"
	}
}

// CallKind identifies one call button. The bottom floor has no hall down
// button and the top floor has no hall up button.
type CallKind struct {
	Floor  Floor
	Button Button
}

var (
	CarCall1  = CallKind{Floor1, Cab}
	CarCall2  = CallKind{Floor2, Cab}
	CarCall3  = CallKind{Floor3, Cab}
	HallUp1   = CallKind{Floor1, HallUp}
	HallUp2   = CallKind{Floor2, HallUp}
	HallDown2 = CallKind{Floor2, HallDown}
	HallDown3 = CallKind{Floor3, HallDown}
)

// AllCalls is ordered by Index.
var AllCalls = [N_CALLS]CallKind{
	CarCall1, CarCall2, CarCall3,
	HallUp1, HallUp2,
	HallDown2, HallDown3,
}

func NewCallKind(floor Floor, button Button) (CallKind, error) {
	call := CallKind{Floor: floor, Button: button}
	if call.Index() < 0 {
		return CallKind{}, fmt.Errorf("%w: %s at %s", ErrInvalidCall, button, floor)
	}
	return call, nil
}

// Index returns the position of the call in AllCalls, or -1 if the call
// cannot exist on this car.
func (c CallKind) Index() int {
	if !c.Floor.Valid() {
		return -1
	}
	switch c.Button {
	case Cab:
		return int(c.Floor) - 1
	case HallUp:
		if c.Floor == Floor3 {
			return -1
		}
		return 3 + int(c.Floor) - 1
	case HallDown:
		if c.Floor == Floor1 {
			return -1
		}
		return 5 + int(c.Floor) - 2
	}
	return -1
}

func (c CallKind) Valid() bool {
	return c.Index() >= 0
}

func (c CallKind) String() string {
	switch c.Button {
	case Cab:
		return fmt.Sprintf("CarCall(%d)", int(c.Floor))
	case HallUp:
		return fmt.Sprintf("HallUp(%d)", int(c.Floor))
	case HallDown:
		return fmt.Sprintf("HallDown(%d)", int(c.Floor))
	default:
		return "Call_UNDEFINED"
	}
}

// CallsAt lists every call that can be raised at floor.
func CallsAt(floor Floor) []CallKind {
	var calls []CallKind
	for _, call := range AllCalls {
		if call.Floor == floor {
			calls = append(calls, call)
		}
	}
	return calls
}
