package elevevent

import (
	"github.com/adiga/ElevatorControllerSystem/internal/elevconsts"
)

type ElevatorEvent struct {
	//Golang doesnt support union types,
	//so we have to pass any of the below
	//structs
	Value any
}

// Keypad interrupt line changed, a scan is due.
type KeyChangeEvent struct {
}

// Position sensor interrupt line changed, a decode is due.
type SensorChangeEvent struct {
}

// A scan decoded a key into a call.
type KeyPressEvent struct {
	Call elevconsts.CallKind
}

type FloorArrivalEvent struct {
	Floor elevconsts.Floor
	Stop  bool //true if the arrival caused a stop and a new decision
}

type SensorConflictEvent struct {
	Raw uint8
}

type MotionDecisionEvent struct {
	Floor elevconsts.Floor
	Dirn  elevconsts.Dirn
}

func (e ElevatorEvent) EventType() string {
	switch e.Value.(type) {
	case KeyChangeEvent:
		return "KeyChangeEvent"
	case SensorChangeEvent:
		return "SensorChangeEvent"
	case KeyPressEvent:
		return "KeyPressEvent"
	case FloorArrivalEvent:
		return "FloorArrivalEvent"
	case SensorConflictEvent:
		return "SensorConflictEvent"
	case MotionDecisionEvent:
		return "MotionDecisionEvent"
	default:
		return "UnknownEvent"
	}
}

func Wrap(value any) ElevatorEvent {
	return ElevatorEvent{Value: value}
}

// Publish hands value to channel without blocking. It reports false if the
// channel is nil or full; callers use it for coalescing signals and for
// optional diagnostic listeners.
func Publish(channel chan<- ElevatorEvent, value any) bool {
	if channel == nil {
		return false
	}
	select {
	case channel <- Wrap(value):
		return true
	default:
		return false
	}
}
