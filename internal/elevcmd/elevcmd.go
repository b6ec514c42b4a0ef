package elevcmd

import (
	"github.com/adiga/ElevatorControllerSystem/internal/elevconsts"
)

type ElevatorCommand struct {
	//Golang doesnt support union types,
	//so we have to pass any of the below
	//structs
	Value any
}

// Drive the motor. Duty is 0 when Dir is Idle.
type MotorCommand struct {
	Dir  elevconsts.Dirn
	Duty uint8
}

// Append text to the debug display.
type DisplayTextCommand struct {
	Text string
}

type DisplayClearCommand struct {
}

// Return the keypad scan lines to idle high.
type ReleaseLinesCommand struct {
}

func (e ElevatorCommand) CommandType() string {
	switch e.Value.(type) {
	case MotorCommand:
		return "MotorCommand"
	case DisplayTextCommand:
		return "DisplayTextCommand"
	case DisplayClearCommand:
		return "DisplayClearCommand"
	case ReleaseLinesCommand:
		return "ReleaseLinesCommand"
	default:
		return "UnknownCommand"
	}
}

func Wrap(value any) ElevatorCommand {
	return ElevatorCommand{Value: value}
}
