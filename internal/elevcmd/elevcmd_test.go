package elevcmd

import "testing"

func TestCommandType(t *testing.T) {
	elevatorCommandArray := []ElevatorCommand{
		{Value: MotorCommand{}},
		{Value: DisplayTextCommand{}},
		{Value: DisplayClearCommand{}},
		Wrap(ReleaseLinesCommand{}),
		{Value: struct{}{}},
	}

	elevatorCommandStringArray := []string{
		"MotorCommand",
		"DisplayTextCommand",
		"DisplayClearCommand",
		"ReleaseLinesCommand",
		"UnknownCommand",
	}

	for index, elevatorCommand := range elevatorCommandArray {
		if elevatorCommand.CommandType() != elevatorCommandStringArray[index] {
			t.Errorf("Elevator.CommandType() returned %v, expected %v", elevatorCommand.CommandType(), elevatorCommandStringArray[index])
		}
	}
}
