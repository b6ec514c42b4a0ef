package elevmotor

import (
	"testing"

	"github.com/adiga/ElevatorControllerSystem/internal/elevcmd"
	"github.com/adiga/ElevatorControllerSystem/internal/elevconsts"
	"github.com/adiga/ElevatorControllerSystem/internal/logger"
	"github.com/rs/zerolog"
)

type recorder struct {
	trace []any
}

func (r *recorder) Execute(command elevcmd.ElevatorCommand) {
	r.trace = append(r.trace, command.Value)
}

func (r *recorder) DelayMs(ms int) {
	r.trace = append(r.trace, ms)
}

func TestDrive(t *testing.T) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	tests := []struct {
		dir      elevconsts.Dirn
		expected elevcmd.MotorCommand
	}{
		{elevconsts.Up, elevcmd.MotorCommand{Dir: elevconsts.Up, Duty: 225}},
		{elevconsts.Down, elevcmd.MotorCommand{Dir: elevconsts.Down, Duty: 190}},
		{elevconsts.Idle, elevcmd.MotorCommand{Dir: elevconsts.Idle, Duty: 0}},
		{elevconsts.Dirn(9), elevcmd.MotorCommand{Dir: elevconsts.Idle, Duty: 0}},
	}

	for _, test := range tests {
		r := &recorder{}
		NewEmitter(r, r, DefaultSpeeds()).Drive(test.dir)
		if len(r.trace) != 1 || r.trace[0] != test.expected {
			t.Errorf("Drive(%v) emitted %v, expected [%v]", test.dir, r.trace, test.expected)
		}
	}
}

func TestConfiguredSpeeds(t *testing.T) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	r := &recorder{}
	emitter := NewEmitter(r, r, MotorSpeeds{Up: 100, Down: 80})

	if emitter.Duty(elevconsts.Up) != 100 || emitter.Duty(elevconsts.Down) != 80 || emitter.Duty(elevconsts.Idle) != 0 {
		t.Errorf("Duty() = %d/%d/%d, expected 100/80/0",
			emitter.Duty(elevconsts.Up), emitter.Duty(elevconsts.Down), emitter.Duty(elevconsts.Idle))
	}
}

func TestDwellStopsMotorBeforeWaiting(t *testing.T) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	r := &recorder{}
	NewEmitter(r, r, DefaultSpeeds()).Dwell()

	if len(r.trace) != 2 {
		t.Fatalf("Dwell() trace = %v, expected stop then wait", r.trace)
	}
	if r.trace[0] != (elevcmd.MotorCommand{Dir: elevconsts.Idle, Duty: 0}) {
		t.Errorf("first Dwell() step = %v, expected idle motor", r.trace[0])
	}
	if r.trace[1] != elevconsts.DWELL_MS {
		t.Errorf("second Dwell() step = %v, expected %d ms wait", r.trace[1], elevconsts.DWELL_MS)
	}
}
