package elevmotor

import (
	"github.com/adiga/ElevatorControllerSystem/internal/elevcmd"
	"github.com/adiga/ElevatorControllerSystem/internal/elevconsts"
	"github.com/adiga/ElevatorControllerSystem/internal/elevio"
	"github.com/adiga/ElevatorControllerSystem/internal/logger"
)

var Log = logger.GetLogger()

// MotorSpeeds holds the duty register value for each travel direction.
type MotorSpeeds struct {
	Up   uint8
	Down uint8
}

func DefaultSpeeds() MotorSpeeds {
	return MotorSpeeds{
		Up:   elevconsts.DEFAULT_DUTY_UP,
		Down: elevconsts.DEFAULT_DUTY_DOWN,
	}
}

// Emitter turns a direction into motor commands. It keeps no state besides
// its configuration.
type Emitter struct {
	sink    elevio.CommandSink
	delayer elevio.Delayer
	speeds  MotorSpeeds
}

func NewEmitter(sink elevio.CommandSink, delayer elevio.Delayer, speeds MotorSpeeds) *Emitter {
	return &Emitter{
		sink:    sink,
		delayer: delayer,
		speeds:  speeds,
	}
}

func (e *Emitter) Duty(dir elevconsts.Dirn) uint8 {
	switch dir {
	case elevconsts.Up:
		return e.speeds.Up
	case elevconsts.Down:
		return e.speeds.Down
	default:
		return elevconsts.DUTY_IDLE
	}
}

func (e *Emitter) Command(dir elevconsts.Dirn) elevcmd.ElevatorCommand {
	if dir != elevconsts.Up && dir != elevconsts.Down {
		dir = elevconsts.Idle
	}
	return elevcmd.Wrap(elevcmd.MotorCommand{Dir: dir, Duty: e.Duty(dir)})
}

// Dwell de-energises the motor and waits the fixed dwell time.
func (e *Emitter) Dwell() {
	e.sink.Execute(e.Command(elevconsts.Idle))
	e.delayer.DelayMs(elevconsts.DWELL_MS)
}

func (e *Emitter) Drive(dir elevconsts.Dirn) {
	Log.Debug().Msgf("Driving motor %v at duty %d", dir, e.Duty(dir))
	e.sink.Execute(e.Command(dir))
}
