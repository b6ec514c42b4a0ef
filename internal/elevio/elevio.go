package elevio

import (
	"context"
	"sync"
	"time"

	"github.com/adiga/ElevatorControllerSystem/internal/elevcmd"
	"github.com/adiga/ElevatorControllerSystem/internal/elevconsts"
	"github.com/adiga/ElevatorControllerSystem/internal/elevevent"
	"github.com/adiga/ElevatorControllerSystem/internal/logger"
)

var Log = logger.GetLogger()

const DEFAULT_POLL_RATE = 20 * time.Millisecond

type Keypad interface {
	// Drives lineSelect on the row outputs and returns the whole port,
	// row bits in the low nibble and column inputs above them.
	ReadKeypadLine(lineSelect uint8) uint8
	// Ties all rows high again.
	ReleaseLines()
}

type PositionSensor interface {
	ReadPositionSensor() uint8
}

type Motor interface {
	SetMotor(dir elevconsts.Dirn, duty uint8)
}

type Display interface {
	SetText(text string)
	Clear()
}

type Delayer interface {
	// Blocks for ms milliseconds. Never returns early.
	DelayMs(ms int)
}

// InterruptSource reports latched key-change and sensor-change signals.
// Reading clears the latches.
type InterruptSource interface {
	PendingInterrupts() (key bool, sensor bool)
}

// Hardware is everything a board exposes to the controller apart from the
// display, which may live elsewhere.
type Hardware interface {
	Keypad
	PositionSensor
	Motor
	InterruptSource
}

type CommandSink interface {
	Execute(command elevcmd.ElevatorCommand)
}

type SleepDelayer struct{}

func (SleepDelayer) DelayMs(ms int) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

type ElevatorIO struct {
	//These Channels only Send Events
	keyChannel    chan<- elevevent.ElevatorEvent
	sensorChannel chan<- elevevent.ElevatorEvent

	hardware Hardware
	display  Display
	pollRate time.Duration
}

func NewElevatorIO(hardware Hardware, display Display, pollRate time.Duration, keyChannel chan<- elevevent.ElevatorEvent, sensorChannel chan<- elevevent.ElevatorEvent) *ElevatorIO {
	if pollRate <= 0 {
		pollRate = DEFAULT_POLL_RATE
	}
	return &ElevatorIO{
		keyChannel:    keyChannel,
		sensorChannel: sensorChannel,
		hardware:      hardware,
		display:       display,
		pollRate:      pollRate,
	}
}

// Start polls the interrupt latches and forwards each one to the channel of
// its priority level. Signals are coalesced while the handler of that level
// is still busy, so a dwell never stalls the key path.
func (eio *ElevatorIO) Start(ctx context.Context, waitGroup *sync.WaitGroup) {
	waitGroup.Add(1)

	go func() {
		defer waitGroup.Done()
		ticker := time.NewTicker(eio.pollRate)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				Log.Warn().Msgf("ElevatorIO interrupt polling Go routine has been signaled to stop")
				return
			case <-ticker.C:
				key, sensor := eio.hardware.PendingInterrupts()
				//A signal that is already queued covers this one too
				if key && elevevent.Publish(eio.keyChannel, elevevent.KeyChangeEvent{}) {
					Log.Trace().Msgf("Queued key change")
				}
				if sensor && elevevent.Publish(eio.sensorChannel, elevevent.SensorChangeEvent{}) {
					Log.Trace().Msgf("Queued sensor change")
				}
			}
		}
	}()
}

// Execute applies a command to the hardware before returning.
func (eio *ElevatorIO) Execute(command elevcmd.ElevatorCommand) {
	Log.Trace().Msgf("Executing command %v", command.CommandType())
	switch cmd := command.Value.(type) {
	case elevcmd.MotorCommand:
		eio.hardware.SetMotor(cmd.Dir, cmd.Duty)
	case elevcmd.DisplayTextCommand:
		eio.display.SetText(cmd.Text)
	case elevcmd.DisplayClearCommand:
		eio.display.Clear()
	case elevcmd.ReleaseLinesCommand:
		eio.hardware.ReleaseLines()
	default:
		Log.Error().Msgf("Unknown command %v", cmd)
	}
}
