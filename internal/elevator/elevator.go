package elevator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/adiga/ElevatorControllerSystem/internal/elevcmd"
	"github.com/adiga/ElevatorControllerSystem/internal/elevconsts"
	"github.com/adiga/ElevatorControllerSystem/internal/elevevent"
	"github.com/adiga/ElevatorControllerSystem/internal/elevio"
	"github.com/adiga/ElevatorControllerSystem/internal/elevmetadata"
	"github.com/adiga/ElevatorControllerSystem/internal/elevmotor"
	"github.com/adiga/ElevatorControllerSystem/internal/elevrequests"
	"github.com/adiga/ElevatorControllerSystem/internal/elevstate"
	"github.com/adiga/ElevatorControllerSystem/internal/keypad"
	"github.com/adiga/ElevatorControllerSystem/internal/logger"
	"github.com/adiga/ElevatorControllerSystem/internal/possensor"
)

var Log = logger.GetLogger()

const (
	SIGNAL_CHANNEL_SIZE      = 1 //one queued signal per level, more are coalesced
	DIAGNOSTICS_CHANNEL_SIZE = 32
	KEY_ECHO_TEXT            = "XIRQ"
)

type Options struct {
	Speeds         elevmotor.MotorSpeeds
	PollRate       time.Duration
	VerboseDisplay bool           //echo every key interrupt to the display
	Delayer        elevio.Delayer //defaults to sleeping
}

func DefaultOptions() Options {
	return Options{
		Speeds:   elevmotor.DefaultSpeeds(),
		PollRate: elevio.DEFAULT_POLL_RATE,
		Delayer:  elevio.SleepDelayer{},
	}
}

// Elevator runs the two interrupt levels of the controller. The key level
// scans the keypad, the sensor level decodes the position and runs the
// arbitration pass.
type Elevator struct {
	MetaData *elevmetadata.ElevMetaData
	IO       *elevio.ElevatorIO
	Requests *elevrequests.RequestState
	State    *elevstate.ElevatorState
	Scanner  *keypad.Scanner
	Sensor   *possensor.Decoder
	Emitter  *elevmotor.Emitter

	//Arrivals, decisions, decoded keys and sensor conflicts. Dropped if full.
	Diagnostics chan elevevent.ElevatorEvent

	verboseDisplay bool

	keyChannel    chan elevevent.ElevatorEvent
	sensorChannel chan elevevent.ElevatorEvent

	scanMtx sync.Mutex //held for the whole of a keypad scan
	passMtx sync.Mutex //held for the whole of a sensor pass

	initialised bool //set to true if initialised via NewElevator Function
	running     bool
	runningMtx  sync.Mutex //guards running, held through Start and Stop

	//used for graceful shutdown
	waitGroupArray []*sync.WaitGroup
	cancelArray    []context.CancelFunc
}

func NewElevator(metaData *elevmetadata.ElevMetaData, hardware elevio.Hardware, display elevio.Display, options Options) *Elevator {
	if options.Delayer == nil {
		options.Delayer = elevio.SleepDelayer{}
	}
	if options.Speeds == (elevmotor.MotorSpeeds{}) {
		options.Speeds = elevmotor.DefaultSpeeds()
	}

	keyChannel := make(chan elevevent.ElevatorEvent, SIGNAL_CHANNEL_SIZE)
	sensorChannel := make(chan elevevent.ElevatorEvent, SIGNAL_CHANNEL_SIZE)
	diagnostics := make(chan elevevent.ElevatorEvent, DIAGNOSTICS_CHANNEL_SIZE)

	elevIO := elevio.NewElevatorIO(hardware, display, options.PollRate, keyChannel, sensorChannel)
	requests := elevrequests.NewRequestState()
	emitter := elevmotor.NewEmitter(elevIO, options.Delayer, options.Speeds)
	state := elevstate.NewElevatorState(requests, emitter, diagnostics)

	return &Elevator{
		MetaData:       metaData,
		IO:             elevIO,
		Requests:       requests,
		State:          state,
		Scanner:        keypad.NewScanner(hardware, options.Delayer, requests),
		Sensor:         possensor.NewDecoder(hardware, display, state),
		Emitter:        emitter,
		Diagnostics:    diagnostics,
		verboseDisplay: options.VerboseDisplay,
		keyChannel:     keyChannel,
		sensorChannel:  sensorChannel,
		initialised:    true,
		running:        false,
	}
}

// Reset puts the board in its boot state: display cleared, keypad rows
// released and the motor off.
func (e *Elevator) Reset() {
	e.IO.Execute(elevcmd.Wrap(elevcmd.DisplayClearCommand{}))
	e.IO.Execute(elevcmd.Wrap(elevcmd.ReleaseLinesCommand{}))
	e.IO.Execute(e.Emitter.Command(elevconsts.Idle))
}

// HandleKeyChange is the key interrupt body. It may run while a sensor pass
// is in its dwell; flags it sets are picked up by that pass or the next.
// A car parked with the motor idle produces no sensor changes, so a new call
// queues a sensor signal to wake the arbitration.
func (e *Elevator) HandleKeyChange() {
	e.scanMtx.Lock()
	defer e.scanMtx.Unlock()

	if e.verboseDisplay {
		e.IO.Execute(elevcmd.Wrap(elevcmd.DisplayTextCommand{Text: KEY_ECHO_TEXT}))
	}

	calls := e.Scanner.Scan()
	for _, call := range calls {
		Log.Info().Msgf("Key pressed: %v", call)
		elevevent.Publish(e.Diagnostics, elevevent.KeyPressEvent{Call: call})
	}

	if _, dirn := e.State.Motion(); len(calls) > 0 && dirn == elevconsts.Idle {
		if elevevent.Publish(e.sensorChannel, elevevent.SensorChangeEvent{}) {
			Log.Trace().Msgf("Queued sensor pass for parked car")
		}
	}
}

// HandleSensorChange is the sensor interrupt body. It never begins while a
// keypad scan is running.
func (e *Elevator) HandleSensorChange() {
	//wait out a scan in progress
	e.scanMtx.Lock()
	e.scanMtx.Unlock()

	e.passMtx.Lock()
	defer e.passMtx.Unlock()

	_, err := e.Sensor.HandleSensorChange()
	var conflict *possensor.ConflictError
	if errors.As(err, &conflict) {
		elevevent.Publish(e.Diagnostics, elevevent.SensorConflictEvent{Raw: conflict.Raw})
	}
}

func (e *Elevator) Start() {
	if !e.initialised {
		Log.Error().Msg("Elevator not initialised")
		return
	}
	e.runningMtx.Lock()
	defer e.runningMtx.Unlock()
	if e.running {
		Log.Error().Msg("Elevator already running")
		return
	}

	e.Reset()

	//Launch Threads One By One
	ctxIO, cancelIO := context.WithCancel(context.Background())
	wgIO := &sync.WaitGroup{}
	e.waitGroupArray = append(e.waitGroupArray, wgIO)
	e.IO.Start(ctxIO, wgIO)
	e.cancelArray = append(e.cancelArray, cancelIO)

	ctxKey, cancelKey := context.WithCancel(context.Background())
	wgKey := &sync.WaitGroup{}
	e.waitGroupArray = append(e.waitGroupArray, wgKey)
	e.startWorker(ctxKey, wgKey, "key", e.keyChannel, e.HandleKeyChange)
	e.cancelArray = append(e.cancelArray, cancelKey)

	ctxSensor, cancelSensor := context.WithCancel(context.Background())
	wgSensor := &sync.WaitGroup{}
	e.waitGroupArray = append(e.waitGroupArray, wgSensor)
	e.startWorker(ctxSensor, wgSensor, "sensor", e.sensorChannel, e.HandleSensorChange)
	e.cancelArray = append(e.cancelArray, cancelSensor)

	e.running = true
	Log.Info().Msgf("Elevator started: %v", e.MetaData.String())
}

func (e *Elevator) startWorker(ctx context.Context, waitGroup *sync.WaitGroup, name string, channel <-chan elevevent.ElevatorEvent, handle func()) {
	waitGroup.Add(1)

	go func() {
		defer waitGroup.Done()
		for {
			select {
			case <-ctx.Done():
				Log.Warn().Msgf("Elevator %s Go routine has been signaled to stop", name)
				return
			case event := <-channel:
				Log.Trace().Msgf("Handling %v", event.EventType())
				handle()
			}
		}
	}()
}

func (e *Elevator) Stop() {
	if !e.initialised {
		Log.Error().Msg("Elevator not initialised")
		return
	}
	e.runningMtx.Lock()
	defer e.runningMtx.Unlock()
	if !e.running {
		Log.Error().Msg("Elevator not running, so cannot stop elevator")
		return
	}

	Log.Debug().Msg("Stopping Elevator")

	//Gracefully shutdown all threads one by one
	for i := len(e.cancelArray) - 1; i >= 0; i-- {
		e.cancelArray[i]()
		e.waitGroupArray[i].Wait()
	}
	e.cancelArray = nil
	e.waitGroupArray = nil

	e.IO.Execute(e.Emitter.Command(elevconsts.Idle))

	Log.Debug().Msg("Stopped Elevator")
	e.running = false
}

func (e *Elevator) Running() bool {
	e.runningMtx.Lock()
	defer e.runningMtx.Unlock()
	return e.running
}
