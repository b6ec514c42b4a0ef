package elevstate

import (
	"sync"

	"github.com/adiga/ElevatorControllerSystem/internal/elevconsts"
	"github.com/adiga/ElevatorControllerSystem/internal/elevevent"
	"github.com/adiga/ElevatorControllerSystem/internal/elevmotor"
	"github.com/adiga/ElevatorControllerSystem/internal/elevrequests"
	"github.com/adiga/ElevatorControllerSystem/internal/logger"

	"github.com/tiendc/go-deepcopy"
)

var Log = logger.GetLogger()

// ElevatorState is the arbitration state machine. Floor is the floor the car
// is at or committed to travel to, Dirn the last commanded direction.
// Passes hold mtx from start to end, dwell included. The exported fields and
// the counters are only written by a pass and only while it also holds
// statusMtx, so readers never wait for a dwell.
type ElevatorState struct {
	Floor         elevconsts.Floor
	Dirn          elevconsts.Dirn
	PendingTarget elevconsts.Floor //decided this pass, NoFloor outside a pass

	//Internal Variables
	mtx       sync.Mutex
	statusMtx sync.RWMutex
	requests  *elevrequests.RequestState
	emitter   *elevmotor.Emitter
	events    chan<- elevevent.ElevatorEvent
	passes    int
	stops     int
}

type Status struct {
	Floor         elevconsts.Floor      `json:"floor"`
	Dirn          elevconsts.Dirn       `json:"dirn"`
	PendingTarget elevconsts.Floor      `json:"pending_target"`
	Pending       []elevconsts.CallKind `json:"pending"`
	Passes        int                   `json:"passes"`
	Stops         int                   `json:"stops"`
}

// NewElevatorState starts at the bottom terminus with the motor idle. events
// may be nil; decisions are published to it without blocking.
func NewElevatorState(requests *elevrequests.RequestState, emitter *elevmotor.Emitter, events chan<- elevevent.ElevatorEvent) *ElevatorState {
	return &ElevatorState{
		Floor:         elevconsts.Floor1,
		Dirn:          elevconsts.Idle,
		PendingTarget: elevconsts.NoFloor,
		requests:      requests,
		emitter:       emitter,
		events:        events,
	}
}

// ShouldStop reports whether the car halts at sensed. Termini only stop the
// car when they are the committed floor; the middle floor also stops it
// for any of its own calls.
func (es *ElevatorState) ShouldStop(sensed elevconsts.Floor) bool {
	es.statusMtx.RLock()
	defer es.statusMtx.RUnlock()
	return es.shouldStop(sensed)
}

// Motion returns the committed floor and direction without waiting for a
// pass to finish.
func (es *ElevatorState) Motion() (elevconsts.Floor, elevconsts.Dirn) {
	es.statusMtx.RLock()
	defer es.statusMtx.RUnlock()
	return es.Floor, es.Dirn
}

func (es *ElevatorState) shouldStop(sensed elevconsts.Floor) bool {
	switch sensed {
	case elevconsts.Floor1, elevconsts.Floor3:
		return sensed == es.Floor
	case elevconsts.Floor2:
		return sensed == es.Floor || es.requests.AnyAt(elevconsts.Floor2)
	}
	return false
}

// OnFloorArrival runs one arbitration pass for a clean sensor reading and
// reports whether the car stopped. A stop clears the calls served here,
// dwells, picks the next floor and direction, commits them and drives the
// motor. Passes never overlap.
func (es *ElevatorState) OnFloorArrival(sensed elevconsts.Floor) bool {
	es.mtx.Lock()
	defer es.mtx.Unlock()

	stop := es.shouldStop(sensed)
	es.statusMtx.Lock()
	es.passes++
	if stop {
		es.stops++
	}
	es.statusMtx.Unlock()

	if !stop {
		Log.Trace().Msgf("Passing %v, committed to %v", sensed, es.Floor)
		elevevent.Publish(es.events, elevevent.FloorArrivalEvent{Floor: sensed, Stop: false})
		return false
	}

	es.clearServedCalls(sensed)
	es.emitter.Dwell()

	next, dirn := es.chooseNext(sensed)
	previousFloor, previousDirn := es.Floor, es.Dirn

	es.statusMtx.Lock()
	es.PendingTarget = next
	es.commit(dirn)
	es.statusMtx.Unlock()

	es.emitter.Drive(es.Dirn)

	if es.Floor != previousFloor || es.Dirn != previousDirn {
		Log.Info().Msgf("Stopped at %v, next %v going %v", sensed, es.Floor, es.Dirn)
	} else {
		Log.Trace().Msgf("Stopped at %v, staying %v", sensed, es.Dirn)
	}
	elevevent.Publish(es.events, elevevent.FloorArrivalEvent{Floor: sensed, Stop: true})
	elevevent.Publish(es.events, elevevent.MotionDecisionEvent{Floor: es.Floor, Dirn: es.Dirn})
	return true
}

func (es *ElevatorState) commit(dirn elevconsts.Dirn) {
	if es.PendingTarget != elevconsts.NoFloor {
		es.Floor = es.PendingTarget
	}
	es.Dirn = dirn
	es.PendingTarget = elevconsts.NoFloor
}

// Status returns a copy that shares nothing with the state machine.
func (es *ElevatorState) Status() Status {
	es.statusMtx.RLock()
	live := Status{
		Floor:         es.Floor,
		Dirn:          es.Dirn,
		PendingTarget: es.PendingTarget,
		Pending:       es.requests.PendingCalls(),
		Passes:        es.passes,
		Stops:         es.stops,
	}
	es.statusMtx.RUnlock()

	var status Status
	if err := deepcopy.Copy(&status, &live); err != nil {
		Log.Error().Msgf("Error copying elevator status: %v", err)
		return live
	}
	return status
}

func (es *ElevatorState) Print() {
	status := es.Status()
	Log.Info().Msgf("  +--------------------+")
	Log.Info().Msgf("  |floor = %-12s|", status.Floor.String())
	Log.Info().Msgf("  |dirn  = %-12s|", status.Dirn.String())
	Log.Info().Msgf("  +--------------------+")
	Log.Info().Msgf("  |  | up  | dn  | cab |")

	pending := es.requests.Snapshot()
	for f := elevconsts.Floor(elevconsts.N_FLOORS); f >= elevconsts.Floor1; f-- {
		row := ""
		for _, btn := range []elevconsts.Button{elevconsts.HallUp, elevconsts.HallDown, elevconsts.Cab} {
			i := elevconsts.CallKind{Floor: f, Button: btn}.Index()
			switch {
			case i < 0:
				row += "|     "
			case pending[i]:
				row += "|  #  "
			default:
				row += "|  -  "
			}
		}
		Log.Info().Msgf("  | %d%s|", int(f), row)
	}
	Log.Info().Msgf("  +--------------------+")
}
