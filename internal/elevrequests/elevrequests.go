package elevrequests

import (
	"sync/atomic"

	"github.com/adiga/ElevatorControllerSystem/internal/elevconsts"
	"github.com/adiga/ElevatorControllerSystem/internal/logger"
)

var Log = logger.GetLogger()

// RequestState is the call mailbox shared by the keypad scanner, which only
// sets flags, and the arbitration state machine, which only clears them.
// Every flag is its own atomic word so a set never races with a clear of a
// different call.
type RequestState struct {
	flags [elevconsts.N_CALLS]atomic.Bool
}

func NewRequestState() *RequestState {
	return &RequestState{}
}

// Set marks call as pending. Setting an already pending call is a no-op.
func (rs *RequestState) Set(call elevconsts.CallKind) {
	i := call.Index()
	if i < 0 {
		Log.Error().Msgf("Ignoring set of invalid call %v", call)
		return
	}
	if !rs.flags[i].Swap(true) {
		Log.Debug().Msgf("Call %v pending", call)
	}
}

func (rs *RequestState) Clear(call elevconsts.CallKind) {
	i := call.Index()
	if i < 0 {
		return
	}
	if rs.flags[i].Swap(false) {
		Log.Debug().Msgf("Call %v cleared", call)
	}
}

func (rs *RequestState) Pending(call elevconsts.CallKind) bool {
	i := call.Index()
	if i < 0 {
		return false
	}
	return rs.flags[i].Load()
}

// AnyPending reports whether at least one of calls is pending.
func (rs *RequestState) AnyPending(calls ...elevconsts.CallKind) bool {
	for _, call := range calls {
		if rs.Pending(call) {
			return true
		}
	}
	return false
}

func (rs *RequestState) AnyAt(floor elevconsts.Floor) bool {
	return rs.AnyPending(elevconsts.CallsAt(floor)...)
}

// Snapshot copies all flags, indexed like elevconsts.AllCalls. The copy is
// not atomic across flags.
func (rs *RequestState) Snapshot() [elevconsts.N_CALLS]bool {
	var snapshot [elevconsts.N_CALLS]bool
	for i := range rs.flags {
		snapshot[i] = rs.flags[i].Load()
	}
	return snapshot
}

func (rs *RequestState) PendingCalls() []elevconsts.CallKind {
	var calls []elevconsts.CallKind
	for i, pending := range rs.Snapshot() {
		if pending {
			calls = append(calls, elevconsts.AllCalls[i])
		}
	}
	return calls
}
