package elevstate

import (
	"github.com/adiga/ElevatorControllerSystem/internal/elevconsts"
)

// Calls every stop at floor satisfies regardless of what is decided next.
// Middle floor hall calls depend on the branch taken in chooseFromMiddle.
func (es *ElevatorState) clearServedCalls(floor elevconsts.Floor) {
	switch floor {
	case elevconsts.Floor1:
		es.requests.Clear(elevconsts.CarCall1)
		es.requests.Clear(elevconsts.HallUp1)
	case elevconsts.Floor2:
		es.requests.Clear(elevconsts.CarCall2)
	case elevconsts.Floor3:
		es.requests.Clear(elevconsts.CarCall3)
		es.requests.Clear(elevconsts.HallDown3)
	}
}

func (es *ElevatorState) chooseNext(floor elevconsts.Floor) (elevconsts.Floor, elevconsts.Dirn) {
	switch floor {
	case elevconsts.Floor1:
		return es.chooseFromBottom()
	case elevconsts.Floor2:
		return es.chooseFromMiddle()
	case elevconsts.Floor3:
		return es.chooseFromTop()
	}
	return floor, elevconsts.Idle
}

// A down call at 2 is served on the way to 3 by the middle floor stop, so
// it only pulls the car up on its own when nothing at 3 is waiting.
func (es *ElevatorState) chooseFromBottom() (elevconsts.Floor, elevconsts.Dirn) {
	r := es.requests
	switch {
	case r.AnyPending(elevconsts.CarCall2, elevconsts.HallUp2):
		return elevconsts.Floor2, elevconsts.Up
	case r.AnyPending(elevconsts.CarCall3, elevconsts.HallDown3):
		return elevconsts.Floor3, elevconsts.Up
	case r.Pending(elevconsts.HallDown2):
		return elevconsts.Floor2, elevconsts.Up
	}
	return elevconsts.Floor1, elevconsts.Idle
}

func (es *ElevatorState) chooseFromTop() (elevconsts.Floor, elevconsts.Dirn) {
	r := es.requests
	switch {
	case r.AnyPending(elevconsts.CarCall2, elevconsts.HallDown2):
		return elevconsts.Floor2, elevconsts.Down
	case r.AnyPending(elevconsts.CarCall1, elevconsts.HallUp1):
		return elevconsts.Floor1, elevconsts.Down
	case r.Pending(elevconsts.HallUp2):
		return elevconsts.Floor2, elevconsts.Down
	}
	return elevconsts.Floor3, elevconsts.Idle
}

// es.Dirn still holds the direction the car arrived with. The car does not
// turn back towards one terminus while the other terminus has a call in the
// direction it was already heading.
func (es *ElevatorState) chooseFromMiddle() (elevconsts.Floor, elevconsts.Dirn) {
	r := es.requests
	arrivedUp := es.Dirn == elevconsts.Up
	arrivedDown := es.Dirn == elevconsts.Down

	if r.AnyPending(elevconsts.CarCall1, elevconsts.HallUp1) && !(r.Pending(elevconsts.HallDown3) && arrivedUp) {
		r.Clear(elevconsts.HallDown2)
		return elevconsts.Floor1, elevconsts.Down
	}
	if r.AnyPending(elevconsts.CarCall3, elevconsts.HallDown3) && !(r.Pending(elevconsts.HallUp1) && arrivedDown) {
		r.Clear(elevconsts.HallUp2)
		return elevconsts.Floor3, elevconsts.Up
	}

	//Nothing left to serve, any hall call here was answered by this stop
	r.Clear(elevconsts.HallUp2)
	r.Clear(elevconsts.HallDown2)
	return elevconsts.Floor2, elevconsts.Idle
}
