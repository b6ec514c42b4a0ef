package possensor

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/adiga/ElevatorControllerSystem/internal/elevconsts"
	"github.com/adiga/ElevatorControllerSystem/internal/elevio"
	"github.com/adiga/ElevatorControllerSystem/internal/logger"
)

var Log = logger.GetLogger()

const (
	SENSOR_MASK = 0x1C
	REGION_1    = 0x04
	REGION_2    = 0x08
	REGION_3    = 0x10
)

var (
	ErrSensorConflict = errors.New("position sensor conflict")
	ErrNoReading      = errors.New("no position sensor reading")
)

// ConflictError carries the masked value of an ambiguous reading.
type ConflictError struct {
	Raw uint8
}

func (ce *ConflictError) Error() string {
	return fmt.Sprintf("%v: raw value %d", ErrSensorConflict, ce.Raw)
}

func (ce *ConflictError) Is(target error) bool {
	return target == ErrSensorConflict
}

// ArrivalHandler is invoked for every clean single floor reading.
type ArrivalHandler interface {
	OnFloorArrival(sensed elevconsts.Floor) bool
}

// Decode turns a raw port value into the floor whose sensor region is
// asserted. More than one asserted region is a conflict; none is no reading.
func Decode(raw uint8) (elevconsts.Floor, error) {
	value := raw & SENSOR_MASK
	switch value {
	case REGION_1:
		return elevconsts.Floor1, nil
	case REGION_2:
		return elevconsts.Floor2, nil
	case REGION_3:
		return elevconsts.Floor3, nil
	case 0:
		return elevconsts.NoFloor, ErrNoReading
	default:
		return elevconsts.NoFloor, &ConflictError{Raw: value}
	}
}

type Decoder struct {
	sensor  elevio.PositionSensor
	display elevio.Display
	arrival ArrivalHandler

	mu          sync.Mutex
	sensedFloor elevconsts.Floor
}

func NewDecoder(sensor elevio.PositionSensor, display elevio.Display, arrival ArrivalHandler) *Decoder {
	return &Decoder{
		sensor:  sensor,
		display: display,
		arrival: arrival,
	}
}

// HandleSensorChange reads the sensor once. A clean reading updates the
// sensed floor and runs one arbitration pass; a conflict only goes to the
// display. The returned error is for diagnostics and never needs handling.
func (d *Decoder) HandleSensorChange() (elevconsts.Floor, error) {
	raw := d.sensor.ReadPositionSensor()
	floor, err := Decode(raw)

	switch {
	case err == nil:
		d.mu.Lock()
		d.sensedFloor = floor
		d.mu.Unlock()

		d.display.SetText("IR" + strconv.Itoa(int(floor)))
		Log.Debug().Msgf("Sensed floor %v", floor)
		d.arrival.OnFloorArrival(floor)
	case errors.Is(err, ErrSensorConflict):
		d.display.Clear()
		d.display.SetText(strconv.Itoa(int(raw & SENSOR_MASK)))
		d.display.SetText("IRErr")
		Log.Warn().Err(err).Msg("Ignoring ambiguous position reading")
	}

	return floor, err
}

// SensedFloor is the last clean reading, NoFloor before the first one.
func (d *Decoder) SensedFloor() elevconsts.Floor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sensedFloor
}
