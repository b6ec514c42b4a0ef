package elevsim

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/adiga/ElevatorControllerSystem/internal/elevconsts"
	"github.com/adiga/ElevatorControllerSystem/internal/elevio"
	"github.com/adiga/ElevatorControllerSystem/internal/keypad"
	"github.com/adiga/ElevatorControllerSystem/internal/logger"
)

var Log = logger.GetLogger()

const (
	SENSOR_HALF_WIDTH         = 0.05 //floors either side of a landing that light its sensor
	DEFAULT_FLOORS_PER_SECOND = 0.5  //car speed at full duty
	DEFAULT_TICK              = 5 * time.Millisecond
)

// Board simulates the controller board and the shaft: a 4x4 key matrix, one
// IR sensor region per landing and a motor moving the car. The key interrupt
// is latched on every press, the sensor interrupt whenever the reading
// changes. The first read after power on reports the reading the car starts
// with.
type Board struct {
	mtx             sync.Mutex
	position        float64
	dir             elevconsts.Dirn
	duty            uint8
	heldKeys        map[uint8]bool
	lineSelect      uint8
	keyLatch        bool
	lastRaw         uint8 //sensor reading at the last interrupt read
	forcedSensor    bool
	forcedRaw       uint8
	floorsPerSecond float64
}

func NewBoard(startFloor elevconsts.Floor) *Board {
	if !startFloor.Valid() {
		startFloor = elevconsts.Floor1
	}
	return &Board{
		position:        float64(startFloor),
		dir:             elevconsts.Idle,
		heldKeys:        make(map[uint8]bool),
		lineSelect:      elevio.IDLE_LINES,
		floorsPerSecond: DEFAULT_FLOORS_PER_SECOND,
	}
}

var _ elevio.Hardware = (*Board)(nil)

func (b *Board) SetSpeed(floorsPerSecond float64) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.floorsPerSecond = floorsPerSecond
}

// Press holds the key with the given port pattern until Release.
func (b *Board) Press(code uint8) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.heldKeys[code&keypad.INPUT_MASK] = true
	b.keyLatch = true
}

func (b *Board) Release(code uint8) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	delete(b.heldKeys, code&keypad.INPUT_MASK)
}

func (b *Board) PressDigit(digit rune) (uint8, error) {
	code, ok := keypad.DigitCodes[digit]
	if !ok {
		return 0, fmt.Errorf("no key labelled %q", digit)
	}
	b.Press(code)
	return code, nil
}

func (b *Board) PressCall(call elevconsts.CallKind) (uint8, error) {
	code, ok := keypad.Encode(call)
	if !ok {
		return 0, fmt.Errorf("%w: %v has no key", elevconsts.ErrInvalidCall, call)
	}
	b.Press(code)
	return code, nil
}

func (b *Board) ReadKeypadLine(lineSelect uint8) uint8 {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.lineSelect = lineSelect
	out := lineSelect & keypad.ROW_MASK
	for code := range b.heldKeys {
		if code&keypad.ROW_MASK == lineSelect {
			out |= code & keypad.COLUMN_MASK
		}
	}
	return out
}

func (b *Board) ReleaseLines() {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.lineSelect = elevio.IDLE_LINES
}

func (b *Board) LineSelect() uint8 {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.lineSelect
}

// ForceSensor makes the sensor return raw until ClearForcedSensor, for
// injecting misaligned or faulty readings.
func (b *Board) ForceSensor(raw uint8) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.forcedSensor = true
	b.forcedRaw = raw
}

func (b *Board) ClearForcedSensor() {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.forcedSensor = false
}

func (b *Board) ReadPositionSensor() uint8 {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.sensorRaw()
}

func (b *Board) sensorRaw() uint8 {
	if b.forcedSensor {
		return b.forcedRaw
	}
	var raw uint8
	for f := elevconsts.Floor1; f <= elevconsts.Floor3; f++ {
		if math.Abs(b.position-float64(f)) <= SENSOR_HALF_WIDTH {
			raw |= 0x04 << uint(f-1)
		}
	}
	return raw
}

func (b *Board) SetMotor(dir elevconsts.Dirn, duty uint8) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if dir != b.dir || duty != b.duty {
		Log.Debug().Msgf("Sim motor %v duty %d at position %.2f", dir, duty, b.position)
	}
	b.dir = dir
	b.duty = duty
}

func (b *Board) Motor() (elevconsts.Dirn, uint8) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.dir, b.duty
}

func (b *Board) PendingInterrupts() (bool, bool) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	key := b.keyLatch
	b.keyLatch = false
	raw := b.sensorRaw()
	sensor := raw != b.lastRaw
	b.lastRaw = raw
	return key, sensor
}

func (b *Board) Position() float64 {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.position
}

func (b *Board) MoveTo(position float64) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.position = position
}

// Step advances the car by dt at the commanded direction and duty. The car
// rests on the buffers past either terminus.
func (b *Board) Step(dt time.Duration) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	if b.dir == elevconsts.Idle || b.duty == 0 {
		return
	}
	speed := b.floorsPerSecond * float64(b.duty) / elevconsts.DUTY_PERIOD
	b.position += float64(b.dir) * speed * dt.Seconds()

	if b.position < float64(elevconsts.Floor1) {
		b.position = float64(elevconsts.Floor1)
		Log.Warn().Msgf("Sim car hit the bottom buffer")
	}
	if b.position > float64(elevconsts.Floor3) {
		b.position = float64(elevconsts.Floor3)
		Log.Warn().Msgf("Sim car hit the top buffer")
	}
}

// Run steps the car every tick until ctx is done.
func (b *Board) Run(ctx context.Context, waitGroup *sync.WaitGroup, tick time.Duration) {
	if tick <= 0 {
		tick = DEFAULT_TICK
	}
	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				Log.Warn().Msgf("Sim board Go routine has been signaled to stop")
				return
			case <-ticker.C:
				b.Step(tick)
			}
		}
	}()
}
