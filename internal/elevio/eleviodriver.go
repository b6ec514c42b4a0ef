package elevio

import (
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/adiga/ElevatorControllerSystem/internal/elevconsts"
)

// Board protocol opcodes. Every frame is 4 bytes; reads are answered with
// a 4 byte frame whose second byte carries the value.
const (
	OP_SET_MOTOR          = 1
	OP_READ_KEYPAD_LINE   = 6
	OP_READ_POSITION      = 7
	OP_RELEASE_LINES      = 8
	OP_READ_INTERRUPTS    = 9
	IDLE_LINES            = 0x0F
	MOTOR_UP_BIT          = 0x80
	MOTOR_DOWN_BIT        = 0x40
	KEY_INTERRUPT_BIT     = 0x01
	SENSOR_INTERRUPT_BIT  = 0x02
	DEFAULT_BOARD_ADDRESS = "localhost:15680"
)

// MotorBits is the direction port pattern: clockwise for up, counter
// clockwise for down, both cleared when idle.
func MotorBits(dir elevconsts.Dirn) uint8 {
	switch dir {
	case elevconsts.Up:
		return MOTOR_UP_BIT
	case elevconsts.Down:
		return MOTOR_DOWN_BIT
	default:
		return 0
	}
}

func DirnFromBits(bits uint8) elevconsts.Dirn {
	switch bits & (MOTOR_UP_BIT | MOTOR_DOWN_BIT) {
	case MOTOR_UP_BIT:
		return elevconsts.Up
	case MOTOR_DOWN_BIT:
		return elevconsts.Down
	default:
		return elevconsts.Idle
	}
}

type ElevIODriver struct {
	conn net.Conn
	mtx  sync.Mutex
}

func NewElevIODriver(addr string) (*ElevIODriver, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to board at %s: %w", addr, err)
	}

	return &ElevIODriver{conn: conn}, nil
}

func (e *ElevIODriver) Close() error {
	return e.conn.Close()
}

func (e *ElevIODriver) SetMotor(dir elevconsts.Dirn, duty uint8) {
	e.write([4]byte{OP_SET_MOTOR, MotorBits(dir), duty, 0})
}

func (e *ElevIODriver) ReadKeypadLine(lineSelect uint8) uint8 {
	resp := e.read([4]byte{OP_READ_KEYPAD_LINE, lineSelect, 0, 0})
	return resp[1]
}

func (e *ElevIODriver) ReleaseLines() {
	e.write([4]byte{OP_RELEASE_LINES, IDLE_LINES, 0, 0})
}

func (e *ElevIODriver) ReadPositionSensor() uint8 {
	resp := e.read([4]byte{OP_READ_POSITION, 0, 0, 0})
	return resp[1]
}

func (e *ElevIODriver) PendingInterrupts() (bool, bool) {
	resp := e.read([4]byte{OP_READ_INTERRUPTS, 0, 0, 0})
	return resp[1]&KEY_INTERRUPT_BIT != 0, resp[1]&SENSOR_INTERRUPT_BIT != 0
}

func (e *ElevIODriver) write(in [4]byte) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	_, err := e.conn.Write(in[:])
	if err != nil {
		panic("Lost connection to Elevator Board")
	}
}

func (e *ElevIODriver) read(in [4]byte) [4]byte {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	_, err := e.conn.Write(in[:])
	if err != nil {
		panic("Lost connection to Elevator Board")
	}

	var out [4]byte
	_, err = io.ReadFull(e.conn, out[:])
	if err != nil {
		panic("Lost connection to Elevator Board")
	}

	return out
}
