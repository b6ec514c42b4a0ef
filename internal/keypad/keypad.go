package keypad

import (
	"github.com/adiga/ElevatorControllerSystem/internal/elevconsts"
	"github.com/adiga/ElevatorControllerSystem/internal/elevio"
	"github.com/adiga/ElevatorControllerSystem/internal/elevrequests"
	"github.com/adiga/ElevatorControllerSystem/internal/logger"
)

var Log = logger.GetLogger()

const (
	ROW_MASK    = 0x0F
	COLUMN_MASK = 0x70
	INPUT_MASK  = 0x7F //bit 7 is not wired to the matrix
)

// Row select values, one per matrix row, in scan order.
var ScanLines = [4]uint8{0x01, 0x02, 0x04, 0x08}

// Port patterns of the keys this car uses. Digits 1, 2 and 3 on the top row
// (17, 33, 65) have no function and fall through to the ignored default.
var keyCodes = map[uint8]elevconsts.CallKind{
	18: elevconsts.HallUp1,   //4
	34: elevconsts.HallUp2,   //5
	66: elevconsts.HallDown2, //6
	20: elevconsts.CarCall1,  //7
	36: elevconsts.CarCall2,  //8
	68: elevconsts.CarCall3,  //9
	40: elevconsts.HallDown3, //0
}

// DigitCodes maps the printed key labels to their port patterns.
var DigitCodes = map[rune]uint8{
	'1': 17, '2': 33, '3': 65,
	'4': 18, '5': 34, '6': 66,
	'7': 20, '8': 36, '9': 68,
	'0': 40,
}

// Decode maps a port pattern read during a scan to the call it raises.
// Bounce and multiple keys in one row give patterns that are not in the
// table; those are reported as not ok and must be ignored.
func Decode(bits uint8) (elevconsts.CallKind, bool) {
	call, ok := keyCodes[bits&INPUT_MASK]
	return call, ok
}

// Encode is the inverse of Decode.
func Encode(call elevconsts.CallKind) (uint8, bool) {
	for code, c := range keyCodes {
		if c == call {
			return code, true
		}
	}
	return 0, false
}

type Scanner struct {
	keypad   elevio.Keypad
	delayer  elevio.Delayer
	requests *elevrequests.RequestState
}

func NewScanner(keypad elevio.Keypad, delayer elevio.Delayer, requests *elevrequests.RequestState) *Scanner {
	return &Scanner{
		keypad:   keypad,
		delayer:  delayer,
		requests: requests,
	}
}

// Scan runs one full pass over the matrix, sets the flag of every decoded
// call and returns them. It ends with the settle delay and releases the rows.
func (s *Scanner) Scan() []elevconsts.CallKind {
	var calls []elevconsts.CallKind

	for _, line := range ScanLines {
		bits := s.keypad.ReadKeypadLine(line)
		call, ok := Decode(bits)
		if !ok {
			if bits&COLUMN_MASK != 0 {
				Log.Debug().Msgf("Ignoring keypad pattern %d on line %d", bits&INPUT_MASK, line)
			}
			continue
		}
		s.requests.Set(call)
		calls = append(calls, call)
	}

	s.delayer.DelayMs(elevconsts.KEY_SETTLE_MS)
	s.keypad.ReleaseLines()

	return calls
}
