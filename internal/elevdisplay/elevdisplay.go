package elevdisplay

import (
	"sync"

	"github.com/adiga/ElevatorControllerSystem/internal/elevio"
	"github.com/adiga/ElevatorControllerSystem/internal/logger"
)

var Log = logger.GetLogger()

const DISPLAY_WIDTH = 32 //2 lines of 16 characters

// LogDisplay keeps what a character display would show and mirrors every
// change to the log. Text past the display width scrolls off the front.
type LogDisplay struct {
	mtx  sync.Mutex
	text string
}

func NewLogDisplay() *LogDisplay {
	return &LogDisplay{}
}

func (ld *LogDisplay) SetText(text string) {
	ld.mtx.Lock()
	defer ld.mtx.Unlock()
	ld.text += text
	if len(ld.text) > DISPLAY_WIDTH {
		ld.text = ld.text[len(ld.text)-DISPLAY_WIDTH:]
	}
	Log.Trace().Str("display", ld.text).Msg("Display text")
}

func (ld *LogDisplay) Clear() {
	ld.mtx.Lock()
	defer ld.mtx.Unlock()
	ld.text = ""
	Log.Trace().Msg("Display cleared")
}

func (ld *LogDisplay) Text() string {
	ld.mtx.Lock()
	defer ld.mtx.Unlock()
	return ld.text
}

// Tee writes to every display in order.
type Tee []elevio.Display

func (t Tee) SetText(text string) {
	for _, display := range t {
		display.SetText(text)
	}
}

func (t Tee) Clear() {
	for _, display := range t {
		display.Clear()
	}
}
