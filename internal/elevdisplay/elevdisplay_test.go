package elevdisplay

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adiga/ElevatorControllerSystem/internal/elevmetadata"
	"github.com/adiga/ElevatorControllerSystem/internal/logger"
	"github.com/rs/zerolog"
)

func TestLogDisplayScrolls(t *testing.T) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	display := NewLogDisplay()

	display.SetText("IR1")
	display.SetText("IR2")
	if display.Text() != "IR1IR2" {
		t.Errorf("Text() = %q, expected IR1IR2", display.Text())
	}

	display.SetText(strings.Repeat("x", DISPLAY_WIDTH))
	if display.Text() != strings.Repeat("x", DISPLAY_WIDTH) {
		t.Errorf("Text() = %q, expected only the last %d characters", display.Text(), DISPLAY_WIDTH)
	}

	display.Clear()
	if display.Text() != "" {
		t.Errorf("Text() = %q after Clear, expected empty", display.Text())
	}
}

func TestTee(t *testing.T) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	first, second := NewLogDisplay(), NewLogDisplay()
	tee := Tee{first, second}

	tee.SetText("XIRQ")
	if first.Text() != "XIRQ" || second.Text() != "XIRQ" {
		t.Errorf("Tee wrote %q and %q, expected XIRQ to both", first.Text(), second.Text())
	}
	tee.Clear()
	if first.Text() != "" || second.Text() != "" {
		t.Errorf("Tee did not clear every display")
	}
}

func TestUDPDisplayToMonitor(t *testing.T) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	metaData := &elevmetadata.ElevMetaData{
		SoftwareVersion: "smj2acjkvv4h1zkwjz2ocsn2lkfrjmzf9qn4i2m3",
		Identifier:      "uwvvblrtct",
		BootID:          "5b0e3c8e-8f5c-4c1e-9a3f-2f6d1f0e7a11",
	}

	monitor, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	defer wg.Wait()
	defer cancel()
	monitor.Start(ctx, wg)

	display, err := NewUDPDisplay(monitor.Addr(), metaData)
	if err != nil {
		t.Fatalf("NewUDPDisplay() error = %v", err)
	}
	defer display.Close()

	display.SetText("IRErr")
	display.Clear()

	expected := []Frame{
		{Identifier: "uwvvblrtct", Seq: 1, Op: OP_TEXT, Text: "IRErr"},
		{Identifier: "uwvvblrtct", Seq: 2, Op: OP_CLEAR},
	}
	for _, want := range expected {
		select {
		case frame := <-monitor.Frames:
			if frame.Identifier != want.Identifier || frame.Seq != want.Seq || frame.Op != want.Op || frame.Text != want.Text {
				t.Errorf("received frame %+v, expected %+v", frame, want)
			}
			if frame.BootID != metaData.BootID {
				t.Errorf("frame boot id = %s, expected %s", frame.BootID, metaData.BootID)
			}
		case <-time.After(time.Second):
			t.Fatalf("Timed out waiting for display frame %+v", want)
		}
	}
}

func TestNewUDPDisplayBadAddress(t *testing.T) {
	if _, err := NewUDPDisplay("not an address", &elevmetadata.ElevMetaData{}); err == nil {
		t.Errorf("NewUDPDisplay() error = nil, expected resolve failure")
	}
}

// Every read fails without the socket being closed.
type failingConn struct {
	net.PacketConn
	reads atomic.Int32
}

func (fc *failingConn) ReadFrom(p []byte) (int, net.Addr, error) {
	fc.reads.Add(1)
	return 0, nil, errors.New("connection refused")
}

func (fc *failingConn) Close() error {
	return nil
}

func waitClosed(t *testing.T, frames <-chan Frame) {
	t.Helper()
	select {
	case frame, ok := <-frames:
		if ok {
			t.Errorf("received frame %+v, expected the channel to close", frame)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Timed out waiting for the monitor to stop reading")
	}
}

func TestMonitorStopsOnClosedSocket(t *testing.T) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	monitor, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	defer wg.Wait()
	defer cancel()
	monitor.Start(ctx, wg)

	monitor.conn.Close()
	waitClosed(t, monitor.Frames)
}

func TestMonitorGivesUpOnReadErrors(t *testing.T) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	conn := &failingConn{}
	monitor := &Monitor{Frames: make(chan Frame), conn: conn}

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	defer wg.Wait()
	defer cancel()

	start := time.Now()
	monitor.Start(ctx, wg)
	waitClosed(t, monitor.Frames)

	if reads := conn.reads.Load(); reads != MAX_READ_ERRORS {
		t.Errorf("read %d times, expected %d", reads, MAX_READ_ERRORS)
	}
	if elapsed := time.Since(start); elapsed < (MAX_READ_ERRORS-1)*READ_ERROR_BACKOFF {
		t.Errorf("gave up after %v, expected a backoff between reads", elapsed)
	}
}
