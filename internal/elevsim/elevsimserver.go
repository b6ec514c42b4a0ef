package elevsim

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"github.com/adiga/ElevatorControllerSystem/internal/elevio"
)

// Serve answers the board protocol spoken by elevio.ElevIODriver on every
// connection accepted from listener, until ctx is done.
func (b *Board) Serve(ctx context.Context, waitGroup *sync.WaitGroup, listener net.Listener) {
	waitGroup.Add(2)

	go func() {
		defer waitGroup.Done()
		<-ctx.Done()
		listener.Close()
	}()

	go func() {
		defer waitGroup.Done()
		for {
			conn, err := listener.Accept()
			if err != nil {
				if ctx.Err() == nil {
					Log.Error().Msgf("Error accepting board connection: %v", err)
				}
				return
			}
			Log.Info().Msgf("Controller connected from %v", conn.RemoteAddr())
			go b.handleConn(ctx, conn)
		}
	}()
}

func (b *Board) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	var in [4]byte
	for {
		if _, err := io.ReadFull(conn, in[:]); err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				Log.Warn().Msgf("Board connection closed: %v", err)
			}
			return
		}

		var out [4]byte
		reply := true
		out[0] = in[0]

		switch in[0] {
		case elevio.OP_SET_MOTOR:
			b.SetMotor(elevio.DirnFromBits(in[1]), in[2])
			reply = false
		case elevio.OP_READ_KEYPAD_LINE:
			out[1] = b.ReadKeypadLine(in[1])
		case elevio.OP_READ_POSITION:
			out[1] = b.ReadPositionSensor()
		case elevio.OP_RELEASE_LINES:
			b.ReleaseLines()
			reply = false
		case elevio.OP_READ_INTERRUPTS:
			key, sensor := b.PendingInterrupts()
			if key {
				out[1] |= elevio.KEY_INTERRUPT_BIT
			}
			if sensor {
				out[1] |= elevio.SENSOR_INTERRUPT_BIT
			}
		default:
			Log.Error().Msgf("Unknown board opcode %d", in[0])
			reply = false
		}

		if reply {
			if _, err := conn.Write(out[:]); err != nil {
				Log.Warn().Msgf("Error writing board reply: %v", err)
				return
			}
		}
	}
}
