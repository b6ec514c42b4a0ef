package elevdisplay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/adiga/ElevatorControllerSystem/internal/elevmetadata"

	"github.com/libp2p/go-reuseport"
)

const (
	BUFFER_LENGTH      = 1024 //for receiving and transmitting
	OP_TEXT            = "text"
	OP_CLEAR           = "clear"
	MAX_READ_ERRORS    = 10 //in a row before the monitor gives up
	READ_ERROR_BACKOFF = 50 * time.Millisecond
)

// Frame is one display update as sent over the network.
type Frame struct {
	Identifier string    `json:"identifier"`
	BootID     string    `json:"boot_id"`
	Seq        uint64    `json:"seq"`
	Op         string    `json:"op"`
	Text       string    `json:"text,omitempty"`
	Time       time.Time `json:"time"`
}

// UDPDisplay sends every display update as a JSON frame to a monitor. Sends
// are fire and forget; a missing monitor never blocks the controller.
type UDPDisplay struct {
	conn     net.PacketConn
	addr     *net.UDPAddr
	metaData *elevmetadata.ElevMetaData
	seq      atomic.Uint64
}

func NewUDPDisplay(address string, metaData *elevmetadata.ElevMetaData) (*UDPDisplay, error) {
	udpAddress, err := net.ResolveUDPAddr("udp4", address)
	if err != nil {
		return nil, fmt.Errorf("error resolving UDP Address: %w", err)
	}

	conn, err := reuseport.ListenPacket("udp4", "0.0.0.0:0")
	if err != nil {
		return nil, fmt.Errorf("error creating UDP Socket: %w", err)
	}

	return &UDPDisplay{
		conn:     conn,
		addr:     udpAddress,
		metaData: metaData,
	}, nil
}

func (ud *UDPDisplay) SetText(text string) {
	ud.send(OP_TEXT, text)
}

func (ud *UDPDisplay) Clear() {
	ud.send(OP_CLEAR, "")
}

func (ud *UDPDisplay) Close() error {
	return ud.conn.Close()
}

func (ud *UDPDisplay) send(op string, text string) {
	frame := Frame{
		Identifier: ud.metaData.Identifier,
		BootID:     ud.metaData.BootID,
		Seq:        ud.seq.Add(1),
		Op:         op,
		Text:       text,
		Time:       time.Now(),
	}

	jsonData, err := json.Marshal(frame)
	if err != nil {
		Log.Error().Msgf("Error marshalling JSON: %v", err)
		return
	}
	if _, err = ud.conn.WriteTo(jsonData, ud.addr); err != nil {
		Log.Error().Msgf("Error writing to UDP Socket: %v", err)
	}
}

// Monitor receives display frames. Several monitors may share one port.
type Monitor struct {
	Frames chan Frame

	conn net.PacketConn
}

func Listen(address string) (*Monitor, error) {
	conn, err := reuseport.ListenPacket("udp4", address)
	if err != nil {
		return nil, fmt.Errorf("error creating UDP Socket: %w", err)
	}

	return &Monitor{
		Frames: make(chan Frame),
		conn:   conn,
	}, nil
}

func (m *Monitor) Addr() string {
	return m.conn.LocalAddr().String()
}

func (m *Monitor) Start(ctx context.Context, waitGroup *sync.WaitGroup) {
	waitGroup.Add(2)

	go func() {
		defer waitGroup.Done()
		<-ctx.Done()
		Log.Info().Msgf("Stopping display monitor...")
		m.conn.Close()
	}()

	//Frames is closed once reading stops
	go func() {
		defer waitGroup.Done()
		defer close(m.Frames)
		listenBuffer := make([]byte, BUFFER_LENGTH)
		readErrors := 0
		for {
			n, _, err := m.conn.ReadFrom(listenBuffer)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if errors.Is(err, net.ErrClosed) {
					Log.Warn().Msgf("Display monitor socket closed")
					return
				}
				readErrors++
				if readErrors >= MAX_READ_ERRORS {
					Log.Error().Msgf("Giving up on display monitor after %d read errors: %v", readErrors, err)
					return
				}
				Log.Error().Msgf("Error reading UDP message: %v", err)
				select {
				case <-time.After(READ_ERROR_BACKOFF):
				case <-ctx.Done():
					return
				}
				continue
			}
			readErrors = 0

			var frame Frame
			if err := json.Unmarshal(listenBuffer[:n], &frame); err != nil {
				Log.Error().Msgf("Error deserialising JSON: %v", err)
				continue
			}

			select {
			case m.Frames <- frame:
			case <-ctx.Done():
				return
			}
		}
	}()
}
