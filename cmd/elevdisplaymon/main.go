package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"

	"github.com/adiga/ElevatorControllerSystem/internal/elevdisplay"
	"github.com/adiga/ElevatorControllerSystem/internal/logger"

	"github.com/rs/zerolog"
)

var Logger = logger.GetLoggerConfigured(zerolog.InfoLevel)

const DEFAULT_LISTEN_ADDRESS = "0.0.0.0:15690"

func main() {
	address := flag.String("listen", DEFAULT_LISTEN_ADDRESS, "UDP address to receive display frames on")
	flag.Parse()

	monitor, err := elevdisplay.Listen(*address)
	if err != nil {
		Logger.Fatal().Err(err).Msgf("Could not listen on %s", *address)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	monitor.Start(ctx, wg)
	Logger.Info().Msgf("Listening for display frames on %s", monitor.Addr())

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt)

	//per controller, so a reboot or a second car does not mix screens
	screens := map[string]string{}
	for {
		select {
		case <-signals:
			cancel()
			wg.Wait()
			return
		case frame, ok := <-monitor.Frames:
			if !ok {
				Logger.Error().Msg("Display monitor stopped receiving")
				cancel()
				wg.Wait()
				return
			}
			key := frame.Identifier + "/" + frame.BootID
			switch frame.Op {
			case elevdisplay.OP_CLEAR:
				screens[key] = ""
			case elevdisplay.OP_TEXT:
				screens[key] += frame.Text
				if len(screens[key]) > elevdisplay.DISPLAY_WIDTH {
					screens[key] = screens[key][len(screens[key])-elevdisplay.DISPLAY_WIDTH:]
				}
			}
			Logger.Info().Str("id", frame.Identifier).Uint64("seq", frame.Seq).Msgf("[%s]", screens[key])
		}
	}
}
