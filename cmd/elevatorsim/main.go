package main

import (
	"context"
	"flag"
	"net"
	"sync"
	"time"

	"github.com/adiga/ElevatorControllerSystem/internal/elevator"
	"github.com/adiga/ElevatorControllerSystem/internal/elevconfig"
	"github.com/adiga/ElevatorControllerSystem/internal/elevconsts"
	"github.com/adiga/ElevatorControllerSystem/internal/elevdisplay"
	"github.com/adiga/ElevatorControllerSystem/internal/elevio"
	"github.com/adiga/ElevatorControllerSystem/internal/elevmetadata"
	"github.com/adiga/ElevatorControllerSystem/internal/elevsim"
	"github.com/adiga/ElevatorControllerSystem/internal/elevutils"
	"github.com/adiga/ElevatorControllerSystem/internal/logger"

	"github.com/eiannone/keyboard"
	"github.com/rs/zerolog"
)

var Logger = logger.GetLoggerConfigured(zerolog.InfoLevel)

const (
	KEY_HOLD      = 100 * time.Millisecond
	CONFLICT_RAW  = 12 //floors 1 and 2 both lit
	KEY_CHAN_SIZE = 10
)

func main() {
	listen := flag.String("listen", "", "Serve the board on this TCP address instead of running a controller in process")
	speed := flag.Float64("speed", elevsim.DEFAULT_FLOORS_PER_SECOND, "Car speed in floors per second at full duty")
	args := elevutils.ProcessCmdArgs("elevatorsim", "Simulated board with keypad input from the terminal")

	config, err := elevconfig.LoadAll(args.ConfigPath, args.EnvPath)
	if err != nil {
		Logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	if args.Identifier != "" {
		config.Identifier = args.Identifier
	}
	level, _ := logger.ParseLevel(config.LogLevel)
	Logger = logger.GetLoggerConfigured(level)

	board := elevsim.NewBoard(elevconsts.Floor1)
	board.SetSpeed(*speed)

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	board.Run(ctx, wg, elevsim.DEFAULT_TICK)

	var elev *elevator.Elevator
	if *listen != "" {
		listener, err := net.Listen("tcp", *listen)
		if err != nil {
			Logger.Fatal().Err(err).Msgf("Could not listen on %s", *listen)
		}
		board.Serve(ctx, wg, listener)
		Logger.Info().Msgf("Serving simulated board on %v", listener.Addr())
	} else {
		metaData := elevmetadata.NewElevMetaData(elevutils.GetGitHash(), config.Identifier, "sim")
		elev = elevator.NewElevator(metaData, board, elevdisplay.NewLogDisplay(), elevator.Options{
			Speeds:         config.MotorSpeeds(),
			PollRate:       config.PollRate,
			VerboseDisplay: config.VerboseDisplay,
			Delayer:        elevio.SleepDelayer{},
		})
		elev.Start()
	}

	Logger.Info().Msg("Keys 1-9, 0: keypad | c: toggle sensor conflict | s: status | Esc: quit")
	runKeyboard(board, elev)

	if elev != nil {
		elev.Stop()
	}
	cancel()
	wg.Wait()
}

func runKeyboard(board *elevsim.Board, elev *elevator.Elevator) {
	keys, err := keyboard.GetKeys(KEY_CHAN_SIZE)
	if err != nil {
		Logger.Error().Msgf("Error reading keyboard: %v", err)
		return
	}
	defer keyboard.Close()

	conflict := false
	for event := range keys {
		if event.Err != nil {
			Logger.Error().Msgf("Error reading keyboard: %v", event.Err)
			return
		}
		if event.Key == keyboard.KeyEsc || event.Key == keyboard.KeyCtrlC {
			return
		}

		switch event.Rune {
		case 'c':
			conflict = !conflict
			if conflict {
				board.ForceSensor(CONFLICT_RAW)
			} else {
				board.ClearForcedSensor()
			}
			Logger.Info().Msgf("Sensor conflict forced: %v", conflict)
		case 's':
			dir, duty := board.Motor()
			Logger.Info().Msgf("Car at %.2f, motor %v duty %d", board.Position(), dir, duty)
			if elev != nil {
				elev.State.Print()
			}
		default:
			code, err := board.PressDigit(event.Rune)
			if err != nil {
				Logger.Debug().Msgf("Ignoring key: %v", err)
				continue
			}
			time.AfterFunc(KEY_HOLD, func() { board.Release(code) })
		}
	}
}
