package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/adiga/ElevatorControllerSystem/internal/elevator"
	"github.com/adiga/ElevatorControllerSystem/internal/elevconfig"
	"github.com/adiga/ElevatorControllerSystem/internal/elevdisplay"
	"github.com/adiga/ElevatorControllerSystem/internal/elevio"
	"github.com/adiga/ElevatorControllerSystem/internal/elevmetadata"
	"github.com/adiga/ElevatorControllerSystem/internal/elevutils"
	"github.com/adiga/ElevatorControllerSystem/internal/logger"

	"github.com/rs/zerolog"
)

var Logger = logger.GetLoggerConfigured(zerolog.InfoLevel)

func main() {
	args := elevutils.ProcessCmdArgs("elevator", "Three floor elevator dispatch controller")

	config, err := elevconfig.LoadAll(args.ConfigPath, args.EnvPath)
	if err != nil {
		Logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	if args.Identifier != "" {
		config.Identifier = args.Identifier
	}
	level, _ := logger.ParseLevel(config.LogLevel) //checked by Validate
	Logger = logger.GetLoggerConfigured(level)

	// Starting Programme
	Logger.Info().Msg("Starting Elevator Programme")

	metaData := elevmetadata.NewElevMetaData(elevutils.GetGitHash(), config.Identifier, config.BoardAddress)

	driver, err := elevio.NewElevIODriver(config.BoardAddress)
	if err != nil {
		Logger.Fatal().Err(err).Msgf("Could not reach board at %s", config.BoardAddress)
	}
	defer driver.Close()

	display := elevdisplay.Tee{elevdisplay.NewLogDisplay()}
	if config.DisplayAddress != "" {
		udpDisplay, err := elevdisplay.NewUDPDisplay(config.DisplayAddress, metaData)
		if err != nil {
			Logger.Fatal().Err(err).Msgf("Could not open display at %s", config.DisplayAddress)
		}
		defer udpDisplay.Close()
		display = append(display, udpDisplay)
	}

	elev := elevator.NewElevator(metaData, driver, display, elevator.Options{
		Speeds:         config.MotorSpeeds(),
		PollRate:       config.PollRate,
		VerboseDisplay: config.VerboseDisplay,
		Delayer:        elevio.SleepDelayer{},
	})
	elev.Start()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case sig := <-signals:
			Logger.Info().Msgf("Received %v, shutting down", sig)
			elev.Stop()
			elev.State.Print()
			return
		case event := <-elev.Diagnostics:
			Logger.Debug().Msgf("%v: %+v", event.EventType(), event.Value)
		}
	}
}
