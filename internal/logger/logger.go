package logger

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var once sync.Once
var Log zerolog.Logger

func configureLogger() {
	customTimeFormat := "2006-01-02T15:04:05.000Z07:00"
	zerolog.TimeFieldFormat = customTimeFormat

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: customTimeFormat,
	}

	Log = zerolog.New(output).With().Timestamp().Logger()
}

// GetLoggerConfigured returns the shared logger and sets the global level.
// Unlike the logger construction, the level is applied on every call so a
// test or main can lower it after package variables already hold the logger.
func GetLoggerConfigured(level zerolog.Level) *zerolog.Logger {
	once.Do(configureLogger)
	zerolog.SetGlobalLevel(level)
	return &Log
}

func GetLogger() *zerolog.Logger {
	once.Do(configureLogger)
	return &Log
}

// ParseLevel maps a config string such as "debug" or "warn" to a level.
// An empty string means info.
func ParseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(level)
}
