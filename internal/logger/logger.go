package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the console logger and installs it as the global logger
func New() zerolog.Logger {
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Caller().Logger()

	log.Logger = logger
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	return logger
}

// SetLevel applies a level name such as "debug" or "warn". Unknown names keep info.
func SetLevel(levelName string) {
	level, err := zerolog.ParseLevel(levelName)
	if err != nil || level == zerolog.NoLevel {
		log.Warn().Str("level", levelName).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
