package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New initializes the service-wide zerolog.Logger.
// 'devMode' enables human-readable console logging and debug level.
func New(devMode bool) zerolog.Logger {
	var logger zerolog.Logger

	if devMode {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
		logger = zerolog.New(consoleWriter).Level(zerolog.DebugLevel)
	} else {
		// JSON output for production
		logger = zerolog.New(os.Stderr).Level(zerolog.InfoLevel)
	}

	return logger.With().Timestamp().Str("service", "artha-onboard").Logger()
}
