package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// NewLogger creates the application logger at the given level. Unknown
// levels fall back to info.
func NewLogger(level string) zerolog.Logger {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		l = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger().Level(l)
}
