package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns a console logger at the given level ("debug", "info", "warn",
// "error"); unknown levels fall back to info.
func New(level string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		lvl = zerolog.DebugLevel
	case "warn":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	}
	return log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)
}
