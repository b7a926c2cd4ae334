package logging

import (
	"encoding/hex"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the zerolog logger with the specified debug mode and output format.
func InitLogger(debug, human bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano                 // always initialize base logger with timestamp.
	base := zerolog.New(os.Stderr).With().Timestamp().Logger() // initialize base logger.
	if human {
		log.Logger = base.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		}) // select output format.
	} else {
		log.Logger = base // use JSON logger.
	}
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel) // set debug level.
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel) // set info level.
	}
}

// WithInvocation returns a logger stamped with a fresh correlation ID for a single CLI
// invocation, the per-call analogue of the server's client-IP correlation axis.
func WithInvocation() zerolog.Logger {
	return log.Logger.With().Str("request_id", uuid.NewString()).Logger()
}

// LogOperation logs the outcome of a wrap or unwrap invocation with structured fields.
func LogOperation(logger zerolog.Logger, operation, version string, keyBlockLen int, err error) {
	event := logger.Info()
	if err != nil {
		event = logger.Error().Str("error", err.Error())
	}
	event.
		Str("event", "operation_complete").
		Str("operation", operation).
		Str("version", version).
		Int("key_block_length", keyBlockLen).
		Msg(operation)
}

// LogKeyBlock logs the textual key block at debug level, hex-encoded so binary sections never
// corrupt structured log output.
func LogKeyBlock(logger zerolog.Logger, label string, keyBlock []byte) {
	logger.Debug().
		Str("event", label).
		Str("key_block_hex", hex.EncodeToString(keyBlock)).
		Msg(label)
}
