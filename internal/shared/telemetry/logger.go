package telemetry

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "ts"
	zerolog.MessageFieldName = "msg"
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	logger.Info().Fields(fields).Msg(msg)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	logger.Error().Fields(fields).Msg(msg)
}

// Fatal writes a fatal log line and exits the process. Reserved for startup
// failures such as an unreachable database.
func Fatal(msg string, fields map[string]any) {
	logger.Fatal().Fields(fields).Msg(msg)
}
