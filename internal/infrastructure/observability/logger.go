package observability

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// LoggerOptions configures the process-wide logger
type LoggerOptions struct {
	Service string
	Clinic  string
	Env     string
	// Level is a zerolog level name; empty or unknown means info
	Level string
	// Output defaults to stdout
	Output io.Writer
}

// InitLogger replaces the global zerolog logger. Every entry carries the
// service name, and the clinic name when set.
func InitLogger(opts LoggerOptions) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(parseLevel(opts.Level))

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var base zerolog.Context
	if opts.Env == "development" {
		base = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).With().Timestamp()
	} else {
		base = zerolog.New(out).With().Timestamp().Caller().Str("env", opts.Env)
	}

	base = base.Str("service", opts.Service)
	if opts.Clinic != "" {
		base = base.Str("clinic", opts.Clinic)
	}
	log.Logger = base.Logger()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// LoggerFromContext returns the global logger annotated with the trace and
// span ids of ctx, when it carries a sampled span
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	logger := log.Logger

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		logger = logger.With().
			Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String()).
			Logger()
	}

	return &logger
}
