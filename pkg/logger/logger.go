package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/angelmondragon/catalog-backend/pkg/env"
	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"

	envLogFormat = "CATALOG_LOG_FORMAT"
)

// Options configures the structured logger.
type Options struct {
	ServiceName string
	Environment string
	// Level is a zerolog level name; empty or unknown means info.
	Level string
	// Format is "json" or "console"; empty falls back to CATALOG_LOG_FORMAT.
	Format    string
	WarnStack bool
	Output    io.Writer
}

// Logger carries request and job scoped fields through context.Context.
type Logger struct {
	base      *zerolog.Logger
	warnStack bool
}

type ctxKey struct{}

func New(opts Options) *Logger {
	if opts.Format == "" {
		opts.Format = env.Get(envLogFormat, FormatJSON)
	}

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}
	if strings.EqualFold(opts.Format, FormatConsole) {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	ctx := zerolog.New(output).With().Timestamp().Str("service", opts.ServiceName)
	if opts.Environment != "" {
		ctx = ctx.Str("env", strings.ToLower(opts.Environment))
	}
	base := ctx.Logger().Level(ParseLevel(opts.Level))

	return &Logger{base: &base, warnStack: opts.WarnStack}
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) fromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
			return entry
		}
	}
	return l.base
}

func (l *Logger) attach(ctx context.Context, entry zerolog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, &entry)
}

func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	return l.attach(ctx, l.fromContext(ctx).With().Interface(key, value).Logger())
}

func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	return l.attach(ctx, l.fromContext(ctx).With().Fields(fields).Logger())
}

func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, "request_id", requestID)
}

func (l *Logger) WithUserID(ctx context.Context, userID int64) context.Context {
	return l.WithField(ctx, "user_id", userID)
}

// WithActor tags the context with the authenticated caller.
func (l *Logger) WithActor(ctx context.Context, userID int64, role string) context.Context {
	return l.WithFields(ctx, map[string]any{
		"user_id":    userID,
		"actor_role": role,
	})
}

// WithJob tags log lines emitted while a cron job runs.
func (l *Logger) WithJob(ctx context.Context, name string) context.Context {
	return l.WithFields(ctx, map[string]any{
		"job":   name,
		"event": "cron.job",
	})
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	l.fromContext(ctx).Debug().Msg(msg)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	l.fromContext(ctx).Info().Msg(msg)
}

func (l *Logger) Warn(ctx context.Context, msg string) {
	event := l.fromContext(ctx).Warn()
	if l.warnStack {
		event = event.Str("stack", stackTrace())
	}
	event.Msg(msg)
}

// Error logs err with a stack trace; typed errors also report their code.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	event := l.fromContext(ctx).Error()
	if err != nil {
		event = event.Err(err)
		if typed := pkgerrors.As(err); typed != nil {
			event = event.Str("error_code", string(typed.Code()))
		}
	}
	event.Str("stack", stackTrace()).Msg(msg)
}

func stackTrace() string {
	return strings.TrimSpace(string(debug.Stack()))
}
