package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/rs/zerolog"
)

func newTestLogger(buf *bytes.Buffer, opts Options) *Logger {
	opts.ServiceName = "test"
	opts.Output = buf
	opts.Format = FormatJSON
	return New(opts)
}

func TestErrorKeepsContextFieldsAndStack(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newTestLogger(buf, Options{Level: "debug"})

	ctx := log.WithRequestID(context.Background(), "req-123")
	log.Error(ctx, "boom", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte(`"request_id":"req-123"`)) {
		t.Fatalf("expected request_id to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"stack"`)) {
		t.Fatalf("expected stack trace on error; entry=%s", buf.String())
	}
	if bytes.Contains(buf.Bytes(), []byte(`"error_code"`)) {
		t.Fatalf("plain errors carry no code; entry=%s", buf.String())
	}
}

func TestErrorReportsTypedCode(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newTestLogger(buf, Options{})

	err := pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("copy aborted"), "bulk load failed")
	log.Error(context.Background(), "load", err)

	if !bytes.Contains(buf.Bytes(), []byte(`"error_code":"INTERNAL_ERROR"`)) {
		t.Fatalf("expected error_code field; entry=%s", buf.String())
	}
}

func TestWarnStackToggle(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newTestLogger(buf, Options{WarnStack: true})
	log.Warn(context.Background(), "warny")
	if !bytes.Contains(buf.Bytes(), []byte(`"stack"`)) {
		t.Fatalf("expected stack when warn stack enabled")
	}

	buf.Reset()
	log = newTestLogger(buf, Options{})
	log.Warn(context.Background(), "quiet")
	if bytes.Contains(buf.Bytes(), []byte(`"stack"`)) {
		t.Fatalf("expected no stack by default; entry=%s", buf.String())
	}
}

func TestWithActorAndJobAddFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newTestLogger(buf, Options{Environment: "PROD"})

	ctx := log.WithActor(context.Background(), 42, "ADMIN")
	ctx = log.WithJob(ctx, "interaction-cleanup")
	log.Info(ctx, "hello")

	for _, want := range []string{
		`"user_id":42`,
		`"actor_role":"ADMIN"`,
		`"job":"interaction-cleanup"`,
		`"event":"cron.job"`,
		`"env":"prod"`,
	} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Fatalf("expected %s; entry=%s", want, buf.String())
		}
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newTestLogger(buf, Options{})
	log.Debug(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered at info level; entry=%s", buf.String())
	}
}

func TestZeroOptionsLogAtInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Output: buf, Format: FormatJSON})
	ctx := context.Background()

	log.Debug(ctx, "hidden")
	if buf.Len() != 0 {
		t.Fatalf("zero options should not emit debug; entry=%s", buf.String())
	}
	log.Info(ctx, "shown")
	if !bytes.Contains(buf.Bytes(), []byte(`"level":"info"`)) {
		t.Fatalf("expected info entry; entry=%s", buf.String())
	}
}

func TestLevelNameEnablesDebug(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newTestLogger(buf, Options{Level: "DEBUG"})
	log.Debug(context.Background(), "visible")
	if !bytes.Contains(buf.Bytes(), []byte(`"level":"debug"`)) {
		t.Fatalf("expected debug entry; entry=%s", buf.String())
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("expected default info level, got %v", lvl)
	}
	if lvl := ParseLevel("invalid"); lvl != zerolog.InfoLevel {
		t.Fatalf("invalid level should fallback to info, got %v", lvl)
	}
	if lvl := ParseLevel(" DEBUG "); lvl != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %v", lvl)
	}
}
