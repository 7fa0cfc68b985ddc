package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
	"github.com/angelmondragon/catalog-backend/pkg/types"
)

func TestWriteSuccessStatusWritesBareBody(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"hello": "world"})

	if got := w.Code; got != http.StatusAccepted {
		t.Fatalf("expected status 202 but got %d", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["hello"] != "world" {
		t.Fatalf("unexpected payload %v", body)
	}
}

func TestWriteMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteMessage(w, http.StatusOK, "done")

	var body types.MessageResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Message != "done" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "bad input").
		WithDetails(map[string]string{"field": "demo"})
	WriteError(context.Background(), nil, w, err)

	if got := w.Code; got != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", got)
	}

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
	if body.Error.Message != "bad input" {
		t.Fatalf("unexpected message %q", body.Error.Message)
	}
	if body.Error.Details == nil {
		t.Fatalf("expected details in public payload")
	}
}

func TestWriteErrorKeepsNotFoundMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "Product 9 not found"))

	if got := w.Code; got != http.StatusNotFound {
		t.Fatalf("expected status 404 but got %d", got)
	}
	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Error.Message != "Product 9 not found" {
		t.Fatalf("unexpected message %q", body.Error.Message)
	}
}

func TestWriteErrorDefaultsToInternalForUntrustedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Error.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
	if body.Error.Message != "internal server error" {
		t.Fatalf("internal message should be generic, got %q", body.Error.Message)
	}
	if body.Error.Details != nil {
		t.Fatalf("details should be omitted for internal errors")
	}
}

func TestWriteErrorShowsDependencyMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, pkgerrors.New(pkgerrors.CodeDependency, "rate limiter unavailable"))

	if got := w.Code; got != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503 but got %d", got)
	}
	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Error.Message != "rate limiter unavailable" {
		t.Fatalf("unexpected message %q", body.Error.Message)
	}
}

func TestWriteErrorLogsPostgresFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "api", Format: logger.FormatJSON, Output: buf})

	pgErr := &pgconn.PgError{Code: "23503", TableName: "product", ConstraintName: "product_user_id_fkey"}
	err := pkgerrors.Wrap(pkgerrors.CodeInternal, fmt.Errorf("insert: %w", pgErr), "create product failed")
	WriteError(context.Background(), logg, httptest.NewRecorder(), err)

	out := buf.String()
	for _, want := range []string{`"level":"error"`, `"pg_code":"23503"`, `"pg_constraint":"product_user_id_fkey"`, `"error_code":"INTERNAL_ERROR"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %s: %s", want, out)
		}
	}
}

func TestWriteErrorLogsClientErrorsAsWarnings(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "api", Format: logger.FormatJSON, Output: buf})

	WriteError(context.Background(), logg, httptest.NewRecorder(), pkgerrors.New(pkgerrors.CodeNotFound, "Product 3 not found"))

	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) || strings.Contains(out, "pg_code") {
		t.Fatalf("unexpected log output: %s", out)
	}
}
