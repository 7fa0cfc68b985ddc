package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
	"github.com/angelmondragon/catalog-backend/pkg/types"
)

var errUnknown = errors.New("unknown error")

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

// WriteSuccessStatus writes data as the response body without an envelope.
func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data)
}

// WriteMessage reports a plain outcome such as a completed delete.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, types.MessageResponse{Message: message})
}

// WriteError maps err onto its HTTP status and error envelope. Errors that
// carry no code are reported as internal.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errUnknown
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())

	if logg != nil {
		logFailure(ctx, logg, err, typed, meta.HTTPStatus)
	}
	writeJSON(w, meta.HTTPStatus, types.ErrorEnvelope{Error: publicError(typed, meta)})
}

func publicError(typed *pkgerrors.Error, meta pkgerrors.Metadata) types.APIError {
	out := types.APIError{Code: string(typed.Code()), Message: meta.PublicMessage}
	if !meta.DetailsAllowed {
		return out
	}
	if msg := typed.Message(); msg != "" {
		out.Message = msg
	}
	out.Details = typed.Details()
	return out
}

func logFailure(ctx context.Context, logg *logger.Logger, err error, typed *pkgerrors.Error, status int) {
	dump := pkgerrors.Dump(err)
	fields := map[string]any{
		"error":       dump.TopMessage,
		"error_code":  dump.Code,
		"error_chain": dump.Chain,
	}
	if dump.PGCode != "" {
		fields["pg_code"] = dump.PGCode
		fields["pg_message"] = dump.PGMessage
		fields["pg_detail"] = dump.PGDetail
		fields["pg_table"] = dump.PGTable
		fields["pg_column"] = dump.PGColumn
		fields["pg_constraint"] = dump.PGConstraint
	}
	ctx = logg.WithFields(ctx, fields)

	if status < http.StatusInternalServerError {
		logg.Warn(ctx, "request.rejected: "+typed.Message())
		return
	}
	logg.Error(ctx, "request.error", err)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// headers are already sent; nothing left to tell the client
		log.Printf(`{"level":"error","msg":"encode response","err":%q}`, err.Error())
	}
}
