package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/set-night/telbill/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError maps a billing error onto its wire code and HTTP status. Details
// of internal faults are logged, never returned to the client.
func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	body := errorResponse{Error: domain.Code(err)}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	} else {
		body.Message = err.Error()
	}
	writeJSON(w, status, body)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidMSISDN),
		errors.Is(err, domain.ErrInvalidPackageID),
		errors.Is(err, domain.ErrInvoiceIDRequired),
		errors.Is(err, domain.ErrInvalidPaymentMethod):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPackageNotFound),
		errors.Is(err, domain.ErrInvoiceNotFound),
		errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvoiceAlreadyPaid):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
