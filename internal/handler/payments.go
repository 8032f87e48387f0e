package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/set-night/telbill/internal/config"
	"github.com/set-night/telbill/internal/domain"
)

type payInvoiceRequest struct {
	InvoiceID string `json:"invoiceId"`
	Method    string `json:"method"`
}

func (h *Handler) handlePayInvoice(w http.ResponseWriter, r *http.Request) {
	var req payInvoiceRequest
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "INVALID_BODY", Message: "request body must be valid JSON"})
		return
	}

	idempotencyKey := strings.TrimSpace(r.Header.Get(config.IdempotencyKeyHeader))

	result, err := h.billing.PayInvoice(r.Context(), req.InvoiceID, domain.PaymentMethod(req.Method), idempotencyKey)
	if err != nil {
		writeError(w, err)
		return
	}

	// A replayed attempt is not a new resource.
	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, paymentResultResponse{
		Payment: toPaymentResponse(result.Payment),
		Invoice: toInvoiceResponse(result.Invoice),
	})
}

func (h *Handler) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.billing.GetPayment(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(payment))
}
