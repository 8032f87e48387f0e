package handler

import (
	"encoding/json"
	"net/http"

	"github.com/set-night/telbill/internal/config"
)

type createInvoiceRequest struct {
	MSISDN    string `json:"msisdn"`
	PackageID string `json:"packageId"`
}

func (h *Handler) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "INVALID_BODY", Message: "request body must be valid JSON"})
		return
	}

	invoice, err := h.billing.CreateInvoice(r.Context(), req.MSISDN, req.PackageID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvoiceResponse(invoice))
}

func (h *Handler) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.billing.GetInvoice(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceResponse(invoice))
}
