package handler

import (
	"net/http"

	"github.com/set-night/telbill/internal/service"
)

// Handler exposes the billing engine over HTTP.
type Handler struct {
	billing *service.BillingService
}

func New(billing *service.BillingService) *Handler {
	return &Handler{billing: billing}
}

// Routes builds the request mux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /packages", h.handleListPackages)
	mux.HandleFunc("GET /packages/{id}", h.handleGetPackage)
	mux.HandleFunc("POST /invoices", h.handleCreateInvoice)
	mux.HandleFunc("GET /invoices/{id}", h.handleGetInvoice)
	mux.HandleFunc("POST /payments", h.handlePayInvoice)
	mux.HandleFunc("GET /payments/{id}", h.handleGetPayment)
	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
