package handler

import (
	"time"

	"github.com/set-night/telbill/internal/domain"
)

type packageResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PriceCents   int64  `json:"priceCents"`
	Price        string `json:"price"`
	Currency     string `json:"currency"`
	ValidityDays int    `json:"validityDays"`
}

type invoiceResponse struct {
	ID          string     `json:"id"`
	MSISDN      string     `json:"msisdn"`
	PackageID   string     `json:"packageId"`
	AmountCents int64      `json:"amountCents"`
	Amount      string     `json:"amount"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	PaidAt      *time.Time `json:"paidAt"`
	PaymentID   *string    `json:"paymentId"`
}

type paymentResponse struct {
	ID          string    `json:"id"`
	InvoiceID   string    `json:"invoiceId"`
	AmountCents int64     `json:"amountCents"`
	Amount      string    `json:"amount"`
	Currency    string    `json:"currency"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type paymentResultResponse struct {
	Payment paymentResponse `json:"payment"`
	Invoice invoiceResponse `json:"invoice"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func toPackageResponse(p domain.Package) packageResponse {
	return packageResponse{
		ID:           p.ID,
		Name:         p.Name,
		PriceCents:   p.PriceCents,
		Price:        domain.FormatAmount(p.PriceCents),
		Currency:     string(p.Currency),
		ValidityDays: p.ValidityDays,
	}
}

func toInvoiceResponse(inv domain.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:          inv.ID,
		MSISDN:      inv.MSISDN,
		PackageID:   inv.PackageID,
		AmountCents: inv.AmountCents,
		Amount:      domain.FormatAmount(inv.AmountCents),
		Currency:    string(inv.Currency),
		Status:      string(inv.Status),
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
		PaidAt:      inv.PaidAt,
		PaymentID:   inv.PaymentID,
	}
}

func toPaymentResponse(p domain.Payment) paymentResponse {
	return paymentResponse{
		ID:          p.ID,
		InvoiceID:   p.InvoiceID,
		AmountCents: p.AmountCents,
		Amount:      domain.FormatAmount(p.AmountCents),
		Currency:    string(p.Currency),
		Method:      string(p.Method),
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
	}
}
