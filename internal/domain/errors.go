package domain

import "errors"

var (
	ErrInvalidMSISDN        = errors.New("msisdn must be 10-15 digits")
	ErrInvalidPackageID     = errors.New("package id is required")
	ErrInvoiceIDRequired    = errors.New("invoice id is required")
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
	ErrPackageNotFound      = errors.New("package not found")
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrInvoiceAlreadyPaid   = errors.New("invoice already paid")

	// ErrInternal marks an inconsistency between stores (a bug, not bad
	// input); it must never be reported as a not-found.
	ErrInternal = errors.New("internal inconsistency")
)

// Code returns the stable wire code for a known billing error, or
// "INTERNAL_ERROR" for anything else.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidMSISDN):
		return "INVALID_MSISDN"
	case errors.Is(err, ErrInvalidPackageID):
		return "INVALID_PACKAGE_ID"
	case errors.Is(err, ErrInvoiceIDRequired):
		return "INVOICE_ID_REQUIRED"
	case errors.Is(err, ErrInvalidPaymentMethod):
		return "INVALID_PAYMENT_METHOD"
	case errors.Is(err, ErrPackageNotFound):
		return "PACKAGE_NOT_FOUND"
	case errors.Is(err, ErrInvoiceNotFound):
		return "INVOICE_NOT_FOUND"
	case errors.Is(err, ErrPaymentNotFound):
		return "PAYMENT_NOT_FOUND"
	case errors.Is(err, ErrInvoiceAlreadyPaid):
		return "INVOICE_ALREADY_PAID"
	default:
		return "INTERNAL_ERROR"
	}
}
