package domain

import "time"

type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
)

// PaymentMethods lists the supported methods in registration order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentMethodCard, PaymentMethodCash, PaymentMethodTransfer}
}

type PaymentStatus string

const (
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Payment records one charge attempt against an invoice. A payment is terminal
// on creation: declined attempts are stored as FAILED, never retried in place.
type Payment struct {
	ID          string
	InvoiceID   string
	AmountCents int64
	Currency    Currency
	Method      PaymentMethod
	Status      PaymentStatus
	CreatedAt   time.Time
}

// PaymentDraft carries the fields of a payment before the ledger assigns id
// and timestamp.
type PaymentDraft struct {
	InvoiceID   string
	AmountCents int64
	Currency    Currency
	Method      PaymentMethod
	Status      PaymentStatus
}
