package domain

import "time"

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
)

// Invoice is a billing obligation for one package purchase. Amount and
// currency are frozen at creation; status only ever moves PENDING -> PAID,
// and PaymentID/PaidAt are set exactly when that transition happens.
type Invoice struct {
	ID          string
	MSISDN      string
	PackageID   string
	AmountCents int64
	Currency    Currency
	Status      InvoiceStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PaidAt      *time.Time
	PaymentID   *string
}

// InvoiceDraft carries the caller-validated fields of an invoice before the
// ledger assigns id, status and timestamps.
type InvoiceDraft struct {
	MSISDN      string
	PackageID   string
	AmountCents int64
	Currency    Currency
}
