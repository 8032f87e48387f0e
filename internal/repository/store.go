package repository

import (
	"context"
	"time"

	"github.com/set-night/telbill/internal/domain"
)

// PackageStore is the read-only package catalog.
type PackageStore interface {
	// List returns all packages in insertion order.
	List(ctx context.Context) ([]domain.Package, error)
	GetByID(ctx context.Context, id string) (domain.Package, error)
}

// InvoiceStore owns invoice records and their status transitions.
type InvoiceStore interface {
	// Create assigns id, PENDING status and timestamps, then stores the
	// invoice. The draft is expected to be validated by the caller.
	Create(ctx context.Context, draft domain.InvoiceDraft) (domain.Invoice, error)
	GetByID(ctx context.Context, id string) (domain.Invoice, error)
	// MarkPaid transitions PENDING -> PAID. This is the only path that sets
	// PaymentID and PaidAt. Fails with domain.ErrInvoiceAlreadyPaid when the
	// invoice is no longer PENDING.
	MarkPaid(ctx context.Context, id, paymentID string, paidAt time.Time) (domain.Invoice, error)
}

// PaymentStore owns payment records, one per charge attempt.
type PaymentStore interface {
	// Create assigns id and timestamp and stores the payment, whatever its
	// outcome; FAILED attempts are kept for audit.
	Create(ctx context.Context, draft domain.PaymentDraft) (domain.Payment, error)
	GetByID(ctx context.Context, id string) (domain.Payment, error)
}

// IdempotencyStore maps client-supplied idempotency keys to payment ids. Keys
// never expire here; expiry belongs to an external TTL layer.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (paymentID string, ok bool, err error)
	// Record stores the association. A key is recorded at most once; later
	// calls for the same key are no-ops.
	Record(ctx context.Context, key, paymentID string) error
}

// Stores bundles one backend's implementations for wiring.
type Stores struct {
	Packages    PackageStore
	Invoices    InvoiceStore
	Payments    PaymentStore
	Idempotency IdempotencyStore
}
