package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/set-night/telbill/internal/domain"
	"github.com/set-night/telbill/internal/repository"
)

// BillingService orchestrates the invoice/payment lifecycle over the package
// catalog, the invoice and payment ledgers and the idempotency index.
type BillingService struct {
	stores     repository.Stores
	strategies *StrategyRegistry

	// In-process per-entity exclusion: payment operations on the same invoice
	// (or bearing the same idempotency key) are serialized so no two callers
	// can both observe PENDING and both charge.
	invoiceLocks *keyedMutex
	keyLocks     *keyedMutex
}

func NewBillingService(stores repository.Stores, strategies *StrategyRegistry) *BillingService {
	return &BillingService{
		stores:       stores,
		strategies:   strategies,
		invoiceLocks: newKeyedMutex(),
		keyLocks:     newKeyedMutex(),
	}
}

// PaymentResult is the outcome of PayInvoice: the payment, the invoice as it
// stands after the attempt, and whether the result was replayed from the
// idempotency index.
type PaymentResult struct {
	Payment  domain.Payment
	Invoice  domain.Invoice
	Replayed bool
}

func (s *BillingService) ListPackages(ctx context.Context) ([]domain.Package, error) {
	return s.stores.Packages.List(ctx)
}

func (s *BillingService) GetPackage(ctx context.Context, id string) (domain.Package, error) {
	return s.stores.Packages.GetByID(ctx, id)
}

func (s *BillingService) GetInvoice(ctx context.Context, id string) (domain.Invoice, error) {
	return s.stores.Invoices.GetByID(ctx, id)
}

func (s *BillingService) GetPayment(ctx context.Context, id string) (domain.Payment, error) {
	return s.stores.Payments.GetByID(ctx, id)
}

// CreateInvoice validates the subscriber number and package reference, then
// opens a PENDING invoice with amount and currency frozen from the package.
func (s *BillingService) CreateInvoice(ctx context.Context, msisdn, packageID string) (domain.Invoice, error) {
	if !domain.ValidMSISDN(msisdn) {
		return domain.Invoice{}, domain.ErrInvalidMSISDN
	}
	packageID = strings.TrimSpace(packageID)
	if packageID == "" {
		return domain.Invoice{}, domain.ErrInvalidPackageID
	}

	pkg, err := s.stores.Packages.GetByID(ctx, packageID)
	if err != nil {
		return domain.Invoice{}, err
	}

	return s.stores.Invoices.Create(ctx, domain.InvoiceDraft{
		MSISDN:      msisdn,
		PackageID:   pkg.ID,
		AmountCents: pkg.PriceCents,
		Currency:    pkg.Currency,
	})
}

// PayInvoice runs one charge attempt against an invoice. When an idempotency
// key is supplied and already recorded, the original payment is returned and
// the charge strategy is not invoked again; the key is held locked for the
// whole check-charge-record window so a concurrent retry blocks and then
// replays rather than double-charging.
func (s *BillingService) PayInvoice(ctx context.Context, invoiceID string, method domain.PaymentMethod, idempotencyKey string) (PaymentResult, error) {
	if idempotencyKey != "" {
		unlock := s.keyLocks.lock(idempotencyKey)
		defer unlock()

		result, replayed, err := s.replay(ctx, idempotencyKey)
		if err != nil {
			return PaymentResult{}, err
		}
		if replayed {
			return result, nil
		}
	}

	invoiceID = strings.TrimSpace(invoiceID)
	if invoiceID == "" {
		return PaymentResult{}, domain.ErrInvoiceIDRequired
	}

	unlock := s.invoiceLocks.lock(invoiceID)
	defer unlock()

	invoice, err := s.stores.Invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return PaymentResult{}, err
	}
	// Never charge a settled invoice, even if the strategy would decline.
	if invoice.Status == domain.InvoiceStatusPaid {
		return PaymentResult{}, domain.ErrInvoiceAlreadyPaid
	}

	strategy, err := s.strategies.Resolve(method)
	if err != nil {
		return PaymentResult{}, err
	}

	charged, err := strategy.Charge(ctx, invoice.AmountCents)
	if err != nil {
		return PaymentResult{}, fmt.Errorf("charge %s: %w", method, err)
	}

	status := domain.PaymentStatusFailed
	if charged {
		status = domain.PaymentStatusSucceeded
	}
	payment, err := s.stores.Payments.Create(ctx, domain.PaymentDraft{
		InvoiceID:   invoice.ID,
		AmountCents: invoice.AmountCents,
		Currency:    invoice.Currency,
		Method:      method,
		Status:      status,
	})
	if err != nil {
		return PaymentResult{}, err
	}

	if charged {
		invoice, err = s.stores.Invoices.MarkPaid(ctx, invoice.ID, payment.ID, payment.CreatedAt)
		if err != nil {
			return PaymentResult{}, err
		}
	}

	// Record the key for failed attempts too, so a retried decline replays
	// instead of piling up FAILED payments under the same key.
	if idempotencyKey != "" {
		if err := s.stores.Idempotency.Record(ctx, idempotencyKey, payment.ID); err != nil {
			return PaymentResult{}, err
		}
	}

	return PaymentResult{Payment: payment, Invoice: invoice}, nil
}

// replay resolves a previously recorded idempotency key to its payment and
// invoice. A recorded key whose payment or invoice is missing from the
// ledgers is an internal inconsistency, not a not-found.
func (s *BillingService) replay(ctx context.Context, key string) (PaymentResult, bool, error) {
	paymentID, ok, err := s.stores.Idempotency.Lookup(ctx, key)
	if err != nil {
		return PaymentResult{}, false, err
	}
	if !ok {
		return PaymentResult{}, false, nil
	}

	payment, err := s.stores.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return PaymentResult{}, false, fmt.Errorf("%w: idempotency key references unknown payment %s", domain.ErrInternal, paymentID)
	}
	invoice, err := s.stores.Invoices.GetByID(ctx, payment.InvoiceID)
	if err != nil {
		return PaymentResult{}, false, fmt.Errorf("%w: payment %s references unknown invoice %s", domain.ErrInternal, payment.ID, payment.InvoiceID)
	}

	return PaymentResult{Payment: payment, Invoice: invoice, Replayed: true}, true, nil
}
