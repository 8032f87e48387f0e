package repository

import (
	"context"
	"sync"
	"time"

	"github.com/set-night/telbill/internal/domain"
)

// NewMemoryStores wires the in-memory backend with the default catalog and
// per-kind id sequences.
func NewMemoryStores(now func() time.Time) Stores {
	return Stores{
		Packages:    NewMemoryPackageStore(DefaultPackages()),
		Invoices:    NewMemoryInvoiceStore(NewSequence("INV"), now),
		Payments:    NewMemoryPaymentStore(NewSequence("PAY"), now),
		Idempotency: NewMemoryIdempotencyStore(),
	}
}

// MemoryPackageStore is an immutable catalog lookup; List preserves the order
// packages were seeded in.
type MemoryPackageStore struct {
	ordered []domain.Package
	byID    map[string]domain.Package
}

func NewMemoryPackageStore(packages []domain.Package) *MemoryPackageStore {
	s := &MemoryPackageStore{
		ordered: make([]domain.Package, len(packages)),
		byID:    make(map[string]domain.Package, len(packages)),
	}
	copy(s.ordered, packages)
	for _, p := range packages {
		s.byID[p.ID] = p
	}
	return s
}

func (s *MemoryPackageStore) List(ctx context.Context) ([]domain.Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.Package, len(s.ordered))
	copy(out, s.ordered)
	return out, nil
}

func (s *MemoryPackageStore) GetByID(ctx context.Context, id string) (domain.Package, error) {
	if err := ctx.Err(); err != nil {
		return domain.Package{}, err
	}
	p, ok := s.byID[id]
	if !ok {
		return domain.Package{}, domain.ErrPackageNotFound
	}
	return p, nil
}

type MemoryInvoiceStore struct {
	mu       sync.RWMutex
	invoices map[string]domain.Invoice
	ids      *Sequence
	now      func() time.Time
}

func NewMemoryInvoiceStore(ids *Sequence, now func() time.Time) *MemoryInvoiceStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryInvoiceStore{
		invoices: make(map[string]domain.Invoice),
		ids:      ids,
		now:      now,
	}
}

func (s *MemoryInvoiceStore) Create(ctx context.Context, draft domain.InvoiceDraft) (domain.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return domain.Invoice{}, err
	}
	createdAt := s.now().UTC()
	inv := domain.Invoice{
		ID:          s.ids.Next(),
		MSISDN:      draft.MSISDN,
		PackageID:   draft.PackageID,
		AmountCents: draft.AmountCents,
		Currency:    draft.Currency,
		Status:      domain.InvoiceStatusPending,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	s.mu.Lock()
	s.invoices[inv.ID] = inv
	s.mu.Unlock()
	return cloneInvoice(inv), nil
}

func (s *MemoryInvoiceStore) GetByID(ctx context.Context, id string) (domain.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return domain.Invoice{}, err
	}
	s.mu.RLock()
	inv, ok := s.invoices[id]
	s.mu.RUnlock()
	if !ok {
		return domain.Invoice{}, domain.ErrInvoiceNotFound
	}
	return cloneInvoice(inv), nil
}

func (s *MemoryInvoiceStore) MarkPaid(ctx context.Context, id, paymentID string, paidAt time.Time) (domain.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return domain.Invoice{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return domain.Invoice{}, domain.ErrInvoiceNotFound
	}
	if inv.Status != domain.InvoiceStatusPending {
		return domain.Invoice{}, domain.ErrInvoiceAlreadyPaid
	}
	paidAt = paidAt.UTC()
	inv.Status = domain.InvoiceStatusPaid
	inv.PaymentID = &paymentID
	inv.PaidAt = &paidAt
	inv.UpdatedAt = paidAt
	s.invoices[id] = inv
	return cloneInvoice(inv), nil
}

type MemoryPaymentStore struct {
	mu       sync.RWMutex
	payments map[string]domain.Payment
	ids      *Sequence
	now      func() time.Time
}

func NewMemoryPaymentStore(ids *Sequence, now func() time.Time) *MemoryPaymentStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryPaymentStore{
		payments: make(map[string]domain.Payment),
		ids:      ids,
		now:      now,
	}
}

func (s *MemoryPaymentStore) Create(ctx context.Context, draft domain.PaymentDraft) (domain.Payment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Payment{}, err
	}
	p := domain.Payment{
		ID:          s.ids.Next(),
		InvoiceID:   draft.InvoiceID,
		AmountCents: draft.AmountCents,
		Currency:    draft.Currency,
		Method:      draft.Method,
		Status:      draft.Status,
		CreatedAt:   s.now().UTC(),
	}
	s.mu.Lock()
	s.payments[p.ID] = p
	s.mu.Unlock()
	return p, nil
}

func (s *MemoryPaymentStore) GetByID(ctx context.Context, id string) (domain.Payment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Payment{}, err
	}
	s.mu.RLock()
	p, ok := s.payments[id]
	s.mu.RUnlock()
	if !ok {
		return domain.Payment{}, domain.ErrPaymentNotFound
	}
	return p, nil
}

type MemoryIdempotencyStore struct {
	mu   sync.RWMutex
	keys map[string]string
}

func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{keys: make(map[string]string)}
}

func (s *MemoryIdempotencyStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	paymentID, ok := s.keys[key]
	s.mu.RUnlock()
	return paymentID, ok, nil
}

func (s *MemoryIdempotencyStore) Record(ctx context.Context, key, paymentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// First writer wins; a key is bound to exactly one payment.
	if _, ok := s.keys[key]; !ok {
		s.keys[key] = paymentID
	}
	return nil
}

// cloneInvoice deep-copies pointer fields so callers cannot mutate ledger
// state through a returned snapshot.
func cloneInvoice(inv domain.Invoice) domain.Invoice {
	if inv.PaidAt != nil {
		paidAt := *inv.PaidAt
		inv.PaidAt = &paidAt
	}
	if inv.PaymentID != nil {
		paymentID := *inv.PaymentID
		inv.PaymentID = &paymentID
	}
	return inv
}
