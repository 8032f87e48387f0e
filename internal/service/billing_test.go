package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/set-night/telbill/internal/domain"
	"github.com/set-night/telbill/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClock = func() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

// countingStrategy records how many times it is charged, to verify the
// at-most-once-charge guarantees.
type countingStrategy struct {
	method domain.PaymentMethod
	ok     bool

	mu    sync.Mutex
	calls int
}

func (s *countingStrategy) Supports(m domain.PaymentMethod) bool { return m == s.method }

func (s *countingStrategy) Charge(ctx context.Context, amountCents int64) (bool, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.ok, nil
}

func (s *countingStrategy) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newBilling(t *testing.T) (*BillingService, repository.Stores) {
	t.Helper()
	stores := repository.NewMemoryStores(testClock)
	return NewBillingService(stores, DefaultStrategyRegistry()), stores
}

func mustCreateInvoice(t *testing.T, billing *BillingService) domain.Invoice {
	t.Helper()
	inv, err := billing.CreateInvoice(context.Background(), "5512345678", "PKG-5GB")
	require.NoError(t, err)
	return inv
}

func TestCreateInvoice(t *testing.T) {
	billing, _ := newBilling(t)

	inv, err := billing.CreateInvoice(context.Background(), "5512345678", "PKG-5GB")
	require.NoError(t, err)
	assert.Equal(t, "5512345678", inv.MSISDN)
	assert.Equal(t, "PKG-5GB", inv.PackageID)
	assert.Equal(t, int64(9900), inv.AmountCents)
	assert.Equal(t, domain.CurrencyMXN, inv.Currency)
	assert.Equal(t, domain.InvoiceStatusPending, inv.Status)
	assert.Nil(t, inv.PaymentID)
	assert.Nil(t, inv.PaidAt)
}

func TestCreateInvoiceValidation(t *testing.T) {
	billing, _ := newBilling(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		msisdn    string
		packageID string
		wantErr   error
	}{
		{"msisdn too short", "12345", "PKG-5GB", domain.ErrInvalidMSISDN},
		{"msisdn with letters", "55123456ab", "PKG-5GB", domain.ErrInvalidMSISDN},
		{"empty package id", "5512345678", "", domain.ErrInvalidPackageID},
		{"blank package id", "5512345678", "   ", domain.ErrInvalidPackageID},
		{"unknown package", "5512345678", "PKG-NOPE", domain.ErrPackageNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := billing.CreateInvoice(ctx, tt.msisdn, tt.packageID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPayInvoiceCard(t *testing.T) {
	billing, _ := newBilling(t)
	inv := mustCreateInvoice(t, billing)

	result, err := billing.PayInvoice(context.Background(), inv.ID, domain.PaymentMethodCard, "")
	require.NoError(t, err)

	assert.False(t, result.Replayed)
	assert.Equal(t, domain.PaymentStatusSucceeded, result.Payment.Status)
	assert.Equal(t, inv.ID, result.Payment.InvoiceID)
	assert.Equal(t, inv.AmountCents, result.Payment.AmountCents)
	assert.Equal(t, inv.Currency, result.Payment.Currency)

	assert.Equal(t, domain.InvoiceStatusPaid, result.Invoice.Status)
	require.NotNil(t, result.Invoice.PaymentID)
	assert.Equal(t, result.Payment.ID, *result.Invoice.PaymentID)
	require.NotNil(t, result.Invoice.PaidAt)
	assert.Equal(t, result.Payment.CreatedAt, *result.Invoice.PaidAt)
}

func TestPayInvoiceAlreadyPaid(t *testing.T) {
	billing, stores := newBilling(t)
	inv := mustCreateInvoice(t, billing)
	ctx := context.Background()

	first, err := billing.PayInvoice(ctx, inv.ID, domain.PaymentMethodCard, "")
	require.NoError(t, err)

	_, err = billing.PayInvoice(ctx, inv.ID, domain.PaymentMethodCash, "")
	assert.ErrorIs(t, err, domain.ErrInvoiceAlreadyPaid)

	// No second payment was recorded.
	_, err = stores.Payments.GetByID(ctx, "PAY-000002")
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)

	got, err := billing.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Payment.ID, *got.PaymentID)
}

func TestPayInvoiceTransferDeclines(t *testing.T) {
	billing, _ := newBilling(t)
	inv := mustCreateInvoice(t, billing)
	ctx := context.Background()

	result, err := billing.PayInvoice(ctx, inv.ID, domain.PaymentMethodTransfer, "")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, result.Payment.Status)

	// A decline is recorded but leaves the invoice open.
	got, err := billing.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPending, got.Status)
	assert.Nil(t, got.PaymentID)

	stored, err := billing.GetPayment(ctx, result.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, stored.Status)
}

func TestPayInvoiceValidation(t *testing.T) {
	billing, _ := newBilling(t)
	inv := mustCreateInvoice(t, billing)
	ctx := context.Background()

	_, err := billing.PayInvoice(ctx, "", domain.PaymentMethodCard, "")
	assert.ErrorIs(t, err, domain.ErrInvoiceIDRequired)

	_, err = billing.PayInvoice(ctx, "   ", domain.PaymentMethodCard, "")
	assert.ErrorIs(t, err, domain.ErrInvoiceIDRequired)

	_, err = billing.PayInvoice(ctx, "INV-999999", domain.PaymentMethodCard, "")
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)

	_, err = billing.PayInvoice(ctx, inv.ID, domain.PaymentMethod("BARTER"), "")
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentMethod)

	// Rejecting the method must not have recorded a payment.
	got, err := billing.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPending, got.Status)
}

func TestPayInvoiceIdempotentReplay(t *testing.T) {
	card := &countingStrategy{method: domain.PaymentMethodCard, ok: true}
	stores := repository.NewMemoryStores(testClock)
	billing := NewBillingService(stores, NewStrategyRegistry(card))
	ctx := context.Background()

	inv, err := billing.CreateInvoice(ctx, "5512345678", "PKG-5GB")
	require.NoError(t, err)

	first, err := billing.PayInvoice(ctx, inv.ID, domain.PaymentMethodCard, "retry-1")
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	second, err := billing.PayInvoice(ctx, inv.ID, domain.PaymentMethodCard, "retry-1")
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Payment.ID, second.Payment.ID)
	assert.Equal(t, domain.InvoiceStatusPaid, second.Invoice.Status)

	// The charge ran exactly once.
	assert.Equal(t, 1, card.count())
}

func TestPayInvoiceIdempotentReplayOfDecline(t *testing.T) {
	billing, stores := newBilling(t)
	inv := mustCreateInvoice(t, billing)
	ctx := context.Background()

	first, err := billing.PayInvoice(ctx, inv.ID, domain.PaymentMethodTransfer, "retry-2")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, first.Payment.Status)

	// Retrying a declined attempt under the same key replays the FAILED
	// payment instead of stacking up new ones.
	second, err := billing.PayInvoice(ctx, inv.ID, domain.PaymentMethodTransfer, "retry-2")
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Payment.ID, second.Payment.ID)

	_, err = stores.Payments.GetByID(ctx, "PAY-000002")
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func TestPayInvoiceInconsistentIndex(t *testing.T) {
	billing, stores := newBilling(t)
	ctx := context.Background()

	// An index entry pointing at a payment the ledger does not know is a bug,
	// surfaced as an internal fault rather than a not-found.
	require.NoError(t, stores.Idempotency.Record(ctx, "poisoned", "PAY-999999"))

	_, err := billing.PayInvoice(ctx, "INV-000001", domain.PaymentMethodCard, "poisoned")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInternal)
	assert.False(t, errors.Is(err, domain.ErrPaymentNotFound))
}

func TestPayInvoiceConcurrentSameInvoice(t *testing.T) {
	card := &countingStrategy{method: domain.PaymentMethodCard, ok: true}
	stores := repository.NewMemoryStores(testClock)
	billing := NewBillingService(stores, NewStrategyRegistry(card))
	ctx := context.Background()

	inv, err := billing.CreateInvoice(ctx, "5512345678", "PKG-5GB")
	require.NoError(t, err)

	const callers = 10
	results := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := billing.PayInvoice(ctx, inv.ID, domain.PaymentMethodCard, "")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, conflicted int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrInvoiceAlreadyPaid):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, callers-1, conflicted)
	assert.Equal(t, 1, card.count())

	got, err := billing.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, got.Status)
}

func TestPayInvoiceConcurrentSameKey(t *testing.T) {
	card := &countingStrategy{method: domain.PaymentMethodCard, ok: true}
	stores := repository.NewMemoryStores(testClock)
	billing := NewBillingService(stores, NewStrategyRegistry(card))
	ctx := context.Background()

	inv, err := billing.CreateInvoice(ctx, "5512345678", "PKG-5GB")
	require.NoError(t, err)

	const callers = 10
	paymentIDs := make(chan string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := billing.PayInvoice(ctx, inv.ID, domain.PaymentMethodCard, "shared-key")
			if err != nil {
				t.Errorf("PayInvoice: %v", err)
				return
			}
			paymentIDs <- result.Payment.ID
		}()
	}
	wg.Wait()
	close(paymentIDs)

	// Every caller observed the same payment; the loser of the race blocked
	// and replayed instead of charging again.
	ids := make(map[string]bool)
	for id := range paymentIDs {
		ids[id] = true
	}
	assert.Len(t, ids, 1)
	assert.Equal(t, 1, card.count())
}
