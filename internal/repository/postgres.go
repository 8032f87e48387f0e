package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/telbill/internal/domain"
)

// NewPostgresStores wires the Postgres backend. Ids come from database
// sequences so they stay unique across restarts.
func NewPostgresStores(pool *pgxpool.Pool) Stores {
	return Stores{
		Packages:    &PostgresPackageStore{pool: pool},
		Invoices:    &PostgresInvoiceStore{pool: pool},
		Payments:    &PostgresPaymentStore{pool: pool},
		Idempotency: &PostgresIdempotencyStore{pool: pool},
	}
}

type PostgresPackageStore struct {
	pool *pgxpool.Pool
}

func (s *PostgresPackageStore) List(ctx context.Context) ([]domain.Package, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, price_cents, currency, validity_days FROM packages ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	var packages []domain.Package
	for rows.Next() {
		var p domain.Package
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Currency, &p.ValidityDays); err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}

func (s *PostgresPackageStore) GetByID(ctx context.Context, id string) (domain.Package, error) {
	var p domain.Package
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, price_cents, currency, validity_days FROM packages WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.PriceCents, &p.Currency, &p.ValidityDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Package{}, domain.ErrPackageNotFound
	}
	if err != nil {
		return domain.Package{}, fmt.Errorf("get package: %w", err)
	}
	return p, nil
}

type PostgresInvoiceStore struct {
	pool *pgxpool.Pool
}

func (s *PostgresInvoiceStore) Create(ctx context.Context, draft domain.InvoiceDraft) (domain.Invoice, error) {
	inv := domain.Invoice{
		MSISDN:      draft.MSISDN,
		PackageID:   draft.PackageID,
		AmountCents: draft.AmountCents,
		Currency:    draft.Currency,
		Status:      domain.InvoiceStatusPending,
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO invoices (id, msisdn, package_id, amount_cents, currency, status)
		 VALUES ('INV-' || lpad(nextval('invoice_id_seq')::text, 6, '0'), $1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		draft.MSISDN, draft.PackageID, draft.AmountCents, draft.Currency, inv.Status).
		Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("create invoice: %w", err)
	}
	return inv, nil
}

func (s *PostgresInvoiceStore) GetByID(ctx context.Context, id string) (domain.Invoice, error) {
	var inv domain.Invoice
	err := s.pool.QueryRow(ctx,
		`SELECT id, msisdn, package_id, amount_cents, currency, status, created_at, updated_at, paid_at, payment_id
		 FROM invoices WHERE id = $1`, id).
		Scan(&inv.ID, &inv.MSISDN, &inv.PackageID, &inv.AmountCents, &inv.Currency,
			&inv.Status, &inv.CreatedAt, &inv.UpdatedAt, &inv.PaidAt, &inv.PaymentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Invoice{}, domain.ErrInvoiceNotFound
	}
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (s *PostgresInvoiceStore) MarkPaid(ctx context.Context, id, paymentID string, paidAt time.Time) (domain.Invoice, error) {
	var inv domain.Invoice
	// Status guard in the WHERE clause keeps the PENDING -> PAID transition
	// atomic even across processes.
	err := s.pool.QueryRow(ctx,
		`UPDATE invoices
		 SET status = $2, payment_id = $3, paid_at = $4, updated_at = $4
		 WHERE id = $1 AND status = $5
		 RETURNING id, msisdn, package_id, amount_cents, currency, status, created_at, updated_at, paid_at, payment_id`,
		id, domain.InvoiceStatusPaid, paymentID, paidAt.UTC(), domain.InvoiceStatusPending).
		Scan(&inv.ID, &inv.MSISDN, &inv.PackageID, &inv.AmountCents, &inv.Currency,
			&inv.Status, &inv.CreatedAt, &inv.UpdatedAt, &inv.PaidAt, &inv.PaymentID)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := s.GetByID(ctx, id); getErr != nil {
			return domain.Invoice{}, getErr
		}
		return domain.Invoice{}, domain.ErrInvoiceAlreadyPaid
	}
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("mark invoice paid: %w", err)
	}
	return inv, nil
}

type PostgresPaymentStore struct {
	pool *pgxpool.Pool
}

func (s *PostgresPaymentStore) Create(ctx context.Context, draft domain.PaymentDraft) (domain.Payment, error) {
	p := domain.Payment{
		InvoiceID:   draft.InvoiceID,
		AmountCents: draft.AmountCents,
		Currency:    draft.Currency,
		Method:      draft.Method,
		Status:      draft.Status,
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO payments (id, invoice_id, amount_cents, currency, method, status)
		 VALUES ('PAY-' || lpad(nextval('payment_id_seq')::text, 6, '0'), $1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		draft.InvoiceID, draft.AmountCents, draft.Currency, draft.Method, draft.Status).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("create payment: %w", err)
	}
	return p, nil
}

func (s *PostgresPaymentStore) GetByID(ctx context.Context, id string) (domain.Payment, error) {
	var p domain.Payment
	err := s.pool.QueryRow(ctx,
		`SELECT id, invoice_id, amount_cents, currency, method, status, created_at
		 FROM payments WHERE id = $1`, id).
		Scan(&p.ID, &p.InvoiceID, &p.AmountCents, &p.Currency, &p.Method, &p.Status, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Payment{}, domain.ErrPaymentNotFound
	}
	if err != nil {
		return domain.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

type PostgresIdempotencyStore struct {
	pool *pgxpool.Pool
}

func (s *PostgresIdempotencyStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	var paymentID string
	err := s.pool.QueryRow(ctx,
		`SELECT payment_id FROM idempotency_keys WHERE key = $1`, key).Scan(&paymentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup idempotency key: %w", err)
	}
	return paymentID, true, nil
}

func (s *PostgresIdempotencyStore) Record(ctx context.Context, key, paymentID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO idempotency_keys (key, payment_id) VALUES ($1, $2)
		 ON CONFLICT (key) DO NOTHING`, key, paymentID)
	if err != nil {
		return fmt.Errorf("record idempotency key: %w", err)
	}
	return nil
}
