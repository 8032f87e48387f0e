package service

import (
	"context"

	"github.com/set-night/telbill/internal/domain"
)

// ChargeStrategy settles an invoice amount for one payment method. A business
// decline is (false, nil); an error means the strategy itself failed, which
// the simulated strategies here never do.
type ChargeStrategy interface {
	Supports(method domain.PaymentMethod) bool
	Charge(ctx context.Context, amountCents int64) (bool, error)
}

// StrategyRegistry resolves a payment method to its strategy in O(1).
type StrategyRegistry struct {
	byMethod map[domain.PaymentMethod]ChargeStrategy
}

// NewStrategyRegistry indexes the given strategies by every method they
// support.
func NewStrategyRegistry(strategies ...ChargeStrategy) *StrategyRegistry {
	r := &StrategyRegistry{byMethod: make(map[domain.PaymentMethod]ChargeStrategy)}
	for _, s := range strategies {
		for _, m := range domain.PaymentMethods() {
			if s.Supports(m) {
				r.byMethod[m] = s
			}
		}
	}
	return r
}

// DefaultStrategyRegistry wires the simulated settlement strategies: card and
// cash approve, transfer declines.
func DefaultStrategyRegistry() *StrategyRegistry {
	return NewStrategyRegistry(cardStrategy{}, cashStrategy{}, transferStrategy{})
}

// Resolve returns the strategy for method, or domain.ErrInvalidPaymentMethod
// when no registered strategy supports it.
func (r *StrategyRegistry) Resolve(method domain.PaymentMethod) (ChargeStrategy, error) {
	s, ok := r.byMethod[method]
	if !ok {
		return nil, domain.ErrInvalidPaymentMethod
	}
	return s, nil
}

type cardStrategy struct{}

func (cardStrategy) Supports(method domain.PaymentMethod) bool {
	return method == domain.PaymentMethodCard
}

func (cardStrategy) Charge(ctx context.Context, amountCents int64) (bool, error) {
	return true, nil
}

type cashStrategy struct{}

func (cashStrategy) Supports(method domain.PaymentMethod) bool {
	return method == domain.PaymentMethodCash
}

func (cashStrategy) Charge(ctx context.Context, amountCents int64) (bool, error) {
	return true, nil
}

// transferStrategy simulates a settlement rail that declines every attempt;
// declines are a normal outcome, never an error.
type transferStrategy struct{}

func (transferStrategy) Supports(method domain.PaymentMethod) bool {
	return method == domain.PaymentMethodTransfer
}

func (transferStrategy) Charge(ctx context.Context, amountCents int64) (bool, error) {
	return false, nil
}
