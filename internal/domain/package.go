package domain

type Currency string

const CurrencyMXN Currency = "MXN"

// Package is a purchasable prepaid data plan. Packages are seeded at process
// start and never mutated.
type Package struct {
	ID           string
	Name         string
	PriceCents   int64
	Currency     Currency
	ValidityDays int
}
