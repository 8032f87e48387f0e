package repository

import "github.com/set-night/telbill/internal/domain"

// DefaultPackages is the catalog offered at launch. The Postgres migrations
// seed the same rows.
func DefaultPackages() []domain.Package {
	return []domain.Package{
		{ID: "PKG-5GB", Name: "Paquete 5GB", PriceCents: 9900, Currency: domain.CurrencyMXN, ValidityDays: 30},
		{ID: "PKG-10GB", Name: "Paquete 10GB", PriceCents: 14900, Currency: domain.CurrencyMXN, ValidityDays: 30},
		{ID: "PKG-UNL", Name: "Ilimitado", PriceCents: 19900, Currency: domain.CurrencyMXN, ValidityDays: 30},
	}
}
