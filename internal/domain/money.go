package domain

import "github.com/shopspring/decimal"

// AmountDecimal converts an integer cent amount to its exact decimal value,
// e.g. 9900 -> 99.00.
func AmountDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FormatAmount renders a cent amount with two fixed decimal places for wire
// responses, e.g. 9900 -> "99.00".
func FormatAmount(cents int64) string {
	return AmountDecimal(cents).StringFixed(2)
}
