package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidMSISDN(t *testing.T) {
	tests := []struct {
		name   string
		msisdn string
		want   bool
	}{
		{"ten digits", "5512345678", true},
		{"fifteen digits", "551234567890123", true},
		{"nine digits", "551234567", false},
		{"sixteen digits", "5512345678901234", false},
		{"empty", "", false},
		{"letters", "55123456ab", false},
		{"plus prefix", "+5512345678", false},
		{"internal space", "55123 45678", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidMSISDN(tt.msisdn))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "99.00", FormatAmount(9900))
	assert.Equal(t, "149.00", FormatAmount(14900))
	assert.Equal(t, "0.05", FormatAmount(5))
	assert.Equal(t, "0.00", FormatAmount(0))
}

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidMSISDN, "INVALID_MSISDN"},
		{ErrInvalidPackageID, "INVALID_PACKAGE_ID"},
		{ErrInvoiceIDRequired, "INVOICE_ID_REQUIRED"},
		{ErrInvalidPaymentMethod, "INVALID_PAYMENT_METHOD"},
		{ErrPackageNotFound, "PACKAGE_NOT_FOUND"},
		{ErrInvoiceNotFound, "INVOICE_NOT_FOUND"},
		{ErrPaymentNotFound, "PAYMENT_NOT_FOUND"},
		{ErrInvoiceAlreadyPaid, "INVOICE_ALREADY_PAID"},
		{ErrInternal, "INTERNAL_ERROR"},
		{errors.New("anything else"), "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Code(tt.err))
		// Wrapped errors keep their code.
		assert.Equal(t, tt.want, Code(fmt.Errorf("context: %w", tt.err)))
	}
}
