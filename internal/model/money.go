package model

import (
	"strconv"
	"strings"
)

// Money is a display-ready amount in major currency units.
// Amount is always a non-negative decimal string ("0" when the backend
// reported nothing); CurrencyCode is always upper-case ISO 4217.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// NewMoney normalizes a backend amount into canonical Money.
// Negative amounts clamp to zero; Medusa never prices below zero, so a
// negative here is a backend glitch rather than a signal to preserve.
func NewMoney(amount float64, currencyCode string) Money {
	if amount < 0 {
		amount = 0
	}
	return Money{
		Amount:       FormatAmount(amount),
		CurrencyCode: strings.ToUpper(currencyCode),
	}
}

// ZeroMoney returns "0" in the given currency.
func ZeroMoney(currencyCode string) Money {
	return Money{Amount: "0", CurrencyCode: strings.ToUpper(currencyCode)}
}

// FormatAmount renders a major-unit amount as a minimal decimal string.
// Examples: 10 → "10", 10.5 → "10.5", 0 → "0"
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// AmountValue parses a canonical amount string back to a number.
// Used for price-range min/max computation. Malformed or empty → 0.
func AmountValue(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
