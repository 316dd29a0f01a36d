// README: Currency codes and monetary rounding shared by the pricing modules.
package types

import (
	"math"
	"strings"
)

type Currency string

const (
	CAD Currency = "CAD"
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// ParseCurrency upper-cases a currency code; empty input means CAD.
func ParseCurrency(s string) Currency {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return CAD
	}
	return Currency(s)
}

// Round2 rounds a monetary amount to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
