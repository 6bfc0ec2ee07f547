package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Holding is one recorded lot. Lots sharing a ticker are kept as separate entries.
type Holding struct {
	Ticker    string          `json:"ticker"`
	Shares    decimal.Decimal `json:"shares"`
	CostBasis decimal.Decimal `json:"cost_basis"`
}

// PriceQuote carries the current price for a ticker. Price.Valid is false when
// the price could not be fetched.
type PriceQuote struct {
	Ticker string              `json:"ticker"`
	Price  decimal.NullDecimal `json:"price"`
}

// NormalizeTicker upper-cases and trims user input.
func NormalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
