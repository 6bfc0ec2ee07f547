// Package report renders valuation and scenario results for display. Values are
// rounded here and only here.
package report

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const Unknown = "—"

var usdFormatter = money.GetCurrency(money.USD).Formatter()

// USD formats d as dollars with thousands separators, e.g. -$1,234.50.
func USD(d decimal.Decimal) string {
	return usdFormatter.Format(d.Round(2).Shift(2).IntPart())
}

// SignedUSD is USD with an explicit plus sign on positive amounts.
func SignedUSD(d decimal.Decimal) string {
	if d.Round(2).IsPositive() {
		return "+" + USD(d)
	}
	return USD(d)
}

func SignedPct(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if d.Round(2).IsPositive() {
		s = "+" + s
	}
	return s + "%"
}

func Shares(d decimal.Decimal) string { return d.StringFixed(4) }

func optional(d decimal.NullDecimal, f func(decimal.Decimal) string) string {
	if !d.Valid {
		return Unknown
	}
	return f(d.Decimal)
}
