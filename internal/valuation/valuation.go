// Package valuation turns holdings and current prices into per-lot rows and
// portfolio totals. A missing price stays missing: it is never read as zero.
package valuation

import (
	"folio/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Row struct {
	Ticker       string              `json:"ticker"`
	Shares       decimal.Decimal     `json:"shares"`
	CostBasis    decimal.Decimal     `json:"cost_basis"`
	CurrentPrice decimal.NullDecimal `json:"current_price"`
	MarketValue  decimal.NullDecimal `json:"market_value"`
	CostTotal    decimal.Decimal     `json:"cost_total"`
	GainLoss     decimal.NullDecimal `json:"gain_loss"`
	GainLossPct  decimal.NullDecimal `json:"gain_loss_pct"`
}

type Summary struct {
	TotalValue    decimal.Decimal `json:"total_value"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	TotalGain     decimal.Decimal `json:"total_gain"`
	TotalGainPct  decimal.Decimal `json:"total_gain_pct"`
	Positions     int             `json:"positions"`
	UnpricedCount int             `json:"unpriced_count"`
}

// Prices maps ticker to its current price; an invalid entry or an absent key
// both mean the price is unknown.
type Prices map[string]decimal.NullDecimal

func (p Prices) Lookup(ticker string) decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return p[ticker]
}

// Quotes lists the prices for tickers in the given order.
func (p Prices) Quotes(tickers []string) []models.PriceQuote {
	out := make([]models.PriceQuote, 0, len(tickers))
	for _, t := range tickers {
		out = append(out, models.PriceQuote{Ticker: t, Price: p.Lookup(t)})
	}
	return out
}

// Percent returns part / whole * 100, or zero when whole is not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole)
}

func valid(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// ValueRow computes one row. CostTotal is always set; the price-derived
// fields are only valid when the price is.
func ValueRow(h models.Holding, price decimal.NullDecimal) Row {
	row := Row{
		Ticker:       h.Ticker,
		Shares:       h.Shares,
		CostBasis:    h.CostBasis,
		CurrentPrice: price,
		CostTotal:    h.CostBasis.Mul(h.Shares),
	}
	if !price.Valid {
		return row
	}
	mv := price.Decimal.Mul(h.Shares)
	gain := mv.Sub(row.CostTotal)
	row.MarketValue = valid(mv)
	row.GainLoss = valid(gain)
	row.GainLossPct = valid(Percent(gain, row.CostTotal))
	return row
}

// Valuate returns one row per holding, in holding order, plus the totals.
// TotalValue only sums rows with a known price; TotalCost sums every row.
func Valuate(hs []models.Holding, prices Prices) ([]Row, Summary) {
	rows := make([]Row, 0, len(hs))
	sum := Summary{Positions: len(hs)}
	for _, h := range hs {
		row := ValueRow(h, prices.Lookup(h.Ticker))
		if row.MarketValue.Valid {
			sum.TotalValue = sum.TotalValue.Add(row.MarketValue.Decimal)
		} else {
			sum.UnpricedCount++
		}
		sum.TotalCost = sum.TotalCost.Add(row.CostTotal)
		rows = append(rows, row)
	}
	sum.TotalGain = sum.TotalValue.Sub(sum.TotalCost)
	sum.TotalGainPct = Percent(sum.TotalGain, sum.TotalCost)
	return rows, sum
}
