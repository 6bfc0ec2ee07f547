package scenario

import (
	"errors"
	"fmt"

	"folio/internal/models"
	"folio/internal/valuation"

	"github.com/shopspring/decimal"
)

var ErrMoveOutOfRange = errors.New("move out of range")

// Input bounds accepted from clients. Apply and Custom do not enforce them.
var (
	MinUniformMove  = decimal.NewFromInt(-50)
	MaxUniformMove  = decimal.NewFromInt(50)
	MinOverrideMove = decimal.NewFromInt(-100)
	MaxOverrideMove = decimal.NewFromInt(200)
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

type Row struct {
	Ticker        string          `json:"ticker"`
	Move          decimal.Decimal `json:"move_pct"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	ScenarioPrice decimal.Decimal `json:"scenario_price"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	ScenarioValue decimal.Decimal `json:"scenario_value"`
	Change        decimal.Decimal `json:"change"`
}

type Result struct {
	Rows      []Row           `json:"rows"`
	NewTotal  decimal.Decimal `json:"new_total"`
	Change    decimal.Decimal `json:"change"`
	ChangePct decimal.Decimal `json:"change_pct"`
}

// Request is a custom what-if: a uniform move in percent, optionally
// overridden per ticker.
type Request struct {
	Uniform   decimal.Decimal
	Overrides map[string]decimal.Decimal
}

// MoveFor resolves the effective move for ticker.
func (r Request) MoveFor(ticker string) decimal.Decimal {
	if m, ok := r.Overrides[ticker]; ok {
		return m
	}
	return r.Uniform
}

// Validate checks the request against the client-facing bounds.
func (r Request) Validate() error {
	if r.Uniform.LessThan(MinUniformMove) || r.Uniform.GreaterThan(MaxUniformMove) {
		return fmt.Errorf("%w: uniform move %s not in [%s, %s]", ErrMoveOutOfRange, r.Uniform, MinUniformMove, MaxUniformMove)
	}
	for t, m := range r.Overrides {
		if m.LessThan(MinOverrideMove) || m.GreaterThan(MaxOverrideMove) {
			return fmt.Errorf("%w: override for %s %s not in [%s, %s]", ErrMoveOutOfRange, t, m, MinOverrideMove, MaxOverrideMove)
		}
	}
	return nil
}

// Apply shocks price by move percent.
func Apply(price, move decimal.Decimal) decimal.Decimal {
	return price.Mul(one.Add(move.Div(hundred)))
}

// Custom applies req to every holding with a known price. Holdings without a
// price are skipped. Change is measured against the included rows only, while
// ChangePct divides by totalValue, the whole portfolio's market value.
func Custom(hs []models.Holding, prices valuation.Prices, totalValue decimal.Decimal, req Request) Result {
	res := Result{Rows: []Row{}}
	var current decimal.Decimal
	for _, h := range hs {
		p := prices.Lookup(h.Ticker)
		if !p.Valid {
			continue
		}
		move := req.MoveFor(h.Ticker)
		sp := Apply(p.Decimal, move)
		cv := p.Decimal.Mul(h.Shares)
		sv := sp.Mul(h.Shares)
		res.Rows = append(res.Rows, Row{
			Ticker:        h.Ticker,
			Move:          move,
			CurrentPrice:  p.Decimal,
			ScenarioPrice: sp,
			CurrentValue:  cv,
			ScenarioValue: sv,
			Change:        sv.Sub(cv),
		})
		current = current.Add(cv)
		res.NewTotal = res.NewTotal.Add(sv)
	}
	res.Change = res.NewTotal.Sub(current)
	res.ChangePct = valuation.Percent(res.Change, totalValue)
	return res
}
