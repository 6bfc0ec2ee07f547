package scenario

import "github.com/shopspring/decimal"

// StressScenario is a named historical market decline, in percent.
type StressScenario struct {
	Name string
	Drop decimal.Decimal
}

var StressScenarios = []StressScenario{
	{Name: "2008 Financial Crisis", Drop: decimal.RequireFromString("-38.5")},
	{Name: "COVID Crash (Mar 2020)", Drop: decimal.RequireFromString("-33.9")},
	{Name: "Dot-com Bust (2000-02)", Drop: decimal.RequireFromString("-49.1")},
	{Name: "Black Monday (1987)", Drop: decimal.RequireFromString("-22.6")},
	{Name: "2022 Bear Market", Drop: decimal.RequireFromString("-19.4")},
	{Name: "Mild Correction (-10%)", Drop: decimal.RequireFromString("-10.0")},
}

type StressResult struct {
	Scenario       string          `json:"scenario"`
	Drop           decimal.Decimal `json:"market_drop_pct"`
	PortfolioValue decimal.Decimal `json:"portfolio_value"`
	Loss           decimal.Decimal `json:"loss"`
}

// Stress scales the aggregate portfolio value by each fixed scenario. Per-ticker
// prices play no part.
func Stress(totalValue decimal.Decimal) []StressResult {
	out := make([]StressResult, 0, len(StressScenarios))
	for _, s := range StressScenarios {
		v := Apply(totalValue, s.Drop)
		out = append(out, StressResult{
			Scenario:       s.Name,
			Drop:           s.Drop,
			PortfolioValue: v,
			Loss:           v.Sub(totalValue),
		})
	}
	return out
}
