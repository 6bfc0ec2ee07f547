package report

import (
	"fmt"
	"strings"

	"folio/internal/scenario"
	"folio/internal/valuation"

	"github.com/shopspring/decimal"
)

func table(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	seps := make([]string, len(header))
	for i := range seps {
		seps[i] = "---"
	}
	b.WriteString("| " + strings.Join(seps, " | ") + " |\n")
	for _, r := range rows {
		b.WriteString("| " + strings.Join(r, " | ") + " |\n")
	}
}

// PortfolioMarkdown renders the summary metrics and the holdings table.
func PortfolioMarkdown(rows []valuation.Row, sum valuation.Summary) string {
	var b strings.Builder
	b.WriteString("## Portfolio\n\n")

	total := Unknown
	if !sum.TotalValue.IsZero() {
		total = USD(sum.TotalValue)
	}
	fmt.Fprintf(&b, "- Total Portfolio Value: %s\n", total)
	fmt.Fprintf(&b, "- Total Gain/Loss: %s (%s)\n", SignedUSD(sum.TotalGain), SignedPct(sum.TotalGainPct))
	fmt.Fprintf(&b, "- Positions: %d\n\n", sum.Positions)

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Ticker,
			Shares(r.Shares),
			USD(r.CostBasis),
			optional(r.CurrentPrice, USD),
			optional(r.MarketValue, USD),
			optional(r.GainLoss, SignedUSD),
			optional(r.GainLossPct, SignedPct),
		})
	}
	table(&b, []string{"Ticker", "Shares", "Cost Basis", "Current Price", "Market Value", "Gain/Loss ($)", "Gain/Loss (%)"}, out)
	return b.String()
}

func ScenarioMarkdown(res scenario.Result) string {
	var b strings.Builder
	b.WriteString("## What-if Scenario\n\n")
	fmt.Fprintf(&b, "- New Portfolio Value: %s\n", USD(res.NewTotal))
	fmt.Fprintf(&b, "- Change: %s (%s)\n\n", SignedUSD(res.Change), SignedPct(res.ChangePct))

	out := make([][]string, 0, len(res.Rows))
	for _, r := range res.Rows {
		out = append(out, []string{
			r.Ticker,
			USD(r.CurrentPrice),
			USD(r.ScenarioPrice),
			USD(r.CurrentValue),
			USD(r.ScenarioValue),
			SignedUSD(r.Change),
		})
	}
	table(&b, []string{"Ticker", "Current Price", "Scenario Price", "Current Value", "Scenario Value", "Change ($)"}, out)
	return b.String()
}

func StressMarkdown(results []scenario.StressResult, totalValue decimal.Decimal) string {
	var b strings.Builder
	b.WriteString("## Historical Stress Tests\n\n")
	fmt.Fprintf(&b, "- Current Value: %s\n\n", USD(totalValue))

	out := make([][]string, 0, len(results))
	for _, r := range results {
		out = append(out, []string{
			r.Scenario,
			r.Drop.StringFixed(1) + "%",
			USD(r.PortfolioValue),
			USD(r.Loss),
		})
	}
	table(&b, []string{"Scenario", "Market Drop %", "Portfolio Value", "Loss ($)"}, out)
	return b.String()
}
