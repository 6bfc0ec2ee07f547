package report

import (
	"bytes"
	"testing"

	"folio/internal/models"
	"folio/internal/scenario"
	"folio/internal/valuation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFormatters(t *testing.T) {
	assert.Equal(t, "$2,000.00", USD(dec("2000")))
	assert.Equal(t, "-$2,260.00", USD(dec("-2260")))
	assert.Equal(t, "$0.01", USD(dec("0.005")))
	assert.Equal(t, "+$500.00", SignedUSD(dec("500")))
	assert.Equal(t, "-$12.35", SignedUSD(dec("-12.345")))
	assert.Equal(t, "$0.00", SignedUSD(decimal.Zero))
	assert.Equal(t, "+33.33%", SignedPct(dec("33.3333")))
	assert.Equal(t, "-4.50%", SignedPct(dec("-4.5")))
	assert.Equal(t, "0.00%", SignedPct(decimal.Zero))
	assert.Equal(t, "2.5000", Shares(dec("2.5")))
}

func TestPortfolioMarkdown(t *testing.T) {
	hs := []models.Holding{
		{Ticker: "AAPL", Shares: dec("10"), CostBasis: dec("150")},
		{Ticker: "XYZ", Shares: dec("5"), CostBasis: dec("10")},
	}
	prices := valuation.Prices{"AAPL": {Decimal: dec("200"), Valid: true}}
	rows, sum := valuation.Valuate(hs, prices)

	md := PortfolioMarkdown(rows, sum)

	assert.Contains(t, md, "- Total Portfolio Value: $2,000.00")
	assert.Contains(t, md, "- Positions: 2")
	assert.Contains(t, md, "- Total Gain/Loss: +$450.00 (+29.03%)")
	assert.Contains(t, md, "| AAPL | 10.0000 | $150.00 | $200.00 | $2,000.00 | +$500.00 | +33.33% |")
	assert.Contains(t, md, "| XYZ | 5.0000 | $10.00 | — | — | — | — |")
}

func TestPortfolioMarkdown_NoKnownPrices(t *testing.T) {
	hs := []models.Holding{{Ticker: "XYZ", Shares: dec("5"), CostBasis: dec("10")}}
	rows, sum := valuation.Valuate(hs, nil)

	md := PortfolioMarkdown(rows, sum)

	assert.Contains(t, md, "- Total Portfolio Value: —")
	assert.Contains(t, md, "- Total Gain/Loss: -$50.00 (-100.00%)")
}

func TestStressMarkdown(t *testing.T) {
	total := dec("10000")
	md := StressMarkdown(scenario.Stress(total), total)

	assert.Contains(t, md, "| Black Monday (1987) | -22.6% | $7,740.00 | -$2,260.00 |")
	assert.Contains(t, md, "| Mild Correction (-10%) | -10.0% | $9,000.00 | -$1,000.00 |")
}

func TestScenarioMarkdown(t *testing.T) {
	hs := []models.Holding{{Ticker: "AAPL", Shares: dec("10"), CostBasis: dec("150")}}
	prices := valuation.Prices{"AAPL": {Decimal: dec("200"), Valid: true}}
	res := scenario.Custom(hs, prices, dec("2000"), scenario.Request{Uniform: dec("-10")})

	md := ScenarioMarkdown(res)

	assert.Contains(t, md, "- Change: -$200.00 (-10.00%)")
	assert.Contains(t, md, "| AAPL | $200.00 | $180.00 | $2,000.00 | $1,800.00 | -$200.00 |")
}

func TestStressChart(t *testing.T) {
	total := dec("10000")
	png, err := StressChart(scenario.Stress(total), total)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = StressChart(scenario.Stress(decimal.Zero), decimal.Zero)
	assert.Error(t, err)
}

func TestStressGraph_HasReferenceLine(t *testing.T) {
	total := dec("10000")
	graph, err := stressGraph(scenario.Stress(total), total)
	require.NoError(t, err)

	assert.True(t, graph.UseBaseValue)
	assert.Equal(t, 10000.0, graph.BaseValue)
	require.Len(t, graph.Elements, 1)

	var buf bytes.Buffer
	require.NoError(t, graph.Render(chart.PNG, &buf))

	// after rendering, the axis range maps the base value inside the canvas
	yr := graph.YAxis.Range.(*chart.ContinuousRange)
	assert.Positive(t, yr.GetDomain())
	pos := yr.Translate(graph.BaseValue)
	assert.Greater(t, pos, 0)
	assert.Less(t, pos, yr.GetDomain())
}
