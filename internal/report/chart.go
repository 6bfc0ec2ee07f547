package report

import (
	"bytes"
	"fmt"

	"folio/internal/scenario"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// StressChart renders a PNG bar chart of each stress scenario's portfolio
// value, hanging from a dashed reference line at the current total value.
func StressChart(results []scenario.StressResult, totalValue decimal.Decimal) ([]byte, error) {
	graph, err := stressGraph(results, totalValue)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

func stressGraph(results []scenario.StressResult, totalValue decimal.Decimal) (chart.BarChart, error) {
	if !totalValue.IsPositive() {
		return chart.BarChart{}, fmt.Errorf("need a positive portfolio value, got %s", totalValue)
	}
	if len(results) == 0 {
		return chart.BarChart{}, fmt.Errorf("no stress results")
	}

	base := totalValue.InexactFloat64()
	bars := make([]chart.Value, 0, len(results))
	for _, r := range results {
		bars = append(bars, chart.Value{
			Label: r.Scenario,
			Value: r.PortfolioValue.InexactFloat64(),
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex("dc2626"), // red-600
				StrokeColor: drawing.ColorFromHex("991b1b"),
				StrokeWidth: 1,
			},
		})
	}

	// the base line must sit inside the axis range; Render sets its domain
	yr := &chart.ContinuousRange{Min: 0, Max: base * 1.05}

	graph := chart.BarChart{
		Title:  "Portfolio Value Under Stress",
		Width:  1100,
		Height: 450,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		BarWidth:     110,
		BarSpacing:   40,
		UseBaseValue: true,
		BaseValue:    base,
		YAxis: chart.YAxis{
			Range: yr,
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return USD(decimal.NewFromFloat(f).Round(0))
				}
				return ""
			},
		},
		Bars: bars,
	}
	graph.Elements = []chart.Renderable{
		referenceLine(yr, base, "Current Value "+USD(totalValue)),
	}
	return graph, nil
}

// referenceLine draws a dashed horizontal line at value across the canvas,
// labelled at its left end.
func referenceLine(yr *chart.ContinuousRange, value float64, label string) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		y := canvasBox.Bottom - yr.Translate(value)

		r.SetStrokeColor(drawing.ColorFromHex("2563eb")) // blue-600
		r.SetStrokeWidth(2)
		r.SetStrokeDashArray([]float64{6.0, 4.0})
		r.MoveTo(canvasBox.Left, y)
		r.LineTo(canvasBox.Right, y)
		r.Stroke()
		r.ResetStyle()

		style := chart.Style{
			FontSize:  10,
			FontColor: drawing.ColorFromHex("2563eb"),
		}.InheritFrom(defaults)
		chart.Draw.Text(r, label, canvasBox.Left+4, y-4, style)
	}
}
