package scenario

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func byName(t *testing.T, results []StressResult, name string) StressResult {
	t.Helper()
	for _, r := range results {
		if r.Scenario == name {
			return r
		}
	}
	t.Fatalf("scenario %q not found", name)
	return StressResult{}
}

func TestStress_FixedTable(t *testing.T) {
	res := Stress(dec("10000"))

	require.Len(t, res, 6)
	want := []string{
		"2008 Financial Crisis",
		"COVID Crash (Mar 2020)",
		"Dot-com Bust (2000-02)",
		"Black Monday (1987)",
		"2022 Bear Market",
		"Mild Correction (-10%)",
	}
	for i, name := range want {
		assert.Equal(t, name, res[i].Scenario)
	}
}

func TestStress_BlackMonday(t *testing.T) {
	r := byName(t, Stress(dec("10000")), "Black Monday (1987)")

	assert.Equal(t, "7740.00", r.PortfolioValue.StringFixed(2))
	assert.Equal(t, "-2260.00", r.Loss.StringFixed(2))
}

func TestStress_MildCorrectionIsExact(t *testing.T) {
	total := dec("12345.67")
	r := byName(t, Stress(total), "Mild Correction (-10%)")

	assert.True(t, r.PortfolioValue.Equal(total.Mul(dec("0.9"))), "got %s", r.PortfolioValue)
	assert.True(t, r.Loss.Equal(total.Mul(dec("-0.1"))), "got %s", r.Loss)
}

func TestStress_ZeroPortfolio(t *testing.T) {
	for _, r := range Stress(decimal.Zero) {
		assert.True(t, r.PortfolioValue.IsZero())
		assert.True(t, r.Loss.IsZero())
	}
}
