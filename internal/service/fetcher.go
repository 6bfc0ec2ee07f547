package service

import (
	"context"
	"fmt"
	"strings"

	"folio/internal/models"
	"folio/internal/valuation"

	"github.com/shopspring/decimal"
)

// Fetcher returns the current price for each requested ticker. The result has
// an entry for every ticker; a price that could not be obtained is present but
// not Valid. Fetch never fails the whole batch for one bad symbol.
type Fetcher interface {
	Fetch(ctx context.Context, tickers []string) valuation.Prices
}

// missing returns a result with every ticker marked unknown.
func missing(tickers []string) valuation.Prices {
	res := make(valuation.Prices, len(tickers))
	for _, t := range tickers {
		res[t] = decimal.NullDecimal{}
	}
	return res
}

// positive wraps p as a known price, or unknown when p is not positive.
func positive(p decimal.Decimal) decimal.NullDecimal {
	if !p.IsPositive() {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: p, Valid: true}
}

// StaticFetcher serves prices from a fixed map.
type StaticFetcher map[string]decimal.Decimal

func (s StaticFetcher) Fetch(_ context.Context, tickers []string) valuation.Prices {
	res := missing(tickers)
	for _, t := range tickers {
		if p, ok := s[t]; ok {
			res[t] = positive(p)
		}
	}
	return res
}

// ParseStaticPrices reads "AAPL=200,MSFT=410.5".
func ParseStaticPrices(s string) (StaticFetcher, error) {
	res := StaticFetcher{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sym, val, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("invalid price entry %q: want TICKER=PRICE", part)
		}
		p, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("invalid price for %s: %w", sym, err)
		}
		res[models.NormalizeTicker(sym)] = p
	}
	return res, nil
}
