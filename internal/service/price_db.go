package service

import (
	"context"
	"time"

	"folio/internal/database"
	"folio/internal/valuation"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PriceStore is the slice of database.Repo the price services use.
type PriceStore interface {
	GetLatestPrices(ctx context.Context, symbols []string) (map[string]database.PricePoint, error)
	UpsertPrice(ctx context.Context, symbol string, price decimal.Decimal, ts time.Time) error
	GetAllSymbols(ctx context.Context) ([]string, error)
	TrackSymbols(ctx context.Context, symbols []string) error
}

var _ PriceStore = (*database.Repo)(nil)

// DBFetcher serves the newest stored price per ticker. Prices older than
// maxAge are reported as unknown.
type DBFetcher struct {
	repo   PriceStore
	maxAge time.Duration
	now    func() time.Time
	log    *logrus.Logger
}

func NewDBFetcher(r PriceStore, maxAge time.Duration, log *logrus.Logger) *DBFetcher {
	return &DBFetcher{repo: r, maxAge: maxAge, now: time.Now, log: log}
}

func (p *DBFetcher) Fetch(ctx context.Context, tickers []string) valuation.Prices {
	res := missing(tickers)
	if len(tickers) == 0 {
		return res
	}
	if err := p.repo.TrackSymbols(ctx, tickers); err != nil {
		p.log.Warnf("track symbols failed: %v", err)
	}
	latest, err := p.repo.GetLatestPrices(ctx, tickers)
	if err != nil {
		p.log.Warnf("latest prices query failed: %v", err)
		return res
	}
	for _, t := range tickers {
		pt, ok := latest[t]
		if !ok {
			p.log.Warnf("no price for symbol %s", t)
			continue
		}
		if p.maxAge > 0 && p.now().Sub(pt.Timestamp) > p.maxAge {
			p.log.Warnf("price for symbol %s is stale (%s)", t, pt.Timestamp.Format(time.RFC3339))
			continue
		}
		res[t] = positive(pt.Price)
	}
	return res
}

// Refresher copies upstream prices for every tracked symbol into the store.
type Refresher struct {
	repo     PriceStore
	upstream Fetcher
	log      *logrus.Logger
}

func NewRefresher(r PriceStore, upstream Fetcher, log *logrus.Logger) *Refresher {
	return &Refresher{repo: r, upstream: upstream, log: log}
}

// RefreshOnce fetches tickers from upstream and stores the known prices. It
// returns the number of prices written; unknown prices are skipped.
func (p *Refresher) RefreshOnce(ctx context.Context, tickers []string) (int, error) {
	prices := p.upstream.Fetch(ctx, tickers)
	ts := time.Now().UTC()
	n := 0
	for _, t := range tickers {
		price := prices[t]
		if !price.Valid {
			continue
		}
		if err := p.repo.UpsertPrice(ctx, t, price.Decimal, ts); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (p *Refresher) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				p.log.Info("price updater stopping")
				return
			case <-ticker.C:
				symbols, err := p.repo.GetAllSymbols(ctx)
				if err != nil {
					p.log.Warnf("failed to fetch symbols: %v", err)
					continue
				}
				n, err := p.RefreshOnce(ctx, symbols)
				if err != nil {
					p.log.Warnf("price refresh failed: %v", err)
					continue
				}
				p.log.Debugf("refreshed %d/%d prices", n, len(symbols))
			}
		}
	}()
}
