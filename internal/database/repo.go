package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Repo struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func New(db *sqlx.DB, log *logrus.Logger) *Repo {
	return &Repo{db: db, log: log}
}

// GetLatestPrices returns the newest price row per symbol. Symbols with no
// history are absent from the map.
func (r *Repo) GetLatestPrices(ctx context.Context, symbols []string) (map[string]PricePoint, error) {
	res := map[string]PricePoint{}
	if len(symbols) == 0 {
		return res, nil
	}
	rows, err := r.db.QueryxContext(ctx, `
		SELECT DISTINCT ON (symbol) symbol, price, timestamp
		FROM price_history
		WHERE symbol = ANY($1)
		ORDER BY symbol, timestamp DESC`, pq.Array(symbols))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p PricePoint
		if err := rows.StructScan(&p); err != nil {
			r.log.Warnf("scan price row failed: %v", err)
			continue
		}
		res[p.Symbol] = p
	}
	return res, rows.Err()
}

func (r *Repo) UpsertPrice(ctx context.Context, symbol string, price decimal.Decimal, ts time.Time) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO price_history (symbol, price, timestamp) VALUES ($1, $2::numeric, $3)`, symbol, price.String(), ts)
	return err
}

func (r *Repo) GetAllSymbols(ctx context.Context) ([]string, error) {
	res := []string{}
	if err := r.db.SelectContext(ctx, &res, `SELECT symbol FROM tracked_symbols ORDER BY symbol`); err != nil {
		return nil, err
	}
	return res, nil
}

// TrackSymbols registers symbols for the background refresher.
func (r *Repo) TrackSymbols(ctx context.Context, symbols []string) error {
	if len(symbols) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO tracked_symbols (symbol) SELECT unnest($1::text[]) ON CONFLICT (symbol) DO NOTHING`, pq.Array(symbols))
	return err
}
