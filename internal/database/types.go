package database

import (
	"time"

	"github.com/shopspring/decimal"
)

type PricePoint struct {
	Symbol    string          `db:"symbol" json:"symbol"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Timestamp time.Time       `db:"timestamp" json:"timestamp"`
}
