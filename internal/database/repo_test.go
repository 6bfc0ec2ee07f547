package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sqlx.DB {
	url := os.Getenv("POSTGRES_URL")
	if url == "" {
		t.Skip("POSTGRES_URL is not set; skipping integration tests")
	}
	db, err := sqlx.Open("postgres", url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	b, err := os.ReadFile("../../migrations/0001_init.up.sql")
	require.NoError(t, err)
	if _, err := db.Exec(string(b)); err != nil {
		t.Logf("exec migration: %v", err)
	}
	return db
}

func TestGetLatestPrices(t *testing.T) {
	db := setupDB(t)
	r := New(db, logrus.New())
	ctx := context.Background()

	syms := []string{"TEST_A", "TEST_B", "TEST_NONE"}
	_, _ = db.ExecContext(ctx, `DELETE FROM price_history WHERE symbol LIKE 'TEST_%'`)

	older := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Second)
	newer := older.Add(time.Hour)
	require.NoError(t, r.UpsertPrice(ctx, "TEST_A", decimal.RequireFromString("100.5"), older))
	require.NoError(t, r.UpsertPrice(ctx, "TEST_A", decimal.RequireFromString("101.25"), newer))
	require.NoError(t, r.UpsertPrice(ctx, "TEST_B", decimal.RequireFromString("7"), older))

	got, err := r.GetLatestPrices(ctx, syms)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.True(t, got["TEST_A"].Price.Equal(decimal.RequireFromString("101.25")), "got %s", got["TEST_A"].Price)
	assert.True(t, got["TEST_A"].Timestamp.Equal(newer))
	assert.True(t, got["TEST_B"].Price.Equal(decimal.RequireFromString("7")))
	_, ok := got["TEST_NONE"]
	assert.False(t, ok)
}

func TestTrackSymbols(t *testing.T) {
	db := setupDB(t)
	r := New(db, logrus.New())
	ctx := context.Background()

	_, _ = db.ExecContext(ctx, `DELETE FROM tracked_symbols WHERE symbol LIKE 'TEST_%'`)

	require.NoError(t, r.TrackSymbols(ctx, []string{"TEST_X", "TEST_Y"}))
	require.NoError(t, r.TrackSymbols(ctx, []string{"TEST_X"}))

	all, err := r.GetAllSymbols(ctx)
	require.NoError(t, err)
	assert.Contains(t, all, "TEST_X")
	assert.Contains(t, all, "TEST_Y")
}
