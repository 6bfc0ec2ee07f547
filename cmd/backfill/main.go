package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"folio/internal/database"
	"folio/internal/models"
	"folio/internal/service"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	tickers := flag.String("tickers", "", "comma separated tickers to pull from Yahoo, e.g. AAPL,MSFT")
	prices := flag.String("prices", "", "literal prices to insert, e.g. AAPL=200,MSFT=410.5")
	flag.Parse()

	logger := logrus.New()
	_ = godotenv.Load()
	dbURL := os.Getenv("POSTGRES_URL")
	if dbURL == "" {
		logger.Fatal("POSTGRES_URL is required")
	}

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		logger.Fatalf("failed to connect to db: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	r := database.New(db, logger)

	var upstream service.Fetcher
	var symbols []string
	switch {
	case *prices != "":
		static, err := service.ParseStaticPrices(*prices)
		if err != nil {
			logger.Fatalf("invalid -prices: %v", err)
		}
		upstream = static
		for s := range static {
			symbols = append(symbols, s)
		}
	case *tickers != "":
		upstream = service.NewYahooFetcher(logger)
		for _, s := range strings.Split(*tickers, ",") {
			if s = models.NormalizeTicker(s); s != "" {
				symbols = append(symbols, s)
			}
		}
	default:
		logger.Fatal("one of -tickers or -prices is required")
	}

	if err := r.TrackSymbols(ctx, symbols); err != nil {
		logger.Fatalf("track symbols: %v", err)
	}
	n, err := service.NewRefresher(r, upstream, logger).RefreshOnce(ctx, symbols)
	if err != nil {
		logger.Fatalf("backfill failed after %d prices: %v", n, err)
	}
	logger.Infof("stored %d/%d prices", n, len(symbols))
}
