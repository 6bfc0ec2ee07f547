package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"folio/internal/valuation"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultYahooBaseURL   = "https://query1.finance.yahoo.com"
	DefaultYahooTimeout   = 15 * time.Second
	DefaultYahooRateLimit = 5 // requests per second
)

// YahooFetcher reads current prices from the Yahoo Finance quote endpoint. All
// tickers of a pass go out in one request.
type YahooFetcher struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	log     *logrus.Logger
}

type YahooOption func(*YahooFetcher)

func WithBaseURL(u string) YahooOption {
	return func(y *YahooFetcher) { y.baseURL = strings.TrimRight(u, "/") }
}

func WithRateLimit(perSecond int) YahooOption {
	return func(y *YahooFetcher) {
		if perSecond > 0 {
			y.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond)
		}
	}
}

func WithTimeout(d time.Duration) YahooOption {
	return func(y *YahooFetcher) { y.client.Timeout = d }
}

func NewYahooFetcher(log *logrus.Logger, opts ...YahooOption) *YahooFetcher {
	y := &YahooFetcher{
		baseURL: DefaultYahooBaseURL,
		client:  &http.Client{Timeout: DefaultYahooTimeout},
		limiter: rate.NewLimiter(rate.Limit(DefaultYahooRateLimit), DefaultYahooRateLimit),
		log:     log,
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

type yahooQuote struct {
	Symbol             string              `json:"symbol"`
	CurrentPrice       decimal.NullDecimal `json:"currentPrice"`
	RegularMarketPrice decimal.NullDecimal `json:"regularMarketPrice"`
}

type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []yahooQuote `json:"result"`
		Error  interface{}  `json:"error"`
	} `json:"quoteResponse"`
}

func (y *YahooFetcher) Fetch(ctx context.Context, tickers []string) valuation.Prices {
	res := missing(tickers)
	if len(tickers) == 0 {
		return res
	}
	quotes, err := y.quotes(ctx, tickers)
	if err != nil {
		y.log.Warnf("yahoo quote request for %v failed: %v", tickers, err)
		return res
	}
	for _, q := range quotes {
		sym := strings.ToUpper(q.Symbol)
		if _, requested := res[sym]; !requested {
			continue
		}
		// null fields decode as zero, which positive rejects
		price := positive(q.CurrentPrice.Decimal)
		if !price.Valid {
			price = positive(q.RegularMarketPrice.Decimal)
		}
		res[sym] = price
	}
	for t, p := range res {
		if !p.Valid {
			y.log.Warnf("no price for symbol %s", t)
		}
	}
	return res
}

func (y *YahooFetcher) quotes(ctx context.Context, tickers []string) ([]yahooQuote, error) {
	if err := y.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("symbols", strings.Join(tickers, ","))
	params.Set("fields", "symbol,currentPrice,regularMarketPrice")
	reqURL := y.baseURL + "/v7/finance/quote?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}
	defer resp.Body.Close()
	y.log.Debugf("yahoo quote %d symbols in %s", len(tickers), time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("yahoo returned status %d: %s", resp.StatusCode, string(body))
	}

	var out yahooQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("yahoo error: %v", out.QuoteResponse.Error)
	}
	return out.QuoteResponse.Result, nil
}
