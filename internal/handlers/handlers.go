package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"folio/internal/holdings"
	"folio/internal/models"
	"folio/internal/report"
	"folio/internal/scenario"
	"folio/internal/service"
	"folio/internal/valuation"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	SessionCookie = "folio_session"
	SessionHeader = "X-Session-ID"

	storeKey     = "store"
	emptyMessage = "Add holdings to get started."
)

type Handler struct {
	sessions *holdings.Registry
	prices   service.Fetcher
	log      *logrus.Logger
}

func NewHandler(s *holdings.Registry, p service.Fetcher, log *logrus.Logger) *Handler {
	return &Handler{sessions: s, prices: p, log: log}
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.POST("/sessions", h.CreateSession)

	s := r.Group("/", h.Session())
	s.GET("/holdings", h.ListHoldings)
	s.POST("/holdings", h.AddHolding)
	s.DELETE("/holdings/:ticker", h.RemoveHolding)
	s.GET("/tickers", h.GetTickers)
	s.GET("/portfolio", h.GetPortfolio)
	s.POST("/scenario", h.PostScenario)
	s.GET("/stress", h.GetStress)
	s.GET("/stress/chart.png", h.GetStressChart)
	s.GET("/report", h.GetReport)
}

func (h *Handler) CreateSession(c *gin.Context) {
	id, _ := h.sessions.Create()
	c.SetCookie(SessionCookie, id, 0, "/", "", false, true)
	c.JSON(http.StatusCreated, gin.H{"session_id": id})
}

// Session resolves the caller's holdings store. An explicit header must name a
// live session; a missing or stale cookie silently starts a new one.
func (h *Handler) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(SessionHeader); id != "" {
			st, err := h.sessions.Get(id)
			if err != nil {
				h.log.Warnf("session %q: %v", id, err)
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.Set(storeKey, st)
			c.Next()
			return
		}

		id, _ := c.Cookie(SessionCookie)
		st, err := h.sessions.Get(id)
		if err != nil {
			id, st = h.sessions.Create()
			c.SetCookie(SessionCookie, id, 0, "/", "", false, true)
		}
		c.Header(SessionHeader, id)
		c.Set(storeKey, st)
		c.Next()
	}
}

func store(c *gin.Context) *holdings.Store {
	return c.MustGet(storeKey).(*holdings.Store)
}

type AddHoldingRequest struct {
	Ticker    string          `json:"ticker"`
	Shares    decimal.Decimal `json:"shares"`
	CostBasis decimal.Decimal `json:"cost_basis"`
}

func (h *Handler) AddHolding(c *gin.Context) {
	var req AddHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid post body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.CostBasis.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cost_basis must not be negative"})
		return
	}

	hold, ok := store(c).Add(req.Ticker, req.Shares, req.CostBasis)
	if !ok {
		h.log.Debugf("ignored holding ticker=%q shares=%s", req.Ticker, req.Shares)
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "added", "holding": hold})
}

func (h *Handler) RemoveHolding(c *gin.Context) {
	ticker := c.Param("ticker")
	n := store(c).Remove(ticker)
	c.JSON(http.StatusOK, gin.H{"ticker": ticker, "removed": n})
}

func (h *Handler) ListHoldings(c *gin.Context) {
	c.JSON(http.StatusOK, store(c).List())
}

func (h *Handler) GetTickers(c *gin.Context) {
	c.JSON(http.StatusOK, store(c).Tickers())
}

// Pass is one full recomputation: every distinct ticker is fetched, then the
// holdings are valued against those prices.
type Pass struct {
	Holdings []models.Holding
	Prices   valuation.Prices
	Rows     []valuation.Row
	Summary  valuation.Summary
}

func (h *Handler) pass(ctx context.Context, st *holdings.Store) Pass {
	hs := st.List()
	prices := h.prices.Fetch(ctx, holdings.DistinctTickers(hs))
	rows, sum := valuation.Valuate(hs, prices)
	return Pass{Holdings: hs, Prices: prices, Rows: rows, Summary: sum}
}

func (h *Handler) empty(c *gin.Context) bool {
	if !store(c).Empty() {
		return false
	}
	c.JSON(http.StatusOK, gin.H{"empty": true, "message": emptyMessage})
	return true
}

func (h *Handler) GetPortfolio(c *gin.Context) {
	if h.empty(c) {
		return
	}
	p := h.pass(c.Request.Context(), store(c))
	c.JSON(http.StatusOK, gin.H{
		"rows":    p.Rows,
		"summary": p.Summary,
		"prices":  p.Prices.Quotes(holdings.DistinctTickers(p.Holdings)),
	})
}

type ScenarioRequest struct {
	UniformMove decimal.Decimal            `json:"uniform_move"`
	Overrides   map[string]decimal.Decimal `json:"overrides"`
}

// scenario normalizes override tickers. Two keys that normalize to the same
// ticker are rejected, since neither can win deterministically.
func (r ScenarioRequest) scenario() (scenario.Request, error) {
	req := scenario.Request{Uniform: r.UniformMove, Overrides: map[string]decimal.Decimal{}}
	for t, m := range r.Overrides {
		norm := models.NormalizeTicker(t)
		if _, dup := req.Overrides[norm]; dup {
			return scenario.Request{}, fmt.Errorf("duplicate override for %s", norm)
		}
		req.Overrides[norm] = m
	}
	return req, nil
}

func (h *Handler) PostScenario(c *gin.Context) {
	var body ScenarioRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.log.Warnf("invalid scenario body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req, err := body.scenario()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if h.empty(c) {
		return
	}
	p := h.pass(c.Request.Context(), store(c))
	c.JSON(http.StatusOK, scenario.Custom(p.Holdings, p.Prices, p.Summary.TotalValue, req))
}

func (h *Handler) GetStress(c *gin.Context) {
	if h.empty(c) {
		return
	}
	p := h.pass(c.Request.Context(), store(c))
	c.JSON(http.StatusOK, gin.H{
		"total_value": p.Summary.TotalValue,
		"results":     scenario.Stress(p.Summary.TotalValue),
	})
}

func (h *Handler) GetStressChart(c *gin.Context) {
	if store(c).Empty() {
		c.Status(http.StatusNoContent)
		return
	}
	p := h.pass(c.Request.Context(), store(c))
	if !p.Summary.TotalValue.IsPositive() {
		c.Status(http.StatusNoContent)
		return
	}
	png, err := report.StressChart(scenario.Stress(p.Summary.TotalValue), p.Summary.TotalValue)
	if err != nil {
		h.log.Errorf("stress chart failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chart failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GetReport renders every section as markdown. The custom scenario takes its
// uniform move from the "move" query parameter.
func (h *Handler) GetReport(c *gin.Context) {
	req := scenario.Request{}
	if v := c.Query("move"); v != "" {
		m, err := decimal.NewFromString(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid move"})
			return
		}
		req.Uniform = m
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st := store(c)
	if st.Empty() {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(emptyMessage+"\n"))
		return
	}
	p := h.pass(c.Request.Context(), st)
	sections := []string{
		report.PortfolioMarkdown(p.Rows, p.Summary),
		report.ScenarioMarkdown(scenario.Custom(p.Holdings, p.Prices, p.Summary.TotalValue, req)),
		report.StressMarkdown(scenario.Stress(p.Summary.TotalValue), p.Summary.TotalValue),
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(strings.Join(sections, "\n")))
}
