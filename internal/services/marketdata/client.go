package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"TradeStage/internal/domain/models"
	domsvc "TradeStage/internal/domain/service"
	"TradeStage/pkg/cache"
	"TradeStage/pkg/config"
	xhttp "TradeStage/pkg/http"
)

// HTTPService fetches per-symbol market snapshots from the exchange adapter
// over HTTP JSON, with an optional cache in front so hot symbols do not
// hammer the adapter.
type HTTPService struct {
	baseURL string
	apiKey  string
	client  *xhttp.Client
	cache   cache.Service
	ttl     time.Duration
}

// metricsPayload is the adapter's wire format. Decimals arrive as JSON
// numbers or strings; shopspring handles both.
type metricsPayload struct {
	Symbol        string          `json:"symbol"`
	Volume24h     decimal.Decimal `json:"volume_24h"`
	AvgVolume     decimal.Decimal `json:"avg_volume"`
	SpreadPct     decimal.Decimal `json:"spread_pct"`
	Volatility    decimal.Decimal `json:"volatility"`
	Support       decimal.Decimal `json:"support"`
	Resistance    decimal.Decimal `json:"resistance"`
	TrendStrength decimal.Decimal `json:"trend_strength"`
	LastPrice     decimal.Decimal `json:"last_price"`
}

// NewHTTPService builds the market-data client from config. The cache may
// be nil; every call then goes to the adapter.
func NewHTTPService(cfg *config.Config, c cache.Service) *HTTPService {
	timeout := cfg.MarketData.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ttl := cfg.MarketData.CacheTTL
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &HTTPService{
		baseURL: cfg.MarketData.BaseURL,
		apiKey:  cfg.MarketData.APIKey,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		cache:   c,
		ttl:     ttl,
	}
}

// PairMetrics returns the market snapshot for one symbol.
func (s *HTTPService) PairMetrics(ctx context.Context, symbol string) (models.PairMetrics, error) {
	if symbol == "" {
		return models.PairMetrics{}, fmt.Errorf("symbol is required")
	}

	key := cache.GenerateKey("pairmetrics", symbol)
	if s.cache != nil {
		var p metricsPayload
		if err := s.cache.Get(ctx, key, &p); err == nil {
			return s.toDomain(p), nil
		}
	}

	p, err := s.fetch(ctx, symbol)
	if err != nil {
		return models.PairMetrics{}, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, p, s.ttl) // cache failures never fail the read
	}
	return s.toDomain(p), nil
}

func (s *HTTPService) fetch(ctx context.Context, symbol string) (metricsPayload, error) {
	if s.client == nil || s.baseURL == "" {
		return metricsPayload{}, fmt.Errorf("market data client not initialized")
	}

	headers := map[string]string{"Accept": "application/json"}
	if s.apiKey != "" {
		headers["X-API-Key"] = s.apiKey
	}

	var p metricsPayload
	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         s.baseURL + "/api/v1/pairs/metrics",
		Headers:     headers,
		QueryParams: map[string][]string{"symbol": {symbol}},
	}, &p)
	if err != nil {
		return metricsPayload{}, fmt.Errorf("fetch metrics %s: %w", symbol, err)
	}
	if p.Symbol == "" {
		p.Symbol = symbol
	}
	return p, nil
}

func (s *HTTPService) toDomain(p metricsPayload) models.PairMetrics {
	return models.PairMetrics{
		Symbol:        p.Symbol,
		Volume24h:     p.Volume24h,
		AvgVolume:     p.AvgVolume,
		SpreadPct:     p.SpreadPct,
		Volatility:    p.Volatility,
		Support:       p.Support,
		Resistance:    p.Resistance,
		TrendStrength: p.TrendStrength,
		LastPrice:     p.LastPrice,
		FetchedAt:     time.Now().UTC(),
	}
}

var _ domsvc.MarketData = (*HTTPService)(nil)
