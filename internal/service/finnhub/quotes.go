package finnhub

import (
	"context"
	"fmt"
	"time"

	"NavPull/internal/domain/models"
	drepo "NavPull/internal/domain/repository"
	"NavPull/internal/service/ratelimit"
	xhttp "NavPull/pkg/http"
)

const sourceLabel = "FINNHUB"

// QuoteConfig holds quote client configuration.
type QuoteConfig struct {
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second
	Burst     float64
}

// QuoteClient implements PriceProvider over the Finnhub REST quote API.
// Fetches are best-effort: symbols that error out or have no usable quote
// are skipped and simply absent from the result.
type QuoteClient struct {
	cfg     QuoteConfig
	client  *xhttp.Client
	limiter *ratelimit.Limiter
}

// NewQuoteClient creates a REST quote client.
func NewQuoteClient(cfg QuoteConfig, limiter *ratelimit.Limiter) drepo.PriceProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://finnhub.io/api/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RateLimit
	}
	return &QuoteClient{
		cfg:     cfg,
		client:  xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		limiter: limiter,
	}
}

type quoteResponse struct {
	Current       float64  `json:"c"`
	PercentChange *float64 `json:"dp"`
	PrevClose     float64  `json:"pc"`
}

// Fetch resolves change percentages for the given symbols. It returns an
// error only when no symbol could be resolved at all.
func (c *QuoteClient) Fetch(ctx context.Context, symbols []string) (map[string]models.PriceInfo, error) {
	results := make(map[string]models.PriceInfo, len(symbols))
	var failed int

	for _, sym := range symbols {
		if err := c.limiter.Wait(ctx, "finnhub", c.cfg.Burst, c.cfg.RateLimit); err != nil {
			return results, err
		}

		var q quoteResponse
		err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodGet,
			URL:    c.cfg.BaseURL + "/quote",
			QueryParams: map[string][]string{
				"symbol": {sym},
				"token":  {c.cfg.APIKey},
			},
		}, &q)
		if err != nil {
			failed++
			continue
		}

		info, ok := toPriceInfo(q)
		if !ok {
			continue
		}
		results[sym] = info
	}

	if len(results) == 0 && failed > 0 {
		return nil, fmt.Errorf("finnhub: all %d quote requests failed", failed)
	}
	return results, nil
}

// toPriceInfo converts a raw quote into a PriceInfo. Finnhub reports zeroed
// quotes for unknown symbols; those count as "no data", not "no change".
func toPriceInfo(q quoteResponse) (models.PriceInfo, bool) {
	if q.Current <= 0 {
		return models.PriceInfo{}, false
	}

	var chg float64
	switch {
	case q.PercentChange != nil:
		chg = *q.PercentChange
	case q.PrevClose > 0:
		chg = (q.Current - q.PrevClose) / q.PrevClose * 100
	default:
		return models.PriceInfo{}, false
	}

	return models.PriceInfo{
		ChangePercent: models.Float(chg),
		Price:         models.Float(q.Current),
		Source:        sourceLabel,
	}, true
}
