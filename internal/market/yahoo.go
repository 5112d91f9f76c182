package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// YahooProvider fetches quotes from the Yahoo Finance chart API
type YahooProvider struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewYahooProvider creates a Yahoo Finance provider
func NewYahooProvider(baseURL, userAgent string, timeout time.Duration) *YahooProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = "TraderMate/0.1"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &YahooProvider{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

func (p *YahooProvider) Name() string {
	return "yahoo"
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Quote returns the latest close for the symbol over the given period,
// rounded to 2 decimal places
func (p *YahooProvider) Quote(ctx context.Context, symbol, period string) (Quote, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return Quote{}, fmt.Errorf("symbol cannot be empty")
	}
	period, err := NormalizePeriod(period)
	if err != nil {
		return Quote{}, err
	}

	endpoint, err := url.Parse(p.baseURL + "/v8/finance/chart/" + url.PathEscape(symbol))
	if err != nil {
		return Quote{}, fmt.Errorf("invalid base url: %w", err)
	}
	params := url.Values{}
	params.Set("range", period)
	params.Set("interval", intervalFor(period))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return Quote{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Quote{}, fmt.Errorf("no data found for symbol %q, check if the ticker is correct", symbol)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Quote{}, fmt.Errorf("quote request failed with status %d", resp.StatusCode)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Quote{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if payload.Chart.Error != nil {
		return Quote{}, fmt.Errorf("no data found for symbol %q: %s", symbol, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return Quote{}, fmt.Errorf("no data found for symbol %q, check if the ticker is correct", symbol)
	}

	result := payload.Chart.Result[0]

	// Latest price is the last non-null close of the requested range
	price := 0.0
	asOf := time.Time{}
	found := false
	if len(result.Indicators.Quote) > 0 {
		closes := result.Indicators.Quote[0].Close
		for i := len(closes) - 1; i >= 0; i-- {
			if closes[i] != nil {
				price = *closes[i]
				if i < len(result.Timestamp) {
					asOf = time.Unix(result.Timestamp[i], 0)
				}
				found = true
				break
			}
		}
	}
	if !found {
		if result.Meta.RegularMarketPrice == 0 {
			return Quote{}, fmt.Errorf("no data found for symbol %q, check if the ticker is correct", symbol)
		}
		price = result.Meta.RegularMarketPrice
		asOf = time.Unix(result.Meta.RegularMarketTime, 0)
	}

	return Quote{
		Symbol:   symbol,
		Price:    decimal.NewFromFloat(price).Round(2),
		Currency: result.Meta.Currency,
		AsOf:     asOf,
	}, nil
}

// intervalFor picks a chart interval granular enough for the range
func intervalFor(period string) string {
	switch period {
	case "1d":
		return "5m"
	case "5d":
		return "30m"
	default:
		return "1d"
	}
}
