// Package market fetches stock quotes from a market-data source.
package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Quote point-in-time price for a ticker symbol
type Quote struct {
	Symbol   string
	Price    decimal.Decimal
	Currency string
	AsOf     time.Time
}

// Provider market data provider interface
type Provider interface {
	Name() string
	Quote(ctx context.Context, symbol, period string) (Quote, error)
}

// validPeriods is the lookup-period vocabulary (Yahoo Finance ranges)
var validPeriods = map[string]bool{
	"1d": true, "5d": true, "1mo": true, "3mo": true, "6mo": true,
	"1y": true, "2y": true, "5y": true, "10y": true, "ytd": true, "max": true,
}

// DefaultPeriod is used when no period is given
const DefaultPeriod = "1d"

// NormalizePeriod lowercases and defaults the period, rejecting unknown values
func NormalizePeriod(period string) (string, error) {
	period = strings.ToLower(strings.TrimSpace(period))
	if period == "" {
		return DefaultPeriod, nil
	}
	if !validPeriods[period] {
		return "", fmt.Errorf("invalid period %q (expected one of 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max)", period)
	}
	return period, nil
}

// NormalizeSymbol uppercases and trims a ticker symbol
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
