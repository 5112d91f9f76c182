package tools

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tradermate/tradermate/internal/market"
)

// stubProvider records the last request and returns a canned quote
type stubProvider struct {
	lastSymbol string
	lastPeriod string
	price      decimal.Decimal
	err        error
}

func (p *stubProvider) Name() string {
	return "stub"
}

func (p *stubProvider) Quote(ctx context.Context, symbol, period string) (market.Quote, error) {
	p.lastSymbol = symbol
	p.lastPeriod = period
	if p.err != nil {
		return market.Quote{}, p.err
	}
	return market.Quote{Symbol: market.NormalizeSymbol(symbol), Price: p.price}, nil
}

func TestStockPriceTool(t *testing.T) {
	provider := &stubProvider{price: decimal.NewFromFloat(423.5)}
	tool := NewStockPriceTool(provider)

	result, err := tool.Execute(map[string]any{"ticker_symbol": "TSLA"})
	if err != nil {
		t.Fatalf("Failed to execute: %v", err)
	}
	if result != "423.50" {
		t.Errorf("Expected 423.50, got %s", result)
	}
	if provider.lastSymbol != "TSLA" {
		t.Errorf("Expected symbol TSLA, got %s", provider.lastSymbol)
	}
	if provider.lastPeriod != "" {
		t.Errorf("Period should be left for the provider to default, got %q", provider.lastPeriod)
	}
}

func TestStockPriceToolWithPeriod(t *testing.T) {
	provider := &stubProvider{price: decimal.NewFromInt(100)}
	tool := NewStockPriceTool(provider)

	result, err := tool.Execute(map[string]any{"ticker_symbol": "AAPL", "period": "5d"})
	if err != nil {
		t.Fatalf("Failed to execute: %v", err)
	}
	if result != "100.00" {
		t.Errorf("Expected 100.00, got %s", result)
	}
	if provider.lastPeriod != "5d" {
		t.Errorf("Expected period 5d, got %q", provider.lastPeriod)
	}
}

func TestStockPriceToolMissingSymbol(t *testing.T) {
	tool := NewStockPriceTool(&stubProvider{})

	if _, err := tool.Execute(map[string]any{}); err == nil {
		t.Error("Expected error for missing ticker_symbol")
	}
	if _, err := tool.Execute(map[string]any{"ticker_symbol": "   "}); err == nil {
		t.Error("Expected error for blank ticker_symbol")
	}
}

func TestStockPriceToolProviderError(t *testing.T) {
	provider := &stubProvider{err: fmt.Errorf("no data found for symbol \"ZZZZ\", check if the ticker is correct")}
	tool := NewStockPriceTool(provider)

	_, err := tool.Execute(map[string]any{"ticker_symbol": "ZZZZ"})
	if err == nil {
		t.Error("Expected provider error to propagate")
	}
}
