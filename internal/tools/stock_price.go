package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/tradermate/tradermate/internal/market"
)

// StockPriceTool looks up the current price for a ticker symbol
type StockPriceTool struct {
	provider market.Provider
	timeout  time.Duration
}

// NewStockPriceTool creates a stock price lookup tool
func NewStockPriceTool(provider market.Provider) *StockPriceTool {
	return &StockPriceTool{
		provider: provider,
		timeout:  30 * time.Second,
	}
}

func (t *StockPriceTool) Name() string {
	return "get_stock_price"
}

func (t *StockPriceTool) Description() string {
	return "Fetch the current stock price for a given ticker symbol. " +
		"Example inputs: 'TSLA' (Tesla), 'AAPL' (Apple), 'RELIANCE.NS' (Reliance), 'GOOGL' (Google), 'AMZN' (Amazon). " +
		"Returns the latest price rounded to 2 decimal places."
}

func (t *StockPriceTool) Parameters() []ParameterDef {
	return []ParameterDef{
		{
			Name:        "ticker_symbol",
			Type:        "string",
			Description: "The ticker symbol to look up",
			Required:    true,
		},
		{
			Name:        "period",
			Type:        "string",
			Description: "The period for which to fetch the stock price. Default is '1d' (1 day). For example '1d': 1 Day, '5d': 5 Days, '1mo': 1 Month, '3mo': 3 Months, '6mo': 6 Months, '1y': 1 Year",
			Required:    false,
		},
	}
}

func (t *StockPriceTool) Execute(args map[string]any) (string, error) {
	symbol, ok := args["ticker_symbol"].(string)
	if !ok || market.NormalizeSymbol(symbol) == "" {
		return "", fmt.Errorf("missing required parameter: ticker_symbol")
	}

	period := ""
	if p, ok := args["period"].(string); ok {
		period = p
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	quote, err := t.provider.Quote(ctx, symbol, period)
	if err != nil {
		return "", err
	}

	return quote.Price.StringFixed(2), nil
}
