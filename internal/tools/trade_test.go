package tools

import (
	"errors"
	"testing"
)

func buyArgs() map[string]any {
	// json.Unmarshal decodes numbers to float64
	return map[string]any{
		"ticker_symbol": "aapl",
		"quantity":      float64(10),
		"total_price":   float64(1500.5),
	}
}

func TestTradeToolNames(t *testing.T) {
	if name := NewBuyStocksTool().Name(); name != "buy_stocks" {
		t.Errorf("Expected buy_stocks, got %s", name)
	}
	if name := NewSellStocksTool().Name(); name != "sell_stocks" {
		t.Errorf("Expected sell_stocks, got %s", name)
	}
}

func TestTradeExecuteInterrupts(t *testing.T) {
	tool := NewBuyStocksTool()

	result, err := tool.Execute(buyArgs())
	if result != "" {
		t.Errorf("Interrupted execution should not return a result, got %q", result)
	}

	var interrupt *Interrupt
	if !errors.As(err, &interrupt) {
		t.Fatalf("Expected an Interrupt, got %v", err)
	}

	expected := "Do you want to buy 10 shares of AAPL for $1500.5? (yes/no)"
	if interrupt.Prompt != expected {
		t.Errorf("Prompt mismatch:\nexpected: %s\ngot:      %s", expected, interrupt.Prompt)
	}
}

func TestTradeExecuteSellPrompt(t *testing.T) {
	tool := NewSellStocksTool()
	args := map[string]any{
		"ticker_symbol": "TSLA",
		"quantity":      float64(3),
		"total_price":   float64(900),
	}

	_, err := tool.Execute(args)

	var interrupt *Interrupt
	if !errors.As(err, &interrupt) {
		t.Fatalf("Expected an Interrupt, got %v", err)
	}
	expected := "Do you want to sell 3 shares of TSLA for $900? (yes/no)"
	if interrupt.Prompt != expected {
		t.Errorf("Prompt mismatch:\nexpected: %s\ngot:      %s", expected, interrupt.Prompt)
	}
}

func TestTradeExecuteValidation(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		price    float64
		expected string
	}{
		{"zero quantity", 0, 100, "❌ Error: Quantity must be positive"},
		{"negative quantity", -5, 100, "❌ Error: Quantity must be positive"},
		{"zero price", 10, 0, "❌ Error: Total price must be positive"},
		{"negative price", 10, -50, "❌ Error: Total price must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := NewBuyStocksTool()
			args := map[string]any{
				"ticker_symbol": "AAPL",
				"quantity":      tt.quantity,
				"total_price":   tt.price,
			}

			result, err := tool.Execute(args)
			if err != nil {
				t.Fatalf("Validation failures should be results, not errors: %v", err)
			}
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestTradeExecuteMissingParameters(t *testing.T) {
	tool := NewBuyStocksTool()

	tests := []struct {
		name string
		args map[string]any
	}{
		{"no symbol", map[string]any{"quantity": float64(1), "total_price": float64(10)}},
		{"blank symbol", map[string]any{"ticker_symbol": "  ", "quantity": float64(1), "total_price": float64(10)}},
		{"no quantity", map[string]any{"ticker_symbol": "AAPL", "total_price": float64(10)}},
		{"no price", map[string]any{"ticker_symbol": "AAPL", "quantity": float64(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tool.Execute(tt.args)
			if err == nil {
				t.Error("Expected error for missing parameter")
			}
			var interrupt *Interrupt
			if errors.As(err, &interrupt) {
				t.Error("Missing parameters should not interrupt")
			}
		})
	}
}

func TestTradeResume(t *testing.T) {
	tests := []struct {
		name     string
		tool     *TradeTool
		decision string
		expected string
	}{
		{"buy yes", NewBuyStocksTool(), "yes", "✅ You bought 10 shares of AAPL for $1500.5."},
		{"buy yes uppercase", NewBuyStocksTool(), "YES", "✅ You bought 10 shares of AAPL for $1500.5."},
		{"buy yes padded", NewBuyStocksTool(), "  yes  ", "✅ You bought 10 shares of AAPL for $1500.5."},
		{"sell yes", NewSellStocksTool(), "yes", "✅ You sold 10 shares of AAPL for $1500.5."},
		{"buy no", NewBuyStocksTool(), "no", "❌ Transaction cancelled."},
		{"buy empty", NewBuyStocksTool(), "", "❌ Transaction cancelled."},
		{"buy gibberish", NewBuyStocksTool(), "sure why not", "❌ Transaction cancelled."},
		{"buy y is not yes", NewBuyStocksTool(), "y", "❌ Transaction cancelled."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.tool.Resume(buyArgs(), tt.decision)
			if err != nil {
				t.Fatalf("Resume failed: %v", err)
			}
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestTradeArgumentCoercion(t *testing.T) {
	// Models occasionally send numbers as strings or ints
	tool := NewBuyStocksTool()
	args := map[string]any{
		"ticker_symbol": "msft",
		"quantity":      "7",
		"total_price":   "2100.25",
	}

	_, err := tool.Execute(args)

	var interrupt *Interrupt
	if !errors.As(err, &interrupt) {
		t.Fatalf("Expected an Interrupt, got %v", err)
	}
	expected := "Do you want to buy 7 shares of MSFT for $2100.25? (yes/no)"
	if interrupt.Prompt != expected {
		t.Errorf("Prompt mismatch:\nexpected: %s\ngot:      %s", expected, interrupt.Prompt)
	}
}
