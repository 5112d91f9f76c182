package tools

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tradermate/tradermate/internal/market"
)

// TradeSide buy or sell
type TradeSide string

const (
	SideBuy  TradeSide = "buy"
	SideSell TradeSide = "sell"
)

// TradeTool executes a simulated buy or sell order. The order never
// completes in a single Execute call: after validating the arguments the
// tool interrupts with a confirmation prompt, and Resume produces the
// final confirmation or cancellation message.
type TradeTool struct {
	side TradeSide
}

// NewBuyStocksTool creates the buy tool
func NewBuyStocksTool() *TradeTool {
	return &TradeTool{side: SideBuy}
}

// NewSellStocksTool creates the sell tool
func NewSellStocksTool() *TradeTool {
	return &TradeTool{side: SideSell}
}

func (t *TradeTool) Name() string {
	if t.side == SideBuy {
		return "buy_stocks"
	}
	return "sell_stocks"
}

func (t *TradeTool) Description() string {
	action := "Buy"
	if t.side == SideSell {
		action = "Sell"
	}
	return fmt.Sprintf("%s a specified quantity of stocks for the given ticker symbol. "+
		"The user is asked to confirm before the transaction is executed. "+
		"Returns a confirmation message.", action)
}

func (t *TradeTool) Parameters() []ParameterDef {
	return []ParameterDef{
		{
			Name:        "ticker_symbol",
			Type:        "string",
			Description: fmt.Sprintf("The ticker symbol to %s stocks from", t.side),
			Required:    true,
		},
		{
			Name:        "quantity",
			Type:        "number",
			Description: fmt.Sprintf("The number of stocks to %s", t.side),
			Required:    true,
		},
		{
			Name:        "total_price",
			Type:        "number",
			Description: fmt.Sprintf("The total price of the stocks to %s", t.side),
			Required:    true,
		},
	}
}

// Execute validates the order and interrupts for confirmation
func (t *TradeTool) Execute(args map[string]any) (string, error) {
	symbol, quantity, price, err := t.parseOrder(args)
	if err != nil {
		return "", err
	}

	if quantity <= 0 {
		return "❌ Error: Quantity must be positive", nil
	}
	if !price.IsPositive() {
		return "❌ Error: Total price must be positive", nil
	}

	return "", &Interrupt{
		Prompt: fmt.Sprintf("Do you want to %s %d shares of %s for $%s? (yes/no)",
			t.side, quantity, symbol, price.String()),
	}
}

// Resume finishes the order with the user's decision. Only the exact
// answer "yes" (case-insensitive) executes; anything else cancels.
func (t *TradeTool) Resume(args map[string]any, decision string) (string, error) {
	symbol, quantity, price, err := t.parseOrder(args)
	if err != nil {
		return "", err
	}

	if strings.ToLower(strings.TrimSpace(decision)) != "yes" {
		return "❌ Transaction cancelled.", nil
	}

	verb := "bought"
	if t.side == SideSell {
		verb = "sold"
	}
	return fmt.Sprintf("✅ You %s %d shares of %s for $%s.", verb, quantity, symbol, price.String()), nil
}

func (t *TradeTool) parseOrder(args map[string]any) (string, int, decimal.Decimal, error) {
	symbol, ok := args["ticker_symbol"].(string)
	if !ok || market.NormalizeSymbol(symbol) == "" {
		return "", 0, decimal.Zero, fmt.Errorf("missing required parameter: ticker_symbol")
	}
	symbol = market.NormalizeSymbol(symbol)

	quantityRaw, ok := args["quantity"]
	if !ok {
		return "", 0, decimal.Zero, fmt.Errorf("missing required parameter: quantity")
	}
	quantity, err := toInt(quantityRaw)
	if err != nil {
		return "", 0, decimal.Zero, fmt.Errorf("invalid quantity: %w", err)
	}

	priceRaw, ok := args["total_price"]
	if !ok {
		return "", 0, decimal.Zero, fmt.Errorf("missing required parameter: total_price")
	}
	price, err := toDecimal(priceRaw)
	if err != nil {
		return "", 0, decimal.Zero, fmt.Errorf("invalid total_price: %w", err)
	}

	return symbol, quantity, price, nil
}

// toInt converts a decoded JSON number to an int
func toInt(value any) (int, error) {
	switch v := value.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return 0, err
		}
		return int(d.IntPart()), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", value)
	}
}

// toDecimal converts a decoded JSON number to a decimal
func toDecimal(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case string:
		return decimal.NewFromString(v)
	default:
		return decimal.Zero, fmt.Errorf("unexpected type %T", value)
	}
}
