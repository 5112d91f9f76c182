package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"

	"github.com/tradermate/tradermate/internal/agent"
	"github.com/tradermate/tradermate/internal/config"
	"github.com/tradermate/tradermate/internal/llm"
	"github.com/tradermate/tradermate/internal/market"
	"github.com/tradermate/tradermate/internal/memory"
	"github.com/tradermate/tradermate/internal/tools"
)

const (
	Version = "0.1.0"

	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// Run starts the CLI interactive interface
func Run(cfg *config.Config) error {
	printWelcome()

	// Check API Key
	if !cfg.IsAPIKeyConfigured() {
		return promptAPIKey(cfg)
	}

	// Initialize components
	llmClient := llm.New(
		cfg.Model.APIKey,
		cfg.Model.BaseURL,
		cfg.Model.Model,
		cfg.Model.Temperature,
		cfg.Model.MaxTokens,
	)

	store, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}
	defer store.Close()

	provider := market.NewYahooProvider(
		cfg.Market.BaseURL,
		cfg.Market.UserAgent,
		time.Duration(cfg.Market.TimeoutSeconds)*time.Second,
	)

	registry := tools.NewDefaultRegistry(provider)

	ag, err := agent.New(
		cfg, llmClient, store, registry,
		agent.WithStreamHandler(streamOutput),
		agent.WithToolCallHandler(toolCallOutput),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize agent: %w", err)
	}

	return runREPL(ag, store)
}

// newStore selects the session store backend from config
func newStore(cfg *config.Config) (memory.Store, error) {
	if strings.EqualFold(cfg.Memory.Backend, config.MemoryBackendSQLite) {
		return memory.NewSQLiteStore(cfg.Memory.DBPath)
	}
	return memory.NewInMemoryStore(), nil
}

// printWelcome prints welcome message
func printWelcome() {
	fmt.Printf("\n%s📈 TraderMate v%s%s - Your Stock Trading Assistant\n", colorCyan, Version, colorReset)
	fmt.Printf("%sAsk about stock prices, buy/sell stocks, or get the current time%s\n", colorGray, colorReset)
	fmt.Printf("%sType /help for help, /exit to quit%s\n\n", colorGray, colorReset)
}

// promptAPIKey prompts user to configure API Key
func promptAPIKey(cfg *config.Config) error {
	fmt.Printf("%s⚠️  API Key not configured%s\n\n", colorYellow, colorReset)

	rl, err := readline.New("Please enter your Groq API Key: ")
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	apiKey, err := rl.Readline()
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("API Key cannot be empty")
	}

	cfg.Model.APIKey = apiKey
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("\n%s✅ API Key saved%s\n\n", colorGreen, colorReset)

	// Restart
	return Run(cfg)
}

// getHistoryFilePath returns the readline history file path
func getHistoryFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	historyDir := filepath.Join(homeDir, ".tradermate")
	if err := os.MkdirAll(historyDir, 0755); err != nil {
		return ""
	}
	return filepath.Join(historyDir, "history")
}

// runREPL runs the interactive REPL with readline support
func runREPL(ag *agent.Agent, store memory.Store) error {
	rlConfig := &readline.Config{
		Prompt:                 fmt.Sprintf("%sYou: %s", colorGreen, colorReset),
		HistoryFile:            getHistoryFilePath(),
		HistoryLimit:           1000,
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
		HistorySearchFold:      true,
		DisableAutoSaveHistory: false,
	}

	rl, err := readline.NewEx(rlConfig)
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Printf("\n\n%sGoodbye! 👋%s\n", colorCyan, colorReset)
		cancel()
		rl.Close()
		os.Exit(0)
	}()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				fmt.Printf("\n%sPress Ctrl+C again or type /exit to quit%s\n", colorYellow, colorReset)
				continue
			}
			if err == io.EOF {
				fmt.Printf("\n%sGoodbye! 👋%s\n", colorCyan, colorReset)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		// Handle built-in commands
		if strings.HasPrefix(input, "/") {
			if handleCommand(input, ag, store) {
				continue
			}
			return nil // /exit command
		}

		if err := processInput(ctx, ag, rl, input); err != nil {
			return err
		}
	}
}

// processInput sends user input to the agent and resolves any trade
// confirmations before returning to the prompt
func processInput(ctx context.Context, ag *agent.Agent, rl *readline.Instance, input string) error {
	fmt.Printf("\n%sTraderMate: %s", colorBlue, colorReset)

	reply, err := ag.Chat(ctx, input)
	if err != nil {
		fmt.Printf("\n%s❌ Error: %v%s\n\n", colorRed, err, colorReset)
		return nil
	}

	// A trade tool interrupted: ask for the decision and resume until the
	// agent produces a final reply
	for reply.AwaitingDecision {
		decision, err := confirmTrade(rl, reply.DecisionPrompt)
		if err != nil {
			return err
		}

		fmt.Printf("\n%sTraderMate: %s", colorBlue, colorReset)
		reply, err = ag.Resume(ctx, decision)
		if err != nil {
			fmt.Printf("\n%s❌ Error: %v%s\n\n", colorRed, err, colorReset)
			return nil
		}
	}

	fmt.Println()
	fmt.Println()
	return nil
}

// confirmTrade shows the trade summary and reads the yes/no answer
func confirmTrade(rl *readline.Instance, prompt string) (string, error) {
	fmt.Printf("\n\n%s⚠️  Confirm your action%s\n", colorYellow, colorReset)
	fmt.Printf("%s\n", prompt)

	rl.SetPrompt(fmt.Sprintf("%sYour decision (yes/no): %s", colorYellow, colorReset))
	defer rl.SetPrompt(fmt.Sprintf("%sYou: %s", colorGreen, colorReset))

	line, err := rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt || err == io.EOF {
			// Treat an aborted prompt as a "no"
			return "no", nil
		}
		return "", fmt.Errorf("failed to read decision: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// printHelp prints help information
func printHelp() {
	fmt.Printf(`
%s📚 TraderMate Help%s

%sBuilt-in Commands:%s
  /help                    - Show this help message
  /clear                   - Clear current session history
  /new                     - Create new session
  /sessions                - List recent sessions
  /session restore <id>    - Switch to an existing session
  /config                  - Show current configuration
  /history                 - Show input history usage tips
  /history clear           - Clear input history
  /exit                    - Exit program

%sAvailable Tools:%s
  • get_stock_price        - Look up the current price for a ticker
  • buy_stocks             - Buy shares (asks for confirmation)
  • sell_stocks            - Sell shares (asks for confirmation)
  • get_current_datetime   - Current date and time

%sExamples:%s
  "What's the price of Tesla?"
  "Buy 10 shares of AAPL at the current price"
  "Sell 5 TSLA for $1200"
  "What time is it?"

`, colorCyan, colorReset, colorYellow, colorReset, colorYellow, colorReset, colorYellow, colorReset)
}

// handleCommand handles built-in commands, returns true to continue loop, false to exit
func handleCommand(cmd string, ag *agent.Agent, store memory.Store) bool {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return true
	}

	command := strings.ToLower(parts[0])

	switch command {
	case "/help":
		printHelp()
		return true

	case "/clear":
		if err := ag.ClearSession(); err != nil {
			fmt.Printf("%s❌ Failed to clear session: %v%s\n", colorRed, err, colorReset)
		} else {
			fmt.Printf("%s✅ Session cleared%s\n", colorGreen, colorReset)
		}
		return true

	case "/exit", "/quit", "/q":
		fmt.Printf("%sGoodbye! 👋%s\n", colorCyan, colorReset)
		return false

	case "/config":
		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("%s❌ Failed to load config: %v%s\n", colorRed, err, colorReset)
		} else {
			fmt.Println(cfg.String())
		}
		return true

	case "/new":
		if err := ag.NewSession(); err != nil {
			fmt.Printf("%s❌ Failed to create new session: %v%s\n", colorRed, err, colorReset)
		} else {
			fmt.Printf("%s✅ New session created%s\n", colorGreen, colorReset)
		}
		return true

	case "/sessions", "/session":
		handleSessionCommand(parts[1:], ag, store)
		return true

	case "/history":
		if len(parts) > 1 && parts[1] == "clear" {
			historyFile := getHistoryFilePath()
			if historyFile != "" {
				if err := os.WriteFile(historyFile, []byte{}, 0644); err != nil {
					fmt.Printf("%s❌ Failed to clear history: %v%s\n", colorRed, err, colorReset)
				} else {
					fmt.Printf("%s✅ Input history cleared%s\n", colorGreen, colorReset)
				}
			}
		} else {
			fmt.Printf("%sUse Up/Down arrow keys to browse input history%s\n", colorGray, colorReset)
			fmt.Printf("%sUse /history clear to clear history%s\n", colorGray, colorReset)
		}
		return true

	default:
		fmt.Printf("%s❓ Unknown command: %s%s\n", colorYellow, cmd, colorReset)
		fmt.Println("Type /help for available commands")
		return true
	}
}

// streamOutput handles stream output
func streamOutput(content string) {
	fmt.Print(content)
}

// toolCallOutput handles tool call output
func toolCallOutput(name string, args map[string]any, result string, err error) {
	fmt.Printf("\n\n%s🔧 Calling tool: %s%s\n", colorYellow, name, colorReset)

	if len(args) > 0 {
		fmt.Printf("%s   Args: %v%s\n", colorGray, args, colorReset)
	}

	if err != nil {
		fmt.Printf("%s   Status: ❌ Failed - %v%s\n", colorRed, err, colorReset)
	} else {
		fmt.Printf("%s   Status: ✅ Done%s\n", colorGreen, colorReset)
	}

	fmt.Println()
}
