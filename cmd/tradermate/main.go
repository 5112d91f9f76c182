package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tradermate/tradermate/internal/cli"
	"github.com/tradermate/tradermate/internal/config"
	"github.com/tradermate/tradermate/internal/logger"
)

var (
	version = "0.1.0"
)

func main() {
	// Optional .env with API keys; absence is fine
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "tradermate",
		Short: "TraderMate - Your Stock Trading Assistant",
		Long: `TraderMate is a conversational stock trading assistant.

It can:
  • Look up current stock prices by ticker symbol
  • Buy and sell stocks (simulated, with your confirmation)
  • Tell you the current date and time
  • Keep your conversation history per session`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if err := logger.Init(logger.Config{
				LogDir:     cfg.Log.Dir,
				Level:      cfg.Log.Level,
				ConsoleOut: cfg.Log.Console,
			}); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()

			logConfigInfo(cfg)

			return cli.Run(cfg)
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			fmt.Println(cfg.String())

			path, _ := config.ConfigPath()
			fmt.Printf("\nConfig file path: %s\n", path)
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("TraderMate v%s\n", version)
		},
	}

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// logConfigInfo logs the effective configuration with the API key redacted
func logConfigInfo(cfg *config.Config) {
	apiKeyDisplay := "(not configured)"
	if cfg.Model.APIKey != "" {
		if len(cfg.Model.APIKey) > 8 {
			apiKeyDisplay = cfg.Model.APIKey[:8] + "..."
		} else {
			apiKeyDisplay = "***"
		}
	}

	logger.Infof("starting TraderMate v%s model=%s base_url=%s api_key=%s memory=%s market=%s",
		version, cfg.Model.Model, cfg.Model.BaseURL, apiKeyDisplay,
		cfg.Memory.Backend, cfg.Market.BaseURL)
}
