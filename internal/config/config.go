package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// configDir is the configuration directory path
	// Can be set via SetConfigDir before loading config
	configDir     string
	configDirInit bool
)

// SetConfigDir sets a custom configuration directory
// Must be called before any config loading functions
func SetConfigDir(dir string) {
	configDir = dir
	configDirInit = true
}

// GetConfigDir returns the configuration directory
// Priority: 1. Manually set via SetConfigDir, 2. ./config in current directory
func GetConfigDir() string {
	if !configDirInit {
		cwd, err := os.Getwd()
		if err == nil {
			configDir = filepath.Join(cwd, "config")
		}
		configDirInit = true
	}
	return configDir
}

// Config application configuration structure
type Config struct {
	Model  ModelConfig  `yaml:"model"`
	Memory MemoryConfig `yaml:"memory"`
	Market MarketConfig `yaml:"market"`
	Log    LogConfig    `yaml:"log"`
}

// ModelConfig LLM model configuration
type ModelConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// MemoryConfig session storage configuration
type MemoryConfig struct {
	Backend            string `yaml:"backend"` // "memory" | "sqlite"
	DBPath             string `yaml:"db_path"`
	MaxContextMessages int    `yaml:"max_context_messages"`
}

// MarketConfig market data configuration
type MarketConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent"`
	DefaultPeriod  string `yaml:"default_period"`
}

// LogConfig logging configuration
type LogConfig struct {
	Dir     string `yaml:"dir"`
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// Memory backends
const (
	MemoryBackendInProcess = "memory"
	MemoryBackendSQLite    = "sqlite"
)

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Model: ModelConfig{
			APIKey:      "",
			BaseURL:     "https://api.groq.com/openai/v1",
			Model:       "openai/gpt-oss-120b",
			Temperature: 0.3,
			MaxTokens:   4096,
		},
		Memory: MemoryConfig{
			Backend:            MemoryBackendInProcess,
			DBPath:             filepath.Join(homeDir, ".tradermate", "sessions.db"),
			MaxContextMessages: 40,
		},
		Market: MarketConfig{
			BaseURL:        "https://query1.finance.yahoo.com",
			TimeoutSeconds: 15,
			UserAgent:      "TraderMate/0.1",
			DefaultPeriod:  "1d",
		},
		Log: LogConfig{
			Dir:     filepath.Join(homeDir, ".tradermate", "logs"),
			Level:   "info",
			Console: false,
		},
	}
}

// ConfigDir returns the configuration directory path
func ConfigDir() (string, error) {
	dir := GetConfigDir()
	if dir == "" {
		return "", fmt.Errorf("failed to determine config directory")
	}
	return dir, nil
}

// ConfigPath returns the configuration file path
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads configuration from file and merges with secrets and environment
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	// Config file doesn't exist, create default config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		mergeAPIKey(cfg)

		if err := Save(cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Use default values as base
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	mergeAPIKey(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeAPIKey fills the model API key from the secrets file or the
// environment when the config file left it empty
func mergeAPIKey(cfg *Config) {
	if cfg.Model.APIKey != "" {
		return
	}
	secrets, _ := LoadSecrets()
	if secrets != nil {
		if apiKey := secrets.GetModelAPIKey(); apiKey != "" {
			cfg.Model.APIKey = apiKey
			return
		}
	}
	for _, env := range []string{"GROQ_API_KEY", "OPENAI_API_KEY"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			cfg.Model.APIKey = v
			return
		}
	}
}

// Save saves configuration to file
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	content := "# TraderMate Configuration File\n\n" + string(data)

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Model.BaseURL == "" {
		return fmt.Errorf("config error: model.base_url cannot be empty")
	}
	if c.Model.Model == "" {
		return fmt.Errorf("config error: model.model cannot be empty")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("config error: model.temperature must be between 0 and 2")
	}
	if c.Model.MaxTokens <= 0 {
		return fmt.Errorf("config error: model.max_tokens must be greater than 0")
	}

	backend := strings.ToLower(strings.TrimSpace(c.Memory.Backend))
	if backend != MemoryBackendInProcess && backend != MemoryBackendSQLite {
		return fmt.Errorf("config error: memory.backend must be %q or %q", MemoryBackendInProcess, MemoryBackendSQLite)
	}
	if backend == MemoryBackendSQLite && c.Memory.DBPath == "" {
		return fmt.Errorf("config error: memory.db_path cannot be empty for sqlite backend")
	}
	if c.Memory.MaxContextMessages <= 0 {
		return fmt.Errorf("config error: memory.max_context_messages must be greater than 0")
	}

	if strings.TrimSpace(c.Market.BaseURL) == "" {
		return fmt.Errorf("config error: market.base_url cannot be empty")
	}
	if c.Market.TimeoutSeconds <= 0 {
		return fmt.Errorf("config error: market.timeout_seconds must be greater than 0")
	}

	return nil
}

// IsAPIKeyConfigured checks if API key is configured
func (c *Config) IsAPIKeyConfigured() bool {
	return c.Model.APIKey != ""
}

// String returns string representation of config (hides sensitive info)
func (c *Config) String() string {
	return fmt.Sprintf(`TraderMate Configuration:
  Model:
    API Key: %s
    Base URL: %s
    Model: %s
    Temperature: %.1f
    Max Tokens: %d
  Memory:
    Backend: %s
    DB Path: %s
    Max Context Messages: %d
  Market:
    Base URL: %s
    Timeout Seconds: %d
    User Agent: %s
    Default Period: %s
  Log:
    Dir: %s
    Level: %s
    Console: %v`,
		redactAPIKey(c.Model.APIKey),
		c.Model.BaseURL,
		c.Model.Model,
		c.Model.Temperature,
		c.Model.MaxTokens,
		c.Memory.Backend,
		c.Memory.DBPath,
		c.Memory.MaxContextMessages,
		c.Market.BaseURL,
		c.Market.TimeoutSeconds,
		c.Market.UserAgent,
		c.Market.DefaultPeriod,
		c.Log.Dir,
		c.Log.Level,
		c.Log.Console,
	)
}

func redactAPIKey(value string) string {
	if value == "" {
		return "(not configured)"
	}
	if len(value) > 8 {
		return value[:8] + "..."
	}
	return "***"
}
