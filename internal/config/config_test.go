package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model.BaseURL != "https://api.groq.com/openai/v1" {
		t.Errorf("Unexpected default base URL: %s", cfg.Model.BaseURL)
	}
	if cfg.Model.Model != "openai/gpt-oss-120b" {
		t.Errorf("Unexpected default model: %s", cfg.Model.Model)
	}
	if cfg.Model.Temperature != 0.3 {
		t.Errorf("Unexpected default temperature: %f", cfg.Model.Temperature)
	}
	if cfg.Memory.Backend != MemoryBackendInProcess {
		t.Errorf("Unexpected default memory backend: %s", cfg.Memory.Backend)
	}
	if cfg.Market.BaseURL != "https://query1.finance.yahoo.com" {
		t.Errorf("Unexpected default market base URL: %s", cfg.Market.BaseURL)
	}
	if cfg.Market.DefaultPeriod != "1d" {
		t.Errorf("Unexpected default period: %s", cfg.Market.DefaultPeriod)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.Model.BaseURL = "" }},
		{"empty model", func(c *Config) { c.Model.Model = "" }},
		{"temperature too high", func(c *Config) { c.Model.Temperature = 2.5 }},
		{"negative temperature", func(c *Config) { c.Model.Temperature = -0.1 }},
		{"zero max tokens", func(c *Config) { c.Model.MaxTokens = 0 }},
		{"bad memory backend", func(c *Config) { c.Memory.Backend = "redis" }},
		{"sqlite without path", func(c *Config) { c.Memory.Backend = MemoryBackendSQLite; c.Memory.DBPath = "" }},
		{"zero context messages", func(c *Config) { c.Memory.MaxContextMessages = 0 }},
		{"empty market url", func(c *Config) { c.Market.BaseURL = " " }},
		{"zero market timeout", func(c *Config) { c.Market.TimeoutSeconds = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadCreatesDefaultConfig(t *testing.T) {
	SetConfigDir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model.Model != "openai/gpt-oss-120b" {
		t.Errorf("Expected default model, got %s", cfg.Model.Model)
	}

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Load should create the config file: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	SetConfigDir(t.TempDir())

	cfg := DefaultConfig()
	cfg.Model.APIKey = "gsk_test_key_12345"
	cfg.Model.Temperature = 0.7
	cfg.Memory.Backend = MemoryBackendSQLite
	cfg.Memory.DBPath = "/tmp/test-sessions.db"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Model.APIKey != "gsk_test_key_12345" {
		t.Errorf("API key not round-tripped: %s", loaded.Model.APIKey)
	}
	if loaded.Model.Temperature != 0.7 {
		t.Errorf("Temperature not round-tripped: %f", loaded.Model.Temperature)
	}
	if loaded.Memory.Backend != MemoryBackendSQLite {
		t.Errorf("Backend not round-tripped: %s", loaded.Memory.Backend)
	}
}

func TestAPIKeyFromEnvironment(t *testing.T) {
	SetConfigDir(t.TempDir())
	t.Setenv("GROQ_API_KEY", "gsk_from_env")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model.APIKey != "gsk_from_env" {
		t.Errorf("Expected API key from environment, got %q", cfg.Model.APIKey)
	}
}

func TestAPIKeyFromSecretsFile(t *testing.T) {
	dir := t.TempDir()
	SetConfigDir(dir)
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	content := "# secrets\nGROQ_API_KEY=gsk_from_secrets\n"
	if err := os.WriteFile(filepath.Join(dir, ".secrets"), []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write secrets file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model.APIKey != "gsk_from_secrets" {
		t.Errorf("Expected API key from secrets file, got %q", cfg.Model.APIKey)
	}
}

func TestSecretsPrecedence(t *testing.T) {
	secrets := NewSecrets()
	secrets.values["GROQ_API_KEY"] = "gsk_groq"
	secrets.values["OPENAI_API_KEY"] = "sk_openai"

	if got := secrets.GetModelAPIKey(); got != "gsk_groq" {
		t.Errorf("GROQ_API_KEY should win, got %s", got)
	}

	delete(secrets.values, "GROQ_API_KEY")
	if got := secrets.GetModelAPIKey(); got != "sk_openai" {
		t.Errorf("Expected OPENAI_API_KEY fallback, got %s", got)
	}
}

func TestConfigStringRedactsAPIKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model.APIKey = "gsk_super_secret_key"

	out := cfg.String()
	if strings.Contains(out, "gsk_super_secret_key") {
		t.Error("String should not expose the full API key")
	}
	if !strings.Contains(out, "gsk_supe...") {
		t.Errorf("String should show the redacted prefix: %s", out)
	}

	cfg.Model.APIKey = ""
	if !strings.Contains(cfg.String(), "(not configured)") {
		t.Error("String should flag an unconfigured API key")
	}
}

func TestIsAPIKeyConfigured(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.IsAPIKeyConfigured() {
		t.Error("Empty API key should not count as configured")
	}
	cfg.Model.APIKey = "key"
	if !cfg.IsAPIKeyConfigured() {
		t.Error("Non-empty API key should count as configured")
	}
}

func TestDefaultPromptConfig(t *testing.T) {
	cfg := DefaultPromptConfig()

	if !strings.Contains(cfg.GetSystemPrompt(), "stock market trading agent") {
		t.Errorf("Unexpected system prompt: %s", cfg.GetSystemPrompt())
	}
	if cfg.GetErrorPrefix() != "Error" {
		t.Errorf("Unexpected error prefix: %s", cfg.GetErrorPrefix())
	}

	// Empty fields fall back to the defaults
	empty := &PromptConfig{}
	if empty.GetSystemPrompt() == "" || empty.GetErrorPrefix() == "" {
		t.Error("Empty prompt config should fall back to defaults")
	}
}

func TestLoadPromptConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	SetConfigDir(dir)

	content := "system: Custom trading prompt\nerror_prefix: Oops\n"
	if err := os.WriteFile(filepath.Join(dir, "prompt.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write prompt config: %v", err)
	}

	cfg, err := LoadPromptConfig()
	if err != nil {
		t.Fatalf("LoadPromptConfig failed: %v", err)
	}
	if cfg.GetSystemPrompt() != "Custom trading prompt" {
		t.Errorf("Expected custom system prompt, got %q", cfg.GetSystemPrompt())
	}
	if cfg.GetErrorPrefix() != "Oops" {
		t.Errorf("Expected custom error prefix, got %q", cfg.GetErrorPrefix())
	}
}
