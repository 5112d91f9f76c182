package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PromptConfig prompt configuration structure
type PromptConfig struct {
	System      string `yaml:"system"`
	ErrorPrefix string `yaml:"error_prefix"`
}

// DefaultPromptConfig returns default prompt configuration
func DefaultPromptConfig() *PromptConfig {
	return &PromptConfig{
		System: `You are a stock market trading agent. Your goal is to help users make informed decisions about buying and selling stocks.
Answer the user queries using the available tools to get stock prices, buy stocks, sell stocks, and get the current date and time.
Be accurate and concise in your responses.`,
		ErrorPrefix: "Error",
	}
}

// PromptConfigPath returns the prompt config file path
func PromptConfigPath() (string, error) {
	// First check if there's a config/prompt.yaml in current working directory
	cwd, err := os.Getwd()
	if err == nil {
		localPath := filepath.Join(cwd, "config", "prompt.yaml")
		if _, err := os.Stat(localPath); err == nil {
			return localPath, nil
		}
	}

	// Fall back to user config directory
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "prompt.yaml"), nil
}

// LoadPromptConfig loads prompt configuration from file
func LoadPromptConfig() (*PromptConfig, error) {
	configPath, err := PromptConfigPath()
	if err != nil {
		return DefaultPromptConfig(), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultPromptConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt config: %w", err)
	}

	cfg := DefaultPromptConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse prompt config: %w", err)
	}

	return cfg, nil
}

// GetSystemPrompt returns the system prompt
func (p *PromptConfig) GetSystemPrompt() string {
	if p.System == "" {
		return DefaultPromptConfig().System
	}
	return p.System
}

// GetErrorPrefix returns the prefix used when reporting tool errors to the model
func (p *PromptConfig) GetErrorPrefix() string {
	if p.ErrorPrefix == "" {
		return DefaultPromptConfig().ErrorPrefix
	}
	return p.ErrorPrefix
}
