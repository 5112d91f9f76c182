package main

import (
	"testing"

	"github.com/tradermate/tradermate/internal/config"
)

func TestLogConfigInfo(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
	}{
		{"no api key", ""},
		{"short api key", "short"},
		{"long api key", "gsk_1234567890abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Model.APIKey = tt.apiKey

			// Must not panic regardless of key shape; the logger is a
			// no-op when Init has not run
			logConfigInfo(cfg)
		})
	}
}

func TestVersion(t *testing.T) {
	if version == "" {
		t.Error("Version should not be empty")
	}
}
