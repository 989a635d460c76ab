package generation

import (
	"context"
	"fmt"
	"strings"
)

// ProviderType names a model backend
type ProviderType string

const (
	ProviderGemini    ProviderType = "gemini"
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
)

const (
	DefaultGeminiModel    = "gemini-3-pro-preview"
	DefaultOpenAIModel    = "gpt-4.1"
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
	DefaultMaxTokens      = 8192
	DefaultTemperature    = 0.4
)

// ProviderConfig configures a model backend
type ProviderConfig struct {
	Type        ProviderType
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
}

// ParseProviderType validates a provider name; empty selects Gemini
func ParseProviderType(s string) (ProviderType, error) {
	switch ProviderType(strings.ToLower(strings.TrimSpace(s))) {
	case "", ProviderGemini:
		return ProviderGemini, nil
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderAnthropic:
		return ProviderAnthropic, nil
	}
	return "", fmt.Errorf("unknown generation provider %q", s)
}

func (c ProviderConfig) withDefaults() ProviderConfig {
	if c.Type == "" {
		c.Type = ProviderGemini
	}
	if c.Model == "" {
		switch c.Type {
		case ProviderOpenAI:
			c.Model = DefaultOpenAIModel
		case ProviderAnthropic:
			c.Model = DefaultAnthropicModel
		default:
			c.Model = DefaultGeminiModel
		}
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Temperature <= 0 {
		c.Temperature = DefaultTemperature
	}
	return c
}

// NewProvider builds the backend selected by cfg.Type
func NewProvider(ctx context.Context, cfg ProviderConfig) (Provider, error) {
	cfg = cfg.withDefaults()
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key not set for %s provider", cfg.Type)
	}

	switch cfg.Type {
	case ProviderGemini:
		return NewGeminiProvider(ctx, cfg)
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg), nil
	case ProviderAnthropic:
		return NewAnthropicProvider(cfg), nil
	}
	return nil, fmt.Errorf("unknown generation provider %q", cfg.Type)
}
