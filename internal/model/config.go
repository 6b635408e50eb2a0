package model

import (
	"fmt"
	"time"
)

// Config holds the full runtime configuration
type Config struct {
	Retriever RetrieverConfig `yaml:"retriever" mapstructure:"retriever"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Context   ContextConfig   `yaml:"context" mapstructure:"context"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

// RetrieverConfig configures the external vector-search client
type RetrieverConfig struct {
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey      string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	Index       string        `yaml:"index" mapstructure:"index"`
	TopK        int           `yaml:"top_k" mapstructure:"top_k"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxAttempts int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	Backoff     time.Duration `yaml:"backoff" mapstructure:"backoff"`
}

// LLMConfig configures the generation provider
type LLMConfig struct {
	Provider    string        `yaml:"provider" mapstructure:"provider"` // "openai" or "ollama"
	Model       string        `yaml:"model" mapstructure:"model"`
	APIKey      string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float32       `yaml:"temperature" mapstructure:"temperature"`
	MaxAttempts int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	Backoff     time.Duration `yaml:"backoff" mapstructure:"backoff"`
}

// ContextConfig bounds context assembly
type ContextConfig struct {
	MaxChunks    int    `yaml:"max_chunks" mapstructure:"max_chunks"`
	MaxTokens    int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	Estimator    string `yaml:"estimator" mapstructure:"estimator"` // "chars" or "tiktoken"
	Encoding     string `yaml:"encoding,omitempty" mapstructure:"encoding"`
	MaxSentences int    `yaml:"max_sentences" mapstructure:"max_sentences"` // Answer length bound
}

// CacheConfig controls retrieval-result caching
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// RateLimitConfig throttles calls to the external collaborators
type RateLimitConfig struct {
	RetrieverRPS float64 `yaml:"retriever_rps" mapstructure:"retriever_rps"`
	GeneratorRPS float64 `yaml:"generator_rps" mapstructure:"generator_rps"`
	Burst        int     `yaml:"burst" mapstructure:"burst"`
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
	Format  string `yaml:"format" mapstructure:"format"` // "text" or "json"
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Retriever: RetrieverConfig{
			BaseURL:     "http://localhost:8900",
			Index:       "mutual-fund-faq",
			TopK:        5,
			Timeout:     3 * time.Second,
			MaxAttempts: 1,
			Backoff:     200 * time.Millisecond,
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Timeout:     5 * time.Second,
			MaxTokens:   150,
			Temperature: 0.1,
			MaxAttempts: 3,
			Backoff:     500 * time.Millisecond,
		},
		Context: ContextConfig{
			MaxChunks:    3,
			MaxTokens:    800,
			Estimator:    "chars",
			MaxSentences: 3,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			RetrieverRPS: 5,
			GeneratorRPS: 2,
			Burst:        5,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Validate checks the configuration at startup. A failure here is fatal;
// per-request failures are never surfaced this way.
func (c Config) Validate() error {
	if c.Retriever.TopK <= 0 {
		return fmt.Errorf("retriever.top_k must be positive, got %d", c.Retriever.TopK)
	}
	if c.Retriever.BaseURL == "" {
		return fmt.Errorf("retriever.base_url must be set")
	}
	switch c.LLM.Provider {
	case "openai", "ollama":
	default:
		return fmt.Errorf("unknown llm.provider: %q (supported: openai, ollama)", c.LLM.Provider)
	}
	if c.LLM.MaxAttempts <= 0 {
		return fmt.Errorf("llm.max_attempts must be positive, got %d", c.LLM.MaxAttempts)
	}
	if c.Context.MaxChunks <= 0 || c.Context.MaxTokens <= 0 {
		return fmt.Errorf("context.max_chunks and context.max_tokens must be positive")
	}
	switch c.Context.Estimator {
	case "chars", "tiktoken":
	default:
		return fmt.Errorf("unknown context.estimator: %q (supported: chars, tiktoken)", c.Context.Estimator)
	}
	if c.Context.MaxSentences <= 0 {
		return fmt.Errorf("context.max_sentences must be positive, got %d", c.Context.MaxSentences)
	}
	return nil
}
