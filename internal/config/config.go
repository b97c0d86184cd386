package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Providers selectable via ANSWER_PROVIDER.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

type Config struct {
	Port string

	// Document under analysis
	DocumentPath string
	CachePath    string

	// Segmentation
	PatternsFile  string
	WatchDocument bool

	// Retrieval limits
	MaxSections      int
	SectionCharLimit int
	ContextCharLimit int

	// Answering model
	AnswerProvider  string
	AnthropicAPIKey string
	AnthropicModel  string
	OpenAIAPIKey    string
	OpenAIModel     string
	MaxAnswerTokens int
	AnswerTimeout   time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// HTTP
	CORSOrigins []string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		DocumentPath: envOr("DOCUMENT_PATH", "knowledge/filing.pdf"),
		CachePath:    envOr("CACHE_PATH", "cache/document.json"),

		PatternsFile:  os.Getenv("SEGMENT_PATTERNS_FILE"),
		WatchDocument: envBool("WATCH_DOCUMENT", false),

		MaxSections:      envInt("MAX_SECTIONS", 5),
		SectionCharLimit: envInt("SECTION_CHAR_LIMIT", 2000),
		ContextCharLimit: envInt("CONTEXT_CHAR_LIMIT", 8000),

		AnswerProvider:  envOr("ANSWER_PROVIDER", ProviderAnthropic),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     envOr("OPENAI_MODEL", "gpt-4o-mini"),
		MaxAnswerTokens: envInt("MAX_ANSWER_TOKENS", 1024),
		AnswerTimeout:   envDuration("ANSWER_TIMEOUT", 120*time.Second),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		CORSOrigins: splitList(envOr("CORS_ORIGINS", "http://localhost:5173")),
	}

	if cfg.MaxSections <= 0 {
		cfg.MaxSections = 5
	}
	if cfg.SectionCharLimit <= 0 {
		cfg.SectionCharLimit = 2000
	}
	if cfg.ContextCharLimit <= 0 {
		cfg.ContextCharLimit = 8000
	}
	if cfg.MaxAnswerTokens <= 0 {
		cfg.MaxAnswerTokens = 1024
	}
	if cfg.AnswerTimeout <= 0 {
		cfg.AnswerTimeout = 120 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.DocumentPath == "" {
		return fmt.Errorf("DOCUMENT_PATH is required")
	}
	if c.CachePath == "" {
		return fmt.Errorf("CACHE_PATH is required")
	}
	switch c.AnswerProvider {
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required")
		}
	default:
		return fmt.Errorf("unknown ANSWER_PROVIDER %q", c.AnswerProvider)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
