package openai

import (
	"log/slog"
	"net/http"
	"time"
)

type Config struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client talks to an OpenAI-compatible chat/completions endpoint.
type Client struct {
	cfg        Config
	prompt     PromptSettings
	httpClient *http.Client
	log        *slog.Logger
}

// PromptSettings carries the invoice formatting defaults baked into the
// prompt on every request.
type PromptSettings struct {
	Currency        string
	AccountCode     string
	TaxType         string
	DisallowedNames []string
}

func NewClient(cfg Config, prompt PromptSettings, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	return &Client{
		cfg:        cfg,
		prompt:     prompt,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}
