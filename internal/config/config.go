package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration. It is loaded once at startup
// and treated as immutable for the lifetime of the process.
type Config struct {
	LLM      LLMConfig
	OCR      OCRConfig
	Invoice  InvoiceConfig
	Batch    BatchConfig
	Delivery DeliveryConfig
}

// LLMConfig holds extraction-service configuration.
type LLMConfig struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// OCRConfig holds the rendering/recognition toolchain configuration.
type OCRConfig struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI, default 300
	MaxPages      int    // 0 = no limit
}

// InvoiceConfig holds the normalization defaults applied to every record.
type InvoiceConfig struct {
	TaxRate         float64 // gross-to-net split rate, default 0.20
	AccountCode     string  // default "540"
	TaxType         string  // default "20% (VAT on Expenses)"
	Currency        string  // default "GBP"
	TrackingName    string  // default "Website"
	UnknownContact  string  // label used when the payee name cannot be trusted
	DisallowedNames []string
	TrackingRules   []TrackingRule
}

// TrackingRule maps a single-character marker inside a purchase-order
// identifier to a tracking label. Rules are evaluated in order; first match
// wins.
type TrackingRule struct {
	Marker string
	Label  string
}

// BatchConfig holds batch-runner behavior.
type BatchConfig struct {
	Workers    int
	DocTimeout time.Duration
}

// DeliveryConfig holds optional webhook delivery settings.
type DeliveryConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

// DefaultTrackingRules mirrors the business's purchase-order conventions.
// Anything that matches no rule classifies as the unmatched label "ERROR".
func DefaultTrackingRules() []TrackingRule {
	return []TrackingRule{
		{Marker: "C", Label: "Caterspeed"},
		{Marker: "H", Label: "Hotel Buyer"},
		{Marker: "R", Label: "Restaurant Supply Store"},
		{Marker: "T", Label: "The Restaurant Store"},
	}
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		LLM: LLMConfig{
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Temperature: getEnvAsFloat64("OPENAI_TEMPERATURE", 0.0),
			MaxTokens:   getEnvAsInt("OPENAI_MAX_TOKENS", 1000),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		OCR: OCRConfig{
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
		},
		Invoice: InvoiceConfig{
			TaxRate:         getEnvAsFloat64("INVOICE_TAX_RATE", 0.20),
			AccountCode:     getEnv("INVOICE_ACCOUNT_CODE", "540"),
			TaxType:         getEnv("INVOICE_TAX_TYPE", "20% (VAT on Expenses)"),
			Currency:        getEnv("INVOICE_CURRENCY", "GBP"),
			TrackingName:    getEnv("INVOICE_TRACKING_NAME", "Website"),
			UnknownContact:  getEnv("INVOICE_UNKNOWN_CONTACT", "Unknown (Check Invoice)"),
			DisallowedNames: getEnvAsList("INVOICE_DISALLOWED_NAMES", []string{"Catercall Ltd"}),
			TrackingRules:   getEnvAsRules("INVOICE_TRACKING_RULES", DefaultTrackingRules()),
		},
		Batch: BatchConfig{
			Workers:    getEnvAsInt("BATCH_WORKERS", 1),
			DocTimeout: getEnvAsDuration("BATCH_DOC_TIMEOUT", 3*time.Minute),
		},
		Delivery: DeliveryConfig{
			WebhookURL: getEnv("WEBHOOK_URL", ""),
			Timeout:    getEnvAsDuration("WEBHOOK_TIMEOUT", 15*time.Second),
		},
	}
}

// Validate checks the parts of the configuration that have no usable default.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Invoice.TaxRate < 0 {
		return fmt.Errorf("INVOICE_TAX_RATE must be >= 0")
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("BATCH_WORKERS must be >= 1")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// getEnvAsRules parses "C=Caterspeed,H=Hotel Buyer" style rule lists.
func getEnvAsRules(key string, defaultValue []TrackingRule) []TrackingRule {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []TrackingRule
	for _, part := range strings.Split(value, ",") {
		marker, label, ok := strings.Cut(part, "=")
		marker = strings.TrimSpace(marker)
		label = strings.TrimSpace(label)
		if !ok || marker == "" || label == "" {
			continue
		}
		out = append(out, TrackingRule{Marker: marker, Label: label})
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
