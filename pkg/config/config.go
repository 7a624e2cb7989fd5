// Package config holds global settings for the SafeLink Shield scan
// service. All settings can be configured via environment variables or
// programmatically.
package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
)

// ClassifierProvider selects the external ML classification backend.
type ClassifierProvider string

const (
	ProviderNone        ClassifierProvider = "none" // heuristics only
	ProviderHuggingFace ClassifierProvider = "hf"   // Hugging Face inference API
)

// Config holds global settings for the scan service.
type Config struct {
	// === Core Settings ===
	Port          string // HTTP listen port
	DefaultLocale string // fallback locale for explanations (en/hi/mr)
	ModelVersion  string // recorded with every persisted scan

	// === Fusion Weights ===
	// Must sum to 1.0; validated once at startup, never per call.
	ModelWeight     float64
	HeuristicWeight float64

	// === Classifier Configuration ===
	Classifier    ClassifierProvider
	HFAPIKey      string // Hugging Face API token
	HFURLModel    string // URL binary classification model id
	HFTextModel   string // zero-shot text classification model id
	HFTimeoutMs   int    // timeout for classifier calls in milliseconds
	HFEndpointURL string // override base URL (tests, self-hosted router)

	// === Input Limits ===
	MaxURLLength  int
	MaxTextLength int
	MinTextLength int

	// === Rate Limiting ===
	RateLimitsPath string // optional YAML override for per-class budgets
	RedisAddr      string // when set, the limiter is Redis-backed

	// === Storage ===
	DatabaseURL string // when set, scan records are persisted via pgx
}

// NewDefaultConfig creates a Config with sensible defaults.
// All settings can be overridden via environment variables.
func NewDefaultConfig() *Config {
	return &Config{
		Port:          GetEnv("SHIELD_PORT", "8000"),
		DefaultLocale: GetEnv("SHIELD_DEFAULT_LOCALE", "en"),
		ModelVersion:  GetEnv("SHIELD_MODEL_VERSION", "v1.0-hf"),

		ModelWeight:     GetEnvFloat("SHIELD_MODEL_WEIGHT", 0.6),
		HeuristicWeight: GetEnvFloat("SHIELD_HEURISTIC_WEIGHT", 0.4),

		Classifier:    detectClassifier(),
		HFAPIKey:      GetEnv("SHIELD_HF_API_KEY", os.Getenv("HF_API_KEY")),
		HFURLModel:    GetEnv("SHIELD_HF_URL_MODEL", "CrabInHoney/urlbert-tiny-v4-malicious-url-classifier"),
		HFTextModel:   GetEnv("SHIELD_HF_TEXT_MODEL", "facebook/bart-large-mnli"),
		HFTimeoutMs:   GetEnvInt("SHIELD_HF_TIMEOUT_MS", 30000),
		HFEndpointURL: GetEnv("SHIELD_HF_ENDPOINT", "https://api-inference.huggingface.co"),

		MaxURLLength:  GetEnvInt("SHIELD_MAX_URL_LENGTH", 2048),
		MaxTextLength: GetEnvInt("SHIELD_MAX_TEXT_LENGTH", 10000),
		MinTextLength: GetEnvInt("SHIELD_MIN_TEXT_LENGTH", 10),

		RateLimitsPath: GetEnv("SHIELD_RATELIMITS_FILE", ""),
		RedisAddr:      GetEnv("SHIELD_REDIS_ADDR", ""),

		DatabaseURL: GetEnv("SHIELD_DATABASE_URL", os.Getenv("DATABASE_URL")),
	}
}

func detectClassifier() ClassifierProvider {
	// Check explicit provider setting first
	if p := os.Getenv("SHIELD_CLASSIFIER"); p != "" {
		return ClassifierProvider(p)
	}
	// Auto-detect based on available keys
	if os.Getenv("SHIELD_HF_API_KEY") != "" || os.Getenv("HF_API_KEY") != "" {
		return ProviderHuggingFace
	}
	return ProviderNone
}

// Validate checks startup configuration. A fusion weight set that does
// not sum to 1.0 is the only fatal condition; everything else degrades
// with a warning.
func (c *Config) Validate() error {
	if c.ModelWeight < 0 || c.HeuristicWeight < 0 {
		return fmt.Errorf("fusion weights must be non-negative (model=%.3f heuristic=%.3f)", c.ModelWeight, c.HeuristicWeight)
	}
	if math.Abs(c.ModelWeight+c.HeuristicWeight-1.0) > 1e-9 {
		return fmt.Errorf("fusion weights must sum to 1.0, got %.3f", c.ModelWeight+c.HeuristicWeight)
	}

	switch c.Classifier {
	case ProviderNone, ProviderHuggingFace:
	default:
		return fmt.Errorf("unknown classifier provider %q", c.Classifier)
	}

	if c.Classifier == ProviderHuggingFace && c.HFAPIKey == "" {
		log.Printf("[STARTUP] Warning: classifier is %q but SHIELD_HF_API_KEY is not set - scans will run heuristic-only", c.Classifier)
	}
	if c.DatabaseURL == "" {
		log.Printf("[STARTUP] Warning: SHIELD_DATABASE_URL not set - scan history will not be persisted")
	}
	return nil
}

// MustValidate calls Validate and fatally exits if validation fails.
// Call this at startup before serving traffic.
func (c *Config) MustValidate() {
	if err := c.Validate(); err != nil {
		log.Fatalf("[STARTUP] FATAL: Configuration validation failed: %v", err)
	}
	log.Println("[STARTUP] Configuration validated successfully")
}

// Helper functions for environment variable parsing
// These are exported for use by other packages (e.g., pkg/classifier)

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvBool returns the boolean value of an environment variable or a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

// GetEnvFloat returns the float64 value of an environment variable or a default value.
func GetEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}

// GetEnvInt returns the integer value of an environment variable or a default value.
func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

// GetEnvSlice returns a comma-separated list from an environment variable or a default value.
func GetEnvSlice(key string, defaultValue []string) []string {
	if v := os.Getenv(key); v != "" {
		var parts []string
		for _, p := range strings.Split(v, ",") {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}
