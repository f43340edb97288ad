// Package config loads process configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Env  string
	Port string `validate:"required,numeric"`

	PriorityRadiusKm float64       `validate:"gt=0,lte=1000"`
	MaxRadiusKm      float64       `validate:"gt=0,lte=1000,gtefield=PriorityRadiusKm"`
	MaxShops         int           `validate:"min=1,max=100"`
	Speculative      bool
	SourceTimeout    time.Duration `validate:"gte=0"`

	ShopsXLSXPath  string
	ShopsXLSXSheet string `validate:"required"`

	PlacesAPIEnabled bool
	OverpassURL      string `validate:"required,url"`

	ElasticURL   string `validate:"omitempty,url"`
	ElasticIndex string `validate:"required"`

	RedisAddr string        `validate:"omitempty,hostname_port"`
	CacheTTL  time.Duration `validate:"gte=0"`

	GeminiAPIKey string
	GeminiModel  string `validate:"required"`

	ExportDir string `validate:"required"`

	CORSOrigins    []string
	RateLimitRPS   float64 `validate:"gte=0"`
	RateLimitBurst int     `validate:"gte=0"`
}

// Load reads the configuration. Missing variables take their defaults;
// unparsable numbers are reported rather than silently defaulted.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var errs []error
	floatEnv := func(key string, fallback float64) float64 {
		v, err := strconv.ParseFloat(getEnv(key, strconv.FormatFloat(fallback, 'f', -1, 64)), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return v
	}
	intEnv := func(key string, fallback int) int {
		v, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return v
	}
	durationEnv := func(key string, fallback time.Duration) time.Duration {
		v, err := time.ParseDuration(getEnv(key, fallback.String()))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return v
	}

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8000"),
		PriorityRadiusKm: floatEnv("PRIORITY_RADIUS_KM", 20.0),
		MaxRadiusKm:      floatEnv("MAX_RADIUS_KM", 500.0),
		MaxShops:         intEnv("MAX_SHOPS", 30),
		Speculative:      boolEnv("SPECULATIVE_SEARCH", false),
		SourceTimeout:    durationEnv("SOURCE_TIMEOUT", 30*time.Second),
		ShopsXLSXPath:    getEnv("SHOPS_XLSX_PATH", ""),
		ShopsXLSXSheet:   getEnv("SHOPS_XLSX_SHEET", "Sheet1"),
		PlacesAPIEnabled: boolEnv("PLACES_API_ENABLED", true),
		OverpassURL:      getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		ElasticURL:       getEnv("ELASTIC_URL", ""),
		ElasticIndex:     getEnv("ELASTIC_INDEX", "shops"),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		CacheTTL:         durationEnv("CACHE_TTL", 10*time.Minute),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-flash-latest"),
		ExportDir:        getEnv("EXPORT_DIR", "output"),
		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPS:     floatEnv("RATE_LIMIT_RPS", 5),
		RateLimitBurst:   intEnv("RATE_LIMIT_BURST", 10),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	v := strings.TrimSpace(getEnv(key, ""))
	if v == "" {
		return fallback
	}
	return strings.EqualFold(v, "true") || v == "1"
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
