package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	FromName   string
	UseSSL     bool
	RequireTLS bool
}

// Enabled reports whether enough is configured to actually send mail.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != ""
}

type AIConfig struct {
	Provider      string // "gemini" | "openai"
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	// OpenAIBaseURL points the OpenAI client at a compatible endpoint.
	OpenAIBaseURL string
	Timeout       time.Duration
}

type Config struct {
	Port          string
	PostgresURL   string
	LogLevel      string
	SessionSecret string
	CookieSecure  bool
	CORSOrigins   []string
	AppName       string
	AppBaseURL    string
	MapboxToken   string
	RedisURL      string
	PlanTTL       time.Duration

	AI   AIConfig
	SMTP SMTPConfig
}

var ErrMissingSessionSecret = errors.New("SESSION_SECRET must be set (at least 32 characters)")

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnvWithDefault("PORT", "8080"),
		PostgresURL:   os.Getenv("POSTGRES_URL"),
		LogLevel:      getEnvWithDefault("LOG_LEVEL", "info"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		CookieSecure:  getBool("COOKIE_SECURE", false),
		CORSOrigins:   splitList(getEnvWithDefault("CORS_ORIGINS", "http://localhost:3000")),
		AppName:       getEnvWithDefault("APP_NAME", "AI Travel Planning"),
		AppBaseURL:    getEnvWithDefault("APP_BASE_URL", "http://localhost:3000"),
		MapboxToken:   os.Getenv("MAPBOX_ACCESS_TOKEN"),
		RedisURL:      os.Getenv("REDIS_URL"),
		PlanTTL:       getDuration("PLAN_TTL", 24*time.Hour),
		AI: AIConfig{
			Provider:      strings.ToLower(getEnvWithDefault("AI_PROVIDER", "gemini")),
			GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
			GeminiModel:   getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash"),
			OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:   getEnvWithDefault("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
			Timeout:       getDuration("AI_TIMEOUT", 45*time.Second),
		},
		SMTP: SMTPConfig{
			Host:       os.Getenv("SMTP_HOST"),
			Port:       getInt("SMTP_PORT", 587),
			Username:   os.Getenv("SMTP_USERNAME"),
			Password:   os.Getenv("SMTP_PASSWORD"),
			From:       os.Getenv("SMTP_FROM"),
			FromName:   getEnvWithDefault("SMTP_FROM_NAME", "AI Travel Planning"),
			UseSSL:     getBool("SMTP_USE_SSL", false),
			RequireTLS: getBool("SMTP_REQUIRE_TLS", true),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < 32 {
		return ErrMissingSessionSecret
	}
	switch c.AI.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unsupported AI_PROVIDER %q: use 'gemini' or 'openai'", c.AI.Provider)
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be positive, got %s", c.AI.Timeout)
	}
	return nil
}

// getEnvWithDefault returns environment variable or default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
