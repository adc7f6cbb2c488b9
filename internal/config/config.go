package config

import (
	"fmt"
	"net"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

// Config is the process-wide settings snapshot. It is loaded once at startup
// and handed to every component by value; nothing mutates it afterwards.
type Config struct {
	Env  string `env:"ENV" envDefault:"dev"`
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port int    `env:"PORT" envDefault:"8000"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	AI       AIConfig
	Shopify  ShopifyConfig
	WhatsApp WhatsAppConfig

	HTTPClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"20s"`

	// RedisURL is accepted for deployment parity; no component reads it yet.
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
}

// AIConfig describes the generative text provider.
type AIConfig struct {
	Provider       string        `env:"AI_PROVIDER" envDefault:"google"`
	APIKey         string        `env:"AI_API_KEY"`
	Model          string        `env:"AI_MODEL" envDefault:"models/gemini-2.5-flash"`
	BaseURL        string        `env:"AI_BASE_URL"`
	FallbackModels []string      `env:"AI_FALLBACK_MODELS" envSeparator:"," envDefault:"models/gemini-2.5-flash,models/gemini-2.5-pro,models/gemini-2.0-flash-001"`
	SystemPrompt   string        `env:"SYSTEM_PROMPT" envDefault:"You are an Enterprise AI Automation Agent. Be concise, polite, and helpful, focused on e-commerce support."`
	Workers        int           `env:"AI_WORKERS" envDefault:"8"`
	AskTimeout     time.Duration `env:"AI_ASK_TIMEOUT" envDefault:"30s"`
	ListTimeout    time.Duration `env:"AI_MODELS_TIMEOUT" envDefault:"5s"`
}

// ShopifyConfig points at the store's Admin REST API.
type ShopifyConfig struct {
	StoreDomain string `env:"SHOPIFY_STORE_DOMAIN" envDefault:"shop-name.myshopify.com"`
	APIKey      string `env:"SHOPIFY_ADMIN_API_KEY"`
	APIVersion  string `env:"SHOPIFY_ADMIN_API_VERSION" envDefault:"2024-07"`
}

// WhatsAppConfig holds the Cloud API credentials.
type WhatsAppConfig struct {
	VerifyToken string `env:"WHATSAPP_VERIFY_TOKEN"`
	Token       string `env:"WHATSAPP_TOKEN"`
	PhoneID     string `env:"WHATSAPP_PHONE_ID"`
	APIVersion  string `env:"WHATSAPP_API_VERSION" envDefault:"v21.0"`
}

// Load reads an optional .env file and then parses the process environment.
// Values already present in the environment win over the .env file.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)
	return Parse(env.Options{})
}

// Parse builds a Config from the given env options. Tests pass
// Options.Environment to avoid touching the real process environment.
func Parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.AI.Workers < 1 {
		return Config{}, fmt.Errorf("AI_WORKERS must be positive, got %d", cfg.AI.Workers)
	}
	if cfg.AI.AskTimeout <= 0 {
		return Config{}, fmt.Errorf("AI_ASK_TIMEOUT must be positive, got %s", cfg.AI.AskTimeout)
	}
	if cfg.AI.ListTimeout <= 0 {
		return Config{}, fmt.Errorf("AI_MODELS_TIMEOUT must be positive, got %s", cfg.AI.ListTimeout)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}

// Warnings lists integrations that are not fully configured. They are not
// fatal: the affected calls fail at runtime and degrade like any other error.
func (c Config) Warnings() []string {
	var out []string
	if c.AI.APIKey == "" {
		out = append(out, "missing AI_API_KEY: AI replies will fall back to apology messages")
	}
	if c.WhatsApp.Token == "" || c.WhatsApp.VerifyToken == "" {
		out = append(out, "WhatsApp integration not fully configured (WHATSAPP_TOKEN / WHATSAPP_VERIFY_TOKEN)")
	}
	if c.Shopify.APIKey == "" {
		out = append(out, "missing SHOPIFY_ADMIN_API_KEY")
	}
	return out
}
