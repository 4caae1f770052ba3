package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"todos"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	// An empty key is allowed at startup; AI endpoints answer with a
	// configuration error until it is set.
	OpenAIKey     string        `envconfig:"OPENAI_API_KEY"`
	OpenAIModel   string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OpenAITimeout time.Duration `envconfig:"OPENAI_TIMEOUT" default:"60s"`

	AuthURL       string `envconfig:"AUTH_URL"`
	AuthPublicKey string `envconfig:"AUTH_PUBLIC_KEY"`
	AuthJWTSecret string `envconfig:"AUTH_JWT_SECRET" required:"true"`
	CookieSecure  bool   `envconfig:"COOKIE_SECURE" default:"false"`

	TZOffsetHours int      `envconfig:"TZ_OFFSET_HOURS" default:"9"`
	CORSOrigins   []string `envconfig:"CORS_ORIGINS" default:"*"`
	WebDir        string   `envconfig:"WEB_DIR" default:"./web"`
	LogLevel      string   `envconfig:"LOG_LEVEL" default:"info"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if cfg.AuthJWTSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	if cfg.TZOffsetHours < -12 || cfg.TZOffsetHours > 14 {
		return nil, fmt.Errorf("TZ_OFFSET_HOURS out of range: %d", cfg.TZOffsetHours)
	}
	return &cfg, nil
}

func (c *Config) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}
