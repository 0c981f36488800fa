package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"restaurant_backend/pkg/utils"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings, decoded from the environment.
type Config struct {
	Port     string `env:"PORT,default=5000"`
	AppEnv   string `env:"APP_ENV,default=development"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	DB struct {
		Host     string `env:"DB_HOST,default=localhost"`
		Port     string `env:"DB_PORT,default=5432"`
		User     string `env:"DB_USER,default=restaurant"`
		Password string `env:"DB_PASSWORD,default=restaurant"`
		Name     string `env:"DB_NAME,default=restaurant"`
		SSLMode  string `env:"DB_SSLMODE,default=disable"`
	}

	JWTSecret string        `env:"JWT_SECRET"`
	JWTExpire time.Duration `env:"JWT_EXPIRE,default=720h"`

	// Comma separated.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:5173"`

	BackendURL  string `env:"BACKEND_URL,default=http://localhost:5000"`
	FrontendURL string `env:"FRONTEND_URL,default=http://localhost:5173"`
	UploadsDir  string `env:"UPLOADS_DIR,default=uploads"`

	Redis struct {
		Addr     string        `env:"REDIS_ADDR"`
		Password string        `env:"REDIS_PASSWORD"`
		DB       int           `env:"REDIS_DB,default=0"`
		MenuTTL  time.Duration `env:"MENU_CACHE_TTL,default=5m"`
	}

	Kafka struct {
		Brokers    string `env:"KAFKA_BROKERS"` // comma separated
		OrderTopic string `env:"KAFKA_ORDER_TOPIC,default=restaurant.orders"`
	}

	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT,default=1"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST,default=5"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// Load reads an optional .env file (ENV_FILE overrides the path) and decodes the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(utils.Getenv("ENV_FILE", ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv decodes the current process environment without touching .env.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("JWT_SECRET must be set outside development")
		}
		c.JWTSecret = "dev-only-restaurant-secret"
	}
	if c.JWTExpire <= 0 {
		return fmt.Errorf("JWT_EXPIRE must be positive, got %s", c.JWTExpire)
	}
	if c.AuthRateLimit <= 0 || c.AuthRateBurst <= 0 {
		return errors.New("AUTH_RATE_LIMIT and AUTH_RATE_BURST must be positive")
	}
	return nil
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

// DSN returns the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS into trimmed entries.
func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

// KafkaBrokers splits KAFKA_BROKERS; empty means events are disabled.
func (c *Config) KafkaBrokers() []string {
	return splitList(c.Kafka.Brokers)
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
