package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config carries every externally supplied setting. It is read once in main
// and handed to the components that need it; nothing else reads the process
// environment.
type Config struct {
	HTTPPort uint

	DBHost     string
	DBPort     uint
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	JWTSecret      string
	PaystackSecret string

	AllowedOrigins []string
}

// Load builds a Config from environment variables, applying local-dev
// defaults for everything except the secrets.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:       envUint("PORT", 8080),
		DBHost:         envString("DB_HOST", "localhost"),
		DBPort:         envUint("DB_PORT", 5432),
		DBName:         envString("DB_NAME", "investments"),
		DBUser:         envString("DB_USERNAME", "postgres"),
		DBPassword:     envString("DB_PASSWORD", "postgres"),
		DBSSLMode:      envString("DB_SSL_MODE", "disable"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		PaystackSecret: os.Getenv("PAYSTACK_SECRET_KEY"),
		AllowedOrigins: strings.Split(envString("CORS_ALLOWED_ORIGINS", "*"), ","),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	if cfg.PaystackSecret == "" {
		return nil, fmt.Errorf("PAYSTACK_SECRET_KEY is not set")
	}
	return cfg, nil
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envUint(key string, fallback uint) uint {
	v, err := strconv.ParseUint(os.Getenv(key), 10, 32)
	if err != nil {
		return fallback
	}
	return uint(v)
}
