// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port string

	DBDriver   string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// AMQPURL is optional; when empty events go to the in-memory queue.
	AMQPURL string

	LogLevel  string
	LogFormat string
}

// Load reads .env if present, then the process environment.
// The returned bool reports whether a .env file was found; a .env that
// exists but cannot be parsed is an error.
func Load() (*Config, bool, error) {
	found := true
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, fmt.Errorf("failed to load .env: %w", err)
		}
		found = false
	}

	cfg := &Config{
		Port:       getenv("PORT", "8080"),
		DBDriver:   getenv("DB_DRIVER", DriverSQLite),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),
		SQLitePath: getenv("SQLITE_PATH", "customers.db"),
		AMQPURL:    os.Getenv("AMQP_URL"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
		LogFormat:  getenv("LOG_FORMAT", "text"),
	}
	return cfg, found, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBName == "" {
			return fmt.Errorf("DB_NAME is required for driver %q", c.DBDriver)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for driver %q", c.DBDriver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// PostgresDSN escapes credentials, so passwords may contain URL delimiters.
func (c *Config) PostgresDSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return dsn.String()
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
