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

const defaultJWTSecret = "change-me-in-production"

// Config holds application configuration loaded from environment.
type Config struct {
	Env       string
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Bootstrap BootstrapConfig
	Worker    WorkerConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all (e.g. http://localhost:3000,http://localhost:3001)
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string // if set, used as-is (e.g. postgres://localhost:5432/society?sslmode=disable)
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT signing and validation settings.
type JWTConfig struct {
	Secret      string
	ExpireHours int
}

// BootstrapConfig names the superadmin provisioned at startup. Empty disables it.
type BootstrapConfig struct {
	SuperadminEmail    string
	SuperadminPassword string
}

// Enabled reports whether both bootstrap credentials are set.
func (b BootstrapConfig) Enabled() bool {
	return b.SuperadminEmail != "" && b.SuperadminPassword != ""
}

// WorkerConfig holds background worker settings.
type WorkerConfig struct {
	PollTimeout time.Duration
}

// DSN returns the PostgreSQL connection string.
// If DatabaseConfig.URL is set (e.g. DATABASE_URL env), it is used as-is; otherwise built from components.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// AllowedOrigins splits CORSAllowedOrigins.
func (c ServerConfig) AllowedOrigins() []string {
	return splitTrim(c.CORSAllowedOrigins, ",")
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()      // .env
	_ = godotenv.Load("env") // env (no leading dot)

	cfg := &Config{
		Env: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 30),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001"),
		},
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "society"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", defaultJWTSecret),
			ExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 24),
		},
		Bootstrap: BootstrapConfig{
			SuperadminEmail:    strings.TrimSpace(os.Getenv("SUPERADMIN_EMAIL")),
			SuperadminPassword: os.Getenv("SUPERADMIN_PASSWORD"),
		},
		Worker: WorkerConfig{
			PollTimeout: time.Duration(getEnvInt("WORKER_POLL_TIMEOUT_SEC", 5)) * time.Second,
		},
	}

	if cfg.Env == "production" && cfg.JWT.Secret == defaultJWTSecret {
		return nil, errors.New("JWT_SECRET must be set in production")
	}
	if cfg.JWT.ExpireHours <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRE_HOURS must be positive, got %d", cfg.JWT.ExpireHours)
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(s, sep) {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
