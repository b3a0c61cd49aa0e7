package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration, read from the environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Upload   UploadConfig
	Export   ExportConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	TrustedProxies bool
}

// DatabaseConfig selects the storage backend. Driver "postgres" and "mysql"
// connect through GORM; anything else (or a failed connection) falls back to
// the in-memory store.
type DatabaseConfig struct {
	Driver   string // postgres | mysql | memory
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type SessionConfig struct {
	CookieName   string
	TTL          time.Duration
	SecureCookie bool
}

type UploadConfig struct {
	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string
	LocalDir       string
	MaxSize        int64 // bytes
}

type ExportConfig struct {
	Dir string
}

type AuthConfig struct {
	ResetTokenSecret string
	ResetTokenTTL    time.Duration
	LoginRatePerMin  int
	LoginRateBurst   int
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: []string{getEnv("CORS_ORIGIN", "http://localhost:5173")},
			TrustedProxies: getBoolEnv("TRUST_PROXIES", false),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "memory"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "whatsons"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Session: SessionConfig{
			CookieName:   getEnv("SESSION_COOKIE", "session"),
			TTL:          getDurationEnv("SESSION_TTL", 24*time.Hour),
			SecureCookie: getBoolEnv("SESSION_SECURE", false),
		},
		Upload: UploadConfig{
			SupabaseURL:    getEnv("SUPABASE_URL", ""),
			SupabaseKey:    getEnv("SUPABASE_KEY", ""),
			SupabaseBucket: getEnv("SUPABASE_BUCKET", "uploads"),
			LocalDir:       getEnv("UPLOAD_DIR", "./public/assets"),
			MaxSize:        getInt64Env("MAX_UPLOAD_SIZE", 10*1024*1024),
		},
		Export: ExportConfig{
			Dir: getEnv("EXPORT_DIR", "./exports"),
		},
		Auth: AuthConfig{
			ResetTokenSecret: getEnv("RESET_TOKEN_SECRET", "dev-secret-key"),
			ResetTokenTTL:    getDurationEnv("RESET_TOKEN_TTL", time.Hour),
			LoginRatePerMin:  getIntEnv("LOGIN_RATE_PER_MIN", 10),
			LoginRateBurst:   getIntEnv("LOGIN_RATE_BURST", 5),
		},
	}
}

// DSN returns the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	switch c.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.Name)
	default:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return fallback
}

func getInt64Env(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if v, err := time.ParseDuration(value); err == nil {
			return v
		}
	}
	return fallback
}
