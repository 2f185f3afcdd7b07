package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"yatra-app-go/pkg/logger"
)

type Config struct {
	HTTPPort          string
	HTTP              HTTPConfig
	Env               string
	AllowedOrigins    []string
	MetricsEnabled    bool
	ReceiversCacheTTL time.Duration
	DB                DBConfig
	Auth              AuthConfig
	Redis             RedisConfig
}

// HTTPConfig bounds each request. WriteTimeout covers spreadsheet import and export.
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type AuthConfig struct {
	OwnerID            string
	OwnerSecret        string
	AdminID            string
	AdminDefaultSecret string
	TokenSecret        string
	SessionTTL         time.Duration
	BcryptCost         int
}

// RedisConfig enables the shared session store when URL is set.
type RedisConfig struct {
	URL string
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	return Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		HTTP: HTTPConfig{
			ReadTimeout:  getEnvDuration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvDuration("HTTP_WRITE_TIMEOUT", time.Minute),
			IdleTimeout:  getEnvDuration("HTTP_IDLE_TIMEOUT", 2*time.Minute),
		},
		Env:               getEnv("ENV", "development"),
		AllowedOrigins:    getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		MetricsEnabled:    getEnvBool("METRICS_ENABLED", true),
		ReceiversCacheTTL: getEnvDuration("RECEIVERS_CACHE_TTL", time.Minute),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "yatra"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Auth: AuthConfig{
			OwnerID:            getEnv("AUTH_OWNER_ID", "8132381323"),
			OwnerSecret:        getEnv("AUTH_OWNER_SECRET", "81323"),
			AdminID:            getEnv("AUTH_ADMIN_ID", "03012026"),
			AdminDefaultSecret: getEnv("AUTH_ADMIN_DEFAULT_SECRET", "admin2026"),
			TokenSecret:        getEnv("AUTH_TOKEN_SECRET", "change-me-in-production"),
			SessionTTL:         getEnvDuration("AUTH_SESSION_TTL", 12*time.Hour),
			BcryptCost:         getEnvInt("AUTH_BCRYPT_COST", 12),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
