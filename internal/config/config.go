package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultAPIURL = "http://localhost:8000/api"

type Config struct {
	Server        ServerConfig
	API           APIConfig
	Redis         RedisConfig
	Session       SessionConfig
	Notifications NotificationConfig
}

type ServerConfig struct {
	Port         string
	Environment  string
	CookieSecure bool
	AllowOrigins string
	RateLimit    RateLimitConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type SessionConfig struct {
	CacheTTL time.Duration
	ViewIdle time.Duration
}

type NotificationConfig struct {
	PollInterval time.Duration
}

type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	rateLimit, _ := strconv.Atoi(getEnv("RATE_LIMIT", "5"))
	rateLimitWindow, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW", "60"))
	apiTimeout, _ := strconv.Atoi(getEnv("API_TIMEOUT_SECONDS", "15"))
	cacheTTL, _ := strconv.Atoi(getEnv("SESSION_CACHE_TTL_MINUTES", "15"))
	viewIdle, _ := strconv.Atoi(getEnv("VIEW_IDLE_MINUTES", "30"))
	pollInterval, _ := strconv.Atoi(getEnv("NOTIFICATION_POLL_SECONDS", "30"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			CookieSecure: getEnv("COOKIE_SECURE", "false") == "true",
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000"),
			RateLimit: RateLimitConfig{
				Enabled: getEnv("RATE_LIMIT_ENABLED", "true") == "true",
				Limit:   rateLimit,
				Window:  time.Duration(rateLimitWindow) * time.Second,
			},
		},
		API: APIConfig{
			BaseURL: apiBaseURL(),
			Timeout: time.Duration(apiTimeout) * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  getEnv("REDIS_ENABLED", "false") == "true",
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Session: SessionConfig{
			CacheTTL: time.Duration(cacheTTL) * time.Minute,
			ViewIdle: time.Duration(viewIdle) * time.Minute,
		},
		Notifications: NotificationConfig{
			PollInterval: time.Duration(pollInterval) * time.Second,
		},
	}, nil
}

// apiBaseURL honours both names the dashboard build tooling has used.
func apiBaseURL() string {
	url := getEnv("API_URL", "")
	if url == "" {
		url = getEnv("VITE_API_URL", defaultAPIURL)
	}
	return strings.TrimRight(url, "/")
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
