package config

import (
	"github.com/joho/godotenv"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App struct {
		Name     string
		Env      string
		LogLevel string
	}

	API struct {
		Host string
		Port string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Cache struct {
		PageTTL  time.Duration
		CountTTL time.Duration
	}

	Fetch struct {
		Timeout   time.Duration
		UserAgent string
		MaxBytes  int64
		RateLimit float64
		RateBurst int
	}

	Health struct {
		Interval time.Duration
		Timeout  time.Duration
	}
}

func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	// App
	cfg.App.Name = getEnv("APP_NAME", "pagecache")
	cfg.App.Env = getEnv("APP_ENV", "development")
	cfg.App.LogLevel = getEnv("LOG_LEVEL", "info")

	// API
	cfg.API.Host = getEnv("API_HOST", "0.0.0.0")
	cfg.API.Port = getEnv("API_PORT", "8080")

	// Redis
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getInt("REDIS_DB", 0)

	// Cache
	cfg.Cache.PageTTL = getDuration("CACHE_TTL", 10*time.Second)
	cfg.Cache.CountTTL = getDuration("COUNT_TTL", 10*time.Second)

	// Fetch
	cfg.Fetch.Timeout = getDuration("FETCH_TIMEOUT", 10*time.Second)
	cfg.Fetch.UserAgent = getEnv("FETCH_USER_AGENT", "pagecache/1.0")
	cfg.Fetch.MaxBytes = int64(getInt("FETCH_MAX_BYTES", 5*1024*1024))
	cfg.Fetch.RateLimit = getFloat("FETCH_RATE_LIMIT", 0)
	cfg.Fetch.RateBurst = getInt("FETCH_RATE_BURST", 1)

	// Health probe
	cfg.Health.Interval = getDuration("HEALTH_INTERVAL", 30*time.Second)
	cfg.Health.Timeout = getDuration("HEALTH_TIMEOUT", 2*time.Second)

	return cfg
}

// Addr is the host:port the API listens on.
func (c *Config) Addr() string {
	return c.API.Host + ":" + c.API.Port
}

func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
