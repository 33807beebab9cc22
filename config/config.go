package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	API      APIConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Session  SessionConfig
	Cache    CacheConfig
	App      AppConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

type APIConfig struct {
	BaseURL         string
	Timeout         time.Duration
	RateLimit       float64
	Burst           int
	AdminFetchLimit int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DatabaseConfig is only used by the postgres session store.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type SessionConfig struct {
	Store        string // memory, redis or postgres
	CookieName   string
	TTL          time.Duration
	SecureCookie bool
	PurgeCron    string
}

type CacheConfig struct {
	Backend      string // memory or redis
	TTL          time.Duration
	WarmSchedule string
}

type AppConfig struct {
	Environment    string
	LogLevel       string
	Version        string
	ContentFile    string
	LoginPerMinute float64
	LoginBurst     int
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		},
		API: APIConfig{
			BaseURL:         getEnv("API_BASE_URL", "http://localhost:5000/api"),
			Timeout:         getEnvAsDuration("API_TIMEOUT", 15*time.Second),
			RateLimit:       getEnvAsFloat("API_RATE_LIMIT", 50),
			Burst:           getEnvAsInt("API_RATE_BURST", 20),
			AdminFetchLimit: getEnvAsInt("ADMIN_FETCH_LIMIT", 500),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "landmark_web"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Session: SessionConfig{
			Store:        strings.ToLower(getEnv("SESSION_STORE", "memory")),
			CookieName:   getEnv("SESSION_COOKIE", "lm_session"),
			TTL:          getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
			SecureCookie: getEnvAsBool("SESSION_SECURE_COOKIE", false),
			PurgeCron:    getEnv("SESSION_PURGE_SCHEDULE", "0 0 * * * *"),
		},
		Cache: CacheConfig{
			Backend:      strings.ToLower(getEnv("CACHE_BACKEND", "memory")),
			TTL:          getEnvAsDuration("CACHE_TTL", 2*time.Minute),
			WarmSchedule: getEnv("CACHE_WARM_SCHEDULE", "0 */1 * * * *"),
		},
		App: AppConfig{
			Environment:    getEnv("APP_ENV", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			Version:        getEnv("APP_VERSION", "1.0.0"),
			ContentFile:    getEnv("CONTENT_FILE", ""),
			LoginPerMinute: getEnvAsFloat("LOGIN_PER_MINUTE", 10),
			LoginBurst:     getEnvAsInt("LOGIN_BURST", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}

	switch c.Session.Store {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis session store")
		}
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required for the postgres session store")
		}
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.Session.Store)
	}

	switch c.Cache.Backend {
	case "memory", "none":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis cache")
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.Cache.Backend)
	}

	return nil
}

// UsesRedis reports whether any component needs a redis client.
func (c *Config) UsesRedis() bool {
	return c.Session.Store == "redis" || c.Cache.Backend == "redis"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
