package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_STORE", "")
	t.Setenv("CACHE_BACKEND", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 500, cfg.API.AdminFetchLimit)
	assert.False(t, cfg.UsesRedis())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("API_RATE_LIMIT", "2.5")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SESSION_SECURE_COOKIE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("LOGIN_BURST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2.5, cfg.API.RateLimit)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.True(t, cfg.Session.SecureCookie)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5, cfg.App.LoginBurst, "invalid values fall back to the default")
	assert.True(t, cfg.UsesRedis())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: "8080"},
			API:     APIConfig{BaseURL: "http://api"},
			Session: SessionConfig{Store: "memory"},
			Cache:   CacheConfig{Backend: "memory"},
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"PORT is required":                          func(c *Config) { c.Server.Port = "" },
		"API_BASE_URL is required":                  func(c *Config) { c.API.BaseURL = "" },
		`unknown SESSION_STORE "files"`:             func(c *Config) { c.Session.Store = "files" },
		"REDIS_ADDR is required for the redis cache": func(c *Config) { c.Cache.Backend = "redis" },
		"DB_HOST is required for the postgres session store": func(c *Config) {
			c.Session.Store = "postgres"
		},
	}
	for want, mutate := range cases {
		c := valid()
		mutate(c)
		assert.EqualError(t, c.Validate(), want)
	}
}
