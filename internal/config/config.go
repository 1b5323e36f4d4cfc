// Package config provides centralized configuration management for the
// application. Process-level settings (server, store backend, logging)
// load from environment variables and are validated on startup to fail
// fast on misconfiguration. Push-pipeline settings resolve through a
// layered precedence scheme over the persisted settings store; see
// resolver.go.
package config

import "time"

// Config holds all process-level configuration for the write endpoint.
type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Rate    RateLimitConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// Secret is the shared secret write requests must present in the
	// x-app-secret header. Required for serving; held in memory only and
	// never written to any persisted settings layer.
	Secret string `env:"SHEETFIRE_SECRET"`
}

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	// Backend is one of: memory, postgres, redis (default: memory)
	Backend string `env:"STORE_BACKEND" default:"memory"`

	// PostgresURL is the connection string for the postgres backend.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility.
	PostgresURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of postgres connections (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// RedisAddr is the host:port for the redis backend (default: localhost:6379)
	RedisAddr string `env:"REDIS_ADDR" default:"localhost:6379"`

	// RedisPassword authenticates against redis, if set.
	RedisPassword string `env:"REDIS_PASSWORD"`

	// RedisDB is the redis database number (default: 0)
	RedisDB int `env:"REDIS_DB" default:"0"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the per-IP write budget (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
