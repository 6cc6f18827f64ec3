package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr       string
	JWTSecret        string
	DatabaseDSN      string
	HistoryLimit     int
	PingInterval     time.Duration
	MaxMissedPongs   int
	WriteTimeout     time.Duration
	MaxMessageSize   int64
	ClientSendBuffer int
	LogLevel         string
}

// Load reads an optional .env file and then the environment.
func Load() *Config {
	// A missing .env file leaves the environment as is.
	_ = godotenv.Load()

	return &Config{
		ServerAddr:       stringEnv("SERVER_ADDR", ":8080"),
		JWTSecret:        stringEnv("JWT_SECRET", "123123"),
		DatabaseDSN:      stringEnv("DATABASE_DSN", "drawboard.db"),
		HistoryLimit:     intEnv("HISTORY_LIMIT", 1000),
		PingInterval:     durationEnv("PING_INTERVAL", 30*time.Second),
		MaxMissedPongs:   intEnv("MAX_MISSED_PONGS", 2),
		WriteTimeout:     durationEnv("WRITE_TIMEOUT", 10*time.Second),
		MaxMessageSize:   int64(intEnv("MAX_MESSAGE_SIZE", 64*1024)),
		ClientSendBuffer: intEnv("SEND_BUFFER", 256),
		LogLevel:         stringEnv("LOG_LEVEL", "info"),
	}
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("ignoring invalid integer setting", "key", key, "value", v)
		return def
	}
	return n
}

func durationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("ignoring invalid duration setting", "key", key, "value", v)
		return def
	}
	return d
}
