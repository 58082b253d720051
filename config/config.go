package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	AVKey       string
	PGURL       string // optional, enables the PostgreSQL price cache
	Port        string
	LogLevel    string
	LogFormat   string
	PolicyFile  string // optional YAML policy overlay
	HTTPTimeout time.Duration
	CacheSize   int
}

// Load reads configuration from environment variables. A .env file in the
// working directory is read first; variables already set in the shell win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	avKey := os.Getenv("AV_KEY")
	if avKey == "" {
		return nil, fmt.Errorf("AV_KEY environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	if _, err := log.ParseLevel(logLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", logLevel, err)
	}

	timeout := 30 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT %q", v)
		}
		timeout = d
	}

	cacheSize := 500
	if v := os.Getenv("CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid CACHE_SIZE %q", v)
		}
		cacheSize = n
	}

	return &Config{
		AVKey:       avKey,
		PGURL:       os.Getenv("PG_URL"),
		Port:        port,
		LogLevel:    logLevel,
		LogFormat:   os.Getenv("LOG_FORMAT"),
		PolicyFile:  os.Getenv("POLICY_FILE"),
		HTTPTimeout: timeout,
		CacheSize:   cacheSize,
	}, nil
}

// ConfigureLogging applies the level and format to the global logrus logger
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if c.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
