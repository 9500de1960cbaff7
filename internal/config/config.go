package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Schema sources
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourceMongo    = "mongo"
	SourceRedis    = "redis"
)

// Config holds all service configuration. Values come from an optional YAML
// file (CONFIG_FILE) and are then overridden by environment variables.
type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"logLevel"`

	Schema struct {
		Source      string        `yaml:"source"` // embedded, file, http, mongo, redis
		Path        string        `yaml:"path"`
		URL         string        `yaml:"url"`
		Name        string        `yaml:"name"` // mongo document / redis key
		CacheTTL    time.Duration `yaml:"cacheTTL"`
		HTTPTimeout time.Duration `yaml:"httpTimeout"`
	} `yaml:"schema"`

	PagePath string        `yaml:"pagePath"` // skeleton markup; embedded when empty
	PageTTL  time.Duration `yaml:"pageTTL"`

	MongoURI  string `yaml:"mongoURI"`
	MongoDB   string `yaml:"mongoDB"`
	RedisAddr string `yaml:"redisAddr"`

	JWTSecret   string `yaml:"-"` // never read from file
	CORSOrigins string `yaml:"corsOrigins"`
}

// Default returns the built-in configuration
func Default() *Config {
	c := &Config{
		Port:        "8080",
		LogLevel:    "info",
		PageTTL:     30 * time.Minute,
		MongoDB:     "bigfive",
		CORSOrigins: "*",
		JWTSecret:   "change-me-in-production",
	}
	c.Schema.Source = SourceEmbedded
	c.Schema.Name = "default"
	c.Schema.CacheTTL = 10 * time.Minute
	c.Schema.HTTPTimeout = 10 * time.Second
	return c
}

// Load builds the configuration from CONFIG_FILE (if set) and the environment
func Load() (*Config, error) {
	c := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Schema.Source = strings.ToLower(getEnv("SCHEMA_SOURCE", c.Schema.Source))
	c.Schema.Path = getEnv("SCHEMA_PATH", c.Schema.Path)
	c.Schema.URL = getEnv("SCHEMA_URL", c.Schema.URL)
	c.Schema.Name = getEnv("SCHEMA_NAME", c.Schema.Name)
	c.PagePath = getEnv("PAGE_PATH", c.PagePath)
	c.MongoURI = getEnv("MONGO_URI", c.MongoURI)
	c.MongoDB = getEnv("MONGO_DB", c.MongoDB)
	c.RedisAddr = strings.TrimPrefix(getEnv("REDIS_ADDR", c.RedisAddr), "redis://")
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.CORSOrigins = getEnv("CORS_ALLOWED_ORIGINS", c.CORSOrigins)

	var err error
	if c.Schema.CacheTTL, err = getDuration("SCHEMA_CACHE_TTL", c.Schema.CacheTTL); err != nil {
		return err
	}
	if c.Schema.HTTPTimeout, err = getDuration("SCHEMA_HTTP_TIMEOUT", c.Schema.HTTPTimeout); err != nil {
		return err
	}
	if c.PageTTL, err = getDuration("PAGE_TTL", c.PageTTL); err != nil {
		return err
	}
	return nil
}

// Validate checks that the selected schema source has what it needs
func (c *Config) Validate() error {
	switch c.Schema.Source {
	case SourceEmbedded:
	case SourceFile:
		if c.Schema.Path == "" {
			return fmt.Errorf("schema source %q requires SCHEMA_PATH", c.Schema.Source)
		}
	case SourceHTTP:
		if c.Schema.URL == "" {
			return fmt.Errorf("schema source %q requires SCHEMA_URL", c.Schema.Source)
		}
	case SourceMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("schema source %q requires MONGO_URI", c.Schema.Source)
		}
	case SourceRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("schema source %q requires REDIS_ADDR", c.Schema.Source)
		}
	default:
		return fmt.Errorf("unknown schema source %q", c.Schema.Source)
	}
	if c.PageTTL <= 0 {
		return fmt.Errorf("page ttl must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
