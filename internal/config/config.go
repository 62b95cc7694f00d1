// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading. Values come
// from the environment (optionally seeded from a .env file), falling back
// to an optional TOML file named by CONFIG_FILE, then to built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	StorageFS       = "fs"
	StorageS3       = "s3"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel string
	LogFile  string

	// Storage
	StorageDriver string
	DataDir       string
	TempDir       string
	SQLitePath    string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// S3-compatible object storage
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Prefix    string

	// Valkey (Redis-compatible cache); empty host disables caching
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// AI providers
	AIProvider         string // text provider: "openai", "gemini", "claude", "mistral"
	ImageProvider      string // "openai" or "gemini"
	OpenAIKey          string
	OpenAIBaseURL      string
	OpenAIChatModel    string
	OpenAIImageModel   string
	OpenAIImageSize    string
	OpenAIImageQuality string
	GeminiKey          string
	GeminiModel        string
	GeminiImageModel   string
	GeminiBaseURL      string
	ClaudeKey          string
	ClaudeModel        string
	ClaudeBaseURL      string
	MistralKey         string
	MistralModel       string
	MistralBaseURL     string

	// Generation
	MaxGenerationRetries int
	RetryBackoff         time.Duration
	GenerationTimeout    time.Duration
	DemoMode             bool

	// HTTP limits
	UploadMaxBytes    int64
	GenerateRateLimit int // requests per minute per IP

	// Scheduler
	SchedulerEnabled  bool
	SchedulerTimezone string

	// SeedData creates the sample projects on startup in development.
	SeedData bool
}

// Load reads configuration, applying defaults for development where
// appropriate. Returns an error if a value is malformed or if critical
// values are missing in production mode.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	src := source{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		file, err := readFile(path)
		if err != nil {
			return nil, err
		}
		src.file = file
	}

	cfg := &Config{
		Host:     src.get("APP_HOST", "0.0.0.0"),
		Port:     src.get("APP_PORT", "3000"),
		Env:      src.get("APP_ENV", "development"),
		LogLevel: src.get("LOG_LEVEL", "info"),
		LogFile:  src.get("LOG_FILE", ""),

		StorageDriver: strings.ToLower(src.get("STORAGE_DRIVER", StorageFS)),
		DataDir:       src.get("DATA_DIR", "data"),
		TempDir:       src.get("TEMP_DIR", "temp"),
		SQLitePath:    src.get("SQLITE_PATH", "brandshot.db"),

		DBHost:     src.get("POSTGRES_HOST", "localhost"),
		DBPort:     src.get("POSTGRES_PORT", "5432"),
		DBUser:     src.get("POSTGRES_USER", "brandshot"),
		DBPassword: src.get("POSTGRES_PASSWORD", "changeme"),
		DBName:     src.get("POSTGRES_DB", "brandshot"),

		S3Endpoint:  src.get("S3_ENDPOINT", ""),
		S3Region:    src.get("S3_REGION", "us-east-1"),
		S3AccessKey: src.get("S3_ACCESS_KEY", ""),
		S3SecretKey: src.get("S3_SECRET_KEY", ""),
		S3Bucket:    src.get("S3_BUCKET", "brandshot"),
		S3Prefix:    src.get("S3_PREFIX", ""),

		ValkeyHost:     src.get("VALKEY_HOST", ""),
		ValkeyPort:     src.get("VALKEY_PORT", "6379"),
		ValkeyPassword: src.get("VALKEY_PASSWORD", ""),

		AIProvider:         src.get("AI_PROVIDER", "openai"),
		ImageProvider:      src.get("IMAGE_PROVIDER", "openai"),
		OpenAIKey:          src.get("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      src.get("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIChatModel:    src.get("OPENAI_CHAT_MODEL", "gpt-4"),
		OpenAIImageModel:   src.get("OPENAI_IMAGE_MODEL", "dall-e-3"),
		OpenAIImageSize:    src.get("OPENAI_IMAGE_SIZE", "1024x1024"),
		OpenAIImageQuality: src.get("OPENAI_IMAGE_QUALITY", "standard"),
		GeminiKey:          src.get("GEMINI_API_KEY", ""),
		GeminiModel:        src.get("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiImageModel:   src.get("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		GeminiBaseURL:      src.get("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		ClaudeKey:          src.get("CLAUDE_API_KEY", ""),
		ClaudeModel:        src.get("CLAUDE_MODEL", "claude-sonnet-4-5"),
		ClaudeBaseURL:      src.get("CLAUDE_BASE_URL", "https://api.anthropic.com"),
		MistralKey:         src.get("MISTRAL_API_KEY", ""),
		MistralModel:       src.get("MISTRAL_MODEL", "mistral-large-latest"),
		MistralBaseURL:     src.get("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),

		SchedulerTimezone: src.get("SCHEDULER_TIMEZONE", "America/New_York"),
	}

	var p parser
	cfg.ValkeyDB = p.int(src, "VALKEY_DB", 0)
	cfg.MaxGenerationRetries = p.int(src, "MAX_GENERATION_RETRIES", 3)
	cfg.RetryBackoff = time.Duration(p.int(src, "RETRY_BACKOFF_MS", 1000)) * time.Millisecond
	cfg.GenerationTimeout = time.Duration(p.int(src, "GENERATION_TIMEOUT", 30000)) * time.Millisecond
	cfg.DemoMode = p.bool(src, "DEMO_MODE", false)
	cfg.UploadMaxBytes = int64(p.int(src, "UPLOAD_MAX_BYTES", 10<<20))
	cfg.GenerateRateLimit = p.int(src, "GENERATE_RATE_LIMIT", 10)
	cfg.SchedulerEnabled = p.bool(src, "SCHEDULER_ENABLED", true)
	cfg.SeedData = p.bool(src, "SEED_DATA", false)
	if err := p.err(); err != nil {
		return nil, err
	}

	switch cfg.StorageDriver {
	case StorageFS, StorageS3, StoragePostgres, StorageSQLite:
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER %q must be one of fs, s3, postgres, sqlite", cfg.StorageDriver)
	}
	if cfg.MaxGenerationRetries < 1 {
		return nil, fmt.Errorf("MAX_GENERATION_RETRIES must be at least 1")
	}

	if cfg.Env == "production" && cfg.StorageDriver == StoragePostgres {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Location resolves SchedulerTimezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.SchedulerTimezone)
	if err != nil {
		return nil, fmt.Errorf("SCHEDULER_TIMEZONE %q: %w", c.SchedulerTimezone, err)
	}
	return loc, nil
}

// source resolves a key from the environment, then the config file.
type source struct {
	file map[string]string
}

func (s source) get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return envOrDefault(s.file, key, fallback)
}

// envOrDefault reads key from vars, returning a fallback if unset or empty.
func envOrDefault(vars map[string]string, key, fallback string) string {
	if v := vars[key]; v != "" {
		return v
	}
	return fallback
}

// readFile loads a TOML config file and flattens it to environment-style
// keys: a value at [openai] api_key becomes OPENAI_API_KEY.
func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	out := make(map[string]string)
	flatten("", tree, out)
	return out, nil
}

func flatten(prefix string, tree map[string]any, out map[string]string) {
	for k, v := range tree {
		key := strings.ToUpper(k)
		if prefix != "" {
			key = prefix + "_" + key
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case []any:
			parts := make([]string, len(val))
			for i, item := range val {
				parts[i] = fmt.Sprint(item)
			}
			out[key] = strings.Join(parts, ",")
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// parser collects conversion errors so Load reports them all at once.
type parser struct {
	problems []string
}

func (p *parser) int(src source, key string, fallback int) int {
	raw := src.get(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		p.problems = append(p.problems, fmt.Sprintf("%s must be an integer, got %q", key, raw))
		return fallback
	}
	return n
}

func (p *parser) bool(src source, key string, fallback bool) bool {
	raw := src.get(key, "")
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		p.problems = append(p.problems, fmt.Sprintf("%s must be true or false, got %q", key, raw))
		return fallback
	}
	return b
}

func (p *parser) err() error {
	if len(p.problems) == 0 {
		return nil
	}
	return errors.New("invalid configuration: " + strings.Join(p.problems, "; "))
}
