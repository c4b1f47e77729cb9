// Package config loads service settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	// Auth for /api/*.
	APIKey string `yaml:"api_key"`

	// Dictionary lookup. At least one source is required.
	LookupURL    string `yaml:"lookup_url"`
	LookupAPIKey string `yaml:"lookup_api_key"`
	LexiconPath  string `yaml:"lexicon_path"`

	// Worker pool
	WorkerCount         int `yaml:"worker_count"`
	MaxQueueSize        int `yaml:"max_queue_size"`
	MaxConcurrentLookup int `yaml:"max_concurrent_lookup"`

	// Uploads
	MaxUploadBytes        int64 `yaml:"max_upload_bytes"`
	MaxSentencesPerUpload int   `yaml:"max_sentences_per_upload"`
	PDFFallbackPdftotext  bool  `yaml:"pdf_fallback_pdftotext"`

	// Session state
	SessionTTL        time.Duration `yaml:"session_ttl"`
	CleanupSchedule   string        `yaml:"cleanup_schedule"`
	IncrementalRadius int           `yaml:"incremental_radius"`
	LookupStatsWindow time.Duration `yaml:"lookup_stats_window"`

	// Saved analyses
	DBPath string `yaml:"db_path"`

	CORSOrigins []string `yaml:"cors_origins"`
	LogLevel    string   `yaml:"log_level"`

	// MCP binary
	MCPTransport string `yaml:"mcp_transport"`
	MCPAddr      string `yaml:"mcp_addr"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Port:                  "8095",
		WorkerCount:           2,
		MaxQueueSize:          100,
		MaxConcurrentLookup:   8,
		MaxUploadBytes:        10 << 20,
		MaxSentencesPerUpload: 200,
		PDFFallbackPdftotext:  true,
		SessionTTL:            2 * time.Hour,
		CleanupSchedule:       "@every 5m",
		IncrementalRadius:     4,
		LookupStatsWindow:     time.Hour,
		DBPath:                "./data/sententia.db",
		CORSOrigins:           []string{"*"},
		LogLevel:              "info",
		MCPTransport:          "stdio",
		MCPAddr:               ":8096",
	}
}

// Load reads CONFIG_FILE when set, then applies environment overrides.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("API_KEY", cfg.APIKey)
	cfg.LookupURL = envOr("LOOKUP_URL", cfg.LookupURL)
	cfg.LookupAPIKey = envOr("LOOKUP_API_KEY", cfg.LookupAPIKey)
	cfg.LexiconPath = envOr("LEXICON_PATH", cfg.LexiconPath)

	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)
	cfg.MaxConcurrentLookup = envInt("MAX_CONCURRENT_LOOKUP", cfg.MaxConcurrentLookup)

	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.MaxSentencesPerUpload = envInt("MAX_SENTENCES_PER_UPLOAD", cfg.MaxSentencesPerUpload)
	cfg.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", cfg.PDFFallbackPdftotext)

	cfg.SessionTTL = envDuration("SESSION_TTL", cfg.SessionTTL)
	cfg.CleanupSchedule = envOr("CLEANUP_SCHEDULE", cfg.CleanupSchedule)
	cfg.IncrementalRadius = envInt("INCREMENTAL_RADIUS", cfg.IncrementalRadius)
	cfg.LookupStatsWindow = envDuration("LOOKUP_STATS_WINDOW", cfg.LookupStatsWindow)

	cfg.DBPath = envOr("DB_PATH", cfg.DBPath)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)
	cfg.MCPTransport = envOr("MCP_TRANSPORT", cfg.MCPTransport)
	cfg.MCPAddr = envOr("MCP_ADDR", cfg.MCPAddr)

	cfg.clamp()
	return cfg, nil
}

// clamp replaces non-positive limits with defaults.
func (c *Config) clamp() {
	d := Defaults()
	if c.WorkerCount <= 0 {
		c.WorkerCount = d.WorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = d.MaxQueueSize
	}
	if c.MaxConcurrentLookup <= 0 {
		c.MaxConcurrentLookup = d.MaxConcurrentLookup
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.MaxSentencesPerUpload <= 0 {
		c.MaxSentencesPerUpload = d.MaxSentencesPerUpload
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = d.SessionTTL
	}
	if strings.TrimSpace(c.CleanupSchedule) == "" {
		c.CleanupSchedule = d.CleanupSchedule
	}
	if c.IncrementalRadius <= 0 {
		c.IncrementalRadius = d.IncrementalRadius
	}
	if c.LookupStatsWindow <= 0 {
		c.LookupStatsWindow = d.LookupStatsWindow
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = d.CORSOrigins
	}
}

// ValidateLookup checks that some dictionary source is configured.
func (c Config) ValidateLookup() error {
	if c.LookupURL == "" && c.LexiconPath == "" {
		return errors.New("LOOKUP_URL or LEXICON_PATH is required")
	}
	return nil
}

// Validate checks the settings the HTTP service needs.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("API_KEY is required")
	}
	return c.ValidateLookup()
}

// ValidateMCP checks the settings the MCP binary needs. Only the HTTP
// transport requires an API key.
func (c Config) ValidateMCP() error {
	switch c.MCPTransport {
	case "stdio":
		return c.ValidateLookup()
	case "http":
		return c.Validate()
	}
	return fmt.Errorf("MCP_TRANSPORT must be stdio or http, got %q", c.MCPTransport)
}

// Level maps LOG_LEVEL to a slog level, defaulting to info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
