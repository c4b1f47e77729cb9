package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"CONFIG_FILE", "PORT", "API_KEY", "LOOKUP_URL", "LEXICON_PATH", "WORKER_COUNT",
		"SESSION_TTL", "CORS_ORIGINS", "LOG_LEVEL", "MCP_TRANSPORT", "MAX_QUEUE_SIZE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8095" || cfg.WorkerCount != 2 || cfg.SessionTTL != 2*time.Hour {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.CleanupSchedule != "@every 5m" {
		t.Errorf("unexpected schedule %q", cfg.CleanupSchedule)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected missing API_KEY to fail validation")
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sententia.yaml")
	data := "port: \"9000\"\napi_key: from-file\nlexicon_path: /tmp/lex.yaml\nsession_ttl: 30m\nworker_count: 6\ncors_origins: [https://a.example]\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("WORKER_COUNT", "3")
	t.Setenv("CORS_ORIGINS", "https://b.example, https://c.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" || cfg.APIKey != "from-file" || cfg.SessionTTL != 30*time.Minute {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.WorkerCount != 3 {
		t.Errorf("expected env to override worker count, got %d", cfg.WorkerCount)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://c.example" {
		t.Errorf("unexpected origins %v", cfg.CORSOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoad_BadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("port: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_ClampsNonPositive(t *testing.T) {
	clearEnv(t)
	t.Setenv("WORKER_COUNT", "-1")
	t.Setenv("MAX_QUEUE_SIZE", "0")
	t.Setenv("SESSION_TTL", "-5m")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WorkerCount != 2 || cfg.MaxQueueSize != 100 || cfg.SessionTTL != 2*time.Hour {
		t.Errorf("expected clamped values, got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.APIKey = "k"
	if err := cfg.Validate(); err == nil {
		t.Error("expected missing lookup source to fail")
	}
	cfg.LookupURL = "http://dict"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateMCP(t *testing.T) {
	cfg := Defaults()
	cfg.LexiconPath = "/tmp/lex.yaml"
	if err := cfg.ValidateMCP(); err != nil {
		t.Errorf("stdio needs no API key: %v", err)
	}
	cfg.MCPTransport = "http"
	if err := cfg.ValidateMCP(); err == nil {
		t.Error("expected http transport without API key to fail")
	}
	cfg.MCPTransport = "pigeon"
	if err := cfg.ValidateMCP(); err == nil {
		t.Error("expected bad transport to fail")
	}
}

func TestLevel(t *testing.T) {
	cases := map[string]slog.Level{"debug": slog.LevelDebug, "WARN": slog.LevelWarn, "error": slog.LevelError, "": slog.LevelInfo}
	for in, want := range cases {
		if got := (Config{LogLevel: in}).Level(); got != want {
			t.Errorf("%q: got %v, want %v", in, got, want)
		}
	}
}
