package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const minimalConfig = `
environment: test
server:
  port: 9090
tracker:
  holdings_file: data/holdings.json
  snapshot_file: data/snapshot.json
  reference_file: data/reference.json
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Tracker.FreshnessWindow != 60*time.Second {
		t.Fatalf("freshness default = %v, want 60s", cfg.Tracker.FreshnessWindow)
	}
	if cfg.Tracker.CheckInterval != 60*time.Second {
		t.Fatalf("check interval default = %v, want 60s", cfg.Tracker.CheckInterval)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("log level default = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	if _, err := Load(writeConfig(t, "environment: test\n")); err == nil {
		t.Fatalf("missing tracker files should fail validation")
	}
}

func TestLoadKafkaValidation(t *testing.T) {
	body := minimalConfig + `
kafka:
  enabled: true
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("enabled kafka without brokers should fail validation")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("FINNHUB_KEY", "env-key")
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("TELEGRAM_CHAT_ID", "env-chat")
	t.Setenv("SERVER_PORT", "9999")

	cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Finnhub.APIKey != "env-key" {
		t.Fatalf("finnhub key = %q, want env override", cfg.Finnhub.APIKey)
	}
	if cfg.Telegram.BotToken != "env-token" || cfg.Telegram.ChatID != "env-chat" {
		t.Fatalf("telegram overrides not applied")
	}
	if cfg.Server.Port != 9999 {
		t.Fatalf("port = %d, want env override 9999", cfg.Server.Port)
	}
}

func TestLoadWithEnvBadPortKeepsFilePort(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")

	cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("port = %d, want file value 9090", cfg.Server.Port)
	}
}
