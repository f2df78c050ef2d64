package resultpush

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"roundhouse/internal/config"
)

func TestConfigFromServerJSON(t *testing.T) {
	cfg, err := ConfigFromServer(config.ServerConfig{
		PushWorkers:   3,
		PushRetryMax:  2,
		PushRetryBase: time.Second,
		PushTargetsJSON: `[
			{"platform":" Discord ","endpoint":"https://discord.example/hook","enabled":true,"events":["ROUND_SETTLED"]},
			{"platform":"feishu","endpoint":"https://feishu.example/hook","enabled":false}
		]`,
	})
	if err != nil {
		t.Fatalf("ConfigFromServer() error = %v", err)
	}
	if cfg.Workers != 3 || cfg.RetryMax != 2 || cfg.RetryBase != time.Second {
		t.Fatalf("config = %+v", cfg)
	}
	if len(cfg.Targets) != 1 || cfg.Targets[0].Platform != "discord" || cfg.Targets[0].Events[0] != "round_settled" {
		t.Fatalf("targets = %+v", cfg.Targets)
	}
}

func TestConfigFromServerPathWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.json")
	if err := os.WriteFile(path, []byte(`[{"platform":"feishu","endpoint":"https://f","secret":"s","enabled":true}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := ConfigFromServer(config.ServerConfig{PushTargetsPath: path, PushTargetsJSON: `not json`})
	if err != nil {
		t.Fatalf("ConfigFromServer() error = %v", err)
	}
	if len(cfg.Targets) != 1 || cfg.Targets[0].Secret != "s" {
		t.Fatalf("targets = %+v", cfg.Targets)
	}
}

func TestConfigFromServerRejectsUnknownPlatform(t *testing.T) {
	_, err := ConfigFromServer(config.ServerConfig{PushTargetsJSON: `[{"platform":"slack","endpoint":"x","enabled":true}]`})
	if err == nil {
		t.Fatal("expected unknown platform error")
	}
	if _, err := ConfigFromServer(config.ServerConfig{PushTargetsPath: "/nonexistent/targets.json"}); err == nil {
		t.Fatal("expected read error")
	}
}

func TestConfigFromServerEmpty(t *testing.T) {
	cfg, err := ConfigFromServer(config.ServerConfig{})
	if err != nil || len(cfg.Targets) != 0 {
		t.Fatalf("empty config = %+v, %v", cfg, err)
	}
}
