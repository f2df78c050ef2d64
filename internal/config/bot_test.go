package config

import (
	"testing"
	"time"
)

func TestLoadBotDefaults(t *testing.T) {
	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.APIURL != "http://localhost:8080" {
		t.Fatalf("APIURL = %q, want http://localhost:8080", cfg.APIURL)
	}
	if cfg.RoomID != "roulette-r30" || cfg.BetCC != 10 || cfg.Poll != 2*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadBotOverrides(t *testing.T) {
	t.Setenv("API_URL", "http://127.0.0.1:9000")
	t.Setenv("ROOM_ID", "baccarat-r60")
	t.Setenv("USER_ID", "01JUSER")
	t.Setenv("BOT_BET_CC", "250")
	t.Setenv("BOT_POLL", "500ms")

	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.APIURL != "http://127.0.0.1:9000" || cfg.RoomID != "baccarat-r60" {
		t.Fatalf("unexpected bot config: %+v", cfg)
	}
	if cfg.UserID != "01JUSER" || cfg.BetCC != 250 || cfg.Poll != 500*time.Millisecond {
		t.Fatalf("unexpected bot config: %+v", cfg)
	}
}

func TestLoadBotRejectsBadPoll(t *testing.T) {
	t.Setenv("BOT_POLL", "soon")
	if _, err := LoadBot(); err == nil {
		t.Fatal("expected parse error")
	}
}
