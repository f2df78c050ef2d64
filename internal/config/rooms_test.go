package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleRooms = `
rooms:
  - game: baccarat
    code: r60
    bet_seconds: 60
    reveal_seconds: 15
    min_bet_cc: 10
    max_bet_cc: 5000
    odds:
      BANKER_SIX: "0.5"
  - id: lotto-daily
    game: Lottery
    code: D1
    enabled: false
    daily_reset: true
    pool_rate: "0.1"
`

func TestParseRoomsDefaults(t *testing.T) {
	rooms, err := ParseRooms([]byte(sampleRooms))
	if err != nil {
		t.Fatalf("ParseRooms() error = %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("len(rooms) = %d, want 2", len(rooms))
	}
	bac := rooms[0]
	if bac.ID != "baccarat-r60" || bac.Code != "R60" || bac.Name != "baccarat R60" {
		t.Fatalf("unexpected baccarat seed: %+v", bac)
	}
	if !bac.IsEnabled() {
		t.Fatal("baccarat room should default to enabled")
	}
	if bac.Odds["BANKER_SIX"] != "0.5" {
		t.Fatalf("odds = %v", bac.Odds)
	}
	lotto := rooms[1]
	if lotto.ID != "lotto-daily" || lotto.Game != "lottery" || lotto.IsEnabled() || !lotto.DailyReset {
		t.Fatalf("unexpected lottery seed: %+v", lotto)
	}
}

func TestParseRoomsRejectsDuplicates(t *testing.T) {
	raw := []byte("rooms:\n  - {game: roulette, code: R30}\n  - {game: roulette, code: r30}\n")
	if _, err := ParseRooms(raw); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestParseRoomsRequiresGame(t *testing.T) {
	if _, err := ParseRooms([]byte("rooms:\n  - {code: R30}\n")); err == nil {
		t.Fatal("expected missing game error")
	}
}

func TestLoadRoomsMissingFile(t *testing.T) {
	rooms, err := LoadRooms(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil || rooms != nil {
		t.Fatalf("LoadRooms() = %v, %v", rooms, err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ROUNDHOUSE_DOTENV_PROBE=yes\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("ROUNDHOUSE_DOTENV_PROBE", "")
	os.Unsetenv("ROUNDHOUSE_DOTENV_PROBE")
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("ROUNDHOUSE_DOTENV_PROBE"); got != "yes" {
		t.Fatalf("probe = %q, want yes", got)
	}
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "none.env")); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}
}
