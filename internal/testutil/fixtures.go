package testutil

import (
	"context"
	"testing"

	"roundhouse/internal/game"
	"roundhouse/internal/game/catalog"
	"roundhouse/internal/store"
)

// MustUser creates a user whose wallet starts at openingCC, recorded as an
// OPENING ledger entry.
func MustUser(t *testing.T, st *store.Store, name string, openingCC int64) string {
	t.Helper()
	ctx := context.Background()
	u, err := st.CreateUser(ctx, name)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if openingCC > 0 {
		if _, err := st.Apply(ctx, store.Movement{
			UserID: u.ID, Account: store.AccountWallet, AmountCC: openingCC,
			Type: "OPENING", RefType: "user", RefID: u.ID,
		}); err != nil {
			t.Fatalf("opening balance: %v", err)
		}
	}
	return u.ID
}

// MustRoom seeds an enabled room with the game's default odds.
func MustRoom(t *testing.T, st *store.Store, id string, kind game.Kind, betSeconds, revealSeconds int) *store.Room {
	t.Helper()
	cfg := game.DefaultRoomConfig()
	cfg.BetSeconds = betSeconds
	cfg.RevealSeconds = revealSeconds
	cfg, err := catalog.New().Normalize(kind, cfg)
	if err != nil {
		t.Fatalf("normalize room config: %v", err)
	}
	room := store.Room{ID: id, Game: kind, Code: "T" + id, Name: id, Enabled: true, Config: cfg}
	if _, err := st.EnsureRoom(context.Background(), room); err != nil {
		t.Fatalf("ensure room: %v", err)
	}
	got, err := st.GetRoom(context.Background(), id)
	if err != nil {
		t.Fatalf("get room: %v", err)
	}
	return got
}
