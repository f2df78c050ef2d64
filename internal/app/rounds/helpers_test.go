package rounds

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"roundhouse/internal/events"
	"roundhouse/internal/game"
	"roundhouse/internal/game/catalog"
	"roundhouse/internal/ledger"
	"roundhouse/internal/store"
	"roundhouse/internal/testutil"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type env struct {
	ctx context.Context
	st  *store.Store
	svc *Service
	clk *fakeClock
	hub *events.Hub
}

var testStart = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newEnv(t *testing.T) *env {
	t.Helper()
	st, cleanup := testutil.OpenTestStore(t)
	t.Cleanup(cleanup)
	clk := &fakeClock{t: testStart}
	hub := events.NewHub(100)
	svc := NewService(st, ledger.New(st), catalog.New(), Options{
		Now:       clk.Now,
		Random:    game.NewSeededSource(42),
		Publisher: hub,
	})
	return &env{ctx: context.Background(), st: st, svc: svc, clk: clk, hub: hub}
}

func (e *env) state(t *testing.T, roomID string) *RoomState {
	t.Helper()
	st, err := e.svc.State(e.ctx, roomID)
	if err != nil {
		t.Fatalf("state %s: %v", roomID, err)
	}
	return st
}

func (e *env) wallet(t *testing.T, userID string) int64 {
	t.Helper()
	bal, err := e.st.GetBalance(e.ctx, userID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return bal.WalletCC
}

// preset fixes the outcome a round will settle with.
func (e *env) preset(t *testing.T, roundID string, outcome any) {
	t.Helper()
	raw, err := json.Marshal(outcome)
	if err != nil {
		t.Fatalf("marshal outcome: %v", err)
	}
	if _, err := e.st.ResolveOutcome(e.ctx, roundID, raw); err != nil {
		t.Fatalf("preset outcome: %v", err)
	}
}

func (e *env) bet(t *testing.T, roomID, roundID, userID string, bets ...BetInput) *PlaceBetsResult {
	t.Helper()
	res, err := e.svc.PlaceBets(e.ctx, PlaceBetsRequest{RoomID: roomID, RoundID: roundID, UserID: userID, Bets: bets})
	if err != nil {
		t.Fatalf("place bets: %v", err)
	}
	return res
}

func (e *env) bets(t *testing.T, roundID string) []store.Bet {
	t.Helper()
	out, err := e.st.ListBets(e.ctx, store.BetFilter{RoundID: roundID})
	if err != nil {
		t.Fatalf("list bets: %v", err)
	}
	return out
}

func (e *env) payouts(t *testing.T, betID string) int {
	t.Helper()
	n, err := e.st.CountLedgerEntries(e.ctx, ledger.RefBet, betID)
	if err != nil {
		t.Fatalf("count ledger entries: %v", err)
	}
	return n
}
