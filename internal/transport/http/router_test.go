package httptransport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roundhouse/internal/app/accounts"
	"roundhouse/internal/app/rounds"
	"roundhouse/internal/config"
	"roundhouse/internal/events"
	"roundhouse/internal/game"
	"roundhouse/internal/game/catalog"
	"roundhouse/internal/ledger"
	"roundhouse/internal/store"
	"roundhouse/internal/testutil"

	"github.com/go-chi/chi/v5"
)

const adminKey = "admin-secret"

func newTestRouter(t *testing.T) (*chi.Mux, *store.Store) {
	t.Helper()
	st, cleanup := testutil.OpenTestStore(t)
	t.Cleanup(cleanup)
	led := ledger.New(st)
	hub := events.NewHub(100)
	t.Cleanup(hub.Close)
	rs := rounds.NewService(st, led, catalog.New(), rounds.Options{
		Random:    game.NewSeededSource(7),
		Publisher: hub,
	})
	as := accounts.NewService(st, led, 1000)
	cfg := config.ServerConfig{AdminAPIKey: adminKey, CORSAllowedOrigins: []string{"*"}}
	return NewRouter(Deps{Store: st, Rounds: rs, Accounts: as, Hub: hub}, cfg), st
}

func do(t *testing.T, r http.Handler, method, path string, body any, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("X-Admin-Key", adminKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, w)["error"].(string)
}

func TestStateBetAndBalance(t *testing.T) {
	r, st := newTestRouter(t)
	testutil.MustRoom(t, st, "roul", game.Roulette, 60, 15)

	w := do(t, r, http.MethodPost, "/api/admin/users", map[string]any{"name": "alice"}, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("create user status = %d body=%s", w.Code, w.Body.String())
	}
	user := decode[accounts.UserResponse](t, w)
	if user.WalletCC != 1000 {
		t.Fatalf("opening wallet = %d, want 1000", user.WalletCC)
	}

	w = do(t, r, http.MethodGet, "/api/public/rooms/roul/state", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("state status = %d body=%s", w.Code, w.Body.String())
	}
	state := decode[rounds.RoomState](t, w)
	if state.Phase != game.PhaseBetting || state.RoundID == "" || state.Seq != 1 {
		t.Fatalf("unexpected state: %+v", state)
	}

	bet := map[string]any{
		"round_id": state.RoundID,
		"user_id":  user.UserID,
		"bets":     []map[string]any{{"kind": "red", "amount_cc": 100}},
	}
	w = do(t, r, http.MethodPost, "/api/rooms/roul/bets", bet, false)
	if w.Code != http.StatusCreated {
		t.Fatalf("bet status = %d body=%s", w.Code, w.Body.String())
	}
	res := decode[rounds.PlaceBetsResult](t, w)
	if len(res.BetIDs) != 1 || res.BalanceAfterCC != 900 {
		t.Fatalf("unexpected bet result: %+v", res)
	}

	w = do(t, r, http.MethodGet, "/api/users/"+user.UserID+"/balance", nil, false)
	if got := decode[store.Balance](t, w); got.WalletCC != 900 {
		t.Fatalf("balance = %+v", got)
	}
}

func TestErrorMapping(t *testing.T) {
	r, st := newTestRouter(t)
	testutil.MustRoom(t, st, "roul", game.Roulette, 60, 15)
	userID := testutil.MustUser(t, st, "bob", 50)

	w := do(t, r, http.MethodGet, "/api/public/rooms/roul/state", nil, false)
	roundID := decode[rounds.RoomState](t, w).RoundID

	cases := []struct {
		name   string
		path   string
		body   map[string]any
		status int
		code   string
	}{
		{"unknown room", "/api/rooms/nope/bets", map[string]any{"round_id": roundID, "user_id": userID, "bets": []map[string]any{{"kind": "RED", "amount_cc": 10}}}, http.StatusNotFound, "not_found"},
		{"bad kind", "/api/rooms/roul/bets", map[string]any{"round_id": roundID, "user_id": userID, "bets": []map[string]any{{"kind": "PURPLE", "amount_cc": 10}}}, http.StatusBadRequest, "validation"},
		{"unknown round", "/api/rooms/roul/bets", map[string]any{"round_id": "01J00000000000000000000000", "user_id": userID, "bets": []map[string]any{{"kind": "RED", "amount_cc": 10}}}, http.StatusNotFound, "not_found"},
		{"broke", "/api/rooms/roul/bets", map[string]any{"round_id": roundID, "user_id": userID, "bets": []map[string]any{{"kind": "RED", "amount_cc": 60}}}, http.StatusPaymentRequired, "insufficient_funds"},
	}
	for _, tc := range cases {
		w := do(t, r, http.MethodPost, tc.path, tc.body, false)
		if w.Code != tc.status {
			t.Fatalf("%s: status = %d, want %d body=%s", tc.name, w.Code, tc.status, w.Body.String())
		}
		if got := errorOf(t, w); got != tc.code {
			t.Fatalf("%s: code = %q, want %q", tc.name, got, tc.code)
		}
	}

	w = do(t, r, http.MethodGet, "/api/public/rooms/nope/state", nil, false)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing room state status = %d", w.Code)
	}
	w = do(t, r, http.MethodGet, "/api/public/rooms?game=poker", nil, false)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown game filter status = %d", w.Code)
	}
}

func TestAdminRequiresKey(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/api/admin/users", map[string]any{"name": "eve"}, false)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/users", strings.NewReader(`{"name":"eve"}`))
	req.Header.Set("Authorization", "Bearer "+adminKey)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("bearer status = %d body=%s", w.Code, w.Body.String())
	}
}

func TestAdminStartSettleAndConfigure(t *testing.T) {
	r, st := newTestRouter(t)
	testutil.MustRoom(t, st, "bac", game.Baccarat, 60, 15)
	userID := testutil.MustUser(t, st, "carol", 1000)

	w := do(t, r, http.MethodPost, "/api/admin/rooms/bac/start", map[string]any{"duration_seconds": 30}, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("start status = %d body=%s", w.Code, w.Body.String())
	}
	started := decode[rounds.RoundView](t, w)
	if got := started.EndsAt.Sub(started.StartedAt).Seconds(); got != 30 {
		t.Fatalf("betting window = %vs, want 30", got)
	}

	w = do(t, r, http.MethodPost, "/api/admin/rooms/bac/start", nil, true)
	if w.Code != http.StatusConflict {
		t.Fatalf("second start status = %d, want 409", w.Code)
	}

	bet := map[string]any{"round_id": started.ID, "user_id": userID, "bets": []map[string]any{{"kind": "TIE", "amount_cc": 100}}}
	if w := do(t, r, http.MethodPost, "/api/rooms/bac/bets", bet, false); w.Code != http.StatusCreated {
		t.Fatalf("bet status = %d body=%s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/api/admin/rooms/bac/settle", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("settle status = %d body=%s", w.Code, w.Body.String())
	}
	rep := decode[rounds.SettleReport](t, w)
	if rep.Round.Status != store.RoundSettled || rep.Bets != 1 || rep.Next == nil || rep.Next.Seq != 2 {
		t.Fatalf("unexpected settle report: %+v", rep)
	}

	w = do(t, r, http.MethodPost, "/api/admin/rooms/bac/config", map[string]any{"min_bet_cc": 500, "odds": map[string]string{"BANKER_SIX": "1"}}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("configure status = %d body=%s", w.Code, w.Body.String())
	}
	if room := decode[store.Room](t, w); room.Config.MinBetCC != 500 {
		t.Fatalf("min bet = %d", room.Config.MinBetCC)
	}
	w = do(t, r, http.MethodPost, "/api/admin/rooms/bac/config", map[string]any{"min_bet_cc": -1}, true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad configure status = %d", w.Code)
	}

	w = do(t, r, http.MethodGet, "/api/admin/users/"+userID+"/reconcile", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("reconcile status = %d body=%s", w.Code, w.Body.String())
	}
	if rep := decode[ledger.Report](t, w); !rep.Consistent {
		t.Fatalf("reconcile report = %+v", rep)
	}

	w = do(t, r, http.MethodGet, "/api/admin/ledger?round_id="+started.ID, nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("ledger status = %d", w.Code)
	}
	if items := decode[accounts.LedgerResponse](t, w).Items; len(items) == 0 {
		t.Fatal("expected ledger entries for the settled round")
	}
	w = do(t, r, http.MethodGet, "/api/admin/ledger?from=yesterday", nil, true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad from status = %d", w.Code)
	}

	w = do(t, r, http.MethodGet, "/api/public/rooms/bac/rounds?limit=10", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("history status = %d", w.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := newTestRouter(t)
	if w := do(t, r, http.MethodGet, "/healthz", nil, false); w.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", w.Code)
	}
	w := do(t, r, http.MethodGet, "/metrics", nil, false)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "rounds_") {
		t.Fatalf("metrics status = %d", w.Code)
	}
}
