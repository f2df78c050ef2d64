package mcpserver

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"testing"

	"roundhouse/internal/app/accounts"
	"roundhouse/internal/app/rounds"
	"roundhouse/internal/events"
	"roundhouse/internal/game"
	"roundhouse/internal/game/catalog"
	"roundhouse/internal/ledger"
	"roundhouse/internal/store"
	"roundhouse/internal/testutil"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

func newTestServer(t *testing.T) (*client.Client, *store.Store) {
	t.Helper()
	st, cleanup := testutil.OpenTestStore(t)
	t.Cleanup(cleanup)
	led := ledger.New(st)
	rs := rounds.NewService(st, led, catalog.New(), rounds.Options{
		Random:    game.NewSeededSource(3),
		Publisher: events.Nop{},
	})
	srv := New(rs, accounts.NewService(st, led, 0))
	httpSrv := httptest.NewServer(srv.Handler())
	t.Cleanup(httpSrv.Close)
	c, closeClient := newMCPClient(t, httpSrv.URL+"/mcp")
	t.Cleanup(closeClient)
	return c, st
}

func TestMCPServerToolsAndFlows(t *testing.T) {
	c, st := newTestServer(t)
	testutil.MustRoom(t, st, "sb", game.SicBo, 60, 15)
	userID := testutil.MustUser(t, st, "mcp-user", 500)

	assertToolNames(t, mustListTools(t, c),
		"list_rooms",
		"get_room_state",
		"list_round_history",
		"place_bets",
		"get_balance",
	)

	rooms := mustCallTool(t, c, "list_rooms", map[string]any{"game": "sicbo"})
	if rooms.IsError {
		t.Fatalf("list_rooms failed: %v", rooms.StructuredContent)
	}
	if items, _ := mapFromStructured(t, rooms)["items"].([]any); len(items) != 1 {
		t.Fatalf("list_rooms items = %v", items)
	}

	state := mustCallTool(t, c, "get_room_state", map[string]any{"room_id": "sb"})
	if state.IsError {
		t.Fatalf("get_room_state failed: %v", state.StructuredContent)
	}
	st0 := mapFromStructured(t, state)
	roundID := asString(st0["round_id"])
	if roundID == "" || asString(st0["phase"]) != "BETTING" {
		t.Fatalf("unexpected state: %v", st0)
	}

	placed := mustCallTool(t, c, "place_bets", map[string]any{
		"room_id":  "sb",
		"round_id": roundID,
		"user_id":  userID,
		"bets": []map[string]any{
			{"kind": "BIG", "amount_cc": 100},
			{"kind": "TOTAL", "numbers": []int{10}, "amount_cc": 20},
		},
	})
	if placed.IsError {
		t.Fatalf("place_bets failed: %v", placed.StructuredContent)
	}
	if ids, _ := mapFromStructured(t, placed)["bet_ids"].([]any); len(ids) != 2 {
		t.Fatalf("bet ids = %v", ids)
	}

	bal := mustCallTool(t, c, "get_balance", map[string]any{"user_id": userID})
	if got := mapFromStructured(t, bal)["wallet_cc"]; got != float64(380) {
		t.Fatalf("wallet_cc = %v, want 380", got)
	}

	hist := mustCallTool(t, c, "list_round_history", map[string]any{"room_id": "sb", "limit": 5})
	if hist.IsError {
		t.Fatalf("list_round_history failed: %v", hist.StructuredContent)
	}
}

func TestMCPServerToolErrors(t *testing.T) {
	c, st := newTestServer(t)
	testutil.MustRoom(t, st, "rl", game.Roulette, 60, 15)
	userID := testutil.MustUser(t, st, "poor", 5)

	assertToolErrorCode(t, mustCallTool(t, c, "get_room_state", map[string]any{"room_id": "missing"}), "not_found")
	assertToolErrorCode(t, mustCallTool(t, c, "get_room_state", map[string]any{}), "validation")
	assertToolErrorCode(t, mustCallTool(t, c, "list_rooms", map[string]any{"game": "poker"}), "validation")
	assertToolErrorCode(t, mustCallTool(t, c, "get_balance", map[string]any{"user_id": "nobody"}), "not_found")

	roundID := asString(mapFromStructured(t, mustCallTool(t, c, "get_room_state", map[string]any{"room_id": "rl"}))["round_id"])
	bet := func(kind string, amount int64) *mcp.CallToolResult {
		return mustCallTool(t, c, "place_bets", map[string]any{
			"room_id": "rl", "round_id": roundID, "user_id": userID,
			"bets": []map[string]any{{"kind": kind, "amount_cc": amount}},
		})
	}
	assertToolErrorCode(t, bet("RED", 10), "insufficient_funds")
	assertToolErrorCode(t, bet("MAUVE", 1), "validation")
	assertToolErrorCode(t, mustCallTool(t, c, "place_bets", map[string]any{
		"room_id": "rl", "round_id": roundID, "user_id": userID, "bets": "RED",
	}), "validation")
}

func newMCPClient(t *testing.T, endpoint string) (*client.Client, func()) {
	t.Helper()
	ctx := context.Background()
	trans, err := transport.NewStreamableHTTP(endpoint)
	if err != nil {
		t.Fatalf("new transport: %v", err)
	}
	if err := trans.Start(ctx); err != nil {
		t.Fatalf("transport start: %v", err)
	}
	c := client.NewClient(trans)
	_, err = c.Initialize(ctx, mcp.InitializeRequest{Params: mcp.InitializeParams{ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION}})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return c, func() { _ = trans.Close() }
}

func mustListTools(t *testing.T, c *client.Client) []mcp.Tool {
	t.Helper()
	res, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	return res.Tools
}

func assertToolNames(t *testing.T, tools []mcp.Tool, expected ...string) {
	t.Helper()
	got := make([]string, 0, len(tools))
	for _, tool := range tools {
		got = append(got, tool.Name)
	}
	sort.Strings(got)
	sort.Strings(expected)
	if len(got) != len(expected) {
		t.Fatalf("tool count mismatch got=%v expected=%v", got, expected)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Fatalf("tool list mismatch got=%v expected=%v", got, expected)
		}
	}
}

func mustCallTool(t *testing.T, c *client.Client, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := c.CallTool(context.Background(), mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}})
	if err != nil {
		t.Fatalf("call tool %s: %v", name, err)
	}
	return res
}

func assertToolErrorCode(t *testing.T, res *mcp.CallToolResult, want string) {
	t.Helper()
	if !res.IsError {
		t.Fatalf("expected tool error %q, got success: %v", want, res.StructuredContent)
	}
	payload := mapFromStructured(t, res)
	errObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Fatalf("error payload missing 'error': %v", payload)
	}
	got := asString(errObj["code"])
	if got != want {
		t.Fatalf("error code=%q want=%q payload=%v", got, want, payload)
	}
}

func mapFromStructured(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	b, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

