package httptransport

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsStreamRequest(t *testing.T) {
	cases := []struct {
		path   string
		header map[string]string
		want   bool
	}{
		{"/api/public/rooms/r1/events", nil, true},
		{"/api/public/rooms/r1/ws", nil, true},
		{"/api/public/rooms/r1/state", nil, false},
		{"/api/rooms/r1/bets", map[string]string{"Accept": "text/event-stream"}, true},
		{"/anything", map[string]string{"Upgrade": "WebSocket"}, true},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		for k, v := range tc.header {
			req.Header.Set(k, v)
		}
		if got := isStreamRequest(req); got != tc.want {
			t.Fatalf("isStreamRequest(%s, %v) = %v, want %v", tc.path, tc.header, got, tc.want)
		}
	}
}

func TestParsePaginationClamps(t *testing.T) {
	cases := []struct {
		query         string
		limit, offset int
	}{
		{"", 50, 0},
		{"?limit=10&offset=20", 10, 20},
		{"?limit=0&offset=-3", 1, 0},
		{"?limit=9999", 500, 0},
		{"?limit=abc", 50, 0},
	}
	for _, tc := range cases {
		limit, offset := ParsePagination(httptest.NewRequest(http.MethodGet, "/x"+tc.query, nil))
		if limit != tc.limit || offset != tc.offset {
			t.Fatalf("ParsePagination(%q) = %d,%d want %d,%d", tc.query, limit, offset, tc.limit, tc.offset)
		}
	}
}

func TestCheckAdminAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if CheckAdminAuth(req, "k") {
		t.Fatal("no credentials should fail")
	}
	req.Header.Set("Authorization", "Bearer k")
	if !CheckAdminAuth(req, "k") {
		t.Fatal("bearer token should pass")
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Admin-Key", "wrong")
	if CheckAdminAuth(req, "k") {
		t.Fatal("wrong key should fail")
	}
}

func TestBodyTags(t *testing.T) {
	got := bodyTags([]byte(`{"round_id":"01JR","user_id":"01JU","bets":[{"kind":"RED","amount_cc":10}]}`))
	if len(got) != 2 || got[0].Key != "round_id" || got[0].Value.String() != "01JR" ||
		got[1].Key != "user_id" || got[1].Value.String() != "01JU" {
		t.Fatalf("bodyTags = %v", got)
	}
	if got := bodyTags([]byte(`{"duration_seconds":30}`)); len(got) != 0 {
		t.Fatalf("no ids should yield no tags: %v", got)
	}
	if got := bodyTags([]byte(`not json`)); got != nil {
		t.Fatalf("invalid body should yield nil: %v", got)
	}
}
