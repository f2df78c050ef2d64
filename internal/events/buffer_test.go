package events

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBufferReplayAfter(t *testing.T) {
	buf := NewBuffer(3)
	for i := 0; i < 5; i++ {
		buf.Append(New(BetPlaced, "room-1", "r1", 1, nil))
	}
	all := buf.ReplayAfter("")
	if len(all) != 3 || all[0].EventID != "3" || all[2].EventID != "5" {
		t.Fatalf("replay all = %+v", all)
	}
	after := buf.ReplayAfter("4")
	if len(after) != 1 || after[0].EventID != "5" {
		t.Fatalf("replay after 4 = %+v", after)
	}
	if got := buf.ReplayAfter("junk"); len(got) != 3 {
		t.Fatalf("unparsable id should replay all, got %d", len(got))
	}
}

func TestBufferSubscribeAndClose(t *testing.T) {
	buf := NewBuffer(10)
	ch := buf.Subscribe()
	buf.Append(New(RoundOpened, "room-1", "r1", 1, nil))
	ev := <-ch
	if ev.Event != RoundOpened || ev.EventID != "1" {
		t.Fatalf("event = %+v", ev)
	}
	buf.Close()
	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed")
	}
	if ev := buf.Append(New(RoundOpened, "room-1", "r2", 2, nil)); ev.EventID != "" {
		t.Fatalf("append after close = %+v", ev)
	}
}

func TestHubSeparatesRooms(t *testing.T) {
	hub := NewHub(10)
	_ = hub.Publish(context.Background(), New(RoundOpened, "a", "r1", 1, nil))
	_ = hub.Publish(context.Background(), New(RoundOpened, "b", "r2", 1, nil))
	_ = hub.Publish(context.Background(), New(RoundLocked, "a", "r1", 1, nil))
	if got := hub.Buffer("a").ReplayAfter(""); len(got) != 2 {
		t.Fatalf("room a events = %d", len(got))
	}
	if got := hub.Buffer("b").ReplayAfter(""); len(got) != 1 {
		t.Fatalf("room b events = %d", len(got))
	}
}

type failing struct{ calls int }

func (f *failing) Publish(context.Context, Event) error {
	f.calls++
	return errors.New("down")
}

func TestMultiJoinsErrors(t *testing.T) {
	hub := NewHub(10)
	bad := &failing{}
	m := Multi{hub, nil, bad, Nop{}}
	if err := m.Publish(context.Background(), New(RoundSettled, "a", "r1", 1, nil)); err == nil {
		t.Fatal("expected joined error")
	}
	if bad.calls != 1 || len(hub.Buffer("a").ReplayAfter("")) != 1 {
		t.Fatal("every publisher should be called")
	}
}

func TestWriteSSE(t *testing.T) {
	rec := httptest.NewRecorder()
	ev := New(RoundSettled, "a", "r1", 7, map[string]int{"bets": 2})
	ev.EventID = "9"
	if err := WriteSSE(rec, ev); err != nil {
		t.Fatalf("write: %v", err)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "id: 9\nevent: round_settled\ndata: {") || !strings.HasSuffix(body, "}\n\n") {
		t.Fatalf("body = %q", body)
	}
}
