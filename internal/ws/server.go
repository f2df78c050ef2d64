// Package ws serves a room over a websocket: the room's lifecycle events
// pushed as they happen, and bets submitted on the same connection.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"roundhouse/internal/app/rounds"
	"roundhouse/internal/events"
	"roundhouse/internal/metrics"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = pongWait * 9 / 10
	maxMessageBytes = 64 << 10
)

type Bettor interface {
	PlaceBets(ctx context.Context, req rounds.PlaceBetsRequest) (*rounds.PlaceBetsResult, error)
}

type Server struct {
	hub      *events.Hub
	bettor   Bettor
	upgrader websocket.Upgrader
}

type client struct {
	conn   *websocket.Conn
	roomID string
	send   chan []byte
	done   chan struct{}
}

// NewServer accepts upgrades from allowedOrigins, the same list the HTTP
// CORS policy uses. "*" allows any origin; an empty list allows only
// same-host pages.
func NewServer(hub *events.Hub, bettor Bettor, allowedOrigins []string) *Server {
	return &Server{
		hub:      hub,
		bettor:   bettor,
		upgrader: websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		o = strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/"))
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		if o != "" {
			set[o] = true
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			// not a browser
			return true
		}
		if set[strings.ToLower(origin)] {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}

// ServeRoom upgrades the request and streams roomID. The last_event_id query
// parameter replays buffered events the client missed.
func (s *Server) ServeRoom(w http.ResponseWriter, r *http.Request, roomID string) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	metrics.WSConnections.Inc()
	defer metrics.WSConnections.Dec()

	c := &client{conn: conn, roomID: roomID, send: make(chan []byte, 16), done: make(chan struct{})}
	buf := s.hub.Buffer(roomID)
	ch := buf.Subscribe()
	defer buf.Unsubscribe(ch)

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(HelloMessage{Type: TypeHello, ProtocolVersion: ProtocolVersion, RoomID: roomID}); err != nil {
		_ = conn.Close()
		return
	}
	for _, ev := range buf.ReplayAfter(r.URL.Query().Get("last_event_id")) {
		if err := conn.WriteJSON(EventMessage{Type: TypeEvent, Event: ev}); err != nil {
			_ = conn.Close()
			return
		}
	}

	go s.writeLoop(c, ch)
	s.readLoop(r.Context(), c)
}

func (s *Server) readLoop(ctx context.Context, c *client) {
	defer func() {
		close(c.done)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var base struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &base); err != nil {
			c.reply(ErrorMessage{Type: TypeError, Error: "invalid_json"})
			continue
		}
		switch base.Type {
		case TypeBet:
			var bet BetMessage
			if err := json.Unmarshal(msg, &bet); err != nil {
				c.reply(ErrorMessage{Type: TypeError, Error: "invalid_json"})
				continue
			}
			c.reply(s.placeBets(ctx, c.roomID, bet))
		case TypePing:
			c.reply(map[string]any{"type": TypePong, "server_ts": time.Now().UnixMilli()})
		default:
			c.reply(ErrorMessage{Type: TypeError, Error: "unknown_type"})
		}
	}
}

func (s *Server) placeBets(ctx context.Context, roomID string, m BetMessage) BetResult {
	res, err := s.bettor.PlaceBets(ctx, rounds.PlaceBetsRequest{
		RoomID:  roomID,
		RoundID: m.RoundID,
		UserID:  m.UserID,
		Bets:    m.Bets,
	})
	if err != nil {
		return BetResult{Type: TypeBetResult, RequestID: m.RequestID, Error: rounds.Code(err)}
	}
	return BetResult{
		Type:           TypeBetResult,
		RequestID:      m.RequestID,
		Ok:             true,
		RoundID:        res.RoundID,
		BetIDs:         res.BetIDs,
		BalanceAfterCC: res.BalanceAfterCC,
	}
}

func (s *Server) writeLoop(c *client, evs <-chan events.Event) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		var err error
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			err = c.write(websocket.TextMessage, msg)
		case ev, ok := <-evs:
			if !ok {
				_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			var msg []byte
			msg, err = json.Marshal(EventMessage{Type: TypeEvent, Event: ev})
			if err == nil {
				err = c.write(websocket.TextMessage, msg)
			}
		case <-ticker.C:
			err = c.write(websocket.PingMessage, nil)
		}
		if err != nil {
			return
		}
	}
}

func (c *client) write(kind int, msg []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(kind, msg)
}

// reply queues msg for the writer. A client that stops reading loses
// replies instead of stalling its read loop.
func (c *client) reply(msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- b:
	default:
		log.Warn().Str("room_id", c.roomID).Msg("ws send queue full, reply dropped")
	}
}
