package ws

import (
	"roundhouse/internal/app/rounds"
	"roundhouse/internal/events"
)

const ProtocolVersion = "1.0"

// Client to server.
const (
	TypeBet  = "bet"
	TypePing = "ping"
)

// Server to client.
const (
	TypeHello     = "hello"
	TypeEvent     = "event"
	TypeBetResult = "bet_result"
	TypePong      = "pong"
	TypeError     = "error"
)

type BetMessage struct {
	Type      string            `json:"type"`
	RequestID string            `json:"request_id,omitempty"`
	RoundID   string            `json:"round_id"`
	UserID    string            `json:"user_id"`
	Bets      []rounds.BetInput `json:"bets"`
}

type HelloMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RoomID          string `json:"room_id"`
}

type EventMessage struct {
	Type  string       `json:"type"`
	Event events.Event `json:"event"`
}

type BetResult struct {
	Type           string   `json:"type"`
	RequestID      string   `json:"request_id,omitempty"`
	Ok             bool     `json:"ok"`
	Error          string   `json:"error,omitempty"`
	RoundID        string   `json:"round_id,omitempty"`
	BetIDs         []string `json:"bet_ids,omitempty"`
	BalanceAfterCC int64    `json:"balance_after_cc,omitempty"`
}

type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
