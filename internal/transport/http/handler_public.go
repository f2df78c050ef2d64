package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"roundhouse/internal/app/accounts"
	"roundhouse/internal/app/rounds"
	"roundhouse/internal/events"
	"roundhouse/internal/metrics"
	"roundhouse/internal/store"
	"roundhouse/internal/ws"

	"github.com/go-chi/chi/v5"
)

var pingInterval = 15 * time.Second

type PublicHandlers struct {
	store    *store.Store
	rounds   *rounds.Service
	accounts *accounts.Service
	hub      *events.Hub
	sockets  *ws.Server
}

func NewPublicHandlers(st *store.Store, rs *rounds.Service, as *accounts.Service, hub *events.Hub, origins []string) *PublicHandlers {
	return &PublicHandlers{store: st, rounds: rs, accounts: as, hub: hub, sockets: ws.NewServer(hub, rs, origins)}
}

func (h *PublicHandlers) Rooms() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.rounds.Rooms(r.Context(), r.URL.Query().Get("game"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	}
}

func (h *PublicHandlers) State() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := h.rounds.State(r.Context(), chi.URLParam(r, "room_id"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		_ = json.NewEncoder(w).Encode(st)
	}
}

func (h *PublicHandlers) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		items, err := h.rounds.History(r.Context(), chi.URLParam(r, "room_id"), limit, offset)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "limit": limit, "offset": offset})
	}
}

type placeBetsBody struct {
	RoundID string            `json:"round_id"`
	UserID  string            `json:"user_id"`
	Bets    []rounds.BetInput `json:"bets"`
}

func (h *PublicHandlers) PlaceBets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body placeBetsBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		res, err := h.rounds.PlaceBets(r.Context(), rounds.PlaceBetsRequest{
			RoomID:  chi.URLParam(r, "room_id"),
			RoundID: body.RoundID,
			UserID:  body.UserID,
			Bets:    body.Bets,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(res)
	}
}

func (h *PublicHandlers) Balance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bal, err := h.accounts.Balance(r.Context(), chi.URLParam(r, "user_id"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		_ = json.NewEncoder(w).Encode(bal)
	}
}

func (h *PublicHandlers) roomExists(w http.ResponseWriter, r *http.Request, roomID string) bool {
	if _, err := h.store.GetRoom(r.Context(), roomID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteHTTPError(w, http.StatusNotFound, "not_found")
			return false
		}
		writeServiceError(w, r, err)
		return false
	}
	return true
}

// Socket serves the room over a websocket carrying events and bets.
func (h *PublicHandlers) Socket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "room_id")
		if !h.roomExists(w, r, roomID) {
			return
		}
		h.sockets.ServeRoom(w, r, roomID)
	}
}

// Events streams a room's lifecycle events. A Last-Event-ID header replays
// what the room buffer still holds after that id.
func (h *PublicHandlers) Events() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "room_id")
		if !h.roomExists(w, r, roomID) {
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			WriteHTTPError(w, http.StatusInternalServerError, "streaming_unsupported")
			return
		}
		buf := h.hub.Buffer(roomID)

		events.SetSSEHeaders(w)
		metrics.SSEConnections.Inc()
		defer metrics.SSEConnections.Dec()

		for _, ev := range buf.ReplayAfter(r.Header.Get("Last-Event-ID")) {
			if err := events.WriteSSE(w, ev); err != nil {
				return
			}
		}
		flusher.Flush()

		ch := buf.Subscribe()
		defer buf.Unsubscribe(ch)
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				if err := events.WriteSSE(w, ev); err != nil {
					return
				}
				flusher.Flush()
			case <-ticker.C:
				ping := events.New(events.Ping, roomID, "", 0, nil)
				if err := events.WriteSSE(w, ping); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}
