package httptransport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"roundhouse/internal/app/accounts"
	"roundhouse/internal/app/rounds"
	"roundhouse/internal/ledger"
	"roundhouse/internal/store"

	"github.com/go-chi/chi/v5"
)

type AdminHandlers struct {
	store    *store.Store
	rounds   *rounds.Service
	accounts *accounts.Service
}

func NewAdminHandlers(st *store.Store, rs *rounds.Service, as *accounts.Service) *AdminHandlers {
	return &AdminHandlers{store: st, rounds: rs, accounts: as}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "db": "down"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "up"})
	}
}

// decodeOptional decodes a JSON body into dst, treating an empty body as {}.
func decodeOptional(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (h *AdminHandlers) Start() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			DurationSeconds int `json:"duration_seconds"`
		}
		if err := decodeOptional(r, &body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		view, err := h.rounds.StartRound(r.Context(), chi.URLParam(r, "room_id"), body.DurationSeconds)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(view)
	}
}

func (h *AdminHandlers) Settle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := h.rounds.Settle(r.Context(), chi.URLParam(r, "room_id"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		_ = json.NewEncoder(w).Encode(rep)
	}
}

func (h *AdminHandlers) Configure() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var upd rounds.ConfigUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		room, err := h.rounds.Configure(r.Context(), chi.URLParam(r, "room_id"), upd)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		_ = json.NewEncoder(w).Encode(room)
	}
}

func (h *AdminHandlers) CreateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req accounts.CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		user, err := h.accounts.CreateUser(r.Context(), req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(user)
	}
}

// Reconcile answers 500 with the report attached when the wallet disagrees
// with the ledger.
func (h *AdminHandlers) Reconcile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := h.accounts.Reconcile(r.Context(), chi.URLParam(r, "user_id"))
		if errors.Is(err, ledger.ErrInconsistentState) && rep != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": "inconsistent_state", "report": rep})
			return
		}
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		_ = json.NewEncoder(w).Encode(rep)
	}
}

func (h *AdminHandlers) Ledger() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		q := r.URL.Query()
		f := store.LedgerFilter{
			UserID:  q.Get("user_id"),
			RoundID: q.Get("round_id"),
			RefType: q.Get("ref_type"),
			RefID:   q.Get("ref_id"),
			Limit:   limit,
			Offset:  offset,
		}
		for name, dst := range map[string]**time.Time{"from": &f.From, "to": &f.To} {
			v := q.Get(name)
			if v == "" {
				continue
			}
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				WriteHTTPError(w, http.StatusBadRequest, "validation")
				return
			}
			*dst = &t
		}
		res, err := h.accounts.Ledger(r.Context(), f)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}
