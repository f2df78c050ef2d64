package httptransport

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"roundhouse/internal/app/accounts"
	"roundhouse/internal/app/rounds"
	"roundhouse/internal/config"
	"roundhouse/internal/events"
	"roundhouse/internal/mcpserver"
	"roundhouse/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Deps struct {
	Store    *store.Store
	Rounds   *rounds.Service
	Accounts *accounts.Service
	Hub      *events.Hub
}

func NewRouter(d Deps, cfg config.ServerConfig) *chi.Mux {
	mcpSrv := mcpserver.New(d.Rounds, d.Accounts)
	publicHandlers := NewPublicHandlers(d.Store, d.Rounds, d.Accounts, d.Hub, cfg.CORSAllowedOrigins)
	adminHandlers := NewAdminHandlers(d.Store, d.Rounds, d.Accounts)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Last-Event-ID", "X-Admin-Key", "Mcp-Session-Id"},
		ExposedHeaders: []string{"Mcp-Session-Id"},
		MaxAge:         300,
	}))

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())
	r.Handle("/metrics", promhttp.Handler())
	r.With(APILogMiddleware()).Method(http.MethodPost, "/mcp", mcpSrv.Handler())
	r.With(APILogMiddleware()).Method(http.MethodGet, "/mcp", mcpSrv.Handler())
	r.With(APILogMiddleware()).Method(http.MethodDelete, "/mcp", mcpSrv.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Use(BodyCaptureMiddleware(4096))
		r.Use(chimw.SetHeader("Content-Type", "application/json"))
		r.Get("/public/rooms", publicHandlers.Rooms())
		r.Get("/public/rooms/{room_id}/state", publicHandlers.State())
		r.Get("/public/rooms/{room_id}/rounds", publicHandlers.History())
		r.Get("/public/rooms/{room_id}/events", publicHandlers.Events())
		r.Get("/public/rooms/{room_id}/ws", publicHandlers.Socket())

		r.Post("/rooms/{room_id}/bets", publicHandlers.PlaceBets())
		r.Get("/users/{user_id}/balance", publicHandlers.Balance())

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Post("/rooms/{room_id}/start", adminHandlers.Start())
			r.Post("/rooms/{room_id}/settle", adminHandlers.Settle())
			r.Post("/rooms/{room_id}/config", adminHandlers.Configure())
			r.Post("/users", adminHandlers.CreateUser())
			r.Get("/users/{user_id}/reconcile", adminHandlers.Reconcile())
			r.Get("/ledger", adminHandlers.Ledger())
		})
	})
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 32)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
