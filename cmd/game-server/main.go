package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"roundhouse/internal/app/accounts"
	"roundhouse/internal/app/rounds"
	"roundhouse/internal/config"
	"roundhouse/internal/events"
	"roundhouse/internal/game/catalog"
	"roundhouse/internal/ledger"
	"roundhouse/internal/logging"
	"roundhouse/internal/resultpush"
	"roundhouse/internal/store"
	httptransport "roundhouse/internal/transport/http"

	"github.com/rs/zerolog/log"
)

const eventBufferSize = 500

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		panic(err)
	}
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(cfg.Log); err != nil {
		panic(err)
	}
	defer logging.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.New(cfg.Server.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}

	loc, err := cfg.Server.Location()
	if err != nil {
		log.Fatal().Err(err).Str("tz", cfg.Server.RoundTimezone).Msg("bad round timezone")
	}

	hub := events.NewHub(eventBufferSize)
	defer hub.Close()
	pub, closePub := publishers(ctx, cfg.Server, hub)
	defer closePub()

	led := ledger.New(st)
	roundSvc := rounds.NewService(st, led, catalog.New(), rounds.Options{
		Location:       loc,
		ClaimLease:     cfg.Server.ClaimLease,
		RecentOutcomes: cfg.Server.RecentOutcomes,
		Publisher:      pub,
	})
	if err := roundSvc.SeedRooms(ctx, cfg.Rooms); err != nil {
		log.Fatal().Err(err).Msg("seed rooms failed")
	}
	roundSvc.StartPoller(ctx, cfg.Server.PollInterval)
	accountSvc := accounts.NewService(st, led, cfg.Server.StartingBalanceCC)

	r := httptransport.NewRouter(httptransport.Deps{
		Store:    st,
		Rounds:   roundSvc,
		Accounts: accountSvc,
		Hub:      hub,
	}, cfg.Server)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.Server.HTTPAddr).Int("rooms", len(cfg.Rooms)).Msg("http listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

// publishers combines the in-process hub with the Redis and Kafka fan-out
// that the config enables.
func publishers(ctx context.Context, cfg config.ServerConfig, hub *events.Hub) (events.Publisher, func()) {
	pubs := events.Multi{hub}
	var closers []func()
	if cfg.RedisAddr != "" {
		client, err := events.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis connect failed")
		}
		rp := events.NewAsync("redis", events.NewRedisPublisher(client, cfg.RedisChannelPrefix), cfg.EventQueueSize, cfg.EventPublishTimeout)
		pubs = append(pubs, rp)
		closers = append(closers, func() {
			rp.Close()
			_ = client.Close()
		})
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis fan-out enabled")
	}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		ap := events.NewAsync("kafka", kp, cfg.EventQueueSize, cfg.EventPublishTimeout)
		pubs = append(pubs, ap)
		closers = append(closers, func() {
			ap.Close()
			_ = kp.Close()
		})
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("kafka fan-out enabled")
	}
	pushCfg, err := resultpush.ConfigFromServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("push targets invalid")
	}
	if push := resultpush.NewManager(pushCfg); push.Enabled() {
		push.Start(ctx)
		pubs = append(pubs, push)
		closers = append(closers, push.Close)
	}
	return pubs, func() {
		for _, c := range closers {
			c()
		}
	}
}
