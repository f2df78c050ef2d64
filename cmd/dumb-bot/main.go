package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"roundhouse/internal/config"
	"roundhouse/internal/logging"

	"github.com/rs/zerolog/log"
)

type roomState struct {
	RoomID   string `json:"room_id"`
	Game     string `json:"game"`
	Phase    string `json:"phase"`
	RoundID  string `json:"round_id"`
	Seq      int    `json:"seq"`
	MinBetCC int64  `json:"min_bet_cc"`
	MaxBetCC int64  `json:"max_bet_cc"`
}

type bot struct {
	cfg    config.BotConfig
	client *http.Client
	rnd    *rand.Rand
	placed map[string]bool
}

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		panic(err)
	}
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(logCfg); err != nil {
		panic(err)
	}
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}
	if cfg.UserID == "" {
		log.Fatal().Msg("USER_ID is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := &bot{
		cfg:    cfg,
		client: &http.Client{Timeout: 5 * time.Second},
		rnd:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		placed: make(map[string]bool),
	}
	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()
	for {
		b.tick(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// tick places one bet per round while the room takes bets.
func (b *bot) tick(ctx context.Context) {
	var st roomState
	if err := b.call(ctx, http.MethodGet, "/api/public/rooms/"+b.cfg.RoomID+"/state", nil, &st); err != nil {
		log.Warn().Err(err).Str("room_id", b.cfg.RoomID).Msg("state failed")
		return
	}
	if st.Phase != "BETTING" || st.RoundID == "" || b.placed[st.RoundID] {
		return
	}
	b.placed = map[string]bool{st.RoundID: true}

	bet := pickBet(b.rnd, st.Game)
	bet.AmountCC = clamp(b.cfg.BetCC, st.MinBetCC, st.MaxBetCC)
	body := map[string]any{"round_id": st.RoundID, "user_id": b.cfg.UserID, "bets": []betInput{bet}}
	var res struct {
		BalanceAfterCC int64 `json:"balance_after_cc"`
	}
	if err := b.call(ctx, http.MethodPost, "/api/rooms/"+b.cfg.RoomID+"/bets", body, &res); err != nil {
		log.Warn().Err(err).Str("round_id", st.RoundID).Str("kind", bet.Kind).Msg("bet rejected")
		return
	}
	log.Info().
		Str("round_id", st.RoundID).
		Int("seq", st.Seq).
		Str("kind", bet.Kind).
		Ints("numbers", bet.Numbers).
		Int64("amount_cc", bet.AmountCC).
		Int64("balance_after_cc", res.BalanceAfterCC).
		Msg("bet placed")
}

func (b *bot) call(ctx context.Context, method, path string, in, out any) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(b.cfg.APIURL, "/")+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, e.Error)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if hi > 0 && v > hi {
		return hi
	}
	return v
}
