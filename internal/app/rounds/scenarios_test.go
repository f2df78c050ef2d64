package rounds

import (
	"testing"
	"time"

	"roundhouse/internal/events"
	"roundhouse/internal/game"
	"roundhouse/internal/game/baccarat"
	"roundhouse/internal/game/lottery"
	"roundhouse/internal/game/sicbo"
	"roundhouse/internal/store"
	"roundhouse/internal/testutil"

	"github.com/shopspring/decimal"
)

func TestBaccaratPlayerWinOpensNextRound(t *testing.T) {
	e := newEnv(t)
	room := testutil.MustRoom(t, e.st, "bac-r60", game.Baccarat, 60, 15)
	user := testutil.MustUser(t, e.st, "a", 1000)

	st := e.state(t, room.ID)
	if st.Phase != game.PhaseBetting || st.Seq != 1 || st.SecondsLeft != 60 {
		t.Fatalf("initial state = %+v", st)
	}
	shoe := baccarat.StackedShoe(
		baccarat.Card{Rank: 3, Suit: baccarat.Hearts}, baccarat.Card{Rank: 2, Suit: baccarat.Diamonds},
		baccarat.Card{Rank: 4, Suit: baccarat.Spades}, baccarat.Card{Rank: 2, Suit: baccarat.Clubs},
		baccarat.Card{Rank: baccarat.King, Suit: baccarat.Hearts},
	)
	e.preset(t, st.RoundID, baccarat.Play(shoe))

	e.clk.Add(10 * time.Second)
	res := e.bet(t, room.ID, st.RoundID, user, BetInput{Kind: "player", AmountCC: 100})
	if res.BalanceAfterCC != 900 || len(res.BetIDs) != 1 {
		t.Fatalf("bet result = %+v", res)
	}

	e.clk.Add(55 * time.Second)
	locked := e.state(t, room.ID)
	if locked.Phase != game.PhaseRevealing || locked.SecondsLeft != 10 || locked.Summary != "PLAYER 7-4" {
		t.Fatalf("locked state = %+v", locked)
	}

	e.clk.Add(15 * time.Second)
	next := e.state(t, room.ID)
	if next.RoundID == st.RoundID || next.Seq != 2 || next.Phase != game.PhaseBetting {
		t.Fatalf("next state = %+v", next)
	}
	if got := e.wallet(t, user); got != 1100 {
		t.Fatalf("wallet = %d, want 1100", got)
	}
	if len(next.RecentOutcomes) != 1 || next.RecentOutcomes[0].Summary != "PLAYER 7-4" {
		t.Fatalf("recent = %+v", next.RecentOutcomes)
	}
	bets := e.bets(t, st.RoundID)
	if bets[0].Status != store.BetWon || bets[0].PayoutCC != 200 {
		t.Fatalf("bet = %+v", bets[0])
	}

	var kinds []string
	for _, ev := range e.hub.Buffer(room.ID).ReplayAfter("") {
		kinds = append(kinds, ev.Event)
	}
	want := []string{events.RoundOpened, events.BetPlaced, events.RoundLocked, events.RoundSettled, events.RoundOpened}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("events = %v, want %v", kinds, want)
		}
	}
}

func TestSicBoBigWinsOddLoses(t *testing.T) {
	e := newEnv(t)
	room := testutil.MustRoom(t, e.st, "sicbo-r30", game.SicBo, 30, 10)
	user := testutil.MustUser(t, e.st, "b", 1000)

	st := e.state(t, room.ID)
	e.preset(t, st.RoundID, sicbo.NewOutcome(4, 5, 3))
	e.bet(t, room.ID, st.RoundID, user,
		BetInput{Kind: sicbo.BetBig, AmountCC: 100},
		BetInput{Kind: sicbo.BetOdd, AmountCC: 50},
	)
	report, err := e.svc.Settle(e.ctx, room.ID)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if report.CreditedCC != 200 || report.Bets != 2 || report.Next == nil || report.Next.Seq != 2 {
		t.Fatalf("report = %+v", report)
	}
	if got := e.wallet(t, user); got != 1050 {
		t.Fatalf("wallet = %d, want 1050", got)
	}
	for _, b := range e.bets(t, st.RoundID) {
		switch b.Kind {
		case sicbo.BetBig:
			if b.Status != store.BetWon || b.PayoutCC != 200 {
				t.Fatalf("BIG bet = %+v", b)
			}
		case sicbo.BetOdd:
			if b.Status != store.BetLost || b.PayoutCC != 0 || e.payouts(t, b.ID) != 1 {
				t.Fatalf("ODD bet = %+v", b)
			}
		}
	}
}

func TestLotteryJackpotAndPoolCarry(t *testing.T) {
	e := newEnv(t)
	room := testutil.MustRoom(t, e.st, "lotto-d1", game.Lottery, 60, 10)
	user := testutil.MustUser(t, e.st, "c", 5000)
	rate := decimal.RequireFromString("0.1")
	if _, err := e.svc.Configure(e.ctx, room.ID, ConfigUpdate{PoolRate: &rate}); err != nil {
		t.Fatalf("configure: %v", err)
	}
	drawn := lottery.Outcome{Numbers: []int{3, 11, 19, 27, 34, 41}, Special: 7}

	first := e.state(t, room.ID)
	e.preset(t, first.RoundID, drawn)
	e.bet(t, room.ID, first.RoundID, user, BetInput{Kind: lottery.BetSpecialEven, AmountCC: 1000})
	if _, err := e.svc.Settle(e.ctx, room.ID); err != nil {
		t.Fatalf("settle first: %v", err)
	}

	second := e.state(t, room.ID)
	if second.PoolCC != 100 {
		t.Fatalf("carried pool = %d, want 100", second.PoolCC)
	}
	e.preset(t, second.RoundID, drawn)
	e.bet(t, room.ID, second.RoundID, user,
		BetInput{Kind: lottery.BetPicks, Numbers: []int{41, 3, 27, 19, 11, 34}, AmountCC: 10},
		BetInput{Kind: lottery.BetSpecialOdd, AmountCC: 20},
	)
	report, err := e.svc.Settle(e.ctx, room.ID)
	if err != nil {
		t.Fatalf("settle second: %v", err)
	}
	// 10 at 50000 net, 20 at 0.95 net
	if report.CreditedCC != 500010+39 {
		t.Fatalf("credited = %d", report.CreditedCC)
	}
	if report.Round.PoolCC != 103 || report.Round.JackpotPaidCC != 500010 {
		t.Fatalf("settled round = %+v", report.Round)
	}
	if report.Next == nil || report.Next.PoolCC != 0 {
		t.Fatalf("next round = %+v", report.Next)
	}
	if got := e.wallet(t, user); got != 5000-1000-30+500049 {
		t.Fatalf("wallet = %d", got)
	}
	for _, b := range e.bets(t, second.RoundID) {
		if b.Kind == lottery.BetPicks && !b.Jackpot {
			t.Fatalf("picks bet should be flagged jackpot: %+v", b)
		}
	}
}

func TestTiePushesBankerStake(t *testing.T) {
	e := newEnv(t)
	room := testutil.MustRoom(t, e.st, "bac-tie", game.Baccarat, 60, 15)
	user := testutil.MustUser(t, e.st, "d", 1000)

	st := e.state(t, room.ID)
	e.preset(t, st.RoundID, baccarat.Outcome{Winner: baccarat.Tie, PlayerTotal: 6, BankerTotal: 6})
	e.bet(t, room.ID, st.RoundID, user,
		BetInput{Kind: baccarat.BetBanker, AmountCC: 100},
		BetInput{Kind: baccarat.BetTie, AmountCC: 10},
	)
	if _, err := e.svc.Settle(e.ctx, room.ID); err != nil {
		t.Fatalf("settle: %v", err)
	}
	// banker pushed (100), tie paid 10 * 9
	if got := e.wallet(t, user); got != 1000-110+100+90 {
		t.Fatalf("wallet = %d", got)
	}
	for _, b := range e.bets(t, st.RoundID) {
		if b.Kind == baccarat.BetBanker && b.Status != store.BetPush {
			t.Fatalf("banker bet = %+v", b)
		}
	}
}
