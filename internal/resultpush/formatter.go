package resultpush

import (
	"fmt"
	"strconv"
	"time"

	"roundhouse/internal/events"
	"roundhouse/internal/resultpush/platforms"
)

const (
	colorOpened  = 0x3498db
	colorLocked  = 0xf1c40f
	colorSettled = 0x2ecc71
	colorBet     = 0x95a5a6
)

// format renders ev for chat. Unknown kinds are not pushed.
func format(ev events.Event) (platforms.Message, bool) {
	data, _ := ev.Data.(map[string]any)
	msg := platforms.Message{
		Timestamp: time.UnixMilli(ev.ServerTS).UTC().Format(time.RFC3339),
		Footer:    "round " + ev.RoundID,
	}
	title := fmt.Sprintf("%s #%d", ev.RoomID, ev.Seq)
	switch ev.Event {
	case events.RoundOpened:
		msg.Title = title + " open for bets"
		msg.Color = colorOpened
		msg.Description = fmt.Sprintf("Betting closes in %ss", str(data, "bet_seconds"))
		msg.Fields = []platforms.Field{{Name: "pool", Value: str(data, "pool_cc"), Inline: true}}
	case events.RoundLocked:
		msg.Title = title + " betting closed"
		msg.Color = colorLocked
		msg.Description = str(data, "summary")
	case events.RoundSettled:
		msg.Title = title + " settled"
		msg.Color = colorSettled
		msg.Description = str(data, "summary")
		msg.Fields = []platforms.Field{
			{Name: "bets", Value: str(data, "bets"), Inline: true},
			{Name: "credited", Value: str(data, "credited_cc"), Inline: true},
		}
		if jp := str(data, "jackpot_paid_cc"); jp != "" && jp != "0" {
			msg.Fields = append(msg.Fields, platforms.Field{Name: "jackpot", Value: jp, Inline: true})
		}
	case events.BetPlaced:
		msg.Title = title + " bet"
		msg.Color = colorBet
		msg.Description = "user " + str(data, "user_id")
	default:
		return platforms.Message{}, false
	}
	if msg.Description == "" {
		msg.Description = "-"
	}
	return msg, true
}

func str(data map[string]any, key string) string {
	switch v := data[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
