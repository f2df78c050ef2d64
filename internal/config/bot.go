package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type BotConfig struct {
	APIURL string        `env:"API_URL" envDefault:"http://localhost:8080"`
	RoomID string        `env:"ROOM_ID" envDefault:"roulette-r30"`
	UserID string        `env:"USER_ID"`
	BetCC  int64         `env:"BOT_BET_CC" envDefault:"10"`
	Poll   time.Duration `env:"BOT_POLL" envDefault:"2s"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
