package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	AdminAPIKey        string   `env:"ADMIN_API_KEY"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	RoomsConfigPath   string        `env:"ROOMS_CONFIG_PATH" envDefault:"rooms.yaml"`
	PollInterval      time.Duration `env:"POLL_INTERVAL" envDefault:"1s"`
	ClaimLease        time.Duration `env:"CLAIM_LEASE" envDefault:"30s"`
	RoundTimezone     string        `env:"ROUND_TIMEZONE" envDefault:"UTC"`
	RecentOutcomes    int           `env:"RECENT_OUTCOMES" envDefault:"20"`
	StartingBalanceCC int64         `env:"STARTING_BALANCE_CC" envDefault:"0"`

	RedisAddr          string   `env:"REDIS_ADDR"`
	RedisChannelPrefix string   `env:"REDIS_CHANNEL_PREFIX" envDefault:"rounds"`
	KafkaBrokers       []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic         string   `env:"KAFKA_TOPIC" envDefault:"round-events"`
	// Redis and Kafka deliveries run off the request path through a bounded
	// queue; each delivery is cut off after EventPublishTimeout.
	EventQueueSize      int           `env:"EVENT_QUEUE_SIZE" envDefault:"1024"`
	EventPublishTimeout time.Duration `env:"EVENT_PUBLISH_TIMEOUT" envDefault:"2s"`

	PushTargetsPath string        `env:"PUSH_TARGETS_PATH"`
	PushTargetsJSON string        `env:"PUSH_TARGETS_JSON"`
	PushWorkers     int           `env:"PUSH_WORKERS" envDefault:"2"`
	PushRetryMax    int           `env:"PUSH_RETRY_MAX" envDefault:"3"`
	PushRetryBase   time.Duration `env:"PUSH_RETRY_BASE" envDefault:"500ms"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}

// Location resolves RoundTimezone, falling back to UTC for an empty value.
func (c ServerConfig) Location() (*time.Location, error) {
	if c.RoundTimezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.RoundTimezone)
}
