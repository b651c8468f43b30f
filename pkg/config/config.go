package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/matyusmilan/xm-forex/pkg/postgresql"
	"github.com/matyusmilan/xm-forex/pkg/questdb"
	"github.com/matyusmilan/xm-forex/pkg/redis"
)

// Config represents the application configuration.
type Config struct {
	App      AppConfig      `envPrefix:"APP_"`
	Venue    VenueConfig    `envPrefix:"VENUE_"`
	Feed     FeedConfig     `envPrefix:"FEED_"`
	Candle   CandleConfig   `envPrefix:"CANDLE_"`
	Kafka    KafkaConfig    `envPrefix:"KAFKA_"`
	Postgres PostgresConfig `envPrefix:"POSTGRES_"`
	QuestDB  QuestDBConfig  `envPrefix:"QUESTDB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name            string        `env:"NAME" envDefault:"xm-forex"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	Port            int           `env:"PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// VenueConfig holds the trading venue behavior knobs.
type VenueConfig struct {
	// Pairs lists supported currency pairs as SYMBOL:MID:SPREAD entries.
	Pairs []string `env:"PAIRS" envSeparator:"," envDefault:"EURUSD:1.1000:0.0004,GBPUSD:1.2700:0.0006,USDJPY:155.00:0.03"`
	// MaxFillPerTick caps the quantity filled per order per tick. 0 disables the cap.
	MaxFillPerTick float64 `env:"MAX_FILL_PER_TICK" envDefault:"0"`
	// QueueCapacity bounds each subscriber's delivery queue.
	QueueCapacity int `env:"QUEUE_CAPACITY" envDefault:"64"`
	// TickBuffer bounds each pair's inbound quote channel.
	TickBuffer int `env:"TICK_BUFFER" envDefault:"256"`
	// LatencyMin/LatencyMax add an artificial uniform delay to REST requests,
	// mimicking real venue processing time. Both zero disables the delay.
	LatencyMin time.Duration `env:"LATENCY_MIN" envDefault:"0s"`
	LatencyMax time.Duration `env:"LATENCY_MAX" envDefault:"0s"`
}

// PairSpec is one supported currency pair with its synthetic seed prices.
type PairSpec struct {
	Symbol string
	Mid    float64
	Spread float64
}

// PairSpecs parses the configured pair entries.
func (c VenueConfig) PairSpecs() ([]PairSpec, error) {
	specs := make([]PairSpec, 0, len(c.Pairs))
	for _, raw := range c.Pairs {
		parts := strings.Split(strings.TrimSpace(raw), ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid pair entry %q, want SYMBOL:MID:SPREAD", raw)
		}

		mid, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid mid price in pair entry %q: %w", raw, err)
		}
		spread, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid spread in pair entry %q: %w", raw, err)
		}
		if parts[0] == "" || mid <= 0 || spread <= 0 {
			return nil, fmt.Errorf("invalid pair entry %q", raw)
		}

		specs = append(specs, PairSpec{
			Symbol: parts[0],
			Mid:    mid,
			Spread: spread,
		})
	}
	return specs, nil
}

// Feed modes selectable via FEED_MODE.
const (
	FeedModeSynthetic = "synthetic"
	FeedModeKafka     = "kafka"
)

// FeedConfig selects and tunes the price feed source.
type FeedConfig struct {
	// Mode is "synthetic" (in-process random walk) or "kafka" (external ticks).
	Mode     string        `env:"MODE" envDefault:"synthetic"`
	Interval time.Duration `env:"INTERVAL" envDefault:"500ms"`
	// Seed fixes the synthetic walk; 0 seeds from the clock.
	Seed int64 `env:"SEED" envDefault:"0"`
}

// CandleConfig tunes the in-memory candle aggregator.
type CandleConfig struct {
	Intervals []string `env:"INTERVALS" envSeparator:"," envDefault:"1m,5m,15m,1h"`
	// History bounds the completed candles kept per pair and interval.
	History int `env:"HISTORY" envDefault:"500"`
}

// KafkaConfig holds the Kafka topics shared by the tick intake and the fill outlet.
type KafkaConfig struct {
	Brokers       []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	TickTopic     string   `env:"TICK_TOPIC" envDefault:"forex.ticks"`
	FillTopic     string   `env:"FILL_TOPIC" envDefault:"forex.fills"`
	ConsumerGroup string   `env:"CONSUMER_GROUP" envDefault:"xm-forex"`
	PublishFills  bool     `env:"PUBLISH_FILLS" envDefault:"false"`
}

// PostgresConfig wires the optional order archive.
type PostgresConfig struct {
	Enabled bool              `env:"ENABLED" envDefault:"false"`
	Client  postgresql.Config `envPrefix:""`
}

// QuestDBConfig wires the optional tick history sink.
type QuestDBConfig struct {
	Enabled bool           `env:"ENABLED" envDefault:"false"`
	Client  questdb.Config `envPrefix:""`
	// BatchSize flushes the tick buffer once this many ticks accumulate.
	BatchSize int `env:"BATCH_SIZE" envDefault:"100"`
	// FlushInterval flushes a partial batch after this long.
	FlushInterval time.Duration `env:"FLUSH_INTERVAL" envDefault:"1s"`
}

// RedisConfig wires the optional quote cache.
type RedisConfig struct {
	Enabled bool         `env:"ENABLED" envDefault:"false"`
	Client  redis.Config `envPrefix:""`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
