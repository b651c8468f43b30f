package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/matyusmilan/xm-forex/pkg/config"
	"github.com/segmentio/kafka-go"
)

// Tick is the JSON payload the venue's Kafka feed consumes.
type Tick struct {
	Pair      string    `json:"pair"`
	Bid       float64   `json:"bid"`
	Ask       float64   `json:"ask"`
	Timestamp time.Time `json:"timestamp"`
}

func main() {
	var (
		brokers  = flag.String("brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
		topic    = flag.String("topic", "forex.ticks", "Kafka topic name")
		pairs    = flag.String("pairs", "EURUSD:1.1000:0.0004,GBPUSD:1.2700:0.0006", "Pairs as SYMBOL:MID:SPREAD (comma-separated)")
		interval = flag.Duration("interval", 500*time.Millisecond, "Delay between tick rounds")
		count    = flag.Int("count", 1000, "Number of tick rounds to send")
		seed     = flag.Int64("seed", 0, "Random walk seed (0 = clock)")
	)
	flag.Parse()

	specs, err := config.VenueConfig{Pairs: strings.Split(*pairs, ",")}.PairSpecs()
	if err != nil {
		log.Fatalf("Failed to parse pairs: %v", err)
	}

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewPCG(uint64(s), uint64(s)))

	// Create Kafka writer
	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:        *topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	ctx := context.Background()

	// Each pair walks around its configured mid price.
	mids := make([]float64, len(specs))
	for i, spec := range specs {
		mids[i] = spec.Mid
	}

	log.Printf("Sending ticks to Kafka broker: %s, topic: %s", *brokers, *topic)
	log.Printf("Pairs: %d, interval: %v, rounds: %d", len(specs), *interval, *count)

	sent := 0
	for round := 0; round < *count; round++ {
		now := time.Now().UTC()
		for i, spec := range specs {
			mids[i] += (rng.Float64()*2 - 1) * spec.Spread
			if mids[i] <= spec.Spread {
				mids[i] = spec.Mid
			}

			half := spec.Spread / 2
			tick := Tick{
				Pair:      spec.Symbol,
				Bid:       mids[i] - half,
				Ask:       mids[i] + half,
				Timestamp: now,
			}

			value, err := json.Marshal(tick)
			if err != nil {
				log.Printf("Failed to marshal tick for %s: %v", spec.Symbol, err)
				continue
			}

			msg := kafka.Message{
				Key:   []byte(tick.Pair),
				Value: value,
				Time:  now,
			}
			if err := writer.WriteMessages(ctx, msg); err != nil {
				log.Printf("Failed to send tick for %s: %v", spec.Symbol, err)
				continue
			}
			sent++
		}

		// Log progress every 100 rounds or for the last round
		if (round+1)%100 == 0 || round == *count-1 {
			log.Printf("Sent round %d/%d (%d ticks)", round+1, *count, sent)
		}

		if round < *count-1 {
			time.Sleep(*interval)
		}
	}

	log.Printf("Successfully sent %d ticks over %d rounds", sent, *count)
}
