package feed

import (
	"context"
	"encoding/json"
	"time"

	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
	"github.com/matyusmilan/xm-forex/pkg/config"
	"github.com/matyusmilan/xm-forex/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// tickPayload is the JSON shape read from the tick topic.
type tickPayload struct {
	Pair      string    `json:"pair"`
	Bid       float64   `json:"bid"`
	Ask       float64   `json:"ask"`
	Timestamp time.Time `json:"timestamp"`
}

// KafkaSource consumes external ticks from the configured topic and
// forwards them to the handler. Malformed payloads are logged and
// skipped.
type KafkaSource struct {
	kafkaReader *kafka.Reader
	handler     Handler
	logger      logger.Interface
}

// NewKafkaSource creates a consumer over the tick topic.
func NewKafkaSource(cfg config.KafkaConfig, handler Handler, logger logger.Interface) *KafkaSource {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.TickTopic,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return &KafkaSource{
		kafkaReader: kafkaReader,
		handler:     handler,
		logger:      logger,
	}
}

// Run consumes ticks until the context is cancelled.
func (s *KafkaSource) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Kafka feed started", logger.Field{
		Key:   "action",
		Value: "kafka_feed_start",
	})
	defer s.kafkaReader.Close()

	for {
		msg, err := s.kafkaReader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.logger.InfoContext(ctx, "Kafka feed stopped", logger.Field{
					Key:   "action",
					Value: "kafka_feed_stop",
				})
				return nil
			}
			s.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "fetch_tick",
			})
			continue
		}

		var payload tickPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			s.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "unmarshal_tick",
			})
		} else {
			if payload.Timestamp.IsZero() {
				payload.Timestamp = time.Now().UTC()
			}
			s.handler.Handle(ctx, quotev1.Quote{
				Pair:      payload.Pair,
				Bid:       payload.Bid,
				Ask:       payload.Ask,
				Timestamp: payload.Timestamp,
			})
		}

		if err := s.kafkaReader.CommitMessages(ctx, msg); err != nil {
			s.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "commit_tick",
			})
		}
	}
}
