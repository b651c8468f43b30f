package publisher

import (
	"context"
	"encoding/json"
	"sync"

	busv1 "github.com/matyusmilan/xm-forex/internal/domain/marketbus/v1"
	orderv1 "github.com/matyusmilan/xm-forex/internal/domain/order/v1"
	"github.com/matyusmilan/xm-forex/pkg/config"
	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/matyusmilan/xm-forex/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// kafkaWriter is the slice of kafka.Writer the publisher depends on.
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// FillPublisher forwards fill events from the bus to the fill topic.
// Delivery is best effort: failed writes are logged and dropped, never
// propagated back to the matching path.
type FillPublisher struct {
	kafkaWriter kafkaWriter
	bus         busv1.Bus
	logger      logger.Interface

	subscription busv1.Subscription
	wg           sync.WaitGroup
}

// NewFillPublisher creates a publisher over the configured fill topic.
func NewFillPublisher(cfg config.KafkaConfig, bus busv1.Bus, logger logger.Interface) *FillPublisher {
	return &FillPublisher{
		kafkaWriter: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.FillTopic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
		bus:    bus,
		logger: logger,
	}
}

// Start subscribes to all order events and begins forwarding fills.
func (p *FillPublisher) Start(ctx context.Context) error {
	subscription, err := p.bus.Subscribe(busv1.AllOrders())
	if err != nil {
		return errors.TracerFromError(err)
	}
	p.subscription = subscription

	p.wg.Add(1)
	go p.run(ctx, subscription)

	p.logger.InfoContext(ctx, "Fill publisher started", logger.Field{
		Key:   "action",
		Value: "fill_publisher_start",
	})
	return nil
}

// Stop detaches from the bus, waits for the forward loop and closes
// the writer.
func (p *FillPublisher) Stop() error {
	if p.subscription != nil {
		p.bus.Unsubscribe(p.subscription.ID())
	}
	p.wg.Wait()
	return p.kafkaWriter.Close()
}

func (p *FillPublisher) run(ctx context.Context, subscription busv1.Subscription) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-subscription.Events():
			if !ok {
				if err := subscription.Err(); err != nil {
					p.logger.Error(err, logger.Field{
						Key:   "action",
						Value: "fill_publisher_detached",
					})
				}
				return
			}
			// Only transitions carrying a fill price go to the topic.
			if msg.OrderEvent == nil || msg.OrderEvent.LastFillPrice == nil {
				continue
			}
			p.publish(ctx, msg.OrderEvent)
		}
	}
}

func (p *FillPublisher) publish(ctx context.Context, event *orderv1.Event) {
	value, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "marshal_fill",
		})
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: value,
		Time:  event.Timestamp,
	}
	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "publish_fill"},
			logger.Field{Key: "order_id", Value: event.OrderID},
		)
	}
}
