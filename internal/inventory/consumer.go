package inventory

import (
	"context"
	kafkax "github.com/harishnarayan-coder/pizza-orders/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Deduper records processed event ids; MarkSeen returns false for repeats.
type Deduper interface {
	MarkSeen(ctx context.Context, eventID string) (bool, error)
}

// Consumer runs a low-stock scan for every order event read from Kafka.
type Consumer struct {
	Monitor   Scanner
	Dedup     Deduper // optional
	EventType string
	Log       *zap.Logger
}

// HandleOrderPlaced is installed as the kafka consumer handler.
func (c *Consumer) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}

	env, err := kafkax.DecodeEnvelope(m.Value)
	if err != nil {
		// poison message: commit and move on
		log.Warn("skipping undecodable event", zap.Int64("offset", m.Offset), zap.Error(err))
		return nil
	}
	if env.EventType != c.EventType {
		return nil
	}

	if c.Dedup != nil {
		first, err := c.Dedup.MarkSeen(ctx, env.EventID)
		if err != nil {
			log.Warn("dedup unavailable, processing anyway", zap.String("event_id", env.EventID), zap.Error(err))
		} else if !first {
			return nil
		}
	}

	log.Debug("low stock scan requested",
		zap.String("event_id", env.EventID), zap.String("order_id", env.CorrelationID))
	c.Monitor.ScanAndNotify(ctx)
	return nil
}
