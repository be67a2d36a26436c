package orders

import (
	"context"
	kafkax "github.com/harishnarayan-coder/pizza-orders/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
)

type publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// EventTrigger hands the low-stock check to another process by publishing
// an OrderPlaced event. Publish is non-blocking.
type EventTrigger struct {
	Producer publisher
	Service  string
}

func (t *EventTrigger) Trigger(ctx context.Context, o *Order) {
	traceID, _ := ctx.Value(traceIDKey{}).(string)
	env := kafkax.NewEnvelope(EventOrderPlaced, t.Service, traceID, o.ID, OrderPlacedPayload{
		OrderID:     o.ID,
		UserID:      o.UserID,
		Ingredients: o.Items.Flatten(),
		TotalPrice:  o.TotalPrice,
	})
	t.Producer.Publish(PartitionKey(o.ID), env.Bytes(), env.Headers()...)
}

type traceIDKey struct{}

// WithTraceID attaches the request id carried into published events.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}
