package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/order"
)

const (
	TypeOrderSimulated = "OrderSimulated"
	DefaultTopic       = "orders.simulated.v1"
)

// Publisher emits envelopes to the event feed.
type Publisher interface {
	Publish(ctx context.Context, key string, evt Envelope) error
	Close() error
}

type Producer struct {
	w     *kafka.Writer
	topic string
	now   func() time.Time
}

// NewProducer writes to topic on brokers. Messages are partitioned by key so
// one order's events stay ordered.
func NewProducer(brokers []string, topic string) *Producer {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Producer{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
		topic: topic,
		now:   time.Now,
	}
}

func (p *Producer) Close() error { return p.w.Close() }

// Envelope is the event schema. Keep it small and stable.
type Envelope struct {
	EventID      string    `json:"eventId"`
	EventType    string    `json:"eventType"`
	EventVersion string    `json:"eventVersion"`
	OccurredAt   time.Time `json:"occurredAt"`
	AggregateID  string    `json:"aggregateId"`
	Data         any       `json:"data"`
}

// Publish writes a single message. Missing EventID and OccurredAt are filled in.
func (p *Producer) Publish(ctx context.Context, key string, evt Envelope) error {
	stamp(&evt, p.now)
	val, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode %s: %w", evt.EventType, err)
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(key),
		Value: val,
	})
}

// Noop drops every event. Used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, Envelope) error { return nil }
func (Noop) Close() error                                    { return nil }

func stamp(evt *Envelope, now func() time.Time) {
	if evt.EventID == "" {
		evt.EventID = uuid.NewString()
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = now().UTC()
	}
}

// OrderSimulatedData is the audit view of a synthesized order.
type OrderSimulatedData struct {
	OrderID         string `json:"orderId"`
	PaymentIntentID string `json:"paymentIntentId"`
	StoreSlug       string `json:"storeSlug"`
	ProductID       string `json:"productId"`
	UserID          string `json:"userId"`
	PaymentMethod   string `json:"paymentMethod"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Outcome         string `json:"outcome"`
}

// OrderSimulated builds the envelope for resp, keyed by order id.
func OrderSimulated(resp *order.Response) Envelope {
	return Envelope{
		EventType:    TypeOrderSimulated,
		EventVersion: "v1",
		AggregateID:  resp.OrderID,
		Data: OrderSimulatedData{
			OrderID:         resp.OrderID,
			PaymentIntentID: resp.PaymentIntentID,
			StoreSlug:       resp.Store.Slug,
			ProductID:       resp.Product.ID,
			UserID:          resp.UserID,
			PaymentMethod:   string(resp.PaymentMethod),
			Amount:          resp.Amount,
			Currency:        resp.Currency,
			Outcome:         string(resp.WebhookPayload.Body.Status),
		},
	}
}
