package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/segmentio/kafka-go"
)

// MessageReader is the subset of *kafka.Reader the consumer loop needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewReader joins group on topic.
func NewReader(brokers []string, topic, group string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  group,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
}

// Consume feeds every decodable envelope to handle and commits it. Bad JSON is
// logged and committed so it does not block the partition. Returns nil when
// ctx is cancelled.
func Consume(ctx context.Context, reader MessageReader, topic string, handle func(context.Context, Envelope) error, logger *slog.Logger) error {
	logger = logger.With(slog.String("topic", topic))
	logger.Info("consumer started")
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("[%s] read error: %w", topic, err)
		}

		var evt Envelope
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			logger.Warn("bad JSON", slog.Any("error", err), slog.String("payload", string(msg.Value)))
		} else if err := handle(ctx, evt); err != nil {
			logger.Error("handle event", slog.String("event_type", evt.EventType), slog.Any("error", err))
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.Warn("commit error", slog.Any("error", err))
		}
	}
}

// Stats summarises simulated orders seen on the feed.
type Stats struct {
	Total     int            `json:"total"`
	ByOutcome map[string]int `json:"byOutcome"`
	ByStore   map[string]int `json:"byStore"`
	LastOrder string         `json:"lastOrderId,omitempty"`
}

// Ledger tallies OrderSimulated events. It is both a Publisher, for runs
// without Kafka, and a Consume handler.
type Ledger struct {
	mu    sync.Mutex
	stats Stats
}

func NewLedger() *Ledger {
	return &Ledger{stats: Stats{ByOutcome: map[string]int{}, ByStore: map[string]int{}}}
}

// Record counts evt when it is an OrderSimulated event.
func (l *Ledger) Record(_ context.Context, evt Envelope) error {
	if evt.EventType != TypeOrderSimulated {
		return nil
	}
	data, err := decodeOrderSimulated(evt.Data)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.stats.Total++
	l.stats.ByOutcome[data.Outcome]++
	l.stats.ByStore[data.StoreSlug]++
	l.stats.LastOrder = data.OrderID
	return nil
}

func (l *Ledger) Publish(ctx context.Context, _ string, evt Envelope) error {
	return l.Record(ctx, evt)
}

func (l *Ledger) Close() error { return nil }

// Snapshot returns a copy of the current counts.
func (l *Ledger) Snapshot() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.stats
	out.ByOutcome = maps.Clone(l.stats.ByOutcome)
	out.ByStore = maps.Clone(l.stats.ByStore)
	return out
}

// decodeOrderSimulated accepts the typed payload or the generic map produced
// by decoding an envelope off the wire.
func decodeOrderSimulated(v any) (OrderSimulatedData, error) {
	if d, ok := v.(OrderSimulatedData); ok {
		return d, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return OrderSimulatedData{}, fmt.Errorf("re-encode event data: %w", err)
	}
	var d OrderSimulatedData
	if err := json.Unmarshal(raw, &d); err != nil {
		return OrderSimulatedData{}, fmt.Errorf("decode %s data: %w", TypeOrderSimulated, err)
	}
	return d, nil
}
