package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/target/fleet-alerts/internal/domain/model"
)

// MessageWriter is the subset of *kafka.Writer used by EventWriter.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// NewWriter builds a writer for the events topic. Messages are keyed by device
// so events for one device stay in order on a single partition.
func NewWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		Compression:  kafkago.Snappy,
	}
}

// EventWriter publishes alert lifecycle events to Kafka.
type EventWriter struct {
	w MessageWriter
}

// NewEventWriter wraps a MessageWriter.
func NewEventWriter(w MessageWriter) *EventWriter {
	return &EventWriter{w: w}
}

// Publish writes the event as JSON keyed by device id, with the event type as a header.
func (e *EventWriter) Publish(ctx context.Context, event model.AlertEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal alert event: %w", err)
	}
	msg := kafkago.Message{
		Key:     []byte(event.DeviceID),
		Value:   payload,
		Headers: []kafkago.Header{{Key: "event-type", Value: []byte(event.Type)}},
		Time:    event.At,
	}
	if err := e.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write alert event: %w", err)
	}
	return nil
}

// Close flushes and closes the writer.
func (e *EventWriter) Close() error {
	return e.w.Close()
}
