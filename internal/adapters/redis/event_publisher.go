package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/target/fleet-alerts/internal/domain/model"
)

// DefaultEventsChannel is the pub/sub channel lifecycle events are published on.
const DefaultEventsChannel = "fleet-alerts:events"

// EventPublisher publishes lifecycle events as JSON on a Redis pub/sub channel.
type EventPublisher struct {
	client  redis.UniversalClient
	channel string
}

// NewEventPublisher creates a publisher for channel (DefaultEventsChannel when empty).
func NewEventPublisher(client redis.UniversalClient, channel string) *EventPublisher {
	if channel == "" {
		channel = DefaultEventsChannel
	}
	return &EventPublisher{client: client, channel: channel}
}

// Channel returns the channel events are published on.
func (p *EventPublisher) Channel() string { return p.channel }

// Publish implements core.AlertEventPublisher.
func (p *EventPublisher) Publish(ctx context.Context, event model.AlertEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal alert event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", p.channel, err)
	}
	return nil
}
