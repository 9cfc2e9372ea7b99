package core

import (
	"context"
	"errors"

	"github.com/target/fleet-alerts/internal/domain/model"
)

// FanoutPublisher publishes each event to every wrapped publisher.
// All publishers are attempted; their failures are joined.
type FanoutPublisher []AlertEventPublisher

// Publish implements AlertEventPublisher.
func (f FanoutPublisher) Publish(ctx context.Context, event model.AlertEvent) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NoopPublisher discards events.
type NoopPublisher struct{}

// Publish implements AlertEventPublisher.
func (NoopPublisher) Publish(context.Context, model.AlertEvent) error { return nil }
