package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/target/fleet-alerts/internal/domain/model"
)

type recordingPublisher struct {
	events []model.AlertEvent
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, e model.AlertEvent) error {
	r.events = append(r.events, e)
	return r.err
}

func TestFanoutPublisher_PublishesToAll(t *testing.T) {
	failing := &recordingPublisher{err: errors.New("redis down")}
	ok := &recordingPublisher{}
	fan := FanoutPublisher{failing, nil, ok}

	err := fan.Publish(context.Background(), model.AlertEvent{AlertID: "a1"})

	assert.ErrorContains(t, err, "redis down")
	assert.Len(t, failing.events, 1)
	assert.Len(t, ok.events, 1)
}

func TestFanoutPublisher_Empty(t *testing.T) {
	assert.NoError(t, FanoutPublisher{}.Publish(context.Background(), model.AlertEvent{}))
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), model.AlertEvent{}))
}

func TestFixedTimeProvider(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tp := NewFixedTimeProvider(start)
	assert.Equal(t, start, tp.Now())
	tp.Advance(time.Minute)
	assert.Equal(t, start.Add(time.Minute), tp.Now())
}
