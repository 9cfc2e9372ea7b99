package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/fleet-alerts/internal/data/memstore"
	"github.com/target/fleet-alerts/internal/domain/auth"
	"github.com/target/fleet-alerts/internal/domain/model"
	apperrors "github.com/target/fleet-alerts/internal/errors"
	"github.com/target/fleet-alerts/internal/service"
)

// fakeReader serves queued messages, then blocks until the context ends.
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafkago.Message
	committed []int64
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

// flakyCreator fails with a store error a fixed number of times before delegating.
type flakyCreator struct {
	next     AlertCreator
	failures int
	calls    int
	actors   []auth.Actor
}

func (c *flakyCreator) Create(ctx context.Context, actor auth.Actor, req model.CreateAlertRequest) (*model.Alert, error) {
	c.calls++
	c.actors = append(c.actors, actor)
	if c.failures > 0 {
		c.failures--
		return nil, apperrors.Store(errors.New("connection refused"))
	}
	return c.next.Create(ctx, actor, req)
}

func newIntakeFixture(t *testing.T, failures int, msgs ...string) (*Intake, *fakeReader, *flakyCreator, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	store.PutDevice(model.Device{ID: "d1", UserID: "u1", Name: "Tracker", Type: "gps"})
	svc := service.MustNewAlertService(service.AlertServiceOptions{
		Alerts:  store.Alerts(),
		Devices: store.Devices(),
	})

	reader := &fakeReader{}
	for i, m := range msgs {
		reader.queue = append(reader.queue, kafkago.Message{Offset: int64(i), Value: []byte(m)})
	}
	creator := &flakyCreator{next: svc, failures: failures}

	intake, err := NewIntake(IntakeOptions{
		Reader:          reader,
		Alerts:          creator,
		RetryBackoff:    time.Millisecond,
		MaxRetryBackoff: 2 * time.Millisecond,
	})
	require.NoError(t, err)
	return intake, reader, creator, store
}

func runUntilCommitted(t *testing.T, intake *Intake, reader *fakeReader, n int) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- intake.Run(ctx) }()

	require.Eventually(t, func() bool { return len(reader.commits()) >= n }, 2*time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestNewIntake_Validation(t *testing.T) {
	_, err := NewIntake(IntakeOptions{Alerts: &flakyCreator{}})
	require.Error(t, err)

	_, err = NewIntake(IntakeOptions{Reader: &fakeReader{}})
	require.Error(t, err)
}

func TestIntake_CreatesAlertsAsSystemActor(t *testing.T) {
	intake, reader, creator, store := newIntakeFixture(t, 0,
		`{"deviceId":"d1","title":"Low Battery","message":"below 10%","severity":"high"}`,
	)

	runUntilCommitted(t, intake, reader, 1)

	assert.Equal(t, []int64{0}, reader.commits())
	require.Len(t, creator.actors, 1)
	assert.Equal(t, SystemActor, creator.actors[0])

	alerts := store.AllAlerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "u1", alerts[0].UserID)
	assert.Equal(t, model.AlertSeverityHigh, alerts[0].Severity)
}

func TestIntake_CommitsRejectedMessages(t *testing.T) {
	intake, reader, creator, store := newIntakeFixture(t, 0,
		`not json`,
		``,
		`{"deviceId":"d1","title":"","message":"m","severity":"LOW"}`,
		`{"deviceId":"missing","title":"Offline","message":"m","severity":"LOW"}`,
		`{"deviceId":"d1","title":"Offline","message":"m","severity":"LOW"}`,
		`{"deviceId":"d1","title":"Offline","message":"again","severity":"LOW"}`,
	)

	runUntilCommitted(t, intake, reader, 6)

	assert.Equal(t, []int64{0, 1, 2, 3, 4, 5}, reader.commits())
	// Malformed payloads never reach the service.
	assert.Equal(t, 4, creator.calls)
	assert.Len(t, store.AllAlerts(), 1)
}

func TestIntake_RetriesStoreFailures(t *testing.T) {
	intake, reader, creator, store := newIntakeFixture(t, 3,
		`{"deviceId":"d1","title":"Low Battery","message":"m","severity":"LOW"}`,
	)

	runUntilCommitted(t, intake, reader, 1)

	assert.Equal(t, 4, creator.calls)
	assert.Equal(t, []int64{0}, reader.commits())
	assert.Len(t, store.AllAlerts(), 1)
}

func TestIntake_StopsRetryingOnCancel(t *testing.T) {
	intake, reader, _, _ := newIntakeFixture(t, 1_000_000,
		`{"deviceId":"d1","title":"Low Battery","message":"m","severity":"LOW"}`,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.NoError(t, intake.Run(ctx))
	assert.Empty(t, reader.commits())

	require.NoError(t, intake.Close())
	assert.True(t, reader.closed)
}

func TestDecodeRequest(t *testing.T) {
	req, err := decodeRequest([]byte(`{"deviceId":"d1","title":"t","message":"m","severity":"LOW","extra":1}`))
	require.NoError(t, err)
	assert.Equal(t, "d1", req.DeviceID)
	assert.Equal(t, model.AlertSeverityLow, req.Severity)

	_, err = decodeRequest(nil)
	require.Error(t, err)

	_, err = decodeRequest([]byte(`[1,2]`))
	require.Error(t, err)
}
