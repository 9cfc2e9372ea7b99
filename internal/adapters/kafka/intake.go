// Package kafka connects the alert engine to Kafka: an intake consumer that turns
// producer messages into alerts, and a writer that streams lifecycle events.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/target/fleet-alerts/internal/domain/auth"
	"github.com/target/fleet-alerts/internal/domain/model"
	apperrors "github.com/target/fleet-alerts/internal/errors"
)

// SystemActor is the identity intake uses when raising alerts.
var SystemActor = auth.Actor{ID: "system:intake", Role: auth.RoleAdmin}

// Default retry delays for store failures.
const (
	DefaultRetryBackoff    = 500 * time.Millisecond
	DefaultMaxRetryBackoff = 30 * time.Second
)

// MessageReader is the subset of *kafka.Reader used by Intake.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// AlertCreator raises alerts on behalf of an actor.
type AlertCreator interface {
	Create(ctx context.Context, actor auth.Actor, req model.CreateAlertRequest) (*model.Alert, error)
}

// ReaderConfig configures the consumer-group reader for the intake topic.
type ReaderConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// NewReader builds a consumer-group reader with manual commits.
func NewReader(cfg ReaderConfig) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// IntakeOptions holds the dependencies for creating an Intake.
type IntakeOptions struct {
	Reader MessageReader // Required
	Alerts AlertCreator  // Required
	Logger *slog.Logger

	// RetryBackoff is the first delay after a store failure; it doubles up to MaxRetryBackoff.
	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration
}

// Intake consumes alert requests from Kafka and creates alerts as SystemActor.
// A message is committed once it has been handled: created, rejected as a
// duplicate, or rejected as invalid. Store failures retry the same message.
type Intake struct {
	reader     MessageReader
	alerts     AlertCreator
	logger     *slog.Logger
	backoff    time.Duration
	maxBackoff time.Duration
}

// NewIntake creates a new Intake.
func NewIntake(opts IntakeOptions) (*Intake, error) {
	if opts.Reader == nil {
		return nil, errors.New("message reader is required")
	}
	if opts.Alerts == nil {
		return nil, errors.New("alert creator is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = DefaultRetryBackoff
	}
	if opts.MaxRetryBackoff < opts.RetryBackoff {
		opts.MaxRetryBackoff = max(DefaultMaxRetryBackoff, opts.RetryBackoff)
	}
	return &Intake{
		reader:     opts.Reader,
		alerts:     opts.Alerts,
		logger:     opts.Logger.With("component", "kafka_intake"),
		backoff:    opts.RetryBackoff,
		maxBackoff: opts.MaxRetryBackoff,
	}, nil
}

// Run consumes until ctx is cancelled. It returns nil on cancellation and the
// reader error otherwise.
func (i *Intake) Run(ctx context.Context) error {
	i.logger.InfoContext(ctx, "starting alert intake")
	for {
		msg, err := i.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		if err := i.process(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// Close closes the underlying reader.
func (i *Intake) Close() error {
	return i.reader.Close()
}

// process handles msg, retrying store failures, then commits it.
func (i *Intake) process(ctx context.Context, msg kafkago.Message) error {
	delay := i.backoff
	for {
		err := i.handle(ctx, msg)
		if err == nil {
			break
		}
		i.logger.WarnContext(ctx, "alert intake store failure, retrying",
			"partition", msg.Partition,
			"offset", msg.Offset,
			"retry_in", delay,
			"error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = min(delay*2, i.maxBackoff)
	}

	if err := i.reader.CommitMessages(ctx, msg); err != nil {
		return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
	}
	return nil
}

// handle returns an error only when the message should be retried.
func (i *Intake) handle(ctx context.Context, msg kafkago.Message) error {
	req, err := decodeRequest(msg.Value)
	if err != nil {
		i.logger.WarnContext(ctx, "dropping malformed intake message",
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err)
		return nil
	}

	alert, err := i.alerts.Create(ctx, SystemActor, req)
	switch {
	case err == nil:
		i.logger.InfoContext(ctx, "intake alert created",
			"alert_id", alert.ID,
			"device_id", alert.DeviceID,
			"offset", msg.Offset)
		return nil
	case apperrors.IsStore(err):
		return err
	case apperrors.GetCode(err) != "":
		i.logger.InfoContext(ctx, "intake alert rejected",
			"device_id", req.DeviceID,
			"title", req.Title,
			"code", apperrors.GetCode(err),
			"error", err)
		return nil
	default:
		return err
	}
}

func decodeRequest(value []byte) (model.CreateAlertRequest, error) {
	var req model.CreateAlertRequest
	if len(value) == 0 {
		return req, errors.New("empty message")
	}
	if err := json.Unmarshal(value, &req); err != nil {
		return req, fmt.Errorf("decode alert request: %w", err)
	}
	return req, nil
}
