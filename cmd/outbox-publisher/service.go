package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chairtime/chairtime-backend/pkg/config"
	"github.com/chairtime/chairtime-backend/pkg/db/models"
	"github.com/chairtime/chairtime-backend/pkg/enums"
	"github.com/chairtime/chairtime-backend/pkg/logger"
	"github.com/chairtime/chairtime-backend/pkg/metrics"
)

const (
	jobName = "domain-events"

	defaultBatchSize      = 50
	defaultPollMs         = 500
	defaultPublishTimeout = 15 * time.Second
	defaultMaxAttempts    = 10
	maxBackoff            = 10 * time.Second
	jitterWindow          = 250 * time.Millisecond
)

var backoffJitter = rand.New(rand.NewSource(time.Now().UnixNano()))

// errNonRetryable marks publish failures that retrying cannot fix; the
// event goes straight to the DLQ.
var errNonRetryable = errors.New("non-retryable publish failure")

// txRunner is the database surface the publisher needs: readiness and a
// transaction for the DLQ handoff.
type txRunner interface {
	Ping(context.Context) error
	WithTx(context.Context, func(tx *gorm.DB) error) error
}

type brokerClient interface {
	Ping(context.Context) error
	DomainPublisher() *gcppubsub.Publisher
}

type eventSource interface {
	FetchPublishable(limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublished(id uuid.UUID) error
	MarkFailed(id uuid.UUID, err error) error
	MarkTerminalTx(tx *gorm.DB, id uuid.UUID, err error, terminalAttempts int) error
}

type deadLetterSink interface {
	InsertTx(tx *gorm.DB, entry models.OutboxDLQ) error
}

// topicPublisher and publishHandle mirror the slice of the GCP client the
// loop touches, so tests can substitute fakes.
type topicPublisher interface {
	Publish(context.Context, *gcppubsub.Message) publishHandle
}

type publishHandle interface {
	Get(context.Context) (string, error)
}

type publisherFunc func() topicPublisher

type ServiceParams struct {
	Config           *config.Config
	Logger           *logger.Logger
	DB               txRunner
	PubSub           brokerClient
	Repository       eventSource
	DLQRepository    deadLetterSink
	Metrics          *metrics.PublisherMetrics
	PublisherFactory publisherFunc
}

// Service drains the outbox table into the domain event topic. Events that
// exhaust their publish attempts land in the DLQ table instead of blocking
// the queue.
type Service struct {
	cfg              *config.Config
	logg             *logger.Logger
	db               txRunner
	pubsub           brokerClient
	repo             eventSource
	dlq              deadLetterSink
	metrics          *metrics.PublisherMetrics
	publisherFactory publisherFunc
	batchSize        int
	maxAttempts      int
	pollInterval     time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	factory := params.PublisherFactory
	if factory == nil {
		if params.PubSub == nil {
			return nil, errors.New("pubsub client is required")
		}
		factory = func() topicPublisher {
			return wrapGCPPublisher(params.PubSub.DomainPublisher())
		}
	}

	tuning := params.Config.Outbox

	return &Service{
		cfg:              params.Config,
		logg:             params.Logger,
		db:               params.DB,
		pubsub:           params.PubSub,
		repo:             params.Repository,
		dlq:              params.DLQRepository,
		metrics:          params.Metrics,
		publisherFactory: factory,
		batchSize:        orDefault(tuning.BatchSize, defaultBatchSize),
		maxAttempts:      orDefault(tuning.MaxAttempts, defaultMaxAttempts),
		pollInterval:     time.Duration(orDefault(tuning.PollIntervalMS, defaultPollMs)) * time.Millisecond,
	}, nil
}

func validateParams(params ServiceParams) error {
	switch {
	case params.Config == nil:
		return errors.New("config is required")
	case params.Logger == nil:
		return errors.New("logger is required")
	case params.DB == nil:
		return errors.New("database client is required")
	case params.Repository == nil:
		return errors.New("outbox repository is required")
	case params.DLQRepository == nil:
		return errors.New("dlq repository is required")
	}
	return nil
}

func orDefault(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func (s *Service) ensureReadiness(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	if s.pubsub != nil {
		if err := s.pubsub.Ping(ctx); err != nil {
			return fmt.Errorf("pubsub ping failed: %w", err)
		}
	}
	return nil
}

// Run polls until the context is canceled. Batch errors back the loop off
// with doubling delay up to maxBackoff; a clean batch resets the delay.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.ensureReadiness(ctx); err != nil {
		return err
	}

	backoff := s.pollInterval
	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "outbox publisher context canceled")
			return ctx.Err()
		default:
		}

		processed, err := s.processBatch(ctx)
		switch {
		case err != nil:
			s.logg.Error(ctx, "outbox publisher batch error", err)
			backoff = doubleCapped(backoff, s.pollInterval, maxBackoff)
			if sleepErr := s.sleep(ctx, withJitter(backoff)); sleepErr != nil {
				return sleepErr
			}
		case processed:
			backoff = s.pollInterval
		default:
			backoff = s.pollInterval
			if sleepErr := s.sleep(ctx, withJitter(s.pollInterval)); sleepErr != nil {
				return sleepErr
			}
		}
	}
}

func (s *Service) processBatch(ctx context.Context) (bool, error) {
	start := time.Now()
	events, err := s.repo.FetchPublishable(s.batchSize, s.maxAttempts)
	if err != nil {
		return false, err
	}
	if len(events) == 0 {
		return false, nil
	}

	for _, event := range events {
		if err := s.handleEvent(ctx, event); err != nil {
			return true, err
		}
	}

	s.metrics.ObserveDuration(jobName, time.Since(start))
	return true, nil
}

func (s *Service) handleEvent(ctx context.Context, event models.OutboxEvent) error {
	fields := s.eventFields(event)

	err := s.publish(ctx, event)
	if err == nil {
		if markErr := s.repo.MarkPublished(event.ID); markErr != nil {
			return fmt.Errorf("mark published %s: %w", event.ID, markErr)
		}
		s.metrics.IncSuccess(jobName)
		s.logg.Info(s.logg.WithFields(ctx, fields), "outbox event published")
		return nil
	}

	s.metrics.IncFailure(jobName)
	nextAttempt := event.AttemptCount + 1
	fields["attempt_count"] = nextAttempt

	if errors.Is(err, errNonRetryable) {
		return s.handleTerminal(ctx, event, err, enums.OutboxDLQReasonNonRetryable, fields)
	}
	if nextAttempt >= s.maxAttempts {
		return s.handleTerminal(ctx, event, err, enums.OutboxDLQReasonMaxAttempts, fields)
	}

	logCtx := s.logg.WithFields(ctx, fields)
	logCtx = s.logg.WithField(logCtx, "error", err.Error())
	s.logg.Warn(logCtx, "outbox publish failed")
	if markErr := s.repo.MarkFailed(event.ID, err); markErr != nil {
		return fmt.Errorf("mark failure %s: %w", event.ID, markErr)
	}
	return nil
}

// handleTerminal records the dead event in the DLQ and pins it at its
// terminal attempt count, both in one transaction.
func (s *Service) handleTerminal(ctx context.Context, event models.OutboxEvent, cause error, reason enums.OutboxDLQErrorReason, fields map[string]any) error {
	fields["terminal_reason"] = reason.String()
	logCtx := s.logg.WithFields(ctx, fields)
	logCtx = s.logg.WithField(logCtx, "error", cause.Error())
	s.logg.Warn(logCtx, "outbox event will not be retried")

	terminalErr := cause
	if reason == enums.OutboxDLQReasonMaxAttempts {
		terminalErr = fmt.Errorf("max publish attempts reached: %w", cause)
	}
	msg := terminalErr.Error()

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		entry := models.OutboxDLQ{
			EventID:       event.ID,
			EventType:     event.EventType,
			AggregateType: event.AggregateType,
			AggregateID:   event.AggregateID,
			Payload:       event.Payload,
			ErrorReason:   reason,
			ErrorMessage:  &msg,
			AttemptCount:  event.AttemptCount + 1,
			FailedAt:      time.Now().UTC(),
		}
		if err := s.dlq.InsertTx(tx, entry); err != nil {
			return fmt.Errorf("insert dlq %s: %w", event.ID, err)
		}
		if err := s.repo.MarkTerminalTx(tx, event.ID, terminalErr, s.maxAttempts); err != nil {
			return fmt.Errorf("mark terminal %s: %w", event.ID, err)
		}
		return nil
	})
}

func (s *Service) publish(ctx context.Context, event models.OutboxEvent) error {
	pub := s.publisherFactory()
	if pub == nil {
		return fmt.Errorf("%w: domain publisher not configured", errNonRetryable)
	}

	msg := &gcppubsub.Message{
		Data: event.Payload,
		Attributes: map[string]string{
			"event_type":     string(event.EventType),
			"aggregate_type": string(event.AggregateType),
			"aggregate_id":   event.AggregateID.String(),
			"created_at":     event.CreatedAt.Format(time.RFC3339Nano),
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	defer cancel()
	handle := pub.Publish(publishCtx, msg)
	if handle == nil {
		return fmt.Errorf("%w: publisher returned nil result", errNonRetryable)
	}
	_, err := handle.Get(publishCtx)
	return err
}

func (s *Service) eventFields(event models.OutboxEvent) map[string]any {
	fields := map[string]any{
		"outbox_id":      event.ID.String(),
		"event_type":     event.EventType,
		"aggregate_type": event.AggregateType,
		"aggregate_id":   event.AggregateID.String(),
		"batch_size":     s.batchSize,
		"attempt_count":  event.AttemptCount,
	}
	if event.LastError != nil {
		fields["last_error"] = *event.LastError
	}
	return fields
}

func (s *Service) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func doubleCapped(current, base, max time.Duration) time.Duration {
	if current <= 0 {
		current = base
	}
	if next := current * 2; next <= max {
		return next
	}
	return max
}

func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d + time.Duration(backoffJitter.Int63n(int64(jitterWindow)))
}

func wrapGCPPublisher(p *gcppubsub.Publisher) topicPublisher {
	if p == nil {
		return nil
	}
	return &gcpPublisher{inner: p}
}

type gcpPublisher struct {
	inner *gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishHandle {
	if p == nil || p.inner == nil {
		return nil
	}
	return &gcpPublishHandle{inner: p.inner.Publish(ctx, msg)}
}

type gcpPublishHandle struct {
	inner *gcppubsub.PublishResult
}

func (h *gcpPublishHandle) Get(ctx context.Context) (string, error) {
	if h == nil || h.inner == nil {
		return "", errors.New("publish result is nil")
	}
	return h.inner.Get(ctx)
}
