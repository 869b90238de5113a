package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chairtime/chairtime-backend/pkg/config"
	"github.com/chairtime/chairtime-backend/pkg/db/models"
	"github.com/chairtime/chairtime-backend/pkg/enums"
	"github.com/chairtime/chairtime-backend/pkg/logger"
)

func TestServiceProcessBatchContinuesAfterFailure(t *testing.T) {
	repo := &stubEventSource{
		events: []models.OutboxEvent{
			{
				ID:            uuid.New(),
				EventType:     enums.EventAppointmentCreated,
				AggregateType: enums.AggregateAppointment,
				AggregateID:   uuid.New(),
				Payload:       json.RawMessage(`{"version":1}`),
			},
			{
				ID:            uuid.New(),
				EventType:     enums.EventAppointmentCancelled,
				AggregateType: enums.AggregateAppointment,
				AggregateID:   uuid.New(),
				Payload:       json.RawMessage(`{"version":1}`),
			},
		},
	}
	pub := &stubPublisher{
		results: []publishHandle{
			stubHandle{err: errors.New("transient")},
			stubHandle{},
		},
	}
	service := newTestService(t, repo, pub, &stubDeadLetters{}, nil)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to report processed")
	}
	if got := len(repo.failed); got != 1 {
		t.Fatalf("unexpected number of failed rows: %d", got)
	}
	if got := len(repo.published); got != 1 {
		t.Fatalf("unexpected number of published rows: %d", got)
	}
	if repo.failed[0] != repo.events[0].ID {
		t.Fatalf("failed row recorded wrong ID")
	}
	if repo.published[0] != repo.events[1].ID {
		t.Fatalf("published row recorded wrong ID")
	}
}

func TestServiceProcessBatchSetsMessageAttributes(t *testing.T) {
	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventTimeOffCreated,
		AggregateType: enums.AggregateTimeOff,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{"version":1}`),
	}
	repo := &stubEventSource{events: []models.OutboxEvent{event}}
	pub := &stubPublisher{results: []publishHandle{stubHandle{}}}
	service := newTestService(t, repo, pub, &stubDeadLetters{}, nil)

	if _, err := service.processBatch(context.Background()); err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if len(pub.messages) != 1 {
		t.Fatalf("expected one published message, got %d", len(pub.messages))
	}
	msg := pub.messages[0]
	if got := msg.Attributes["event_type"]; got != string(enums.EventTimeOffCreated) {
		t.Fatalf("unexpected event_type attribute: %q", got)
	}
	if got := msg.Attributes["aggregate_id"]; got != event.AggregateID.String() {
		t.Fatalf("unexpected aggregate_id attribute: %q", got)
	}
	if string(msg.Data) != `{"version":1}` {
		t.Fatalf("unexpected payload: %s", msg.Data)
	}
}

func TestServiceProcessBatchWritesDLQOnMaxAttempts(t *testing.T) {
	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventAppointmentCancelled,
		AggregateType: enums.AggregateAppointment,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{"version":1}`),
		AttemptCount:  1,
	}
	repo := &stubEventSource{events: []models.OutboxEvent{event}}
	pub := &stubPublisher{
		results: []publishHandle{
			stubHandle{err: errors.New("transient")},
		},
	}
	dlqRepo := &stubDeadLetters{}
	service := newTestService(t, repo, pub, dlqRepo, &config.OutboxConfig{
		BatchSize:      1,
		PollIntervalMS: 100,
		MaxAttempts:    2,
	})

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to report processed")
	}
	if got := len(dlqRepo.entries); got != 1 {
		t.Fatalf("expected dlq entry, got %d", got)
	}
	entry := dlqRepo.entries[0]
	if entry.EventID != event.ID {
		t.Fatalf("dlq event_id mismatch: %s", entry.EventID)
	}
	if entry.ErrorReason != enums.OutboxDLQReasonMaxAttempts {
		t.Fatalf("unexpected error reason: %s", entry.ErrorReason)
	}
	if entry.AttemptCount != 2 {
		t.Fatalf("unexpected dlq attempt count: %d", entry.AttemptCount)
	}
	if len(repo.terminal) != 1 || repo.terminal[0] != event.ID {
		t.Fatalf("expected event pinned terminal")
	}
	if len(repo.failed) != 0 {
		t.Fatalf("terminal event must not be marked failed as well")
	}
}

func TestServiceProcessBatchWritesDLQOnNonRetryable(t *testing.T) {
	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventAppointmentNoShow,
		AggregateType: enums.AggregateAppointment,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{"version":1}`),
	}
	repo := &stubEventSource{events: []models.OutboxEvent{event}}
	dlqRepo := &stubDeadLetters{}
	service := newTestService(t, repo, nil, dlqRepo, nil)
	service.publisherFactory = func() topicPublisher { return nil }

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to report processed")
	}
	if got := len(dlqRepo.entries); got != 1 {
		t.Fatalf("expected dlq entry, got %d", got)
	}
	if dlqRepo.entries[0].ErrorReason != enums.OutboxDLQReasonNonRetryable {
		t.Fatalf("unexpected error reason: %s", dlqRepo.entries[0].ErrorReason)
	}
	if len(repo.terminal) != 1 {
		t.Fatalf("expected event pinned terminal")
	}
}

func TestServiceProcessBatchNoEvents(t *testing.T) {
	service := newTestService(t, &stubEventSource{}, &stubPublisher{}, &stubDeadLetters{}, nil)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if processed {
		t.Fatalf("empty batch must report not processed")
	}
}

func newTestService(t *testing.T, repo eventSource, pub topicPublisher, dlq deadLetterSink, outboxCfgOverride *config.OutboxConfig) *Service {
	outboxCfg := config.OutboxConfig{
		BatchSize:      2,
		PollIntervalMS: 100,
		MaxAttempts:    5,
	}
	if outboxCfgOverride != nil {
		outboxCfg = *outboxCfgOverride
	}
	cfg := &config.Config{
		Outbox: outboxCfg,
	}
	logg := logger.New(logger.Options{
		ServiceName: "outbox-publisher-test",
		Output:      io.Discard,
	})
	service, err := NewService(ServiceParams{
		Config:           cfg,
		Logger:           logg,
		DB:               &stubTxRunner{},
		PubSub:           &stubBroker{},
		Repository:       repo,
		DLQRepository:    dlq,
		PublisherFactory: func() topicPublisher { return pub },
	})
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}
	return service
}

type stubEventSource struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
	terminal  []uuid.UUID
}

func (f *stubEventSource) FetchPublishable(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	return f.events, nil
}

func (f *stubEventSource) MarkPublished(id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *stubEventSource) MarkFailed(id uuid.UUID, err error) error {
	f.failed = append(f.failed, id)
	return nil
}

func (f *stubEventSource) MarkTerminalTx(tx *gorm.DB, id uuid.UUID, err error, terminalAttempts int) error {
	f.terminal = append(f.terminal, id)
	return nil
}

type stubTxRunner struct{}

func (f *stubTxRunner) Ping(context.Context) error {
	return nil
}

func (f *stubTxRunner) WithTx(_ context.Context, fn func(*gorm.DB) error) error {
	return fn(nil)
}

type stubBroker struct {
	pingErr error
}

func (f *stubBroker) Ping(context.Context) error {
	return f.pingErr
}

func (f *stubBroker) DomainPublisher() *gcppubsub.Publisher {
	return nil
}

type stubPublisher struct {
	results  []publishHandle
	messages []*gcppubsub.Message
}

func (f *stubPublisher) Publish(_ context.Context, msg *gcppubsub.Message) publishHandle {
	f.messages = append(f.messages, msg)
	if len(f.results) == 0 {
		return nil
	}
	result := f.results[0]
	f.results = f.results[1:]
	return result
}

type stubHandle struct {
	err error
}

func (f stubHandle) Get(context.Context) (string, error) {
	return "", f.err
}

type stubDeadLetters struct {
	entries []models.OutboxDLQ
}

func (f *stubDeadLetters) InsertTx(tx *gorm.DB, entry models.OutboxDLQ) error {
	f.entries = append(f.entries, entry)
	return nil
}
