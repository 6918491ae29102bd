package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/memberhub/backend/pkg/config"
	"github.com/memberhub/backend/pkg/db/models"
	"github.com/memberhub/backend/pkg/enums"
	"github.com/memberhub/backend/pkg/logger"
	"github.com/memberhub/backend/pkg/outbox"
)

func TestServiceProcessBatchContinuesAfterFailure(t *testing.T) {
	repo := &fakeRepo{
		events: []models.OutboxEvent{
			{
				ID:            uuid.New(),
				EventType:     enums.EventAdminRequestReviewed,
				AggregateType: enums.AggregateAdminRequest,
				AggregateID:   uuid.New(),
				Payload:       mustEnvelopePayload(t, "event-one"),
			},
			{
				ID:            uuid.New(),
				EventType:     enums.EventAdminRequestReviewed,
				AggregateType: enums.AggregateAdminRequest,
				AggregateID:   uuid.New(),
				Payload:       mustEnvelopePayload(t, "event-two"),
			},
		},
	}
	pub := &fakePublisher{
		results: []publishResult{
			fakePublishResult{err: errors.New("transient")},
			fakePublishResult{},
		},
	}
	service := newTestService(t, repo, pub, nil)

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

func TestServiceProcessBatchPublishesAttributes(t *testing.T) {
	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventAdminAccessGranted,
		AggregateType: enums.AggregateAdminRequest,
		AggregateID:   uuid.New(),
		Payload:       mustEnvelopePayload(t, "granted"),
	}
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{results: []publishResult{fakePublishResult{}}}
	service := newTestService(t, repo, pub, nil)

	if _, err := service.processBatch(context.Background()); err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if got := len(pub.messages); got != 1 {
		t.Fatalf("unexpected number of published messages: %d", got)
	}
	msg := pub.messages[0]
	if msg.Attributes["event_type"] != enums.EventAdminAccessGranted.String() {
		t.Fatalf("unexpected event_type attribute: %q", msg.Attributes["event_type"])
	}
	if msg.Attributes["aggregate_id"] != event.AggregateID.String() {
		t.Fatalf("unexpected aggregate_id attribute: %q", msg.Attributes["aggregate_id"])
	}
	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		t.Fatalf("failed to decode published payload: %v", err)
	}
	if envelope.EventID != "granted" {
		t.Fatalf("unexpected envelope event id: %q", envelope.EventID)
	}
}

func TestServiceProcessBatchEmptyTable(t *testing.T) {
	repo := &fakeRepo{}
	pub := &fakePublisher{}
	service := newTestService(t, repo, pub, nil)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if processed {
		t.Fatalf("expected empty batch to report not processed")
	}
	if len(pub.messages) != 0 {
		t.Fatalf("expected no messages published")
	}
}

func TestNewServiceAppliesDefaults(t *testing.T) {
	service := newTestService(t, &fakeRepo{}, &fakePublisher{}, &config.OutboxConfig{})

	if service.batchSize != defaultBatchSize {
		t.Fatalf("unexpected batch size: %d", service.batchSize)
	}
	if service.maxAttempts != defaultMaxAttempts {
		t.Fatalf("unexpected max attempts: %d", service.maxAttempts)
	}
	if service.pollInterval != time.Duration(defaultPollMs)*time.Millisecond {
		t.Fatalf("unexpected poll interval: %s", service.pollInterval)
	}
}

func newTestService(t *testing.T, repo outboxRepository, pub publisher, outboxCfgOverride *config.OutboxConfig) *Service {
	t.Helper()
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
		Config:     cfg,
		Logger:     logg,
		DB:         &fakeDB{},
		PubSub:     &fakePubSubClient{},
		Repository: repo,
		Publisher:  pub,
	})
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}
	return service
}

func mustEnvelopePayload(tb testing.TB, eventID string) json.RawMessage {
	tb.Helper()
	env := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    eventID,
		OccurredAt: time.Now(),
		Data:       json.RawMessage(`{}`),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		tb.Fatalf("failed to marshal envelope: %v", err)
	}
	return raw
}

type fakeRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
}

func (f *fakeRepo) FetchUnpublishedForPublish(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeRepo) MarkPublishedTx(tx *gorm.DB, id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeRepo) MarkFailedTx(tx *gorm.DB, id uuid.UUID, err error) error {
	f.failed = append(f.failed, id)
	return nil
}

type fakeDB struct{}

func (f *fakeDB) Ping(context.Context) error {
	return nil
}

func (f *fakeDB) WithTx(_ context.Context, fn func(*gorm.DB) error) error {
	return fn(nil)
}

type fakePubSubClient struct{}

func (f *fakePubSubClient) Ping(context.Context) error {
	return nil
}

func (f *fakePubSubClient) DomainPublisher() *gcppubsub.Publisher {
	return nil
}

type fakePublisher struct {
	messages []*gcppubsub.Message
	results  []publishResult
}

func (f *fakePublisher) Publish(_ context.Context, msg *gcppubsub.Message) publishResult {
	f.messages = append(f.messages, msg)
	if len(f.results) == 0 {
		return fakePublishResult{}
	}
	result := f.results[0]
	f.results = f.results[1:]
	return result
}

type fakePublishResult struct {
	err error
}

func (f fakePublishResult) Get(context.Context) (string, error) {
	return "", f.err
}
