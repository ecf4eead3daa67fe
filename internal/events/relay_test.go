package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glossworks/booking-engine/internal/domain"
)

type fakeOutboxRepo struct {
	pending   []*domain.OutboxEvent
	published []string
	failed    []string
}

func (f *fakeOutboxRepo) ListUnpublished(_ context.Context, limit int) ([]*domain.OutboxEvent, error) {
	batch := make([]*domain.OutboxEvent, 0, limit)
	for _, e := range f.pending {
		if len(batch) == limit {
			break
		}
		batch = append(batch, e)
	}
	return batch, nil
}

func (f *fakeOutboxRepo) MarkPublished(_ context.Context, id string) error {
	f.published = append(f.published, id)
	remaining := make([]*domain.OutboxEvent, 0, len(f.pending))
	for _, e := range f.pending {
		if e.ID != id {
			remaining = append(remaining, e)
		}
	}
	f.pending = remaining
	return nil
}

func (f *fakeOutboxRepo) MarkFailed(_ context.Context, id string) error {
	f.failed = append(f.failed, id)
	for _, e := range f.pending {
		if e.ID == id {
			e.Retries++
		}
	}
	return nil
}

type fakePublisher struct {
	delivered []*domain.OutboxEvent
	failTopic string
}

func (f *fakePublisher) Publish(_ context.Context, event *domain.OutboxEvent) error {
	if event.Topic == f.failTopic {
		return errors.New("broker unavailable")
	}
	f.delivered = append(f.delivered, event)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestRelay(repo *fakeOutboxRepo, pub *fakePublisher) *Relay {
	return NewRelay(repo, pub, passthroughTxManager{}, nopLogger{}, RelayOptions{
		PollInterval: time.Millisecond,
		BatchSize:    10,
		MaxRetries:   3,
	})
}

func event(id, topic string) *domain.OutboxEvent {
	return &domain.OutboxEvent{ID: id, Topic: topic, Key: "1", Payload: []byte(`{}`)}
}

func TestRelayOncePublishesPending(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []*domain.OutboxEvent{
		event("a", domain.TopicBookingCompleted),
		event("b", domain.TopicCancellationCompleted),
	}}
	pub := &fakePublisher{}
	relay := newTestRelay(repo, pub)

	require.NoError(t, relay.relayOnce(context.Background()))

	assert.Len(t, pub.delivered, 2)
	assert.ElementsMatch(t, []string{"a", "b"}, repo.published)
	assert.Empty(t, repo.failed)
	assert.Empty(t, repo.pending)
}

func TestRelayOnceMarksFailedAndKeepsPending(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []*domain.OutboxEvent{
		event("a", domain.TopicBookingCompleted),
		event("b", domain.TopicCancellationCompleted),
	}}
	pub := &fakePublisher{failTopic: domain.TopicBookingCompleted}
	relay := newTestRelay(repo, pub)

	require.NoError(t, relay.relayOnce(context.Background()))

	// The healthy topic got through; the failing one stays pending with a
	// bumped retry counter.
	assert.Equal(t, []string{"b"}, repo.published)
	assert.Equal(t, []string{"a"}, repo.failed)
	require.Len(t, repo.pending, 1)
	assert.Equal(t, "a", repo.pending[0].ID)
	assert.Equal(t, 1, repo.pending[0].Retries)
}

func TestRelayOnceDropsPoisonEvent(t *testing.T) {
	poison := event("a", domain.TopicBookingCompleted)
	poison.Retries = 3
	repo := &fakeOutboxRepo{pending: []*domain.OutboxEvent{poison}}
	pub := &fakePublisher{failTopic: domain.TopicBookingCompleted}
	relay := newTestRelay(repo, pub)

	require.NoError(t, relay.relayOnce(context.Background()))

	// Exhausted events are marked off without another publish attempt.
	assert.Empty(t, pub.delivered)
	assert.Equal(t, []string{"a"}, repo.published)
	assert.Empty(t, repo.pending)
}

func TestRelayStartStop(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []*domain.OutboxEvent{event("a", domain.TopicBookingCompleted)}}
	pub := &fakePublisher{}
	relay := newTestRelay(repo, pub)

	relay.Start(context.Background())
	assert.Eventually(t, func() bool { return len(repo.published) == 1 }, time.Second, 5*time.Millisecond)
	relay.Stop()
}

func TestNewBookingCompletedPayload(t *testing.T) {
	appt := &domain.Appointment{
		ID:         42,
		CustomerID: 7,
		BusinessID: 3,
		StaffID:    11,
		ServiceID:  5,
		Date:       time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		StartTime:  "10:00",
		EndTime:    "11:00",
		Price:      75,
	}

	ev, err := NewBookingCompleted(appt, time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, domain.TopicBookingCompleted, ev.Topic)
	assert.Equal(t, "3", ev.Key, "partition key is the business id")
	assert.NotEmpty(t, ev.ID)
	assert.Contains(t, string(ev.Payload), `"appointmentId":42`)
	assert.Contains(t, string(ev.Payload), `"date":"2026-09-01"`)
	assert.Contains(t, string(ev.Payload), `"startTime":"10:00"`)
}
