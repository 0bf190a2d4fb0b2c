package producer_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeOutboxRepository struct {
	pending []kafka.OutboxEvent
	sent    []string
	failed  map[string]string
	onList  func()
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepository) Create(ctx context.Context, e kafka.OutboxEvent) error {
	f.pending = append(f.pending, e)
	return nil
}
func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	if f.onList != nil {
		f.onList()
	}
	return f.pending, nil
}
func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}
func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id, reason string) error {
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[id] = reason
	return nil
}

type fakeWriter struct {
	messages []kafkago.Message
	failKey  string
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if string(m.Key) == w.failKey {
			return errors.New("broker unavailable")
		}
		w.messages = append(w.messages, m)
	}
	return nil
}

func TestProcessPending(t *testing.T) {
	ev1, _ := kafka.NewEvent("rid-1", events.AggregateLeave, "leave-1", events.EventLeaveSubmitted, events.LeaveLifecycleTopic, map[string]string{"x": "1"})
	ev2, _ := kafka.NewEvent("", events.AggregateLeave, "leave-2", events.EventLeaveStatusChanged, events.LeaveLifecycleTopic, map[string]string{"x": "2"})

	repo := &fakeOutboxRepository{pending: []kafka.OutboxEvent{ev1, ev2}}
	writer := &fakeWriter{failKey: "leave-2"}

	sent, err := producer.ProcessPending(context.Background(), repo, writer, zap.NewNop())

	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{ev1.ID}, repo.sent)
	assert.Equal(t, "broker unavailable", repo.failed[ev2.ID])

	if assert.Len(t, writer.messages, 1) {
		msg := writer.messages[0]
		assert.Equal(t, events.LeaveLifecycleTopic, msg.Topic)
		assert.Equal(t, "leave-1", string(msg.Key))
		headers := map[string]string{}
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, events.EventLeaveSubmitted, headers["event_type"])
		assert.Equal(t, "rid-1", headers["request_id"])
	}
}

func TestProcessPending_Empty(t *testing.T) {
	sent, err := producer.ProcessPending(context.Background(), &fakeOutboxRepository{}, &fakeWriter{}, zap.NewNop())
	assert.NoError(t, err)
	assert.Zero(t, sent)
}

func TestProcessOutboxEvents_DrainsOnStart(t *testing.T) {
	ev, _ := kafka.NewEvent("", events.AggregateLeave, "leave-1", events.EventLeaveSubmitted, events.LeaveLifecycleTopic, map[string]string{"x": "1"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo := &fakeOutboxRepository{pending: []kafka.OutboxEvent{ev}, onList: cancel}
	writer := &fakeWriter{}

	producer.ProcessOutboxEvents(ctx, repo, writer, zap.NewNop(), time.Hour)

	assert.Equal(t, []string{ev.ID}, repo.sent)
	assert.Len(t, writer.messages, 1)
}
