package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-leave/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeReader struct {
	messages  []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.messages) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

type fakeNotifier struct {
	got     []events.LeaveEvent
	failFor string
}

func (n *fakeNotifier) Notify(ctx context.Context, e events.LeaveEvent) error {
	if e.LeaveID == n.failFor {
		return errors.New("gateway down")
	}
	n.got = append(n.got, e)
	return nil
}

func message(t *testing.T, offset int64, e events.LeaveEvent, headers ...kafkago.Header) kafkago.Message {
	t.Helper()
	b, err := json.Marshal(e)
	assert.NoError(t, err)
	return kafkago.Message{Offset: offset, Value: b, Headers: headers}
}

func TestConsumeLeaveLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		messages: []kafkago.Message{
			message(t, 1, events.LeaveEvent{EventType: events.EventLeaveSubmitted, LeaveID: "l-1"}),
			{Offset: 2, Value: []byte("not json")},
			message(t, 3, events.LeaveEvent{LeaveID: "l-3"}, kafkago.Header{Key: "event_type", Value: []byte(events.EventLeaveStatusChanged)}),
			message(t, 4, events.LeaveEvent{EventType: events.EventLeaveSubmitted, LeaveID: "l-4"}),
		},
	}
	notifier := &fakeNotifier{failFor: "l-4"}

	ConsumeLeaveLifecycle(ctx, reader, notifier, zap.NewNop())

	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
	if assert.Len(t, notifier.got, 2) {
		assert.Equal(t, events.EventLeaveStatusChanged, notifier.got[1].EventType)
	}
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	err := n.Notify(context.Background(), events.LeaveEvent{
		EventType:  events.EventLeaveSubmitted,
		LeaveID:    "l-1",
		Approvers:  []events.Approver{{Role: "MANAGER", EmployeeCode: "MGR001"}, {Role: "PARTNER", EmployeeCode: "PTR001"}},
		OccurredAt: time.Now(),
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, logs.FilterMessage("notify approver of new leave application").Len())

	_ = n.Notify(context.Background(), events.LeaveEvent{EventType: events.EventLeaveStatusChanged, LeaveID: "l-1", Status: "Approved"})
	assert.Equal(t, 1, logs.FilterMessage("notify employee of leave decision").Len())
}
