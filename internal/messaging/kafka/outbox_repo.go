package kafka

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
	// OutboxStatusDead parks an event that used up its publish attempts.
	OutboxStatusDead = "dead"

	MaxPublishAttempts = 10
)

// OutboxEvent is one row of outbox_events. It is written in the same
// transaction as the leave change it describes.
type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	RetryCount    int
	NextRetryAt   time.Time
}

// NewEvent encodes payload as JSON and returns a pending, validated event.
func NewEvent(requestID, aggregateType, aggregateID, eventType, topic string, payload any) (OutboxEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return OutboxEvent{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	ev := OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     requestID,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       body,
		Status:        OutboxStatusPending,
	}
	if err := ev.Validate(); err != nil {
		return OutboxEvent{}, err
	}
	return ev, nil
}

func (e OutboxEvent) Validate() error {
	switch {
	case e.ID == "":
		return errors.New("outbox id is required")
	case e.Topic == "":
		return errors.New("outbox topic is required")
	case e.AggregateID == "":
		return errors.New("outbox aggregate id is required")
	case len(e.Payload) == 0:
		return errors.New("outbox payload is required")
	}
	switch e.Status {
	case OutboxStatusPending, OutboxStatusSent, OutboxStatusFailed, OutboxStatusDead:
		return nil
	}
	return fmt.Errorf("invalid outbox status: %s", e.Status)
}

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	// ListPending returns due events, oldest first.
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	// MarkFailed schedules a retry with doubling delay, or parks the event
	// once MaxPublishAttempts is reached.
	MarkFailed(ctx context.Context, id string, reason string) error
}

const (
	insertOutboxSQL = `
INSERT INTO outbox_events (id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	selectDueOutboxSQL = `
SELECT id::text, COALESCE(request_id, ''), aggregate_type, aggregate_id, event_type, topic,
	payload, status, retry_count, COALESCE(next_retry_at, created_at)
FROM outbox_events
WHERE status IN ($1, $2) AND (next_retry_at IS NULL OR next_retry_at <= NOW())
ORDER BY created_at ASC
LIMIT $3`

	markSentOutboxSQL = `
UPDATE outbox_events
SET status = $2, processed_at = NOW(), error_message = NULL, updated_at = NOW()
WHERE id = $1`

	markFailedOutboxSQL = `
UPDATE outbox_events
SET retry_count = retry_count + 1,
	status = CASE WHEN retry_count + 1 >= $5 THEN $4 ELSE $3 END,
	error_message = LEFT($2, 500),
	next_retry_at = NOW() + LEAST(POWER(2, retry_count), 64) * INTERVAL '5 seconds',
	updated_at = NOW()
WHERE id = $1`
)

type outboxRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: r.db, tx: tx}
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *outboxRepository) conn() execQuerier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *outboxRepository) Create(ctx context.Context, e OutboxEvent) error {
	_, err := r.conn().ExecContext(ctx, insertOutboxSQL,
		e.ID, e.RequestID, e.AggregateType, e.AggregateID, e.EventType, e.Topic, e.Payload, e.Status)
	return err
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	rows, err := r.conn().QueryContext(ctx, selectDueOutboxSQL, OutboxStatusPending, OutboxStatusFailed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]OutboxEvent, 0, limit)
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(&e.ID, &e.RequestID, &e.AggregateType, &e.AggregateID, &e.EventType,
			&e.Topic, &e.Payload, &e.Status, &e.RetryCount, &e.NextRetryAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	_, err := r.conn().ExecContext(ctx, markSentOutboxSQL, id, OutboxStatusSent)
	return err
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	_, err := r.conn().ExecContext(ctx, markFailedOutboxSQL, id, reason, OutboxStatusFailed, OutboxStatusDead, MaxPublishAttempts)
	return err
}
