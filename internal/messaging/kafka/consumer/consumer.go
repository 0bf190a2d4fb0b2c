package consumer

import (
	"context"
	"encoding/json"

	"go-leave/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Notifier tells the people involved that an application changed.
type Notifier interface {
	Notify(ctx context.Context, event events.LeaveEvent) error
}

// ConsumeLeaveLifecycle runs until ctx is cancelled. Undecodable messages
// are committed and skipped; notifier failures leave the offset
// uncommitted so the message is redelivered.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader MessageReader,
	notifier Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		handleMessage(ctx, reader, notifier, msg, log)
	}
}

func handleMessage(ctx context.Context, reader MessageReader, notifier Notifier, msg kafkago.Message, log *zap.Logger) {
	var event events.LeaveEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil || event.LeaveID == "" {
		log.Error("decode leave event failed",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		_ = reader.CommitMessages(ctx, msg)
		return
	}

	if event.EventType == "" {
		event.EventType = headerValue(msg, "event_type")
	}

	if err := notifier.Notify(ctx, event); err != nil {
		log.Error("notify leave event failed",
			zap.String("leave_id", event.LeaveID),
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
		return
	}

	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit leave lifecycle message failed", zap.Error(err))
		return
	}

	log.Debug("leave event handled",
		zap.String("leave_id", event.LeaveID),
		zap.String("event_type", event.EventType),
	)
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
