package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-leave/internal/config"
	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer hands leave lifecycle events to the notifier until SIGINT or
// SIGTERM.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	if err := cfg.ValidateMessaging(); err != nil {
		return err
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{cfg.KafkaBroker},
		Topic:       events.LeaveLifecycleTopic,
		GroupID:     cfg.KafkaGroupID,
		StartOffset: kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer.ConsumeLeaveLifecycle(ctx, reader, consumer.NewLogNotifier(logger), logger)

	logger.Info("consumer shut down")
	return nil
}
