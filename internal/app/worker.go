package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-leave/internal/config"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/messaging/kafka/producer"
	"go-leave/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker publishes outbox events to kafka until SIGINT or SIGTERM. The
// batch in flight is finished before it returns.
func RunWorker(cfg config.Config) error {
	logger := zap.L().Named("app.worker")

	if err := cfg.ValidateMessaging(); err != nil {
		return err
	}

	gormDB, err := connection.ConnectGORMWithRetry(postgresConfig(cfg), cfg.ConnectRetries)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := kafka.EnsureSchema(ctx, sqlDB); err != nil {
		return err
	}

	writer, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.ConnectRetries)
	if err != nil {
		return err
	}
	defer writer.Close()

	producer.ProcessOutboxEvents(ctx, kafka.NewOutboxRepository(sqlDB), writer, logger, cfg.OutboxPoll)

	logger.Info("worker shut down")
	return nil
}
