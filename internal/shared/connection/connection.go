package connection

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const retryDelay = 5 * time.Second

// retry calls dial up to maxRetries times, sleeping retryDelay between
// failures, and returns the last error.
func retry(log *zap.Logger, what string, maxRetries int, dial func() error) error {
	if maxRetries < 1 {
		maxRetries = 1
	}
	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		if lastErr = dial(); lastErr == nil {
			return nil
		}
		log.Warn(what+" failed", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(lastErr))
		if i < maxRetries {
			time.Sleep(retryDelay)
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", what, maxRetries, lastErr)
}

type PostgresConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

func ConnectGORMWithRetry(cfg PostgresConfig, maxRetries int) (*gorm.DB, error) {
	log := zap.L().Named("connection.postgres")

	var db *gorm.DB
	err := retry(log, "postgres connect", maxRetries, func() error {
		opened, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
		if err != nil {
			return err
		}
		sqlDB, err := opened.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Ping(); err != nil {
			_ = sqlDB.Close()
			return err
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(time.Hour)
		db = opened
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("connected to postgres", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return db, nil
}

func ConnectRedisWithRetry(addr string, maxRetries int) (*redis.Client, error) {
	log := zap.L().Named("connection.redis")
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	err := retry(log, "redis ping", maxRetries, func() error {
		return rdb.Ping(context.Background()).Err()
	})
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}

	log.Info("connected to redis", zap.String("addr", addr))
	return rdb, nil
}

// ConnectKafkaWithRetry waits until the broker reports a controller, then
// returns a writer without a fixed topic; each message carries its own.
func ConnectKafkaWithRetry(broker string, maxRetries int) (*kafkago.Writer, error) {
	log := zap.L().Named("connection.kafka")

	err := retry(log, "kafka dial", maxRetries, func() error {
		conn, err := kafkago.Dial("tcp", broker)
		if err != nil {
			return err
		}
		defer conn.Close()
		_, err = conn.Controller()
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info("connected to kafka", zap.String("broker", broker))
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(broker),
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}, nil
}
