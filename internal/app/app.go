package app

import (
	"context"
	"database/sql"

	"go-leave/internal/config"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp connects the infrastructure, migrates the schema and registers
// every module on router. The returned func closes the connections.
func BuildApp(router *gin.Engine, cfg config.Config) (func(context.Context) error, error) {
	logger := zap.L().Named("app.api")

	gormDB, err := connection.ConnectGORMWithRetry(postgresConfig(cfg), cfg.ConnectRetries)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	if err := migrate(context.Background(), gormDB, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.ConnectRetries)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	} else {
		logger.Warn("REDIS_ADDR not set, pending cache and idempotency disabled")
	}

	if err := registerModules(router, cfg, sqlDB, gormDB, rdb); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return func(context.Context) error {
		if rdb != nil {
			_ = rdb.Close()
		}
		return sqlDB.Close()
	}, nil
}

func migrate(ctx context.Context, gormDB *gorm.DB, sqlDB *sql.DB) error {
	if err := gormDB.WithContext(ctx).AutoMigrate(&employee.Employee{}, &leave.LeaveRecord{}); err != nil {
		return err
	}
	return kafka.EnsureSchema(ctx, sqlDB)
}

func postgresConfig(cfg config.Config) connection.PostgresConfig {
	return connection.PostgresConfig{
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
		SSLMode:  cfg.DBSSLMode,
	}
}
