package app

import (
	"database/sql"
	"net/http"

	"go-leave/internal/auth"
	"go-leave/internal/config"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"
	"go-leave/internal/shared/token"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer, rbac.DefaultPolicies(), logger)
	if err != nil {
		return err
	}

	tokens := token.NewManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	// --- Services ---
	authService := auth.NewService(employeeRepo, tokens, logger)
	leaveService := leave.NewServiceWithDeps(db, leaveRepo, employeeRepo, outboxRepo, rdb, cfg.PendingCacheTTL, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	auth.RegisterRoutes(router, authHandler, auth.RouteConfig{
		LoginRate:  rate.Limit(cfg.LoginRatePerSec),
		LoginBurst: cfg.LoginBurst,
	})
	leave.RegisterRoutes(router, leaveHandler, leave.RouteDeps{
		Tokens:         tokens,
		RBAC:           rbacService,
		Redis:          rdb,
		IdempotencyTTL: cfg.IdempotencyTTL,
		WorkflowRate:   rate.Limit(cfg.WorkflowRatePerS),
		WorkflowBurst:  cfg.WorkflowBurst,
		Logger:         logger,
	})

	return nil
}
