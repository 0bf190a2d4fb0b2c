package bootstrap

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type ServerConfig struct {
	Port         string
	ServiceName  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// ShutdownFunc releases a resource after the HTTP server has drained.
type ShutdownFunc func(ctx context.Context) error

func NewServer(router *gin.Engine, cfg ServerConfig) *http.Server {
	name := cfg.ServiceName
	if name == "" {
		name = "go-leave-api"
	}
	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(router, name),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// StartHTTPServer runs the router until SIGINT or SIGTERM, then shuts the
// server down and runs the hooks in order.
func StartHTTPServer(
	router *gin.Engine,
	cfg ServerConfig,
	hooks ...ShutdownFunc,
) {
	server := NewServer(router, cfg)

	go func() {
		zap.L().Info("HTTP server running", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("ListenAndServe error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	zap.L().Info("Shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zap.L().Error("Forced shutdown", zap.Error(err))
	} else {
		zap.L().Info("Server exited gracefully")
	}

	for _, hook := range hooks {
		if err := hook(ctx); err != nil {
			zap.L().Warn("shutdown hook failed", zap.Error(err))
		}
	}
}
