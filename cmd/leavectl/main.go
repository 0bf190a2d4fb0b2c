package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-leave/internal/cli"
	"go-leave/internal/client/api"
	"go-leave/internal/client/panel"
	"go-leave/internal/client/session"
	"go-leave/internal/config"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg := config.LoadClient()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid client config", zap.Error(err))
	}

	msgs, err := panel.NewMessages(cfg.Locale)
	if err != nil {
		logger.Fatal("load messages failed", zap.Error(err))
	}

	client := api.New(cfg.APIURL, api.WithTimeout(cfg.RequestTimeout), api.WithLogger(logger))
	store := session.NewStore(
		session.NewFileStorage(cfg.SessionDir),
		client,
		[]byte(cfg.SessionHashKey),
		[]byte(cfg.SessionBlockKey),
		session.WithTTL(cfg.SessionTTL),
		session.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(&cli.Env{
		Store:    store,
		API:      client,
		Messages: msgs,
		Out:      os.Stdout,
		Logger:   logger,
	})
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("command failed", zap.Error(err))
		stop()
		_ = logger.Sync()
		os.Exit(1)
	}
}
