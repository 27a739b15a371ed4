package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-console/internal/config"
	"github.com/spec-kit/crm-console/internal/observability"
	"github.com/spec-kit/crm-console/internal/stub"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	app, err := stub.New(cfg.Stub, logger)
	if err != nil {
		logger.Fatal("failed to build stub backend", zap.Error(err))
	}

	go func() {
		logger.Info("stub backend listening",
			zap.String("addr", cfg.Stub.Addr()),
			zap.String("admin_email", cfg.Stub.AdminEmail))
		if err := app.Listen(cfg.Stub.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
