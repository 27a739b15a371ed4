package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-console/internal/calls"
	"github.com/spec-kit/crm-console/internal/config"
	"github.com/spec-kit/crm-console/internal/directory"
	"github.com/spec-kit/crm-console/internal/events"
	"github.com/spec-kit/crm-console/internal/gateway"
	"github.com/spec-kit/crm-console/internal/notify"
	"github.com/spec-kit/crm-console/internal/observability"
	"github.com/spec-kit/crm-console/internal/session"
	"github.com/spec-kit/crm-console/internal/tokenstore"
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

	store, closeStore, err := buildTokenStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build token store", zap.Error(err))
	}
	defer closeStore()

	notifier := notify.NewWriter(os.Stdout)
	dispatcher := events.NewInMemoryDispatcher()
	client := gateway.New(cfg.Client, logger)

	sessions := session.NewManager(session.Dependencies{
		Gateway:    client,
		Store:      store,
		Dispatcher: dispatcher,
		Notifier:   notifier,
		Logger:     logger,
	})

	// The cache subscribes before Initialize so a restored session
	// triggers the initial load.
	cache := directory.NewCache(directory.Dependencies{
		Gateway:    client,
		Session:    sessions,
		Dispatcher: dispatcher,
		Notifier:   notifier,
		Logger:     logger,
	})

	callLog := calls.NewService(client, dispatcher, notifier, logger)

	ctx := context.Background()
	if err := sessions.Initialize(ctx); err != nil {
		logger.Fatal("failed to initialize session", zap.Error(err))
	}

	console := newConsole(sessions, cache, callLog, client, os.Stdin, os.Stdout)
	console.run(ctx)
}

func buildTokenStore(cfg *config.Config, logger *zap.Logger) (tokenstore.Store, func(), error) {
	if cfg.TokenStore.Backend == config.TokenBackendRedis {
		store := tokenstore.NewRedisStore(cfg.Redis, logger)
		return store, store.Close, nil
	}
	store, err := tokenstore.NewFileStore(cfg.TokenStore.Path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}
