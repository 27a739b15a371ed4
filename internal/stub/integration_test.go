package stub_test

import (
	"context"
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-console/internal/calls"
	"github.com/spec-kit/crm-console/internal/config"
	"github.com/spec-kit/crm-console/internal/directory"
	"github.com/spec-kit/crm-console/internal/domain"
	"github.com/spec-kit/crm-console/internal/events"
	"github.com/spec-kit/crm-console/internal/gateway"
	"github.com/spec-kit/crm-console/internal/session"
	"github.com/spec-kit/crm-console/internal/stub"
	"github.com/spec-kit/crm-console/internal/tokenstore"
)

// startStub serves the stub backend on a loopback listener and returns
// its base URL.
func startStub(t *testing.T) string {
	t.Helper()

	app, err := stub.New(stubConfig(), zap.NewNop())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return "http://" + ln.Addr().String()
}

func TestConsoleStackAgainstStub(t *testing.T) {
	baseURL := startStub(t)
	ctx := context.Background()

	store, err := tokenstore.NewFileStore(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, err)

	client := gateway.New(config.ClientConfig{ServerURL: baseURL, RequestTimeoutSeconds: 5}, zap.NewNop())
	dispatcher := events.NewInMemoryDispatcher()

	sessions := session.NewManager(session.Dependencies{
		Gateway:    client,
		Store:      store,
		Dispatcher: dispatcher,
	})
	cache := directory.NewCache(directory.Dependencies{
		Gateway:    client,
		Session:    sessions,
		Dispatcher: dispatcher,
	})
	callLog := calls.NewService(client, dispatcher, nil, nil)

	// Cold start: no persisted token.
	require.NoError(t, sessions.Initialize(ctx))
	require.Equal(t, session.StatusAnonymous, sessions.Status())

	// Sign in; the session-started event loads the (empty) directory.
	profile, err := sessions.Login(ctx, domain.Credentials{
		Email:    "admin@example.com",
		Password: "admin123",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, profile.Role)
	require.Empty(t, cache.Items())

	// Create a customer through the cache.
	visit, err := domain.ParseTimestamp("2024-01-01T10:00")
	require.NoError(t, err)
	created, err := cache.Create(ctx, domain.NewCustomer{
		Name:      "Alice",
		Phone:     "555-0100",
		VisitTime: visit,
	})
	require.NoError(t, err)
	require.Equal(t, domain.CustomerStatusNew, created.Status)
	require.Equal(t, created.ID, cache.Items()[0].ID)

	// Logging a call moves the customer's status server-side; the
	// call-logged event refreshes the cache, which picks that up.
	_, err = callLog.Log(ctx, domain.NewCall{
		CustomerID: created.ID,
		Status:     domain.CustomerStatusBuyed,
		Message:    "closed the deal",
	})
	require.NoError(t, err)

	refreshed, ok := cache.Get(created.ID)
	require.True(t, ok)
	require.Equal(t, domain.CustomerStatusBuyed, refreshed.Status)

	// Restart: a fresh stack over the same token store resolves the
	// same identity and loads the directory during Initialize.
	client2 := gateway.New(config.ClientConfig{ServerURL: baseURL, RequestTimeoutSeconds: 5}, zap.NewNop())
	dispatcher2 := events.NewInMemoryDispatcher()
	sessions2 := session.NewManager(session.Dependencies{
		Gateway:    client2,
		Store:      store,
		Dispatcher: dispatcher2,
	})
	cache2 := directory.NewCache(directory.Dependencies{
		Gateway:    client2,
		Session:    sessions2,
		Dispatcher: dispatcher2,
	})

	require.NoError(t, sessions2.Initialize(ctx))
	require.Equal(t, session.StatusAuthenticated, sessions2.Status())
	require.Equal(t, profile.ID, sessions2.User().ID)
	require.Len(t, cache2.Items(), 1)

	// Logout ends the session and empties the directory.
	sessions2.Logout()
	require.Empty(t, cache2.Items())
	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, persisted)
}
