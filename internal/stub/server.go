// Package stub is a local, in-memory stand-in for the remote CRM backend.
// It serves the same REST surface and response envelopes so the console
// client can run end-to-end without network access. It is a development
// aid, not a reimplementation of the production backend.
package stub

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-console/internal/config"
	"github.com/spec-kit/crm-console/internal/observability"
)

// New builds the stub application with the bootstrap admin seeded.
func New(cfg config.StubConfig, logger *zap.Logger) (*fiber.App, error) {
	store := NewStore(cfg.BcryptCost)
	if err := store.SeedAdmin(cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return nil, err
	}
	return newApp(store, cfg, logger), nil
}

// newApp wires routes around an existing store. Split from New so tests
// can seed their own data.
func newApp(store *Store, cfg config.StubConfig, logger *zap.Logger) *fiber.App {
	tokens := NewTokenManager(cfg.JWTSecret, cfg.TokenTTLMinutes)
	h := &handlers{store: store, tokens: tokens}
	authn := &authMiddleware{tokens: tokens, store: store}
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	registerMiddlewares(app, logger, metrics)

	app.Post("/api/auth/login", h.Login)
	app.Post("/auth/register", h.Register)
	app.Get("/auth/me", authn.Handle, h.Me)

	employees := app.Group("/employees", authn.Handle, requireAdmin())
	employees.Get("/", h.ListEmployees)
	employees.Post("/", h.CreateEmployee)

	customers := app.Group("/customers", authn.Handle)
	customers.Get("/", h.ListCustomers)
	customers.Post("/", h.CreateCustomer)
	customers.Get("/:id", h.GetCustomer)
	customers.Patch("/:id", h.UpdateCustomerStatus)

	calls := app.Group("/calls", authn.Handle)
	calls.Get("/:customerId", h.ListCalls)
	calls.Post("/", h.CreateCall)

	return app
}
