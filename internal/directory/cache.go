package directory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-console/internal/domain"
	"github.com/spec-kit/crm-console/internal/events"
	"github.com/spec-kit/crm-console/internal/notify"
	apperrors "github.com/spec-kit/crm-console/pkg/util/errorutil"
)

// Gateway is the slice of the API client the cache drives.
type Gateway interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	CreateCustomer(ctx context.Context, data domain.NewCustomer) (*domain.Customer, error)
}

// Session answers whether a validated session exists; without one the
// cache refuses to load.
type Session interface {
	IsAuthenticated() bool
}

// Cache owns the in-memory customer collection for the signed-in
// session. Items hold at most one record per ID; client-side creates are
// prepended, loads impose the server's order unchanged.
type Cache struct {
	gateway    Gateway
	session    Session
	dispatcher events.Dispatcher
	notifier   notify.Notifier
	logger     *zap.Logger

	mu      sync.RWMutex
	items   []domain.Customer
	loading bool
}

// Dependencies encapsulates collaborator requirements for the cache.
type Dependencies struct {
	Gateway    Gateway
	Session    Session
	Dispatcher events.Dispatcher
	Notifier   notify.Notifier
	Logger     *zap.Logger
}

// NewCache builds an empty cache and subscribes it to the session and
// call-log events: a started session triggers the initial load, a
// logged call triggers a refresh (the backend may have moved the parent
// customer's status), an ended session empties the collection.
func NewCache(deps Dependencies) *Cache {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.Nop{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache{
		gateway:    deps.Gateway,
		session:    deps.Session,
		dispatcher: deps.Dispatcher,
		notifier:   notifier,
		logger:     logger,
	}
	if deps.Dispatcher != nil {
		deps.Dispatcher.Subscribe(events.EventSessionStarted, func(ctx context.Context, _ events.Event) error {
			c.Load(ctx)
			return nil
		})
		deps.Dispatcher.Subscribe(events.EventCallLogged, func(ctx context.Context, _ events.Event) error {
			c.Refresh(ctx)
			return nil
		})
		deps.Dispatcher.Subscribe(events.EventSessionEnded, func(context.Context, events.Event) error {
			c.clear()
			return nil
		})
	}
	return c
}

// Load fetches the full collection and replaces items wholesale. No-op
// without a session. Failures leave items unchanged and are surfaced as
// a notification, never returned to a rendering path.
func (c *Cache) Load(ctx context.Context) {
	if !c.session.IsAuthenticated() {
		return
	}

	c.setLoading(true)
	defer c.setLoading(false)

	customers, err := c.gateway.ListCustomers(ctx)
	if err != nil {
		c.logger.Warn("failed to load customers", zap.Error(err))
		c.notifier.Error("Failed to load customers")
		return
	}

	c.mu.Lock()
	c.items = customers
	c.mu.Unlock()
}

// Create sends the payload to the backend and, on success, prepends the
// returned record so the newest entry is first. Validation is the
// caller's responsibility. Failures leave items unchanged and the error
// is returned after a notification so the caller can keep its form open.
func (c *Cache) Create(ctx context.Context, data domain.NewCustomer) (*domain.Customer, error) {
	c.setLoading(true)
	defer c.setLoading(false)

	customer, err := c.gateway.CreateCustomer(ctx, data)
	if err != nil {
		c.logger.Warn("failed to create customer", zap.Error(err))
		c.notifier.Error(createFailureMessage(err))
		return nil, err
	}

	c.mu.Lock()
	c.items = append([]domain.Customer{*customer}, c.items...)
	c.mu.Unlock()

	c.notifier.Success("Customer added successfully!")
	c.publishCreated(ctx, customer.ID)
	return customer, nil
}

// UpdateInPlace replaces the item matching record.ID. Local only, no
// network; no-op when the ID is not present.
func (c *Cache) UpdateInPlace(record domain.Customer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == record.ID {
			c.items[i] = record
			return
		}
	}
}

// Refresh reloads the collection to pick up server-side effects the
// cache has no direct visibility into.
func (c *Cache) Refresh(ctx context.Context) {
	c.Load(ctx)
}

// Items returns a copy of the current collection.
func (c *Cache) Items() []domain.Customer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]domain.Customer, len(c.items))
	copy(items, c.items)
	return items
}

// Get returns the cached record for id, if present.
func (c *Cache) Get(id string) (domain.Customer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.Customer{}, false
}

// IsLoading reports whether a load, create or refresh call is outstanding.
func (c *Cache) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

func (c *Cache) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

func (c *Cache) clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

func (c *Cache) publishCreated(ctx context.Context, customerID string) {
	if c.dispatcher == nil {
		return
	}
	err := c.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventCustomerCreated,
		Timestamp: time.Now(),
		Payload:   events.CustomerCreatedPayload{CustomerID: customerID},
	})
	if err != nil {
		c.logger.Warn("customer created handlers failed", zap.Error(err))
	}
}

func createFailureMessage(err error) string {
	domainErr := apperrors.ToDomainError(err)
	switch domainErr.Code {
	case apperrors.CodeNetworkError, apperrors.CodeInternalError:
		return "Failed to add customer"
	default:
		return domainErr.Message
	}
}
