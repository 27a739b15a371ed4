package directory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-console/internal/directory"
	"github.com/spec-kit/crm-console/internal/domain"
	"github.com/spec-kit/crm-console/internal/events"
	apperrors "github.com/spec-kit/crm-console/pkg/util/errorutil"
)

type fakeGateway struct {
	listResult []domain.Customer
	listErr    error
	listCalls  int

	createResult *domain.Customer
	createErr    error

	onList func()
}

func (f *fakeGateway) ListCustomers(context.Context) ([]domain.Customer, error) {
	f.listCalls++
	if f.onList != nil {
		f.onList()
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := make([]domain.Customer, len(f.listResult))
	copy(result, f.listResult)
	return result, nil
}

func (f *fakeGateway) CreateCustomer(context.Context, domain.NewCustomer) (*domain.Customer, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	customer := *f.createResult
	return &customer, nil
}

type fakeSession struct {
	authenticated bool
}

func (f *fakeSession) IsAuthenticated() bool { return f.authenticated }

func customer(id, name string, status domain.CustomerStatus) domain.Customer {
	return domain.Customer{ID: id, Name: name, Phone: "555-0100", Status: status}
}

func newCache(gw *fakeGateway, authed bool, dispatcher events.Dispatcher) *directory.Cache {
	return directory.NewCache(directory.Dependencies{
		Gateway:    gw,
		Session:    &fakeSession{authenticated: authed},
		Dispatcher: dispatcher,
	})
}

func TestLoadReplacesItemsWholesale(t *testing.T) {
	gw := &fakeGateway{listResult: []domain.Customer{
		customer("c1", "Alice", domain.CustomerStatusNew),
		customer("c2", "Bob", domain.CustomerStatusBuyed),
	}}
	cache := newCache(gw, true, nil)

	cache.Load(context.Background())

	items := cache.Items()
	require.Len(t, items, 2)
	require.Equal(t, "c1", items[0].ID)
	require.Equal(t, "c2", items[1].ID)
}

func TestLoadWithoutSessionIsNoOp(t *testing.T) {
	gw := &fakeGateway{listResult: []domain.Customer{customer("c1", "Alice", domain.CustomerStatusNew)}}
	cache := newCache(gw, false, nil)

	cache.Load(context.Background())

	require.Empty(t, cache.Items())
	require.Zero(t, gw.listCalls)
}

func TestLoadFailureLeavesItemsUnchanged(t *testing.T) {
	gw := &fakeGateway{listResult: []domain.Customer{customer("c1", "Alice", domain.CustomerStatusNew)}}
	cache := newCache(gw, true, nil)
	cache.Load(context.Background())

	gw.listErr = apperrors.NewNetworkError(nil)
	cache.Load(context.Background())

	items := cache.Items()
	require.Len(t, items, 1)
	require.Equal(t, "c1", items[0].ID)
	require.False(t, cache.IsLoading())
}

func TestCreatePrependsServerRecord(t *testing.T) {
	gw := &fakeGateway{listResult: []domain.Customer{customer("c0", "Older", domain.CustomerStatusNew)}}
	cache := newCache(gw, true, nil)
	cache.Load(context.Background())

	gw.createResult = &domain.Customer{
		ID:     "c1",
		Name:   "Alice",
		Phone:  "555-0100",
		Status: domain.CustomerStatusNew,
	}
	created, err := cache.Create(context.Background(), domain.NewCustomer{Name: "Alice", Phone: "555-0100"})
	require.NoError(t, err)
	require.Equal(t, "c1", created.ID)
	require.Equal(t, domain.CustomerStatusNew, created.Status)

	items := cache.Items()
	require.Len(t, items, 2)
	require.Equal(t, "c1", items[0].ID)
	require.Equal(t, "c0", items[1].ID)
}

func TestCreateSequencePreservesRelativeOrder(t *testing.T) {
	gw := &fakeGateway{}
	cache := newCache(gw, true, nil)

	for _, id := range []string{"c1", "c2", "c3"} {
		gw.createResult = &domain.Customer{ID: id, Status: domain.CustomerStatusNew}
		created, err := cache.Create(context.Background(), domain.NewCustomer{Name: id, Phone: "x"})
		require.NoError(t, err)
		require.Equal(t, id, cache.Items()[0].ID)
		require.Equal(t, created.ID, cache.Items()[0].ID)
	}

	items := cache.Items()
	require.Equal(t, []string{"c3", "c2", "c1"}, []string{items[0].ID, items[1].ID, items[2].ID})
}

func TestCreateFailurePropagatesAndLeavesItems(t *testing.T) {
	gw := &fakeGateway{listResult: []domain.Customer{customer("c1", "Alice", domain.CustomerStatusNew)}}
	cache := newCache(gw, true, nil)
	cache.Load(context.Background())

	gw.createErr = apperrors.NewValidationError("phone number is required", nil)
	created, err := cache.Create(context.Background(), domain.NewCustomer{Name: "Bob"})
	require.Nil(t, created)
	require.True(t, apperrors.IsValidationError(err))

	items := cache.Items()
	require.Len(t, items, 1)
	require.Equal(t, "c1", items[0].ID)
}

func TestUpdateInPlaceReplacesMatchingID(t *testing.T) {
	gw := &fakeGateway{listResult: []domain.Customer{
		customer("c1", "Alice", domain.CustomerStatusNew),
		customer("c2", "Bob", domain.CustomerStatusNew),
	}}
	cache := newCache(gw, true, nil)
	cache.Load(context.Background())

	updated := customer("c2", "Bob", domain.CustomerStatusBuyed)
	cache.UpdateInPlace(updated)

	items := cache.Items()
	require.Len(t, items, 2)
	require.Equal(t, "c1", items[0].ID)
	require.Equal(t, domain.CustomerStatusNew, items[0].Status)
	require.Equal(t, "c2", items[1].ID)
	require.Equal(t, domain.CustomerStatusBuyed, items[1].Status)
}

func TestUpdateInPlaceUnknownIDIsNoOp(t *testing.T) {
	gw := &fakeGateway{listResult: []domain.Customer{customer("c1", "Alice", domain.CustomerStatusNew)}}
	cache := newCache(gw, true, nil)
	cache.Load(context.Background())
	before := cache.Items()

	cache.UpdateInPlace(customer("missing", "Nobody", domain.CustomerStatusBuyed))

	require.Equal(t, before, cache.Items())
}

func TestIsLoadingDuringOutstandingCall(t *testing.T) {
	gw := &fakeGateway{}
	cache := newCache(gw, true, nil)

	var sawLoading bool
	gw.onList = func() { sawLoading = cache.IsLoading() }

	cache.Load(context.Background())
	require.True(t, sawLoading)
	require.False(t, cache.IsLoading())
}

func TestCallLoggedEventTriggersRefresh(t *testing.T) {
	gw := &fakeGateway{}
	dispatcher := events.NewInMemoryDispatcher()
	cache := newCache(gw, true, dispatcher)

	gw.listResult = []domain.Customer{customer("c1", "Alice", domain.CustomerStatusBuyed)}
	err := dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventCallLogged,
		Payload: events.CallLoggedPayload{CallID: "k1", CustomerID: "c1", Status: domain.CustomerStatusBuyed},
	})
	require.NoError(t, err)

	require.Equal(t, 1, gw.listCalls)
	items := cache.Items()
	require.Len(t, items, 1)
	require.Equal(t, domain.CustomerStatusBuyed, items[0].Status)
}

func TestSessionEventsDriveLoadAndClear(t *testing.T) {
	gw := &fakeGateway{listResult: []domain.Customer{customer("c1", "Alice", domain.CustomerStatusNew)}}
	dispatcher := events.NewInMemoryDispatcher()
	cache := newCache(gw, true, dispatcher)

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventSessionStarted}))
	require.Len(t, cache.Items(), 1)

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventSessionEnded}))
	require.Empty(t, cache.Items())
}
