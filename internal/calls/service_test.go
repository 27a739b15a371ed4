package calls_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-console/internal/calls"
	"github.com/spec-kit/crm-console/internal/domain"
	"github.com/spec-kit/crm-console/internal/events"
	apperrors "github.com/spec-kit/crm-console/pkg/util/errorutil"
)

type fakeGateway struct {
	listResult   []domain.CallRecord
	createResult *domain.CallRecord
	createErr    error
}

func (f *fakeGateway) ListCalls(context.Context, string) ([]domain.CallRecord, error) {
	return f.listResult, nil
}

func (f *fakeGateway) CreateCall(context.Context, domain.NewCall) (*domain.CallRecord, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	call := *f.createResult
	return &call, nil
}

func TestLogPublishesCallLoggedEvent(t *testing.T) {
	gw := &fakeGateway{createResult: &domain.CallRecord{
		ID:         "k1",
		CustomerID: "c1",
		Status:     domain.CustomerStatusBuyed,
	}}
	dispatcher := events.NewInMemoryDispatcher()

	var payloads []events.CallLoggedPayload
	dispatcher.Subscribe(events.EventCallLogged, func(_ context.Context, e events.Event) error {
		payloads = append(payloads, e.Payload.(events.CallLoggedPayload))
		return nil
	})

	svc := calls.NewService(gw, dispatcher, nil, nil)
	call, err := svc.Log(context.Background(), domain.NewCall{
		CustomerID: "c1",
		Status:     domain.CustomerStatusBuyed,
	})
	require.NoError(t, err)
	require.Equal(t, "k1", call.ID)

	require.Len(t, payloads, 1)
	require.Equal(t, "k1", payloads[0].CallID)
	require.Equal(t, "c1", payloads[0].CustomerID)
	require.Equal(t, domain.CustomerStatusBuyed, payloads[0].Status)
}

func TestLogFailurePropagatesWithoutEvent(t *testing.T) {
	gw := &fakeGateway{createErr: apperrors.NewValidationError("customer is required", nil)}
	dispatcher := events.NewInMemoryDispatcher()

	var published int
	dispatcher.Subscribe(events.EventCallLogged, func(context.Context, events.Event) error {
		published++
		return nil
	})

	svc := calls.NewService(gw, dispatcher, nil, nil)
	call, err := svc.Log(context.Background(), domain.NewCall{})
	require.Nil(t, call)
	require.True(t, apperrors.IsValidationError(err))
	require.Zero(t, published)
}

func TestListPassesThrough(t *testing.T) {
	gw := &fakeGateway{listResult: []domain.CallRecord{
		{ID: "k2", CustomerID: "c1"},
		{ID: "k1", CustomerID: "c1"},
	}}
	svc := calls.NewService(gw, nil, nil, nil)

	callLog, err := svc.List(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, callLog, 2)
	require.Equal(t, "k2", callLog[0].ID)
}
