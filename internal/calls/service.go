package calls

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-console/internal/domain"
	"github.com/spec-kit/crm-console/internal/events"
	"github.com/spec-kit/crm-console/internal/notify"
	apperrors "github.com/spec-kit/crm-console/pkg/util/errorutil"
)

// Gateway is the slice of the API client the call-log service drives.
type Gateway interface {
	ListCalls(ctx context.Context, customerID string) ([]domain.CallRecord, error)
	CreateCall(ctx context.Context, data domain.NewCall) (*domain.CallRecord, error)
}

// Service logs contact attempts. Creating a call can move the parent
// customer's status on the backend, so every successful create publishes
// a call-logged event for the directory cache to act on.
type Service struct {
	gateway    Gateway
	dispatcher events.Dispatcher
	notifier   notify.Notifier
	logger     *zap.Logger
}

// NewService builds the call-log service.
func NewService(gateway Gateway, dispatcher events.Dispatcher, notifier notify.Notifier, logger *zap.Logger) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gateway: gateway, dispatcher: dispatcher, notifier: notifier, logger: logger}
}

// List fetches a customer's call log, callTime-descending per the
// backend's ordering.
func (s *Service) List(ctx context.Context, customerID string) ([]domain.CallRecord, error) {
	return s.gateway.ListCalls(ctx, customerID)
}

// Log records a call. The error is returned after a notification so the
// caller can keep its form open.
func (s *Service) Log(ctx context.Context, data domain.NewCall) (*domain.CallRecord, error) {
	call, err := s.gateway.CreateCall(ctx, data)
	if err != nil {
		s.logger.Warn("failed to log call", zap.Error(err))
		s.notifier.Error(logFailureMessage(err))
		return nil, err
	}

	s.notifier.Success("Call logged")
	if s.dispatcher != nil {
		publishErr := s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventCallLogged,
			Timestamp: time.Now(),
			Payload: events.CallLoggedPayload{
				CallID:     call.ID,
				CustomerID: call.CustomerID,
				Status:     call.Status,
			},
		})
		if publishErr != nil {
			s.logger.Warn("call logged handlers failed", zap.Error(publishErr))
		}
	}
	return call, nil
}

func logFailureMessage(err error) string {
	domainErr := apperrors.ToDomainError(err)
	switch domainErr.Code {
	case apperrors.CodeNetworkError, apperrors.CodeInternalError:
		return "Failed to log call"
	default:
		return domainErr.Message
	}
}
