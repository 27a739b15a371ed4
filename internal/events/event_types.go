package events

import (
	"time"

	"github.com/spec-kit/crm-console/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionStarted  EventType = "session_started"
	EventSessionEnded    EventType = "session_ended"
	EventCustomerCreated EventType = "customer_created"
	EventCallLogged      EventType = "call_logged"
)

// Event represents an application event emitted by the state containers.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SessionStartedPayload payload.
type SessionStartedPayload struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// CustomerCreatedPayload payload.
type CustomerCreatedPayload struct {
	CustomerID string `json:"customer_id"`
}

// CallLoggedPayload payload. Status is the call's outcome, which the
// backend mirrors onto the parent customer.
type CallLoggedPayload struct {
	CallID     string                `json:"call_id"`
	CustomerID string                `json:"customer_id"`
	Status     domain.CustomerStatus `json:"status"`
}
