package domain

// CallRecord is a logged contact attempt against a customer. The backend
// mirrors a call's status onto the parent customer.
type CallRecord struct {
	ID         string         `json:"id"`
	CustomerID string         `json:"customerId"`
	Status     CustomerStatus `json:"status"`
	Message    string         `json:"message,omitempty"`
	CallTime   Timestamp      `json:"callTime"`
}

// NewCall is the call-creation payload; the server assigns ID and CallTime.
type NewCall struct {
	CustomerID string         `json:"customerId"`
	Status     CustomerStatus `json:"status"`
	Message    string         `json:"message,omitempty"`
}
