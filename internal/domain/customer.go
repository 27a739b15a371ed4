package domain

// CustomerStatus tracks where a customer sits in the sales pipeline.
type CustomerStatus string

const (
	CustomerStatusNew        CustomerStatus = "new"
	CustomerStatusNoResponse CustomerStatus = "noresponse"
	CustomerStatusCancelled  CustomerStatus = "cancelled"
	CustomerStatusBuyed      CustomerStatus = "buyed"
)

// ValidCustomerStatus reports whether s is one of the known pipeline states.
func ValidCustomerStatus(s CustomerStatus) bool {
	switch s {
	case CustomerStatusNew, CustomerStatusNoResponse, CustomerStatusCancelled, CustomerStatusBuyed:
		return true
	}
	return false
}

// Customer is a CRM customer record as the backend returns it.
type Customer struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Phone     string         `json:"phone"`
	Email     string         `json:"email,omitempty"`
	Note      string         `json:"note,omitempty"`
	VisitTime Timestamp      `json:"visitTime"`
	Status    CustomerStatus `json:"status"`
}

// NewCustomer is the creation payload. The server assigns ID and the
// initial "new" status.
type NewCustomer struct {
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Note      string    `json:"note,omitempty"`
	VisitTime Timestamp `json:"visitTime"`
}
