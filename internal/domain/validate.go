package domain

import (
	"regexp"
	"strings"

	apperrors "github.com/spec-kit/crm-console/pkg/util/errorutil"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an address. Empty is not valid;
// callers decide whether the field is optional.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidateNewCustomer applies the form-side rules: name, phone and visit
// time are required, email must be well-formed when present. Returns a
// ValidationError carrying per-field messages, or nil.
func ValidateNewCustomer(c NewCustomer) error {
	fields := map[string]any{}
	if strings.TrimSpace(c.Name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(c.Phone) == "" {
		fields["phone"] = "phone number is required"
	}
	if c.VisitTime.IsZero() {
		fields["visitTime"] = "visit date and time is required"
	}
	if email := strings.TrimSpace(c.Email); email != "" && !ValidEmail(email) {
		fields["email"] = "email address is not valid"
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError("invalid customer", fields)
	}
	return nil
}

// ValidateNewCall checks the call payload before it leaves the client.
func ValidateNewCall(c NewCall) error {
	fields := map[string]any{}
	if strings.TrimSpace(c.CustomerID) == "" {
		fields["customerId"] = "customer is required"
	}
	if !ValidCustomerStatus(c.Status) {
		fields["status"] = "unknown call status"
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError("invalid call", fields)
	}
	return nil
}

// ValidateNewEmployee checks the employee payload before it leaves the client.
func ValidateNewEmployee(e NewEmployee) error {
	fields := map[string]any{}
	if strings.TrimSpace(e.Name) == "" {
		fields["name"] = "name is required"
	}
	if !ValidEmail(strings.TrimSpace(e.Email)) {
		fields["email"] = "email address is not valid"
	}
	if e.Password == "" {
		fields["password"] = "password is required"
	}
	if e.Role != RoleAdmin && e.Role != RoleEmployee {
		fields["role"] = "role must be admin or employee"
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError("invalid employee", fields)
	}
	return nil
}
