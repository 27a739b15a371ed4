package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-console/internal/domain"
	apperrors "github.com/spec-kit/crm-console/pkg/util/errorutil"
)

func validCustomer() domain.NewCustomer {
	return domain.NewCustomer{
		Name:      "Alice",
		Phone:     "555-0100",
		VisitTime: domain.NewTimestamp(time.Now()),
	}
}

func TestValidateNewCustomerAccepts(t *testing.T) {
	require.NoError(t, domain.ValidateNewCustomer(validCustomer()))

	withEmail := validCustomer()
	withEmail.Email = "alice@example.com"
	require.NoError(t, domain.ValidateNewCustomer(withEmail))
}

func TestValidateNewCustomerRequiredFields(t *testing.T) {
	missing := domain.NewCustomer{}
	err := domain.ValidateNewCustomer(missing)
	require.True(t, apperrors.IsValidationError(err))

	details := apperrors.ToDomainError(err).Details
	require.Contains(t, details, "name")
	require.Contains(t, details, "phone")
	require.Contains(t, details, "visitTime")
}

func TestValidateNewCustomerEmailOptionalButChecked(t *testing.T) {
	bad := validCustomer()
	bad.Email = "not-an-address"
	err := domain.ValidateNewCustomer(bad)
	require.True(t, apperrors.IsValidationError(err))
	require.Contains(t, apperrors.ToDomainError(err).Details, "email")
}

func TestValidateNewCall(t *testing.T) {
	require.NoError(t, domain.ValidateNewCall(domain.NewCall{
		CustomerID: "c1",
		Status:     domain.CustomerStatusNoResponse,
	}))

	err := domain.ValidateNewCall(domain.NewCall{Status: "bogus"})
	require.True(t, apperrors.IsValidationError(err))
	details := apperrors.ToDomainError(err).Details
	require.Contains(t, details, "customerId")
	require.Contains(t, details, "status")
}

func TestValidateNewEmployee(t *testing.T) {
	require.NoError(t, domain.ValidateNewEmployee(domain.NewEmployee{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "secret",
		Role:     domain.RoleEmployee,
	}))

	err := domain.ValidateNewEmployee(domain.NewEmployee{Role: "boss"})
	require.True(t, apperrors.IsValidationError(err))
	details := apperrors.ToDomainError(err).Details
	require.Contains(t, details, "name")
	require.Contains(t, details, "email")
	require.Contains(t, details, "password")
	require.Contains(t, details, "role")
}

func TestTimestampAcceptsBackendFormats(t *testing.T) {
	for _, input := range []string{
		"2024-01-01T10:00:00Z",
		"2024-01-01T10:00:00.123Z",
		"2024-01-01T10:00:00",
		"2024-01-01T10:00",
	} {
		ts, err := domain.ParseTimestamp(input)
		require.NoError(t, err, input)
		require.Equal(t, 2024, ts.Year())
		require.Equal(t, 10, ts.Hour())
	}

	_, err := domain.ParseTimestamp("tomorrow-ish")
	require.Error(t, err)
}

func TestTimestampJSONRoundTrip(t *testing.T) {
	ts, err := domain.ParseTimestamp("2024-01-01T10:00")
	require.NoError(t, err)

	encoded, err := ts.MarshalJSON()
	require.NoError(t, err)

	var decoded domain.Timestamp
	require.NoError(t, decoded.UnmarshalJSON(encoded))
	require.True(t, ts.Equal(decoded.Time))

	var empty domain.Timestamp
	require.NoError(t, empty.UnmarshalJSON([]byte(`""`)))
	require.True(t, empty.IsZero())
}
