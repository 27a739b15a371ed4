package stub

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/crm-console/internal/domain"
	apperrors "github.com/spec-kit/crm-console/pkg/util/errorutil"
)

// employeeAccount pairs a profile with its password hash. The hash never
// leaves the store.
type employeeAccount struct {
	profile      domain.Profile
	passwordHash string
}

// Store holds the stub backend's state in memory. Collections are kept
// newest-first, matching the order the real backend returns.
type Store struct {
	bcryptCost int

	mu        sync.RWMutex
	employees []employeeAccount
	customers []domain.Customer
	calls     []domain.CallRecord
}

// NewStore creates an empty store.
func NewStore(bcryptCost int) *Store {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Store{bcryptCost: bcryptCost}
}

// SeedAdmin creates the bootstrap admin account.
func (s *Store) SeedAdmin(name, email, password string) error {
	_, err := s.CreateEmployee(domain.NewEmployee{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     domain.RoleAdmin,
	})
	return err
}

// CreateEmployee registers an account. Email addresses are unique.
func (s *Store) CreateEmployee(data domain.NewEmployee) (*domain.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.employees {
		if acc.profile.Email == data.Email {
			return nil, apperrors.NewValidationError("email already registered", nil)
		}
	}

	profile := domain.Profile{
		ID:    uuid.NewString(),
		Name:  data.Name,
		Email: data.Email,
		Role:  data.Role,
	}
	s.employees = append([]employeeAccount{{profile: profile, passwordHash: string(hash)}}, s.employees...)
	return &profile, nil
}

// Authenticate verifies credentials and returns the matching profile.
func (s *Store) Authenticate(email, password string) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, acc := range s.employees {
		if acc.profile.Email == email {
			if bcrypt.CompareHashAndPassword([]byte(acc.passwordHash), []byte(password)) != nil {
				return nil, apperrors.NewAuthError("invalid credentials")
			}
			profile := acc.profile
			return &profile, nil
		}
	}
	return nil, apperrors.NewAuthError("invalid credentials")
}

// GetEmployee looks up a profile by ID.
func (s *Store) GetEmployee(id string) (*domain.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, acc := range s.employees {
		if acc.profile.ID == id {
			profile := acc.profile
			return &profile, true
		}
	}
	return nil, false
}

// ListEmployees returns all profiles, newest first.
func (s *Store) ListEmployees() []domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make([]domain.Profile, 0, len(s.employees))
	for _, acc := range s.employees {
		profiles = append(profiles, acc.profile)
	}
	return profiles
}

// CreateCustomer assigns an ID and the initial "new" status.
func (s *Store) CreateCustomer(data domain.NewCustomer) *domain.Customer {
	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      data.Name,
		Phone:     data.Phone,
		Email:     data.Email,
		Note:      data.Note,
		VisitTime: data.VisitTime,
		Status:    domain.CustomerStatusNew,
	}

	s.mu.Lock()
	s.customers = append([]domain.Customer{customer}, s.customers...)
	s.mu.Unlock()
	return &customer
}

// ListCustomers returns all customers, newest first.
func (s *Store) ListCustomers() []domain.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customers := make([]domain.Customer, len(s.customers))
	copy(customers, s.customers)
	return customers
}

// GetCustomer looks up a customer by ID.
func (s *Store) GetCustomer(id string) (domain.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.customers {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Customer{}, false
}

// UpdateCustomerStatus moves a customer through the pipeline.
func (s *Store) UpdateCustomerStatus(id string, status domain.CustomerStatus) (*domain.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.customers {
		if s.customers[i].ID == id {
			s.customers[i].Status = status
			customer := s.customers[i]
			return &customer, true
		}
	}
	return nil, false
}

// CreateCall records a call and mirrors its status onto the parent
// customer, the way the real backend does.
func (s *Store) CreateCall(data domain.NewCall) (*domain.CallRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.customers {
		if s.customers[i].ID == data.CustomerID {
			s.customers[i].Status = data.Status
			found = true
			break
		}
	}
	if !found {
		return nil, apperrors.NewNotFound("customer")
	}

	call := domain.CallRecord{
		ID:         uuid.NewString(),
		CustomerID: data.CustomerID,
		Status:     data.Status,
		Message:    data.Message,
		CallTime:   domain.NewTimestamp(time.Now()),
	}
	s.calls = append(s.calls, call)
	return &call, nil
}

// ListCalls returns a customer's calls, callTime-descending.
func (s *Store) ListCalls(customerID string) []domain.CallRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var calls []domain.CallRecord
	for _, call := range s.calls {
		if call.CustomerID == customerID {
			calls = append(calls, call)
		}
	}
	sort.SliceStable(calls, func(i, j int) bool {
		return calls[i].CallTime.After(calls[j].CallTime.Time)
	})
	return calls
}
