package stub

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-console/internal/domain"
	apperrors "github.com/spec-kit/crm-console/pkg/util/errorutil"
)

// handlers serves the CRM REST surface the console consumes.
type handlers struct {
	store  *Store
	tokens *TokenManager
}

// Login handles POST /api/auth/login. The response carries the token
// beside the enveloped profile.
func (h *handlers) Login(c *fiber.Ctx) error {
	var creds domain.Credentials
	if err := c.BodyParser(&creds); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if creds.Email == "" || creds.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	profile, err := h.store.Authenticate(creds.Email, creds.Password)
	if err != nil {
		return err
	}

	token, err := h.tokens.Generate(profile.ID, profile.Role)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	return c.JSON(fiber.Map{"token": token, "data": profile})
}

// Register handles POST /auth/register.
func (h *handlers) Register(c *fiber.Ctx) error {
	var payload domain.NewEmployee
	if err := c.BodyParser(&payload); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if payload.Role == "" {
		payload.Role = domain.RoleEmployee
	}
	if err := domain.ValidateNewEmployee(payload); err != nil {
		return err
	}

	profile, err := h.store.CreateEmployee(payload)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": profile})
}

// Me handles GET /auth/me.
func (h *handlers) Me(c *fiber.Ctx) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return apperrors.NewAuthError("not authenticated")
	}
	return c.JSON(fiber.Map{"data": principal.Profile})
}

// ListEmployees handles GET /employees.
func (h *handlers) ListEmployees(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.store.ListEmployees()})
}

// CreateEmployee handles POST /employees.
func (h *handlers) CreateEmployee(c *fiber.Ctx) error {
	var payload domain.NewEmployee
	if err := c.BodyParser(&payload); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if payload.Role == "" {
		payload.Role = domain.RoleEmployee
	}
	if err := domain.ValidateNewEmployee(payload); err != nil {
		return err
	}

	profile, err := h.store.CreateEmployee(payload)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": profile})
}

// ListCustomers handles GET /customers.
func (h *handlers) ListCustomers(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.store.ListCustomers()})
}

// GetCustomer handles GET /customers/:id.
func (h *handlers) GetCustomer(c *fiber.Ctx) error {
	customer, ok := h.store.GetCustomer(c.Params("id"))
	if !ok {
		return apperrors.NewNotFound("customer")
	}
	return c.JSON(fiber.Map{"data": customer})
}

// CreateCustomer handles POST /customers.
func (h *handlers) CreateCustomer(c *fiber.Ctx) error {
	var payload domain.NewCustomer
	if err := c.BodyParser(&payload); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := domain.ValidateNewCustomer(payload); err != nil {
		return err
	}

	customer := h.store.CreateCustomer(payload)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": customer})
}

// UpdateCustomerStatus handles PATCH /customers/:id.
func (h *handlers) UpdateCustomerStatus(c *fiber.Ctx) error {
	var payload struct {
		Status domain.CustomerStatus `json:"status"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !domain.ValidCustomerStatus(payload.Status) {
		return apperrors.NewValidationError("unknown status", nil)
	}

	customer, ok := h.store.UpdateCustomerStatus(c.Params("id"), payload.Status)
	if !ok {
		return apperrors.NewNotFound("customer")
	}
	return c.JSON(fiber.Map{"data": customer})
}

// ListCalls handles GET /calls/:customerId.
func (h *handlers) ListCalls(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.store.ListCalls(c.Params("customerId"))})
}

// CreateCall handles POST /calls.
func (h *handlers) CreateCall(c *fiber.Ctx) error {
	var payload domain.NewCall
	if err := c.BodyParser(&payload); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := domain.ValidateNewCall(payload); err != nil {
		return err
	}

	call, err := h.store.CreateCall(payload)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": call})
}
