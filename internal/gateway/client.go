package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-console/internal/config"
	"github.com/spec-kit/crm-console/internal/domain"
	apperrors "github.com/spec-kit/crm-console/pkg/util/errorutil"
)

// Client is the single point of outbound communication with the CRM
// backend. It attaches the installed bearer credential to every request
// except login and unwraps the `{"data": ...}` envelope.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger

	mu    sync.RWMutex
	token string
}

// New builds a client against the configured backend.
func New(cfg config.ClientConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout()},
		baseURL:    strings.TrimRight(cfg.ServerURL, "/"),
		logger:     logger,
	}
}

// SetCredential installs the bearer token used by all subsequent calls.
// An empty token clears the credential.
func (c *Client) SetCredential(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) credential() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// envelope is the `{"data": ...}` wrapper around successful payloads.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// loginResponse is the one response that carries the token beside the
// profile envelope.
type loginResponse struct {
	Token string          `json:"token"`
	Data  *domain.Profile `json:"data"`
}

// apiError mirrors the backend's error bodies. Older endpoints return a
// bare `{"message": ...}`, newer ones nest it under `error`.
type apiError struct {
	Message string `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Login exchanges credentials for a token and profile. It never sends a
// bearer header.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (string, *domain.Profile, error) {
	resp, err := c.send(ctx, http.MethodPost, "/api/auth/login", creds, false)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return "", nil, err
	}

	var body loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", nil, apperrors.NewInternalError(err)
	}
	if body.Token == "" || body.Data == nil {
		return "", nil, apperrors.NewAuthError("login response missing token or profile")
	}
	return body.Token, body.Data, nil
}

// FetchCurrentUser resolves the profile for the installed credential. An
// AuthError means "not authenticated", not a fatal condition.
func (c *Client) FetchCurrentUser(ctx context.Context) (*domain.Profile, error) {
	var profile domain.Profile
	if err := c.call(ctx, http.MethodGet, "/auth/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Register creates a user account. Unused by the console flows, part of
// the backend surface.
func (c *Client) Register(ctx context.Context, payload domain.NewEmployee) error {
	resp, err := c.send(ctx, http.MethodPost, "/auth/register", payload, false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkStatus(resp)
}

// ListCustomers fetches the full customer collection in server order.
func (c *Client) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	if err := c.call(ctx, http.MethodGet, "/customers", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// GetCustomer fetches one customer by ID.
func (c *Client) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	var customer domain.Customer
	if err := c.call(ctx, http.MethodGet, "/customers/"+id, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer creates a customer and returns the server-assigned record.
func (c *Client) CreateCustomer(ctx context.Context, data domain.NewCustomer) (*domain.Customer, error) {
	var customer domain.Customer
	if err := c.call(ctx, http.MethodPost, "/customers", data, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateCustomerStatus patches a customer's pipeline status and returns
// the updated record.
func (c *Client) UpdateCustomerStatus(ctx context.Context, id string, status domain.CustomerStatus) (*domain.Customer, error) {
	var customer domain.Customer
	payload := map[string]domain.CustomerStatus{"status": status}
	if err := c.call(ctx, http.MethodPatch, "/customers/"+id, payload, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListCalls fetches the call log for a customer, callTime-descending.
func (c *Client) ListCalls(ctx context.Context, customerID string) ([]domain.CallRecord, error) {
	var calls []domain.CallRecord
	if err := c.call(ctx, http.MethodGet, "/calls/"+customerID, nil, &calls); err != nil {
		return nil, err
	}
	return calls, nil
}

// CreateCall records a contact attempt against a customer.
func (c *Client) CreateCall(ctx context.Context, data domain.NewCall) (*domain.CallRecord, error) {
	var call domain.CallRecord
	if err := c.call(ctx, http.MethodPost, "/calls", data, &call); err != nil {
		return nil, err
	}
	return &call, nil
}

// ListEmployees fetches the employee roster. Admin only; others receive
// an AuthorizationError.
func (c *Client) ListEmployees(ctx context.Context) ([]domain.Profile, error) {
	var employees []domain.Profile
	if err := c.call(ctx, http.MethodGet, "/employees", nil, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// CreateEmployee adds an employee account. Admin only.
func (c *Client) CreateEmployee(ctx context.Context, data domain.NewEmployee) (*domain.Profile, error) {
	var employee domain.Profile
	if err := c.call(ctx, http.MethodPost, "/employees", data, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

// call performs an authenticated request and decodes the enveloped
// payload into out (when out is non-nil).
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.send(ctx, method, path, body, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return apperrors.NewInternalError(err)
	}
	if env.Data == nil {
		return apperrors.NewInternalError(fmt.Errorf("%s %s: response missing data envelope", method, path))
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any, authed bool) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	if authed {
		if token := c.credential(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, apperrors.NewNetworkError(err)
	}

	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode))
	return resp, nil
}

// checkStatus maps non-2xx responses into the error taxonomy, carrying
// the backend message through when one is present.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	var body apiError
	_ = json.NewDecoder(resp.Body).Decode(&body)

	message := body.Message
	if body.Error != nil && body.Error.Message != "" {
		message = body.Error.Message
	}
	return apperrors.FromStatus(resp.StatusCode, message)
}
