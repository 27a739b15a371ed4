package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-console/internal/domain"
	"github.com/spec-kit/crm-console/internal/events"
	"github.com/spec-kit/crm-console/internal/notify"
	"github.com/spec-kit/crm-console/internal/tokenstore"
	apperrors "github.com/spec-kit/crm-console/pkg/util/errorutil"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusInitializing  Status = "initializing"
	StatusAuthenticated Status = "authenticated"
	StatusAnonymous     Status = "anonymous"
)

// Gateway is the slice of the API client the session manager drives.
type Gateway interface {
	SetCredential(token string)
	Login(ctx context.Context, creds domain.Credentials) (string, *domain.Profile, error)
	FetchCurrentUser(ctx context.Context) (*domain.Profile, error)
}

// Manager owns the authentication lifecycle: it holds the bearer token
// and the resolved profile, persists the token across restarts, and
// re-validates a stored token on startup. The user is trusted if and
// only if the status is authenticated.
type Manager struct {
	gateway    Gateway
	store      tokenstore.Store
	dispatcher events.Dispatcher
	notifier   notify.Notifier
	logger     *zap.Logger

	mu     sync.RWMutex
	status Status
	user   *domain.Profile
	token  string
}

// Dependencies encapsulates collaborator requirements for the manager.
type Dependencies struct {
	Gateway    Gateway
	Store      tokenstore.Store
	Dispatcher events.Dispatcher
	Notifier   notify.Notifier
	Logger     *zap.Logger
}

// NewManager builds the session manager in the initializing state.
func NewManager(deps Dependencies) *Manager {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.Nop{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		gateway:    deps.Gateway,
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		notifier:   notifier,
		logger:     logger,
		status:     StatusInitializing,
	}
}

// Initialize resolves the startup state exactly once per process: a
// persisted token is installed and validated against the backend; any
// validation failure demotes to anonymous and erases the token rather
// than surfacing the error. Callers must not assume an identity before
// Initialize returns.
func (m *Manager) Initialize(ctx context.Context) error {
	token, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn("failed to read persisted token", zap.Error(err))
		token = ""
	}

	if token == "" {
		m.setAnonymous()
		return nil
	}

	m.gateway.SetCredential(token)
	profile, err := m.gateway.FetchCurrentUser(ctx)
	if err != nil {
		if apperrors.IsAuthError(err) {
			m.logger.Info("stored token rejected, signing out")
		} else {
			m.logger.Warn("token validation failed", zap.Error(err))
		}
		if clearErr := m.store.Clear(ctx); clearErr != nil {
			m.logger.Warn("failed to clear persisted token", zap.Error(clearErr))
		}
		m.gateway.SetCredential("")
		m.setAnonymous()
		return nil
	}

	m.mu.Lock()
	m.status = StatusAuthenticated
	m.user = profile
	m.token = token
	m.mu.Unlock()

	m.publishStarted(ctx, profile)
	return nil
}

// Login exchanges credentials for a session. On success the token is
// persisted and installed; on failure the session stays anonymous and
// the error is surfaced to the caller after a notification.
func (m *Manager) Login(ctx context.Context, creds domain.Credentials) (*domain.Profile, error) {
	token, profile, err := m.gateway.Login(ctx, creds)
	if err != nil {
		m.setAnonymous()
		m.notifier.Error(loginFailureMessage(err))
		return nil, err
	}

	if err := m.store.Save(ctx, token); err != nil {
		// The session is still valid for this process; it just will not
		// survive a restart.
		m.logger.Warn("failed to persist token", zap.Error(err))
	}
	m.gateway.SetCredential(token)

	m.mu.Lock()
	m.status = StatusAuthenticated
	m.user = profile
	m.token = token
	m.mu.Unlock()

	m.notifier.Success("Welcome back!")
	m.publishStarted(ctx, profile)
	return profile, nil
}

// Logout clears the user, the persisted token and the installed
// credential. Idempotent, never fails.
func (m *Manager) Logout() {
	m.mu.Lock()
	wasAuthenticated := m.status == StatusAuthenticated
	m.status = StatusAnonymous
	m.user = nil
	m.token = ""
	m.mu.Unlock()

	if err := m.store.Clear(context.Background()); err != nil {
		m.logger.Warn("failed to clear persisted token", zap.Error(err))
	}
	m.gateway.SetCredential("")

	if wasAuthenticated && m.dispatcher != nil {
		_ = m.dispatcher.Publish(context.Background(), events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventSessionEnded,
			Timestamp: time.Now(),
		})
	}
}

// Status returns the lifecycle state.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// User returns the resolved profile, or nil unless authenticated.
func (m *Manager) User() *domain.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.status != StatusAuthenticated {
		return nil
	}
	return m.user
}

// Token returns the active bearer credential, or "".
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// IsAuthenticated reports whether a validated session exists.
func (m *Manager) IsAuthenticated() bool {
	return m.Status() == StatusAuthenticated
}

// IsAdmin reports whether the signed-in user may manage employees. The
// manager only exposes the role; enforcement stays with the backend.
func (m *Manager) IsAdmin() bool {
	user := m.User()
	return user != nil && user.Role == domain.RoleAdmin
}

func (m *Manager) setAnonymous() {
	m.mu.Lock()
	m.status = StatusAnonymous
	m.user = nil
	m.token = ""
	m.mu.Unlock()
}

func (m *Manager) publishStarted(ctx context.Context, profile *domain.Profile) {
	if m.dispatcher == nil {
		return
	}
	err := m.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventSessionStarted,
		Timestamp: time.Now(),
		Payload:   events.SessionStartedPayload{UserID: profile.ID, Role: profile.Role},
	})
	if err != nil {
		m.logger.Warn("session started handlers failed", zap.Error(err))
	}
}

// loginFailureMessage prefers the backend-provided message; transport
// failures carry none worth showing.
func loginFailureMessage(err error) string {
	domainErr := apperrors.ToDomainError(err)
	switch domainErr.Code {
	case apperrors.CodeNetworkError, apperrors.CodeInternalError:
		return "Login failed"
	default:
		return domainErr.Message
	}
}
