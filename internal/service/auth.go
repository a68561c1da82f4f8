package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/ecowaste/portal/internal/domain/auth"
	"github.com/ecowaste/portal/internal/ports"
)

const defaultSessionTTL = 8 * time.Hour

var errSessionExpired = errors.New("session expired")

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Backend    ports.Authenticator
	Sessions   ports.SessionStore
	Notifier   ports.AuditNotifier // optional, best-effort sign-out audit
	SessionTTL time.Duration       // default 8h when zero
	Logger     *slog.Logger
}

// AuthService orchestrates login, session lookup and logout. It is the only
// writer to the session store: the guard and layout layers read through it
// and never mutate session state themselves.
type AuthService struct {
	backend  ports.Authenticator
	sessions ports.SessionStore
	notifier ports.AuditNotifier
	ttl      time.Duration
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl == 0 {
		ttl = defaultSessionTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		backend:  opts.Backend,
		sessions: opts.Sessions,
		notifier: opts.Notifier,
		ttl:      ttl,
		logger:   logger,
	}
}

// Login exchanges credentials against the backend and, only on success,
// persists a fully populated session in a single write. A failed exchange or
// a failed save leaves the store exactly as it was: there is no observable
// state where a session is authenticated but missing its role or token.
func (s *AuthService) Login(ctx context.Context, creds ports.Credentials) (*domainauth.Session, error) {
	if creds.Email == "" {
		return nil, errors.New("email is required")
	}
	if creds.Password == "" {
		return nil, errors.New("password is required")
	}

	identity, err := s.backend.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("exchange credentials: %w", err)
	}

	session := domainauth.Session{
		ID:        uuid.NewString(),
		Email:     identity.Email,
		Name:      identity.Name,
		Role:      identity.Role,
		Token:     identity.Token,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &session, nil
}

// GetSession retrieves a session by ID. Expired sessions are removed and
// reported as missing.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout removes a session. It is idempotent: an empty or unknown session ID
// is a no-op. The backend audit notification happens in the background after
// the local delete and its failure only produces a warning.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	session, getErr := s.sessions.Get(ctx, sessionID)

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if s.notifier != nil && getErr == nil && session.Authenticated() {
		go s.notifySignedOut(context.WithoutCancel(ctx), session)
	}

	return nil
}

func (s *AuthService) notifySignedOut(ctx context.Context, session domainauth.Session) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.notifier.SignedOut(ctx, session); err != nil {
		s.logger.WarnContext(ctx, "sign-out audit notification failed",
			"session_id", session.ID, "error", err)
	}
}
