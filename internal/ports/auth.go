// Package ports defines interfaces (hexagonal ports) for auth and backend
// collaboration. Implementations live in internal/adapters; orchestration in
// internal/service.
package ports

import (
	"context"
	"errors"

	domainauth "github.com/ecowaste/portal/internal/domain/auth"
)

// Credentials carries a login attempt. Role is the role tab the user picked
// on the login form; the backend's response is authoritative and may differ.
type Credentials struct {
	Email    string
	Password string
	Role     domainauth.Role
}

// ErrInvalidCredentials is returned by an Authenticator when the backend
// rejects the email/password pair.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Authenticator exchanges portal credentials against the waste-management
// backend and returns the authenticated identity.
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (domainauth.Identity, error)
}

// SessionStore persists and retrieves portal sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// AuditNotifier tells the backend about sign-out events. Implementations are
// best-effort; a failed notification must never block the local sign-out.
type AuditNotifier interface {
	SignedOut(ctx context.Context, sess domainauth.Session) error
}

// BadgeProvider supplies the live unread-notification count merged into the
// sidebar at render time.
type BadgeProvider interface {
	UnreadCount(ctx context.Context, sess domainauth.Session) (int, error)
}
