package config

import (
	"fmt"
	"strings"
	"time"
)

// SessionStoreKind selects where sessions are persisted.
type SessionStoreKind string

const (
	// SessionStoreRedis keeps sessions in Redis (production).
	SessionStoreRedis SessionStoreKind = "redis"
	// SessionStoreMemory keeps sessions in process memory (development only).
	SessionStoreMemory SessionStoreKind = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionStoreKind.
func (s *SessionStoreKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "redis", "memory":
		*s = SessionStoreKind(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionStoreKind: %q (valid options: redis, memory)", v)
	}
}

// AuthConfig groups session-related configuration.
type AuthConfig struct {
	// SessionStore determines which session store backend to use.
	SessionStore SessionStoreKind `env:"SESSION_STORE" envDefault:"redis"`

	// SessionTTL is the lifetime of a session from login.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"8h"`
}

// minSessionTTL guards against sessions that expire before the login
// redirect even lands.
const minSessionTTL = time.Minute

// Sanitize applies guardrails to session configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL < minSessionTTL {
		a.SessionTTL = minSessionTTL
	}
}
