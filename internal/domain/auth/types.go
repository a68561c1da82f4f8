// Package auth contains domain-level types for portal authentication and
// sessions. It is pure and free of transport/adapter concerns.
package auth

import "time"

// Role represents a portal role. Kept in string form for easy persistence
// and cookies; valid values are the constants below and nothing else.
type Role string

const (
	RoleCitizen   Role = "citizen"
	RoleCollector Role = "collector"
	RoleAdmin     Role = "admin"
)

// Roles lists every valid role in a stable order.
func Roles() []Role {
	return []Role{RoleCitizen, RoleCollector, RoleAdmin}
}

// ParseRole maps a raw string to a Role. Unknown strings are rejected rather
// than falling through to a default role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCitizen, RoleCollector, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

// Valid reports whether r is one of the closed set of portal roles.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// DashboardPath returns the landing page for the role ("/citizen",
// "/collector", "/admin").
func (r Role) DashboardPath() string { return "/" + string(r) }

// Identity is the authenticated principal returned by the waste-management
// backend after a successful credential exchange.
type Identity struct {
	Email string
	Name  string
	Role  Role   // authoritative role as decided by the backend
	Token string // bearer token issued by the backend
}

// Session is the server-side record persisted for a signed-in portal user.
// ID is an opaque session identifier. The record is written and cleared as a
// single value so no reader can observe a half-populated session.
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authenticated reports whether the session represents a signed-in user with
// a usable role and backend token.
func (s Session) Authenticated() bool {
	return s.ID != "" && s.Role.Valid() && s.Token != ""
}
