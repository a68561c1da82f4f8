package httpx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/ecowaste/portal/internal/domain/auth"
)

func authedSession(role domainauth.Role) *domainauth.Session {
	return &domainauth.Session{
		ID:        "sess",
		Email:     string(role) + "@waste.com",
		Role:      role,
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestEvaluateProtected_Unauthenticated(t *testing.T) {
	// Regardless of the allowed-roles declaration, no session means login.
	allowedVariants := [][]domainauth.Role{
		nil,
		{},
		{domainauth.RoleAdmin},
		{domainauth.RoleCitizen, domainauth.RoleCollector, domainauth.RoleAdmin},
	}
	for _, allowed := range allowedVariants {
		d := EvaluateProtected(nil, allowed)
		assert.Equal(t, DecisionRedirectToLogin, d.Kind)
		assert.Equal(t, "/login", d.Target)

		d = EvaluateProtected(&domainauth.Session{}, allowed)
		assert.Equal(t, DecisionRedirectToLogin, d.Kind)
	}
}

func TestEvaluateProtected_NilAllowsAnyAuthenticatedRole(t *testing.T) {
	for _, role := range domainauth.Roles() {
		d := EvaluateProtected(authedSession(role), nil)
		assert.Equal(t, DecisionRender, d.Kind, "role %s", role)
	}
}

// An empty allowed set denies every authenticated role. This is distinct
// from nil, which allows them all.
func TestEvaluateProtected_EmptyDeniesAll(t *testing.T) {
	for _, role := range domainauth.Roles() {
		d := EvaluateProtected(authedSession(role), []domainauth.Role{})
		assert.Equal(t, DecisionRedirectToDashboard, d.Kind, "role %s", role)
		assert.Equal(t, role.DashboardPath(), d.Target)
	}
}

func TestEvaluateProtected_Membership(t *testing.T) {
	tests := []struct {
		name    string
		session *domainauth.Session
		allowed []domainauth.Role
		want    DecisionKind
		target  string
	}{
		{
			name:    "member renders",
			session: authedSession(domainauth.RoleCollector),
			allowed: []domainauth.Role{domainauth.RoleCollector},
			want:    DecisionRender,
		},
		{
			name:    "non-member goes to own dashboard",
			session: authedSession(domainauth.RoleCitizen),
			allowed: []domainauth.Role{domainauth.RoleAdmin},
			want:    DecisionRedirectToDashboard,
			target:  "/citizen",
		},
		{
			name:    "member of multi-role set renders",
			session: authedSession(domainauth.RoleAdmin),
			allowed: []domainauth.Role{domainauth.RoleCollector, domainauth.RoleAdmin},
			want:    DecisionRender,
		},
		{
			// Allowed sets may name roles the navigation registry does not
			// know; guard logic is independent of the registry.
			name:    "unregistered role in allowed set",
			session: authedSession(domainauth.RoleCitizen),
			allowed: []domainauth.Role{domainauth.Role("auditor")},
			want:    DecisionRedirectToDashboard,
			target:  "/citizen",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := EvaluateProtected(tt.session, tt.allowed)
			assert.Equal(t, tt.want, d.Kind)
			if tt.target != "" {
				assert.Equal(t, tt.target, d.Target)
			}
		})
	}
}

func TestEvaluatePublic(t *testing.T) {
	d := EvaluatePublic(nil)
	assert.Equal(t, DecisionRender, d.Kind)

	d = EvaluatePublic(&domainauth.Session{})
	assert.Equal(t, DecisionRender, d.Kind)

	for _, role := range domainauth.Roles() {
		d = EvaluatePublic(authedSession(role))
		assert.Equal(t, DecisionRedirectToDashboard, d.Kind)
		assert.Equal(t, role.DashboardPath(), d.Target)
	}
}
