package httpx

import (
	domainauth "github.com/ecowaste/portal/internal/domain/auth"
)

// loginPath is where unauthenticated navigation attempts land.
const loginPath = "/login"

// DecisionKind classifies the outcome of a guard evaluation.
type DecisionKind int

const (
	// DecisionRender lets the requested page render.
	DecisionRender DecisionKind = iota
	// DecisionRedirectToLogin sends the visitor to the login page.
	DecisionRedirectToLogin
	// DecisionRedirectToDashboard sends a signed-in user to their own
	// role dashboard. There is deliberately no "access denied" page.
	DecisionRedirectToDashboard
)

// Decision is the computed outcome of a guard evaluation for one navigation
// attempt. Target is the redirect destination for the redirect kinds.
type Decision struct {
	Kind   DecisionKind
	Target string
}

func renderDecision() Decision { return Decision{Kind: DecisionRender} }

func redirectToLogin() Decision {
	return Decision{Kind: DecisionRedirectToLogin, Target: loginPath}
}

func redirectToDashboard(role domainauth.Role) Decision {
	return Decision{Kind: DecisionRedirectToDashboard, Target: role.DashboardPath()}
}

// EvaluateProtected decides whether a protected route renders for the given
// session. allowed carries the route's declared roles:
//
//   - nil means any authenticated role may enter;
//   - an empty, non-nil slice denies every role (distinct from nil);
//   - otherwise the session role must be a member.
//
// The function is pure: it reads only its arguments and has no side effects.
func EvaluateProtected(session *domainauth.Session, allowed []domainauth.Role) Decision {
	if session == nil || !session.Authenticated() {
		return redirectToLogin()
	}
	if allowed == nil {
		return renderDecision()
	}
	for _, role := range allowed {
		if role == session.Role {
			return renderDecision()
		}
	}
	return redirectToDashboard(session.Role)
}

// EvaluatePublic decides whether a public route (landing, login) renders.
// Signed-in users are bounced to their own dashboard so they never see the
// login or landing pages again until they sign out.
func EvaluatePublic(session *domainauth.Session) Decision {
	if session != nil && session.Authenticated() {
		return redirectToDashboard(session.Role)
	}
	return renderDecision()
}
