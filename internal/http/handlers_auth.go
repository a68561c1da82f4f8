package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/ecowaste/portal/internal/domain/auth"
	"github.com/ecowaste/portal/internal/ports"
)

// AuthServiceInterface is the slice of the auth service the HTTP layer needs.
type AuthServiceInterface interface {
	Login(ctx context.Context, creds ports.Credentials) (*domainauth.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for login, logout and auth status.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// loginRequest is the JSON body accepted by POST /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Login handles POST /auth/login for both the HTML form and JSON clients.
// On success it writes the session cookie, clears the role-hint cookie and
// sends the user to the dashboard of the role the backend decided on. On
// failure nothing about the session state changes and the error is surfaced
// to the caller.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	creds, isJSON, ok := h.readCredentials(w, r)
	if !ok {
		return
	}

	session, err := h.Svc.Login(r.Context(), creds)
	if err != nil {
		h.loginFailed(w, r, loginFailure{Err: err, IsJSON: isJSON, Role: creds.Role})
		return
	}

	h.setSessionCookie(w, r, *session)
	h.clearCookie(w, r, roleHintCookieName)

	target := session.Role.DashboardPath()
	if isJSON {
		WriteJSON(w, http.StatusOK, map[string]string{
			"role":        string(session.Role),
			"redirect_to": target,
		})
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// readCredentials extracts credentials from a JSON body or a posted form.
func (h *AuthHandlers) readCredentials(w http.ResponseWriter, r *http.Request) (ports.Credentials, bool, bool) {
	isJSON := strings.Contains(r.Header.Get("Content-Type"), "application/json")

	var email, password, role string
	if isJSON {
		var req loginRequest
		if !DecodeJSON(w, r, &req) {
			return ports.Credentials{}, true, false
		}
		email, password, role = req.Email, req.Password, req.Role
	} else {
		if err := r.ParseForm(); err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
			return ports.Credentials{}, false, false
		}
		email = r.PostFormValue("email")
		password = r.PostFormValue("password")
		role = r.PostFormValue("role")
	}

	// The role is a hint for the backend; an unknown value is simply dropped.
	parsedRole, _ := domainauth.ParseRole(role)
	return ports.Credentials{Email: email, Password: password, Role: parsedRole}, isJSON, true
}

type loginFailure struct {
	Err    error
	IsJSON bool
	Role   domainauth.Role
}

// loginFailed surfaces a login error to the user. Credential rejections are
// expected outcomes and logged at info; anything else is a warning.
func (h *AuthHandlers) loginFailed(w http.ResponseWriter, r *http.Request, f loginFailure) {
	if errors.Is(f.Err, ports.ErrInvalidCredentials) {
		h.logger().InfoContext(r.Context(), "login rejected", "error", f.Err)
		if f.IsJSON {
			WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "invalid_credentials", Err: f.Err})
			return
		}
		http.Redirect(w, r, loginFormURL("invalid_credentials", f.Role), http.StatusSeeOther)
		return
	}

	h.logger().WarnContext(r.Context(), "login failed", "error", f.Err)
	if f.IsJSON {
		WriteError(w, ErrorParams{Code: http.StatusBadGateway, ErrCode: "login_failed", Err: f.Err})
		return
	}
	http.Redirect(w, r, loginFormURL("login_failed", f.Role), http.StatusSeeOther)
}

// loginFormURL builds the login page URL carrying an error code and the role
// tab to preselect.
func loginFormURL(errCode string, role domainauth.Role) string {
	q := url.Values{}
	if errCode != "" {
		q.Set("error", errCode)
	}
	if role.Valid() {
		q.Set("role", string(role))
	}
	u := url.URL{Path: loginPath, RawQuery: q.Encode()}
	return u.String()
}

// Logout handles POST /auth/logout. It clears the server-side session and
// both cookies, then redirects to the login page. Calling it while already
// signed out is a no-op redirect, not an error.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), cookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}

	h.clearCookie(w, r, sessionCookieName)
	h.clearCookie(w, r, roleHintCookieName)

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out", "redirect_to": loginPath})
		return
	}
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// Status handles GET /auth/status and reports the current session as JSON.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), cookie.Value)
	if err != nil {
		// Invalid or expired session: clear the stale cookie.
		h.clearCookie(w, r, sessionCookieName)
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"email": session.Email,
			"name":  session.Name,
			"role":  session.Role,
		},
		"expires_at": session.ExpiresAt,
	})
}

func requestIsSecure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// clearCookie expires a cookie immediately, mirroring the attributes used
// when setting it so deletion works across browsers.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// setRoleHintCookie remembers which role tab the visitor picked on the
// landing page so the login form can preselect it. Ephemeral: cleared on
// login and on logout, independent of the session record.
func setRoleHintCookie(w http.ResponseWriter, r *http.Request, role domainauth.Role) {
	http.SetCookie(w, &http.Cookie{
		Name:     roleHintCookieName,
		Value:    string(role),
		Path:     "/",
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})
}

// roleHintFromRequest resolves the preselected role for the login form:
// explicit ?role= query first, then the hint cookie, else citizen.
func roleHintFromRequest(r *http.Request) domainauth.Role {
	if role, ok := domainauth.ParseRole(r.URL.Query().Get("role")); ok {
		return role
	}
	if cookie, err := r.Cookie(roleHintCookieName); err == nil {
		if role, ok := domainauth.ParseRole(cookie.Value); ok {
			return role
		}
	}
	return domainauth.RoleCitizen
}
