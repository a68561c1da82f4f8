package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/ecowaste/portal/internal/domain/auth"
	"github.com/ecowaste/portal/internal/ports"
)

func cookieByName(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func successfulLoginSvc(role domainauth.Role) *fakeAuthService {
	svc := newFakeAuthService()
	svc.loginFunc = func(_ context.Context, creds ports.Credentials) (*domainauth.Session, error) {
		if creds.Password != "hunter2" {
			return nil, ports.ErrInvalidCredentials
		}
		sess := &domainauth.Session{
			ID:        "sess-1",
			Email:     creds.Email,
			Role:      role,
			Token:     "tok",
			ExpiresAt: time.Now().Add(time.Hour),
		}
		svc.sessions[sess.ID] = sess
		return sess, nil
	}
	return svc
}

func TestLogin_FormSuccess(t *testing.T) {
	h := &AuthHandlers{Svc: successfulLoginSvc(domainauth.RoleCollector)}

	form := url.Values{"email": {"kumar@waste.com"}, "password": {"hunter2"}, "role": {"collector"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.Login(w, req)

	resp := w.Result()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/collector", resp.Header.Get("Location"))

	sess := cookieByName(t, resp, sessionCookieName)
	require.NotNil(t, sess)
	assert.Equal(t, "sess-1", sess.Value)
	assert.True(t, sess.HttpOnly)
	assert.Positive(t, sess.MaxAge)

	hint := cookieByName(t, resp, roleHintCookieName)
	require.NotNil(t, hint)
	assert.Negative(t, hint.MaxAge, "role hint must be cleared on login")
}

func TestLogin_JSONSuccess(t *testing.T) {
	h := &AuthHandlers{Svc: successfulLoginSvc(domainauth.RoleAdmin)}

	body := `{"email":"admin@waste.com","password":"hunter2","role":"admin"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Login(w, req)

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "admin", got["role"])
	assert.Equal(t, "/admin", got["redirect_to"])
	require.NotNil(t, cookieByName(t, resp, sessionCookieName))
}

func TestLogin_FormRejected(t *testing.T) {
	h := &AuthHandlers{Svc: successfulLoginSvc(domainauth.RoleCitizen)}

	form := url.Values{"email": {"x@waste.com"}, "password": {"wrong"}, "role": {"citizen"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.Login(w, req)

	resp := w.Result()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?error=invalid_credentials&role=citizen", resp.Header.Get("Location"))
	assert.Nil(t, cookieByName(t, resp, sessionCookieName))
}

func TestLogin_JSONRejected(t *testing.T) {
	h := &AuthHandlers{Svc: successfulLoginSvc(domainauth.RoleCitizen)}

	body := `{"email":"x@waste.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Login(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_UnknownRoleHintDropped(t *testing.T) {
	var gotRole domainauth.Role
	svc := newFakeAuthService()
	svc.loginFunc = func(_ context.Context, creds ports.Credentials) (*domainauth.Session, error) {
		gotRole = creds.Role
		return nil, ports.ErrInvalidCredentials
	}
	h := &AuthHandlers{Svc: svc}

	form := url.Values{"email": {"x@waste.com"}, "password": {"p"}, "role": {"superuser"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.Login(w, req)

	assert.Equal(t, domainauth.Role(""), gotRole)
}

func TestLogout_ClearsSessionAndCookies(t *testing.T) {
	svc := newFakeAuthService()
	sess := svc.addSession(domainauth.RoleCitizen)
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(sessionCookie(sess))
	w := httptest.NewRecorder()
	h.Logout(w, req)

	resp := w.Result()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Equal(t, []string{sess.ID}, svc.logoutCalls)

	cleared := cookieByName(t, resp, sessionCookieName)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestLogout_WithoutSessionIsNoop(t *testing.T) {
	svc := newFakeAuthService()
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()
	h.Logout(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Empty(t, svc.logoutCalls)
}

func TestStatus(t *testing.T) {
	svc := newFakeAuthService()
	sess := svc.addSession(domainauth.RoleAdmin)
	h := &AuthHandlers{Svc: svc}

	t.Run("authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		req.AddCookie(sessionCookie(sess))
		w := httptest.NewRecorder()
		h.Status(w, req)

		var got map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, true, got["authenticated"])
	})

	t.Run("no cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		w := httptest.NewRecorder()
		h.Status(w, req)

		var got map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, false, got["authenticated"])
	})

	t.Run("stale cookie cleared", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "stale"})
		w := httptest.NewRecorder()
		h.Status(w, req)

		resp := w.Result()
		cleared := cookieByName(t, resp, sessionCookieName)
		require.NotNil(t, cleared)
		assert.Negative(t, cleared.MaxAge)
	})
}

func TestRoleHintFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/login?role=collector", nil)
	req.AddCookie(&http.Cookie{Name: roleHintCookieName, Value: "admin"})
	assert.Equal(t, domainauth.RoleCollector, roleHintFromRequest(req), "query wins over cookie")

	req = httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: roleHintCookieName, Value: "admin"})
	assert.Equal(t, domainauth.RoleAdmin, roleHintFromRequest(req))

	req = httptest.NewRequest(http.MethodGet, "/login", nil)
	assert.Equal(t, domainauth.RoleCitizen, roleHintFromRequest(req))
}
