package httpx

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/ecowaste/portal/internal/domain/auth"
	"github.com/ecowaste/portal/internal/domain/nav"
)

func newTestRouter(t *testing.T, svc AuthServiceInterface) http.Handler {
	t.Helper()
	router, err := NewRouter(RouterServices{Auth: svc})
	require.NoError(t, err)
	return router
}

func get(router http.Handler, path string, cookies ...*http.Cookie) *http.Response {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Result()
}

func TestRouter_VisitorIsSentToLogin(t *testing.T) {
	router := newTestRouter(t, newFakeAuthService())

	resp := get(router, "/admin")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestRouter_CrossRoleAccessBounces(t *testing.T) {
	svc := newFakeAuthService()
	sess := svc.addSession(domainauth.RoleCitizen)
	router := newTestRouter(t, svc)

	resp := get(router, "/admin/users", sessionCookie(sess))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/citizen", resp.Header.Get("Location"))
}

func TestRouter_SignedInLandingRedirects(t *testing.T) {
	svc := newFakeAuthService()
	sess := svc.addSession(domainauth.RoleAdmin)
	router := newTestRouter(t, svc)

	resp := get(router, "/", sessionCookie(sess))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))
}

func TestRouter_EveryRegistryEntryIsRouted(t *testing.T) {
	for _, role := range domainauth.Roles() {
		svc := newFakeAuthService()
		sess := svc.addSession(role)
		router := newTestRouter(t, svc)

		for _, entry := range nav.EntriesFor(role) {
			resp := get(router, entry.Path, sessionCookie(sess))
			assert.Equalf(t, http.StatusOK, resp.StatusCode, "%s %s", role, entry.Path)
		}
	}
}

func TestRouter_PageRendersNavAndTitle(t *testing.T) {
	svc := newFakeAuthService()
	sess := svc.addSession(domainauth.RoleCollector)
	router := newTestRouter(t, svc)

	resp := get(router, "/collector/route", sessionCookie(sess))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	html := string(body)
	assert.Contains(t, html, "Route Map")
	assert.Contains(t, html, `href="/collector/performance"`)
	assert.NotContains(t, html, `href="/admin/users"`, "other roles' menus must not leak")
}

func TestRouter_LogoutThenNavigate(t *testing.T) {
	svc := newFakeAuthService()
	sess := svc.addSession(domainauth.RoleCitizen)
	router := newTestRouter(t, svc)

	resp := get(router, "/citizen", sessionCookie(sess))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(sessionCookie(sess))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusSeeOther, w.Code)

	// The old cookie no longer resolves to a session: back to login.
	resp = get(router, "/citizen", sessionCookie(sess))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestRouter_LoginFlow(t *testing.T) {
	svc := successfulLoginSvc(domainauth.RoleCitizen)
	router := newTestRouter(t, svc)

	form := url.Values{"email": {"ravi@waste.com"}, "password": {"hunter2"}, "role": {"citizen"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/citizen", resp.Header.Get("Location"))
	cookie := cookieByName(t, resp, sessionCookieName)
	require.NotNil(t, cookie)

	resp = get(router, "/citizen", &http.Cookie{Name: sessionCookieName, Value: cookie.Value})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_LoginFormPreselectsRole(t *testing.T) {
	router := newTestRouter(t, newFakeAuthService())

	resp := get(router, "/login?role=collector")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `value="collector"`)

	hint := cookieByName(t, resp, roleHintCookieName)
	require.NotNil(t, hint)
	assert.Equal(t, "collector", hint.Value)
}

func TestRouter_UnknownPathGoesHome(t *testing.T) {
	svc := newFakeAuthService()
	sess := svc.addSession(domainauth.RoleCitizen)
	router := newTestRouter(t, svc)

	resp := get(router, "/no-such-page")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	// Same for signed-in users; the landing guard then takes them to
	// their dashboard.
	resp = get(router, "/citizen/no-such-page", sessionCookie(sess))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp = get(router, "/", sessionCookie(sess))
	assert.Equal(t, "/citizen", resp.Header.Get("Location"))
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t, newFakeAuthService())

	resp := get(router, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
