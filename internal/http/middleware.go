package httpx

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	domainauth "github.com/ecowaste/portal/internal/domain/auth"
)

// Cookie names used by the portal. The session cookie carries only the
// opaque session ID; everything else lives server-side.
const (
	sessionCookieName  = "eco_session"
	roleHintCookieName = "eco_role_hint"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Protected gates a routed page behind authentication and an optional
// allowed-roles declaration (nil = any authenticated role, empty = deny
// all). The guard runs on every request, so a logout is visible to the very
// next navigation with no stale-render window. Redirects are normal control
// flow and are never logged as errors.
func Protected(authSvc AuthServiceInterface, allowed []domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessionFromRequest(r, authSvc)
			decision := EvaluateProtected(session, allowed)
			if decision.Kind != DecisionRender {
				applyDecision(w, r, decision)
				return
			}
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), session)))
		})
	}
}

// Public gates the landing and login pages: signed-in users are bounced to
// their own dashboard, everyone else passes through.
func Public(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessionFromRequest(r, authSvc)
			decision := EvaluatePublic(session)
			if decision.Kind != DecisionRender {
				applyDecision(w, r, decision)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sessionFromRequest resolves the current session from the request cookie.
// A missing cookie, unknown ID, expired session, or an unavailable session
// store all yield nil: the guards fail closed and treat the request as
// signed out rather than crashing the evaluation.
func sessionFromRequest(r *http.Request, authSvc AuthServiceInterface) *domainauth.Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}

	session, err := authSvc.GetSession(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return session
}

// applyDecision turns a redirect decision into an HTTP response.
func applyDecision(w http.ResponseWriter, r *http.Request, d Decision) {
	target := d.Target
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
