package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/ecowaste/portal/internal/domain/auth"
	"github.com/ecowaste/portal/internal/domain/nav"
	"github.com/ecowaste/portal/internal/http/ui/viewmodel"
	"github.com/ecowaste/portal/internal/ports"
)

const badgeFetchTimeout = 2 * time.Second

// notificationsSuffix locates the nav entry that receives the live unread
// count.
const notificationsSuffix = "/notifications"

// UIHandlers renders the portal's HTML pages.
type UIHandlers struct {
	Renderer *Renderer
	Badges   ports.BadgeProvider // optional
	Logger   *slog.Logger
}

func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Landing renders the public landing page with the role selector.
func (h *UIHandlers) Landing(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, r, "landing", map[string]any{
		"Roles": domainauth.Roles(),
	})
}

// loginErrorMessages maps error codes from the login redirect back to the
// message shown above the form.
var loginErrorMessages = map[string]string{
	"invalid_credentials": "Incorrect email or password.",
	"login_failed":        "Failed to login. Please check your connection.",
}

// LoginForm renders the login page. An explicit ?role= choice is remembered
// in the role-hint cookie so the tab stays selected on the next visit.
func (h *UIHandlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	if role, ok := domainauth.ParseRole(r.URL.Query().Get("role")); ok {
		setRoleHintCookie(w, r, role)
	}

	h.Renderer.Render(w, r, "login", map[string]any{
		"Roles":        domainauth.Roles(),
		"SelectedRole": roleHintFromRequest(r),
		"Error":        loginErrorMessages[r.URL.Query().Get("error")],
	})
}

// Page returns a handler rendering the given navigation entry inside the
// role chrome. The guard middleware has already decided the session may see
// the page; here we only compose the layout.
func (h *UIHandlers) Page(entry nav.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := SessionFromContext(r.Context())

		layout := viewmodel.Build(viewmodel.BuildParams{
			Session:     session,
			CurrentPath: r.URL.Path,
			Badges:      h.badgeCounts(r.Context(), session),
		})

		h.Renderer.Render(w, r, "page", map[string]any{
			"Layout":  layout,
			"Heading": entry.Label,
			"Slug":    pageSlug(entry.Path),
		})
	}
}

// badgeCounts fetches live badge numbers for the session's nav entries. A
// backend hiccup means no badge, never a failed page render.
func (h *UIHandlers) badgeCounts(ctx context.Context, session *domainauth.Session) map[string]int {
	if h.Badges == nil || session == nil {
		return nil
	}

	target := ""
	for _, e := range nav.EntriesFor(session.Role) {
		if strings.HasSuffix(e.Path, notificationsSuffix) {
			target = e.Path
			break
		}
	}
	if target == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, badgeFetchTimeout)
	defer cancel()

	count, err := h.Badges.UnreadCount(ctx, *session)
	if err != nil {
		h.logger().DebugContext(ctx, "badge fetch failed", "error", err)
		return nil
	}
	if count <= 0 {
		return nil
	}
	return map[string]int{target: count}
}

// pageSlug turns "/citizen/ai-assistant" into "citizen-ai-assistant" for the
// frontend bootstrapping hook.
func pageSlug(path string) string {
	return strings.ReplaceAll(strings.Trim(path, "/"), "/", "-")
}
