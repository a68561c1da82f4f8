package httpx

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	portal "github.com/ecowaste/portal"
	domainauth "github.com/ecowaste/portal/internal/domain/auth"
	"github.com/ecowaste/portal/internal/domain/nav"
	"github.com/ecowaste/portal/internal/ports"
)

// RouterServices holds the dependencies the router wires into handlers.
type RouterServices struct {
	Auth         AuthServiceInterface
	Badges       ports.BadgeProvider // optional
	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter builds the portal's route table. Every page route is registered
// behind a guard: the public pages bounce signed-in users to their dashboard
// and the role pages are generated straight from the navigation registry, so
// a menu entry and its route can never disagree about the path.
func NewRouter(services RouterServices) (http.Handler, error) {
	renderer, err := NewRenderer(services.Logger)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	uiHandlers := &UIHandlers{
		Renderer: renderer,
		Badges:   services.Badges,
		Logger:   services.Logger,
	}

	mux := http.NewServeMux()

	// Public pages: landing and login.
	public := Public(services.Auth)
	mux.Handle("GET /{$}", public(http.HandlerFunc(uiHandlers.Landing)))
	mux.Handle("GET /login", public(http.HandlerFunc(uiHandlers.LoginForm)))

	// Auth endpoints.
	mux.Handle("POST /auth/login", http.HandlerFunc(authHandlers.Login))
	mux.Handle("POST /auth/logout", http.HandlerFunc(authHandlers.Logout))
	mux.Handle("GET /auth/status", http.HandlerFunc(authHandlers.Status))

	// Role pages, one guarded route per registry entry.
	for _, role := range domainauth.Roles() {
		guard := Protected(services.Auth, []domainauth.Role{role})
		for _, entry := range nav.EntriesFor(role) {
			mux.Handle("GET "+entry.Path, guard(uiHandlers.Page(entry)))
		}
	}

	// Unknown paths go home instead of 404ing; the landing guard then
	// sorts visitors and signed-in users to the right place.
	mux.Handle("GET /", http.RedirectHandler("/", http.StatusSeeOther))

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	// Embedded static assets.
	staticRoot, err := fs.Sub(portal.StaticFS, "web")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}
	mux.Handle("GET /static/", http.FileServerFS(staticRoot))

	return mux, nil
}
