// Package ecobackend is the REST client for the external waste-management
// backend. The portal never computes credits, routes or classifications
// itself; everything of that kind is fetched from here.
package ecobackend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/oauth2"

	domainauth "github.com/ecowaste/portal/internal/domain/auth"
	"github.com/ecowaste/portal/internal/ports"
)

const defaultTimeout = 10 * time.Second

// DefaultBadgeExpr extracts the unread count from the backend notification
// list. Overridable via config so a backend payload change is an ops matter,
// not a redeploy.
const DefaultBadgeExpr = "length([?read == `false`])"

// Config controls the backend client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration // default 10s when zero
	BadgeExpr string        // default DefaultBadgeExpr when empty
	Logger    *slog.Logger
}

// Client talks to the waste-management backend. It implements
// ports.Authenticator, ports.AuditNotifier and ports.BadgeProvider.
type Client struct {
	baseURL    string
	httpClient *http.Client
	badgeExpr  jmespath.JMESPath
	logger     *slog.Logger
}

// New validates the config, compiles the badge expression, and returns a
// ready client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("backend base URL is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	exprSrc := cfg.BadgeExpr
	if exprSrc == "" {
		exprSrc = DefaultBadgeExpr
	}
	expr, err := jmespath.Compile(exprSrc)
	if err != nil {
		return nil, fmt.Errorf("compile badge expression %q: %w", exprSrc, err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		badgeExpr:  expr,
		logger:     logger,
	}, nil
}

// loginResponse mirrors the backend's token payload.
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
}

// Login exchanges credentials for a bearer token. The role in the backend's
// response is authoritative; the requested role is only a login-form hint.
func (c *Client) Login(ctx context.Context, creds ports.Credentials) (domainauth.Identity, error) {
	body, err := json.Marshal(map[string]string{
		"email":    creds.Email,
		"password": creds.Password,
		"role":     string(creds.Role),
	})
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/login", bytes.NewReader(body))
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("backend login: %w", err)
	}
	defer drainAndClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return domainauth.Identity{}, ports.ErrInvalidCredentials
	case resp.StatusCode != http.StatusOK:
		return domainauth.Identity{}, fmt.Errorf("backend login: unexpected status %d", resp.StatusCode)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return domainauth.Identity{}, fmt.Errorf("decode login response: %w", err)
	}
	if lr.AccessToken == "" {
		return domainauth.Identity{}, errors.New("backend login: empty access token")
	}
	role, ok := domainauth.ParseRole(lr.Role)
	if !ok {
		return domainauth.Identity{}, fmt.Errorf("backend login: unknown role %q", lr.Role)
	}

	return domainauth.Identity{
		Email: creds.Email,
		Role:  role,
		Token: lr.AccessToken,
	}, nil
}

// SignedOut notifies the backend audit trail about a sign-out. Best-effort:
// any failure is returned for logging but must not block the local sign-out.
func (c *Client) SignedOut(ctx context.Context, sess domainauth.Session) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/logout", http.NoBody)
	if err != nil {
		return fmt.Errorf("build logout request: %w", err)
	}

	resp, err := c.authorizedClient(ctx, sess).Do(req)
	if err != nil {
		return fmt.Errorf("notify logout: %w", err)
	}
	defer drainAndClose(resp.Body)

	// Older backends don't expose the audit endpoint; treat 404 as fine.
	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("notify logout: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// UnreadCount fetches the user's notifications and applies the configured
// JMESPath expression to obtain the unread count.
func (c *Client) UnreadCount(ctx context.Context, sess domainauth.Session) (int, error) {
	endpoint := fmt.Sprintf("%s/api/citizen/notifications/%s", c.baseURL, url.PathEscape(sess.Email))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("build notifications request: %w", err)
	}

	resp, err := c.authorizedClient(ctx, sess).Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch notifications: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch notifications: unexpected status %d", resp.StatusCode)
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode notifications: %w", err)
	}

	result, err := c.badgeExpr.Search(payload)
	if err != nil {
		return 0, fmt.Errorf("evaluate badge expression: %w", err)
	}
	count, ok := result.(float64)
	if !ok || count < 0 {
		return 0, fmt.Errorf("badge expression yielded %T, want number", result)
	}
	return int(count), nil
}

// authorizedClient returns an HTTP client that attaches the session's bearer
// token to every request.
func (c *Client) authorizedClient(ctx context.Context, sess domainauth.Session) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: sess.Token, TokenType: "Bearer"})
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return oauth2.NewClient(ctx, src)
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
