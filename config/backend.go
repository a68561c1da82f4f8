package config

import (
	"strings"
	"time"
)

// BackendConfig contains configuration for the EcoWaste backend API the
// portal authenticates against.
type BackendConfig struct {
	// BaseURL is the root URL of the backend API.
	BaseURL string `env:"BACKEND_BASE_URL" envDefault:"http://localhost:5000"`

	// Timeout bounds each request to the backend.
	Timeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`

	// BadgeExpr is the JMESPath expression applied to the notification
	// list to compute the unread badge count. Empty selects the default.
	BadgeExpr string `env:"BACKEND_BADGE_EXPR" envDefault:""`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(b.BaseURL, "/")
	if b.Timeout <= 0 {
		b.Timeout = 10 * time.Second
	}
}
