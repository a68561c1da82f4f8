package httpx

import (
	"io"
	"log/slog"
	"testing"

	domainauth "github.com/ecowaste/portal/internal/domain/auth"
	"github.com/ecowaste/portal/internal/domain/nav"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func findEntry(t *testing.T, role domainauth.Role, path string) nav.Entry {
	t.Helper()
	for _, e := range nav.EntriesFor(role) {
		if e.Path == path {
			return e
		}
	}
	t.Fatalf("no nav entry %q for role %s", path, role)
	return nav.Entry{}
}
