// Package nav holds the static per-role navigation registry for the portal.
// Entries are immutable configuration defined at process start; live badge
// counts are merged in at render time by the layout viewmodel, not stored
// here.
package nav

import (
	domainauth "github.com/ecowaste/portal/internal/domain/auth"
)

// Entry describes a single sidebar item: a label, an absolute route path and
// a symbolic icon name resolved by the templates.
type Entry struct {
	Label string
	Path  string
	Icon  string
}

// registry maps each role to its ordered menu. Slice order is display order.
var registry = map[domainauth.Role][]Entry{
	domainauth.RoleCitizen: {
		{Label: "Dashboard", Path: "/citizen", Icon: "home"},
		{Label: "Interactive Map", Path: "/citizen/map", Icon: "map"},
		{Label: "Live Tracking", Path: "/citizen/tracking", Icon: "radio"},
		{Label: "Marketplace", Path: "/citizen/marketplace", Icon: "shopping-cart"},
		{Label: "Complaints", Path: "/citizen/complaints", Icon: "message-square"},
		{Label: "AI Waste Assistant", Path: "/citizen/ai-assistant", Icon: "brain"},
		{Label: "AR Waste Scan", Path: "/citizen/ar-scan", Icon: "camera"},
		{Label: "Notifications", Path: "/citizen/notifications", Icon: "bell"},
		{Label: "Profile", Path: "/citizen/profile", Icon: "user"},
	},
	domainauth.RoleCollector: {
		{Label: "Dashboard", Path: "/collector", Icon: "home"},
		{Label: "Route Map", Path: "/collector/route", Icon: "map-pin"},
		{Label: "Verify Pickup", Path: "/collector/verify", Icon: "check-circle"},
		{Label: "Performance", Path: "/collector/performance", Icon: "trending-up"},
	},
	domainauth.RoleAdmin: {
		{Label: "Dashboard", Path: "/admin", Icon: "bar-chart"},
		{Label: "User Management", Path: "/admin/users", Icon: "users"},
		{Label: "Marketplace", Path: "/admin/marketplace", Icon: "package"},
		{Label: "Announcements", Path: "/admin/announcements", Icon: "megaphone"},
		{Label: "Feedback", Path: "/admin/feedback", Icon: "message-circle"},
		{Label: "AI Insights", Path: "/admin/ai-insights", Icon: "lightbulb"},
		{Label: "Leaderboard", Path: "/admin/leaderboard", Icon: "trophy"},
		{Label: "Settings", Path: "/admin/settings", Icon: "settings"},
	},
}

// EntriesFor returns the ordered navigation entries for a role. Unknown roles
// yield an empty slice, never an error. The returned slice is a copy; callers
// may not mutate the registry through it.
func EntriesFor(role domainauth.Role) []Entry {
	entries, ok := registry[role]
	if !ok {
		return nil
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
