// Package viewmodel composes the chrome rendered around every routed page:
// sidebar, header title and account menu. It is pure data assembly; the
// templates decide what it looks like.
package viewmodel

import (
	domainauth "github.com/ecowaste/portal/internal/domain/auth"
	"github.com/ecowaste/portal/internal/domain/nav"
)

// User is the account block shown in the header menu.
type User struct {
	Email string
	Name  string
	Role  string
}

// NavItem is one sidebar entry, a registry entry plus render-time state.
type NavItem struct {
	Label  string
	Path   string
	Icon   string
	Active bool
	Badge  int // 0 = no badge
}

// Layout captures shared chrome metadata for one rendered page.
type Layout struct {
	Title     string // window title
	PageTitle string // header title, from the active entry
	Role      string
	Nav       []NavItem
	User      *User
}

// fallbackPageTitle is used when the current path is not a registered entry,
// e.g. a sub-route like a profile edit page.
const fallbackPageTitle = "Dashboard"

// ActiveEntry returns the entry whose path exactly matches currentPath.
// Matching is exact string comparison: sub-routes do not inherit a listed
// parent's active state unless they are registered themselves.
func ActiveEntry(currentPath string, entries []nav.Entry) (nav.Entry, bool) {
	for _, e := range entries {
		if e.Path == currentPath {
			return e, true
		}
	}
	return nav.Entry{}, false
}

// BuildParams groups inputs for Build.
type BuildParams struct {
	Session     *domainauth.Session
	CurrentPath string
	// Badges maps entry path to a live count supplied by the notification
	// collaborator; entries absent from the map render without a badge.
	Badges map[string]int
}

// Build assembles the layout viewmodel for the session's role and the
// current location.
func Build(p BuildParams) Layout {
	layout := Layout{Title: "EcoWaste", PageTitle: fallbackPageTitle}
	if p.Session == nil {
		return layout
	}

	entries := nav.EntriesFor(p.Session.Role)
	layout.Role = string(p.Session.Role)
	layout.Nav = make([]NavItem, 0, len(entries))
	for _, e := range entries {
		layout.Nav = append(layout.Nav, NavItem{
			Label:  e.Label,
			Path:   e.Path,
			Icon:   e.Icon,
			Active: e.Path == p.CurrentPath,
			Badge:  p.Badges[e.Path],
		})
	}

	if active, ok := ActiveEntry(p.CurrentPath, entries); ok {
		layout.PageTitle = active.Label
		layout.Title = active.Label + " - EcoWaste"
	}

	name := p.Session.Name
	if name == "" {
		name = p.Session.Email
	}
	layout.User = &User{
		Email: p.Session.Email,
		Name:  name,
		Role:  string(p.Session.Role),
	}
	return layout
}
