package http

import (
	"net/http"
	"strings"
)

// NavItem is one sidebar link.
type NavItem struct {
	Label string
	Path  string
	Icon  string
}

var (
	MainNav = []NavItem{
		{Label: "Dashboard", Path: "/", Icon: "home"},
		{Label: "Expenses", Path: "/expenses", Icon: "receipt"},
		{Label: "New Expense", Path: "/expenses/new", Icon: "plus"},
		{Label: "Approvals", Path: "/approvals", Icon: "check"},
		{Label: "Reports", Path: "/reports", Icon: "file"},
		{Label: "Analytics", Path: "/analytics", Icon: "chart"},
	}

	AdminNav = []NavItem{
		{Label: "Settings", Path: "/settings", Icon: "gear"},
		{Label: "Users", Path: "/users", Icon: "users"},
	}
)

// placeholderSections are reachable from the sidebar but not built.
var placeholderSections = map[string]string{
	"/approvals": "Approvals",
	"/reports":   "Reports",
	"/settings":  "Settings",
	"/users":     "Users",
}

// ActivePath returns the nav path to highlight for a request path: an exact
// match, otherwise the longest prefix match. "/" only matches exactly.
func ActivePath(path string) string {
	best := ""
	for _, group := range [][]NavItem{MainNav, AdminNav} {
		for _, item := range group {
			if item.Path == path {
				return item.Path
			}
			if item.Path != "/" && strings.HasPrefix(path, item.Path+"/") && len(item.Path) > len(best) {
				best = item.Path
			}
		}
	}
	return best
}

type navLink struct {
	NavItem
	Active bool
}

func navLinks(items []NavItem, active string) []navLink {
	out := make([]navLink, len(items))
	for i, item := range items {
		out[i] = navLink{NavItem: item, Active: item.Path == active}
	}
	return out
}

const sidebarCookie = "sidebar"

// sidebarOpen reads the sidebar state; it is open unless the cookie says
// otherwise.
func sidebarOpen(r *http.Request) bool {
	c, err := r.Cookie(sidebarCookie)
	if err != nil {
		return true
	}
	return c.Value != "closed"
}

func setSidebarCookie(w http.ResponseWriter, open bool) {
	value := "open"
	if !open {
		value = "closed"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sidebarCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
