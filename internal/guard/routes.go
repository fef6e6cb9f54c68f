// ABOUTME: Route table for the hrdesk screens and role navigation menus
// ABOUTME: Navigate resolves a requested path to the screen that should be shown

package guard

import (
	"strings"

	"github.com/markalston/hrdesk/internal/client"
	"github.com/markalston/hrdesk/internal/session"
)

// maxHops bounds redirect chains in Navigate
const maxHops = 4

// Route describes one screen
type Route struct {
	Path        string
	Title       string
	Roles       []client.Role
	Public      bool
	Placeholder bool
}

var routes = []Route{
	{Path: PathLogin, Title: "Sign in", Public: true},
	{Path: PathDashboard, Title: "Dashboard"},
	{Path: PathHRDashboard, Title: "HR Dashboard", Roles: []client.Role{client.RoleHR}},
	{Path: PathHREmployees, Title: "Employees", Roles: []client.Role{client.RoleHR}, Placeholder: true},
	{Path: PathHRLeaveRequests, Title: "Leave Requests", Roles: []client.Role{client.RoleHR}, Placeholder: true},
	{Path: PathEmployeeDashboard, Title: "Employee Dashboard", Roles: []client.Role{client.RoleEmployee}},
	{Path: PathEmployeeLeave, Title: "Leave Management", Roles: []client.Role{client.RoleEmployee}, Placeholder: true},
	{Path: PathProfile, Title: "Profile", Placeholder: true},
	{Path: PathSettings, Title: "Settings", Roles: []client.Role{client.RoleHR}, Placeholder: true},
}

// Routes returns a copy of the route table
func Routes() []Route {
	return append([]Route(nil), routes...)
}

// Lookup finds the route for path. Trailing slashes are ignored.
func Lookup(path string) (Route, bool) {
	path = normalize(path)
	for _, r := range routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

func normalize(path string) string {
	if path == "" {
		return PathRoot
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = PathRoot
		}
	}
	return path
}

// Navigate resolves path for the session, following redirects until a screen
// renders or the session is still loading. The returned Decision has Kind
// Render or ShowLoading; Path is the screen to show and From carries the
// path to resume after signing in.
func Navigate(s session.Session, path string) Decision {
	from := ""
	path = normalize(path)

	for i := 0; i < maxHops; i++ {
		route, ok := Lookup(path)
		if !ok {
			// Root and unknown paths land on the generic dashboard
			route, _ = Lookup(PathDashboard)
		}

		var d Decision
		switch {
		case route.Public:
			d = DecidePublic(s, route.Path)
		case route.Path == PathDashboard:
			d = Decide(s, path, nil)
			if d.Kind == Render {
				d = Decision{Kind: Redirect, Path: RoleHome(s.User.Role)}
			}
		default:
			d = Decide(s, route.Path, route.Roles)
		}

		switch d.Kind {
		case Render:
			return Decision{Kind: Render, Path: route.Path, From: from}
		case ShowLoading:
			return Decision{Kind: ShowLoading, Path: path, From: from}
		}
		if d.From != "" {
			from = d.From
		}
		path = d.Path
	}

	return Decision{Kind: Render, Path: PathLogin, From: from}
}

// AfterLogin picks where to go once signed in: the remembered path when the
// user may see it, else their role home
func AfterLogin(s session.Session, from string) string {
	if from != "" && from != PathLogin {
		if d := Navigate(s, from); d.Kind == Render {
			return d.Path
		}
	}
	if s.User == nil {
		return PathLogin
	}
	return RoleHome(s.User.Role)
}

// NavItem is one entry in the navigation menu
type NavItem struct {
	Label string
	Path  string
	Key   string
}

// NavItems returns the menu for role
func NavItems(role client.Role) []NavItem {
	items := []NavItem{{Label: "Dashboard", Path: RoleHome(role), Key: "d"}}
	switch role {
	case client.RoleHR:
		items = append(items,
			NavItem{Label: "Employees", Path: PathHREmployees, Key: "e"},
			NavItem{Label: "Leave Requests", Path: PathHRLeaveRequests, Key: "l"},
			NavItem{Label: "Settings", Path: PathSettings, Key: "s"},
		)
	case client.RoleEmployee:
		items = append(items,
			NavItem{Label: "Leave Management", Path: PathEmployeeLeave, Key: "l"},
		)
	}
	return append(items, NavItem{Label: "Profile", Path: PathProfile, Key: "p"})
}
