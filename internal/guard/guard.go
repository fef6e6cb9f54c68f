// ABOUTME: Pure route guard decisions over a session snapshot
// ABOUTME: Chooses between rendering, showing a spinner and redirecting

package guard

import (
	"slices"

	"github.com/markalston/hrdesk/internal/client"
	"github.com/markalston/hrdesk/internal/session"
)

// Canonical paths
const (
	PathRoot              = "/"
	PathLogin             = "/login"
	PathDashboard         = "/dashboard"
	PathHRDashboard       = "/hr/dashboard"
	PathHREmployees       = "/hr/employees"
	PathHRLeaveRequests   = "/hr/leave-requests"
	PathEmployeeDashboard = "/employee/dashboard"
	PathEmployeeLeave     = "/employee/leave"
	PathProfile           = "/profile"
	PathSettings          = "/settings"
)

// Kind is the outcome of a guard decision
type Kind int

const (
	Render Kind = iota
	Redirect
	ShowLoading
)

func (k Kind) String() string {
	switch k {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	case ShowLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Decision says what to do with a navigation. Path is the redirect target;
// From is the originally requested path, set on redirects to the login page.
type Decision struct {
	Kind Kind
	Path string
	From string
}

// RoleHome maps a role to its dashboard
func RoleHome(role client.Role) string {
	if role == client.RoleHR {
		return PathHRDashboard
	}
	return PathEmployeeDashboard
}

// Decide gates a protected route. An empty required set admits any signed-in user.
func Decide(s session.Session, path string, required []client.Role) Decision {
	if s.IsLoading {
		return Decision{Kind: ShowLoading}
	}
	if !s.IsAuthenticated || s.User == nil {
		return Decision{Kind: Redirect, Path: PathLogin, From: path}
	}
	if len(required) > 0 && !slices.Contains(required, s.User.Role) {
		return Decision{Kind: Redirect, Path: RoleHome(s.User.Role)}
	}
	return Decision{Kind: Render}
}

// DecidePublic gates a public-only route such as the login page
func DecidePublic(s session.Session, path string) Decision {
	if s.IsLoading {
		return Decision{Kind: ShowLoading}
	}
	if s.IsAuthenticated && s.User != nil {
		return Decision{Kind: Redirect, Path: RoleHome(s.User.Role)}
	}
	return Decision{Kind: Render}
}
