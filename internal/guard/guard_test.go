// ABOUTME: Tests for route guard decisions and navigation
// ABOUTME: Exercises every session shape against every route in the table

package guard

import (
	"testing"

	"github.com/markalston/hrdesk/internal/client"
	"github.com/markalston/hrdesk/internal/session"
)

func signedIn(role client.Role) session.Session {
	return session.Session{
		Status:          session.StatusAuthenticated,
		User:            &client.User{ID: "1", Username: "u", Role: role},
		Token:           "tok-123",
		IsAuthenticated: true,
	}
}

func sessions() map[string]session.Session {
	loadingHR := signedIn(client.RoleHR)
	loadingHR.IsLoading = true

	return map[string]session.Session{
		"initializing": session.Initial(),
		"loading hr":   loadingHR,
		"anonymous":    {Status: session.StatusAnonymous},
		"hr":           signedIn(client.RoleHR),
		"employee":     signedIn(client.RoleEmployee),
	}
}

var roleSets = [][]client.Role{
	nil,
	{client.RoleHR},
	{client.RoleEmployee},
	{client.RoleHR, client.RoleEmployee},
}

func TestDecide_LoadingAlwaysShowsLoading(t *testing.T) {
	for name, s := range sessions() {
		if !s.IsLoading {
			continue
		}
		for _, required := range roleSets {
			if d := Decide(s, PathHRDashboard, required); d.Kind != ShowLoading {
				t.Errorf("%s %v: expected loading, got %s", name, required, d.Kind)
			}
		}
		if d := DecidePublic(s, PathLogin); d.Kind != ShowLoading {
			t.Errorf("%s public: expected loading, got %s", name, d.Kind)
		}
	}
}

func TestDecide_AnonymousNeverRenders(t *testing.T) {
	s := session.Session{Status: session.StatusAnonymous}
	for _, r := range Routes() {
		if r.Public {
			continue
		}
		d := Decide(s, r.Path, r.Roles)
		if d.Kind != Redirect || d.Path != PathLogin {
			t.Errorf("%s: expected redirect to login, got %+v", r.Path, d)
		}
		if d.From != r.Path {
			t.Errorf("%s: expected From %s, got %s", r.Path, r.Path, d.From)
		}
	}
}

func TestDecide_UserWithoutFlagIsNotAuthenticated(t *testing.T) {
	s := session.Session{Status: session.StatusAnonymous, User: &client.User{Role: client.RoleHR}}
	if d := Decide(s, PathHRDashboard, nil); d.Kind != Redirect {
		t.Errorf("expected redirect, got %s", d.Kind)
	}
}

func TestDecide_RoleMismatchRedirectsHome(t *testing.T) {
	tests := []struct {
		role     client.Role
		required []client.Role
		home     string
	}{
		{client.RoleHR, []client.Role{client.RoleEmployee}, PathHRDashboard},
		{client.RoleEmployee, []client.Role{client.RoleHR}, PathEmployeeDashboard},
	}

	for _, tc := range tests {
		t.Run(string(tc.role), func(t *testing.T) {
			s := signedIn(tc.role)
			d := Decide(s, "/somewhere", tc.required)
			if d.Kind != Redirect || d.Path != tc.home {
				t.Fatalf("expected redirect to %s, got %+v", tc.home, d)
			}

			// The home route always renders for its own role
			home, ok := Lookup(d.Path)
			if !ok {
				t.Fatalf("expected route for %s", d.Path)
			}
			if again := Decide(s, home.Path, home.Roles); again.Kind != Render {
				t.Errorf("expected home to render, got %+v", again)
			}
		})
	}
}

func TestDecide_RendersMatchingRole(t *testing.T) {
	for _, required := range roleSets {
		for _, role := range client.Roles {
			s := signedIn(role)
			d := Decide(s, "/x", required)
			allowed := len(required) == 0
			for _, r := range required {
				if r == role {
					allowed = true
				}
			}
			if allowed && d.Kind != Render {
				t.Errorf("%s %v: expected render, got %+v", role, required, d)
			}
			if !allowed && d.Kind != Redirect {
				t.Errorf("%s %v: expected redirect, got %+v", role, required, d)
			}
		}
	}
}

func TestDecidePublic(t *testing.T) {
	if d := DecidePublic(session.Session{Status: session.StatusAnonymous}, PathLogin); d.Kind != Render {
		t.Errorf("expected anonymous to see login, got %+v", d)
	}
	d := DecidePublic(signedIn(client.RoleEmployee), PathLogin)
	if d.Kind != Redirect || d.Path != PathEmployeeDashboard {
		t.Errorf("expected redirect to employee dashboard, got %+v", d)
	}
}

func TestRoleHome(t *testing.T) {
	if RoleHome(client.RoleHR) != PathHRDashboard {
		t.Errorf("expected %s, got %s", PathHRDashboard, RoleHome(client.RoleHR))
	}
	if RoleHome(client.RoleEmployee) != PathEmployeeDashboard {
		t.Errorf("expected %s, got %s", PathEmployeeDashboard, RoleHome(client.RoleEmployee))
	}
}

func TestNavigate(t *testing.T) {
	s := sessions()
	tests := []struct {
		name    string
		session session.Session
		path    string
		kind    Kind
		want    string
		from    string
	}{
		{"anonymous protected", s["anonymous"], PathHREmployees, Render, PathLogin, PathHREmployees},
		{"anonymous login", s["anonymous"], PathLogin, Render, PathLogin, ""},
		{"anonymous root", s["anonymous"], "/", Render, PathLogin, "/"},
		{"hr root", s["hr"], "/", Render, PathHRDashboard, ""},
		{"employee dashboard alias", s["employee"], PathDashboard, Render, PathEmployeeDashboard, ""},
		{"employee unknown", s["employee"], "/nope", Render, PathEmployeeDashboard, ""},
		{"hr login", s["hr"], PathLogin, Render, PathHRDashboard, ""},
		{"employee on hr page", s["employee"], PathHRLeaveRequests, Render, PathEmployeeDashboard, ""},
		{"employee settings", s["employee"], PathSettings, Render, PathEmployeeDashboard, ""},
		{"hr settings", s["hr"], PathSettings, Render, PathSettings, ""},
		{"profile any role", s["employee"], PathProfile + "/", Render, PathProfile, ""},
		{"loading", s["initializing"], PathHRDashboard, ShowLoading, PathHRDashboard, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := Navigate(tc.session, tc.path)
			if d.Kind != tc.kind {
				t.Errorf("expected kind %s, got %s", tc.kind, d.Kind)
			}
			if d.Path != tc.want {
				t.Errorf("expected path %s, got %s", tc.want, d.Path)
			}
			if d.From != tc.from {
				t.Errorf("expected from %q, got %q", tc.from, d.From)
			}
		})
	}
}

func TestNavigate_NeverRendersForbiddenRoute(t *testing.T) {
	for name, s := range sessions() {
		for _, r := range Routes() {
			d := Navigate(s, r.Path)
			if d.Kind != Render {
				continue
			}
			target, ok := Lookup(d.Path)
			if !ok {
				t.Fatalf("%s %s: rendered unknown path %s", name, r.Path, d.Path)
			}
			if target.Public {
				if s.IsAuthenticated {
					t.Errorf("%s %s: rendered public route while signed in", name, r.Path)
				}
				continue
			}
			if Decide(s, target.Path, target.Roles).Kind != Render {
				t.Errorf("%s %s: rendered %s which the guard rejects", name, r.Path, d.Path)
			}
		}
	}
}

func TestAfterLogin(t *testing.T) {
	hr := signedIn(client.RoleHR)
	if got := AfterLogin(hr, PathHREmployees); got != PathHREmployees {
		t.Errorf("expected to resume %s, got %s", PathHREmployees, got)
	}
	if got := AfterLogin(hr, PathEmployeeLeave); got != PathHRDashboard {
		t.Errorf("expected role home for forbidden path, got %s", got)
	}
	if got := AfterLogin(hr, ""); got != PathHRDashboard {
		t.Errorf("expected role home without from, got %s", got)
	}
	if got := AfterLogin(hr, PathLogin); got != PathHRDashboard {
		t.Errorf("expected role home for login path, got %s", got)
	}
}

func TestNavItems(t *testing.T) {
	hr := NavItems(client.RoleHR)
	if hr[0].Path != PathHRDashboard {
		t.Errorf("expected hr dashboard first, got %s", hr[0].Path)
	}
	emp := NavItems(client.RoleEmployee)
	if emp[0].Path != PathEmployeeDashboard {
		t.Errorf("expected employee dashboard first, got %s", emp[0].Path)
	}

	// Every menu entry must be reachable for its role
	for _, role := range client.Roles {
		s := signedIn(role)
		seen := map[string]bool{}
		for _, item := range NavItems(role) {
			if seen[item.Key] {
				t.Errorf("%s: duplicate key %s", role, item.Key)
			}
			seen[item.Key] = true
			if d := Navigate(s, item.Path); d.Path != item.Path {
				t.Errorf("%s: menu item %s navigates to %s", role, item.Path, d.Path)
			}
		}
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("hr/dashboard"); !ok {
		t.Error("expected path without leading slash to resolve")
	}
	if _, ok := Lookup("/missing"); ok {
		t.Error("expected unknown path to miss")
	}
}
