// ABOUTME: Shared fake identity backend for command tests
// ABOUTME: Serves login, profile, validate and dashboard endpoints over httptest

package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/markalston/hrdesk/internal/client"
	"github.com/markalston/hrdesk/internal/config"
	"github.com/markalston/hrdesk/internal/tokenstore"
)

var backendUsers = map[string]client.User{
	"tok-hr": {
		ID: "1", Username: "hr", Email: "hr@example.com", Role: client.RoleHR,
		FirstName: "Hana", LastName: "Reyes", Department: "People", IsActive: true,
	},
	"tok-employee": {
		ID: "2", Username: "employee", Email: "employee@example.com", Role: client.RoleEmployee,
		FirstName: "Eli", LastName: "Moss", Department: "Engineering", IsActive: true,
	},
}

// fakeBackend records calls made against it
type fakeBackend struct {
	*httptest.Server
	logins  atomic.Int32
	logouts atomic.Int32
}

func reply(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"data": data, "message": message, "success": status < 400})
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}

	userFor := func(r *http.Request) (client.User, bool) {
		u, ok := backendUsers[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
		return u, ok
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		fb.logins.Add(1)
		var creds client.Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		token := "tok-" + creds.Username
		u, ok := backendUsers[token]
		if !ok || creds.Password != "password123" {
			reply(w, http.StatusUnauthorized, nil, "Invalid username or password")
			return
		}
		reply(w, http.StatusOK, client.LoginResult{
			User:      u,
			Token:     token,
			ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		}, "Login successful")
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		fb.logouts.Add(1)
		reply(w, http.StatusOK, nil, "Logged out")
	})
	mux.HandleFunc("GET /auth/profile", func(w http.ResponseWriter, r *http.Request) {
		u, ok := userFor(r)
		if !ok {
			reply(w, http.StatusUnauthorized, nil, "Invalid token")
			return
		}
		reply(w, http.StatusOK, u, "")
	})
	mux.HandleFunc("GET /auth/validate", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userFor(r); !ok {
			reply(w, http.StatusUnauthorized, nil, "Invalid token")
			return
		}
		reply(w, http.StatusOK, map[string]bool{"valid": true}, "")
	})
	mux.HandleFunc("GET /dashboard/hr", func(w http.ResponseWriter, r *http.Request) {
		u, ok := userFor(r)
		if !ok {
			reply(w, http.StatusUnauthorized, nil, "Invalid token")
			return
		}
		if u.Role != client.RoleHR {
			reply(w, http.StatusForbidden, nil, "Insufficient permissions")
			return
		}
		reply(w, http.StatusOK, client.HRMetrics{
			EmployeeCount:        12,
			PendingLeaveRequests: 2,
			RecentActivity:       []client.Activity{{Type: "leave_request", Description: "Eli Moss requested vacation"}},
		}, "")
	})
	mux.HandleFunc("GET /dashboard/employee", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userFor(r); !ok {
			reply(w, http.StatusUnauthorized, nil, "Invalid token")
			return
		}
		start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
		reply(w, http.StatusOK, client.EmployeeDashboard{
			LeaveBalance: 18.5,
			RecentRequests: []client.LeaveRequest{
				{LeaveType: "vacation", StartDate: start, EndDate: start.AddDate(0, 0, 4), Status: "pending"},
			},
		}, "")
	})

	fb.Server = httptest.NewServer(mux)
	t.Cleanup(fb.Close)
	return fb
}

// newTestApp wires a machine over the fake backend with an in-memory token
func newTestApp(t *testing.T, url, token string) (*app, *tokenstore.Memory) {
	t.Helper()
	store := tokenstore.NewMemory(token)
	cfg := &config.Config{APIURL: url, TokenBackend: "memory"}
	return newApp(cfg, client.New(url), store, nil), store
}

// withJSON turns on --json for the duration of a test
func withJSON(t *testing.T) {
	t.Helper()
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })
}
