// ABOUTME: Shared fakes for TUI tests
// ABOUTME: Provides an in-memory identity backend and dashboard source

package tui

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/hrdesk/internal/client"
	"github.com/markalston/hrdesk/internal/session"
	"github.com/markalston/hrdesk/internal/tokenstore"
)

var testUsers = map[string]client.User{
	"hr": {
		ID: "u-hr", Username: "hr", Email: "hr@example.com",
		FirstName: "Alice", LastName: "Admin", Role: client.RoleHR, Department: "People",
	},
	"employee": {
		ID: "u-emp", Username: "employee", Email: "employee@example.com",
		FirstName: "Bob", LastName: "Builder", Role: client.RoleEmployee, Department: "Engineering",
	},
	"employee2": {
		ID: "u-emp2", Username: "employee2", Email: "carol@example.com",
		FirstName: "Carol", LastName: "Clerk", Role: client.RoleEmployee, Department: "Finance",
	},
}

// fakeAuth accepts the demo accounts with password123
type fakeAuth struct {
	mu      sync.Mutex
	current *client.User
}

func (f *fakeAuth) Login(ctx context.Context, creds client.Credentials) (*client.LoginResult, error) {
	u, ok := testUsers[creds.Username]
	if !ok || creds.Password != "password123" {
		return nil, &client.AuthError{Status: 401, Message: "Invalid username or password"}
	}
	f.mu.Lock()
	f.current = &u
	f.mu.Unlock()
	return &client.LoginResult{User: u, Token: "tok-" + u.Username}, nil
}

func (f *fakeAuth) Logout(ctx context.Context) error { return nil }

func (f *fakeAuth) FetchProfile(ctx context.Context) (*client.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return nil, &client.AuthError{Status: 401, Message: "Unauthorized"}
	}
	u := *f.current
	return &u, nil
}

func (f *fakeAuth) ValidateSession(ctx context.Context) bool { return true }

// fakeDashboards counts fetches
type fakeDashboards struct {
	mu            sync.Mutex
	hrCalls       int
	employeeCalls int
	err           error
}

func (f *fakeDashboards) HRMetrics(ctx context.Context) (*client.HRMetrics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hrCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &client.HRMetrics{
		EmployeeCount:        42,
		PendingLeaveRequests: 3,
		RecentActivity: []client.Activity{
			{Type: "leave_approved", Description: "Leave request approved for John Smith"},
		},
	}, nil
}

func (f *fakeDashboards) EmployeeDashboard(ctx context.Context) (*client.EmployeeDashboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.employeeCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &client.EmployeeDashboard{LeaveBalance: 15}, nil
}

// heldDashboards returns the held payload from the first call of a kind
// once Release is called, and the next payload from every other call. A kind
// with no held payload never blocks.
type heldDashboards struct {
	release chan struct{}
	once    sync.Once
	hrIn    chan struct{}
	empIn   chan struct{}
	hrN     atomic.Int32
	empN    atomic.Int32

	hrHeld  *client.HRMetrics
	hrNext  *client.HRMetrics
	empHeld *client.EmployeeDashboard
	empNext *client.EmployeeDashboard
}

func newHeldDashboards(t *testing.T) *heldDashboards {
	h := &heldDashboards{
		release: make(chan struct{}),
		hrIn:    make(chan struct{}),
		empIn:   make(chan struct{}),
	}
	t.Cleanup(h.Release)
	return h
}

// Release unblocks the held calls
func (h *heldDashboards) Release() {
	h.once.Do(func() { close(h.release) })
}

func (h *heldDashboards) HRMetrics(ctx context.Context) (*client.HRMetrics, error) {
	if h.hrHeld != nil && h.hrN.Add(1) == 1 {
		close(h.hrIn)
		<-h.release
		return h.hrHeld, nil
	}
	return h.hrNext, nil
}

func (h *heldDashboards) EmployeeDashboard(ctx context.Context) (*client.EmployeeDashboard, error) {
	if h.empHeld != nil && h.empN.Add(1) == 1 {
		close(h.empIn)
		<-h.release
		return h.empHeld, nil
	}
	return h.empNext, nil
}

// waitEntered waits until a held dashboard call has started
func waitEntered(t *testing.T, in <-chan struct{}) {
	t.Helper()
	select {
	case <-in:
	case <-time.After(2 * time.Second):
		t.Fatal("dashboard call never started")
	}
}

// newTestApp builds an app over a fresh anonymous machine
func newTestApp(t *testing.T, path string) (*App, *session.Machine, *fakeDashboards) {
	t.Helper()
	d := &fakeDashboards{}
	app, m := newTestAppWith(t, path, d)
	return app, m, d
}

// newTestAppWith builds an app reading dashboards from d
func newTestAppWith(t *testing.T, path string, d Dashboards) (*App, *session.Machine) {
	t.Helper()
	m := session.New(&fakeAuth{}, tokenstore.NewMemory(""))
	app := New(context.Background(), d, m, path)
	t.Cleanup(app.Close)

	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app, m
}

// sync feeds the machine's current snapshot to the app
func syncSession(app *App, m *session.Machine) tea.Cmd {
	_, cmd := app.Update(sessionMsg{s: m.Snapshot()})
	return cmd
}

// signIn starts the machine, logs in as username and syncs the app
func signIn(t *testing.T, app *App, m *session.Machine, username string) {
	t.Helper()
	m.Start(context.Background())
	syncSession(app, m)
	if _, err := m.Login(context.Background(), client.Credentials{Username: username, Password: "password123"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	syncSession(app, m)
}

// collect runs cmd and any batched children, returning the messages that
// arrive promptly. Commands that block, such as subscriptions, are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	return collectWithin(cmd, 200*time.Millisecond)
}

// collectWithin is collect with a per-command wait of d
func collectWithin(cmd tea.Cmd, d time.Duration) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(d):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collectWithin(c, d)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// startHeld runs cmd in the background; the returned channel yields its
// messages once the held dashboard call is released
func startHeld(cmd tea.Cmd) <-chan []tea.Msg {
	out := make(chan []tea.Msg, 1)
	go func() { out <- collectWithin(cmd, 5*time.Second) }()
	return out
}

// deliver feeds every message produced by cmd of type T back into the app
func deliver[T tea.Msg](app *App, cmd tea.Cmd) int {
	return deliverAll[T](app, collect(cmd))
}

// deliverAll feeds the messages of type T back into the app
func deliverAll[T tea.Msg](app *App, msgs []tea.Msg) int {
	n := 0
	for _, msg := range msgs {
		if _, ok := msg.(T); ok {
			app.Update(msg)
			n++
		}
	}
	return n
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
