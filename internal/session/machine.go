// ABOUTME: Owns the process-wide session and drives it through the reducer
// ABOUTME: Guards against concurrent logins and discards results from superseded transitions

package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/markalston/hrdesk/internal/client"
	"github.com/markalston/hrdesk/internal/metrics"
	"github.com/markalston/hrdesk/internal/tokenstore"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrLoginInProgress is returned when a login or hydration is already in flight
	ErrLoginInProgress = errors.New("login already in progress")
	// ErrNotAuthenticated is returned by operations that need a signed-in user
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSuperseded is returned when a newer transition replaced the state an
	// in-flight call started from; its result was discarded
	ErrSuperseded = errors.New("session changed while request was in flight")

	errSessionInvalid = errors.New("session is no longer valid")
)

// Authenticator is the subset of the API client the machine drives
type Authenticator interface {
	Login(ctx context.Context, creds client.Credentials) (*client.LoginResult, error)
	Logout(ctx context.Context) error
	FetchProfile(ctx context.Context) (*client.User, error)
	ValidateSession(ctx context.Context) bool
}

// Machine is the single owner of the session state
type Machine struct {
	auth  Authenticator
	store tokenstore.Store
	now   func() time.Time

	mu        sync.Mutex
	state     Session
	flight    uint64 // id of the login or hydration in flight, 0 when idle
	flightSeq uint64
	started   bool
	subs      map[int]chan Session
	nextSub   int

	refresh singleflight.Group
}

// New creates a machine in the Initializing state
func New(auth Authenticator, store tokenstore.Store) *Machine {
	return &Machine{
		auth:  auth,
		store: store,
		now:   time.Now,
		state: Initial(),
		subs:  make(map[int]chan Session),
	}
}

// Snapshot returns a copy of the current session
func (m *Machine) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Token returns the in-memory bearer token; suitable as a client token source
func (m *Machine) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Token
}

// Subscribe returns a channel that receives the current snapshot and then
// every change. A slow reader only ever sees the newest snapshot.
func (m *Machine) Subscribe() (<-chan Session, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan Session, 1)
	ch <- m.state.clone()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(ch)
		}
	}
}

// dispatch applies a under the lock and publishes the result
func (m *Machine) dispatch(a Action) {
	prev := m.state
	next := Reduce(prev, a)
	if next.Version == prev.Version {
		return
	}
	m.state = next

	metrics.ObserveTransition(string(a.Type))
	slog.Debug("Session transition",
		"action", a.Type,
		"from", prev.Status.String(),
		"to", next.Status.String(),
		"version", next.Version,
	)

	for _, ch := range m.subs {
		select {
		case <-ch:
		default:
		}
		ch <- next.clone()
	}
}

// begin marks a login or hydration as in flight; callers hold the lock
func (m *Machine) begin() uint64 {
	m.flightSeq++
	m.flight = m.flightSeq
	return m.flight
}

// end clears the in-flight marker if it still belongs to id
func (m *Machine) end(id uint64) {
	if m.flight == id {
		m.flight = 0
	}
}

// invalidate clears the persisted token and walks Invalid then Anonymous
func (m *Machine) invalidate() {
	m.store.Clear()
	m.flight = 0
	m.dispatch(Action{Type: ActionInvalidate})
	m.dispatch(Action{Type: ActionLogout, Reason: ReasonInvalid})
}

// Start restores a persisted session. It runs once, and not at all if a login
// already moved the session on; later calls return the current snapshot.
func (m *Machine) Start(ctx context.Context) Session {
	m.mu.Lock()
	if m.started || m.state.Status != StatusInitializing {
		defer m.mu.Unlock()
		return m.state.clone()
	}
	m.started = true

	token, ok := m.store.Get()
	if !ok {
		m.dispatch(Action{Type: ActionSetLoading, Loading: false})
		defer m.mu.Unlock()
		return m.state.clone()
	}

	m.dispatch(Action{Type: ActionRestore, Token: token})
	if expiredLocally(token, m.now()) {
		slog.Info("Persisted token has expired")
		m.invalidate()
		defer m.mu.Unlock()
		return m.state.clone()
	}

	flight := m.begin()
	version := m.state.Version
	m.mu.Unlock()

	s, err := m.hydrate(ctx, flight, version, token, true)
	if err != nil && !errors.Is(err, ErrSuperseded) {
		slog.Info("Could not restore session", "error", err)
	}
	return s
}

// hydrate validates the token (optionally) and loads the profile, applying the
// result only if nothing else changed the session meanwhile
func (m *Machine) hydrate(ctx context.Context, flight, version uint64, token string, validate bool) (Session, error) {
	var user *client.User
	var err error
	if validate && !m.auth.ValidateSession(ctx) {
		err = errSessionInvalid
	} else {
		user, err = m.auth.FetchProfile(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.end(flight)
	if m.state.Version != version {
		return m.state.clone(), ErrSuperseded
	}

	if err != nil {
		m.invalidate()
		return m.state.clone(), err
	}

	expiresAt := m.state.ExpiresAt
	if exp, ok := tokenExpiry(token); ok {
		expiresAt = exp
	}
	m.dispatch(Action{Type: ActionProfileLoaded, User: user, Token: token, ExpiresAt: expiresAt})
	return m.state.clone(), nil
}

// Login authenticates with creds. Malformed credentials and concurrent
// attempts fail without changing state. Other failures leave the session
// Anonymous and return a normalized error; the token store is only written on
// success.
func (m *Machine) Login(ctx context.Context, creds client.Credentials) (Session, error) {
	if err := client.ValidateCredentials(creds); err != nil {
		return m.Snapshot(), err
	}

	m.mu.Lock()
	if m.flight != 0 || m.state.Status == StatusAuthenticating {
		defer m.mu.Unlock()
		return m.state.clone(), ErrLoginInProgress
	}
	flight := m.begin()
	m.dispatch(Action{Type: ActionLoginStart})
	version := m.state.Version
	m.mu.Unlock()

	res, err := m.auth.Login(ctx, creds)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.end(flight)
	if m.state.Version != version {
		return m.state.clone(), ErrSuperseded
	}

	if err != nil {
		m.dispatch(Action{Type: ActionLoginFailure})
		return m.state.clone(), normalizeLoginError(err)
	}

	m.store.Set(res.Token)
	m.dispatch(Action{
		Type:      ActionLoginSuccess,
		User:      &res.User,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	})
	slog.Info("Logged in", "username", res.User.Username, "role", string(res.User.Role))
	return m.state.clone(), nil
}

// normalizeLoginError keeps typed client errors and folds anything else into
// a generic AuthError
func normalizeLoginError(err error) error {
	if client.IsAuthError(err) || client.IsNetworkError(err) || client.IsValidationError(err) {
		return err
	}
	return &client.AuthError{Message: "Login failed", Err: err}
}

// Logout ends the session. The remote call is best-effort; local state and
// the persisted token are always cleared. Calling it twice is harmless.
func (m *Machine) Logout(ctx context.Context) Session {
	token := m.Token()
	if token != "" {
		if err := m.auth.Logout(ctx); err != nil {
			slog.Warn("Remote logout failed", "error", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.Clear()
	m.flight = 0
	if m.state.Status == StatusAnonymous && m.state.Token == "" {
		return m.state.clone()
	}
	m.dispatch(Action{Type: ActionLogout, Reason: ReasonLogout})
	return m.state.clone()
}

// UpdateUser merges patch into the signed-in user
func (m *Machine) UpdateUser(patch client.UserPatch) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status != StatusAuthenticated {
		return m.state.clone(), ErrNotAuthenticated
	}
	m.dispatch(Action{Type: ActionUpdateUser, Patch: patch})
	return m.state.clone(), nil
}

// RefreshUser reloads the profile for the current token. Concurrent calls
// share one request. Any failure ends the session.
func (m *Machine) RefreshUser(ctx context.Context) (Session, error) {
	v, err, _ := m.refresh.Do("refresh", func() (any, error) {
		return m.refreshOnce(ctx)
	})
	return v.(Session), err
}

func (m *Machine) refreshOnce(ctx context.Context) (Session, error) {
	m.mu.Lock()
	token := m.state.Token
	if token == "" {
		defer m.mu.Unlock()
		return m.state.clone(), ErrNotAuthenticated
	}
	if m.flight != 0 {
		defer m.mu.Unlock()
		return m.state.clone(), ErrLoginInProgress
	}
	flight := m.begin()
	version := m.state.Version
	m.mu.Unlock()

	return m.hydrate(ctx, flight, version, token, false)
}

// HandleUnauthorized reacts to a 401 reported by the API client. Events for a
// token other than the current one, or arriving mid-login, are ignored.
func (m *Machine) HandleUnauthorized(ev client.UnauthorizedEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status == StatusAuthenticating {
		return
	}
	if ev.Token == "" || ev.Token != m.state.Token {
		slog.Debug("Ignoring unauthorized event for stale token", "op", ev.Op)
		return
	}

	slog.Info("Session rejected by backend", "op", ev.Op)
	m.store.Clear()
	m.flight = 0
	m.dispatch(Action{Type: ActionLogout, Reason: ReasonUnauthorized})
}
