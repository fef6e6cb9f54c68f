// ABOUTME: Session snapshot and lifecycle status
// ABOUTME: Snapshots are values; consumers never hold a mutable reference

package session

import (
	"time"

	"github.com/markalston/hrdesk/internal/client"
)

// Status is the lifecycle state of the session
type Status int

const (
	StatusInitializing Status = iota
	StatusAnonymous
	StatusAuthenticating
	StatusAuthenticated
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusAnonymous:
		return "anonymous"
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Reason explains why a session ended
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonLogout       Reason = "logout"
	ReasonInvalid      Reason = "invalid"
	ReasonUnauthorized Reason = "unauthorized"
	ReasonLoginFailed  Reason = "login_failed"
)

// Session is an immutable snapshot of the authentication state.
// IsAuthenticated holds only when both User and Token are present.
type Session struct {
	Status          Status
	User            *client.User
	Token           string
	ExpiresAt       time.Time
	IsAuthenticated bool
	IsLoading       bool
	Reason          Reason
	Version         uint64
}

// Initial is the state at application start
func Initial() Session {
	return Session{Status: StatusInitializing, IsLoading: true}
}

// Role returns the user's role, empty when anonymous
func (s Session) Role() client.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// clone copies the user so callers cannot mutate machine state through a snapshot
func (s Session) clone() Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
