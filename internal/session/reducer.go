// ABOUTME: Pure transition function for the session state
// ABOUTME: Every applied action bumps the version so stale async results can be detected

package session

import (
	"time"

	"github.com/markalston/hrdesk/internal/client"
)

// ActionType names a session transition
type ActionType string

const (
	ActionRestore       ActionType = "restore"
	ActionSetLoading    ActionType = "set_loading"
	ActionLoginStart    ActionType = "login_start"
	ActionLoginSuccess  ActionType = "login_success"
	ActionLoginFailure  ActionType = "login_failure"
	ActionLogout        ActionType = "logout"
	ActionInvalidate    ActionType = "invalidate"
	ActionUpdateUser    ActionType = "update_user"
	ActionProfileLoaded ActionType = "profile_loaded"
)

// Action is a transition request with its payload
type Action struct {
	Type      ActionType
	User      *client.User
	Token     string
	ExpiresAt time.Time
	Patch     client.UserPatch
	Loading   bool
	Reason    Reason
}

// Reduce applies a to s and returns the next state. It has no side effects.
// Actions that do not apply in the current state return s unchanged.
func Reduce(s Session, a Action) Session {
	next := s.clone()

	switch a.Type {
	case ActionRestore:
		// Persisted token found at start; hydration follows
		next.Status = StatusInitializing
		next.Token = a.Token
		next.User = nil
		next.IsAuthenticated = false
		next.IsLoading = true
		next.Reason = ReasonNone

	case ActionSetLoading:
		if a.Loading {
			next.IsLoading = true
		} else {
			next.IsLoading = false
			if next.Status == StatusInitializing {
				next.Status = StatusAnonymous
			}
		}

	case ActionLoginStart:
		next.Status = StatusAuthenticating
		next.IsLoading = true
		next.Reason = ReasonNone

	case ActionLoginSuccess, ActionProfileLoaded:
		if a.User == nil || a.Token == "" {
			return s
		}
		u := *a.User
		next.Status = StatusAuthenticated
		next.User = &u
		next.Token = a.Token
		next.ExpiresAt = a.ExpiresAt
		next.IsAuthenticated = true
		next.IsLoading = false
		next.Reason = ReasonNone

	case ActionLoginFailure:
		next = anonymous(ReasonLoginFailed)

	case ActionLogout:
		reason := a.Reason
		if reason == ReasonNone {
			reason = ReasonLogout
		}
		next = anonymous(reason)

	case ActionInvalidate:
		next = anonymous(ReasonInvalid)
		next.Status = StatusInvalid

	case ActionUpdateUser:
		if s.Status != StatusAuthenticated || s.User == nil {
			return s
		}
		u := s.User.Apply(a.Patch)
		next.User = &u

	default:
		return s
	}

	next.Version = s.Version + 1
	return next
}

func anonymous(reason Reason) Session {
	return Session{Status: StatusAnonymous, Reason: reason}
}
