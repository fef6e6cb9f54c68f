// ABOUTME: Whoami command for the hrdesk CLI
// ABOUTME: Restores the stored session and prints the signed-in user

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markalston/hrdesk/internal/client"
	"github.com/markalston/hrdesk/internal/guard"
	"github.com/markalston/hrdesk/internal/session"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Long: `Restore the stored session, validate it with the backend and print the user.

Exit codes:
  0 - Signed in
  1 - Not signed in (no token, or the token was rejected)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		withSession(ctx, func(a *app) int {
			return runWhoami(ctx, a.machine, os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami prints the restored session and returns the exit code
func runWhoami(ctx context.Context, m *session.Machine, w io.Writer) int {
	s := m.Start(ctx)

	if IsJSONOutput() {
		fmt.Fprintln(w, formatSessionJSON(s))
	} else {
		fmt.Fprintln(w, formatWhoamiHuman(s))
	}
	if !s.IsAuthenticated {
		return exitDenied
	}
	return exitOK
}

// sessionView is the JSON shape printed by session commands
type sessionView struct {
	Status        string       `json:"status"`
	Authenticated bool         `json:"authenticated"`
	Reason        string       `json:"reason,omitempty"`
	User          *client.User `json:"user,omitempty"`
	Home          string       `json:"home,omitempty"`
	ExpiresAt     *time.Time   `json:"expiresAt,omitempty"`
}

func newSessionView(s session.Session) sessionView {
	v := sessionView{
		Status:        s.Status.String(),
		Authenticated: s.IsAuthenticated,
		Reason:        string(s.Reason),
		User:          s.User,
	}
	if s.User != nil {
		v.Home = guard.RoleHome(s.User.Role)
	}
	if !s.ExpiresAt.IsZero() {
		exp := s.ExpiresAt
		v.ExpiresAt = &exp
	}
	return v
}

// formatSessionJSON formats a session snapshot as JSON
func formatSessionJSON(s session.Session) string {
	data, _ := json.MarshalIndent(newSessionView(s), "", "  ")
	return string(data)
}

// formatUserLine renders "First Last (username, Role)"
func formatUserLine(u *client.User) string {
	if u == nil {
		return "nobody"
	}
	name := u.FullName()
	if name == "" {
		name = u.Username
	}
	return fmt.Sprintf("%s (%s, %s)", name, u.Username, u.Role.Label())
}

// formatWhoamiHuman formats a session for human readability
func formatWhoamiHuman(s session.Session) string {
	if !s.IsAuthenticated || s.User == nil {
		msg := "Not signed in."
		switch s.Reason {
		case session.ReasonInvalid, session.ReasonUnauthorized:
			msg += " The stored session has expired."
		}
		return msg + "\nRun 'hrdesk login' to sign in."
	}

	u := s.User
	out := fmt.Sprintf(`User:       %s
Email:      %s
Role:       %s
Department: %s
Home:       %s`,
		formatUserLine(u),
		u.Email,
		u.Role.Label(),
		u.Department,
		guard.RoleHome(u.Role))
	if !s.ExpiresAt.IsZero() {
		out += "\nExpires:    " + s.ExpiresAt.Local().Format(time.RFC1123)
	}
	return out
}
