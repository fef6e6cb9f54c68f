// ABOUTME: Logout command for the hrdesk CLI
// ABOUTME: Ends the remote session if possible and always forgets the local token

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/markalston/hrdesk/internal/session"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored token",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		withSession(ctx, func(a *app) int {
			return runLogout(ctx, a.machine, os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// runLogout signs out; it always succeeds
func runLogout(ctx context.Context, m *session.Machine, w io.Writer) int {
	m.Start(ctx)
	s := m.Logout(ctx)

	if IsJSONOutput() {
		fmt.Fprintln(w, formatSessionJSON(s))
	} else {
		fmt.Fprintln(w, "Signed out")
	}
	return exitOK
}
