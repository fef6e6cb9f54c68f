// ABOUTME: Route command for the hrdesk CLI
// ABOUTME: Shows which screen a path resolves to for the stored session

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/markalston/hrdesk/internal/guard"
	"github.com/markalston/hrdesk/internal/session"
	"github.com/spf13/cobra"
)

var routeCmd = &cobra.Command{
	Use:   "route <path>",
	Short: "Check access to a screen",
	Long: `Resolve a path such as /hr/employees for the stored session and report
whether it renders or where the guard sends you instead.

Exit codes:
  0 - The requested screen renders
  1 - Redirected (not signed in or wrong role)`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		withSession(ctx, func(a *app) int {
			return runRoute(ctx, a.machine, args[0], os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(routeCmd)
}

// routeResult is the JSON shape printed by the route command
type routeResult struct {
	Requested string `json:"requested"`
	Decision  string `json:"decision"`
	Path      string `json:"path"`
	From      string `json:"from,omitempty"`
	Allowed   bool   `json:"allowed"`
}

// runRoute resolves path and returns the exit code
func runRoute(ctx context.Context, m *session.Machine, path string, w io.Writer) int {
	s := m.Start(ctx)
	res := resolveRoute(s, path)

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(res, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, formatRouteHuman(res))
	}
	if !res.Allowed {
		return exitDenied
	}
	return exitOK
}

func resolveRoute(s session.Session, path string) routeResult {
	d := guard.Navigate(s, path)
	res := routeResult{
		Requested: path,
		Decision:  d.Kind.String(),
		Path:      d.Path,
		From:      d.From,
	}
	if r, ok := guard.Lookup(path); ok && d.Kind == guard.Render && d.Path == r.Path {
		res.Allowed = true
	}
	return res
}

func formatRouteHuman(r routeResult) string {
	if r.Allowed {
		return fmt.Sprintf("%s: allowed", r.Path)
	}
	if r.Decision == guard.ShowLoading.String() {
		return fmt.Sprintf("%s: session still loading", r.Requested)
	}
	msg := fmt.Sprintf("%s: redirected to %s", r.Requested, r.Path)
	if r.From != "" {
		msg += fmt.Sprintf(" (resumes %s after login)", r.From)
	}
	return msg
}
