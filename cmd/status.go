// ABOUTME: Status command for the hrdesk CLI
// ABOUTME: Shows the dashboard summary for the signed-in user's role

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/markalston/hrdesk/internal/client"
	"github.com/markalston/hrdesk/internal/session"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show your dashboard summary",
	Long: `Restore the stored session and print the dashboard for your role: workforce
metrics for HR users, leave balance and recent requests for employees.

Exit codes:
  0 - Summary printed
  1 - Not signed in
  2 - Error (backend unreachable)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		withSession(ctx, func(a *app) int {
			return runStatus(ctx, a.machine, a.client, os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// dashboardSource fetches the role dashboards
type dashboardSource interface {
	HRMetrics(ctx context.Context) (*client.HRMetrics, error)
	EmployeeDashboard(ctx context.Context) (*client.EmployeeDashboard, error)
}

// statusView is the JSON shape printed by the status command
type statusView struct {
	User     *client.User              `json:"user"`
	HR       *client.HRMetrics         `json:"hr,omitempty"`
	Employee *client.EmployeeDashboard `json:"employee,omitempty"`
}

// runStatus prints the dashboard summary and returns the exit code
func runStatus(ctx context.Context, m *session.Machine, d dashboardSource, w io.Writer) int {
	s := m.Start(ctx)
	if !s.IsAuthenticated {
		fmt.Fprintln(w, formatWhoamiHuman(s))
		return exitDenied
	}

	view := statusView{User: s.User}
	var err error
	if s.User.Role == client.RoleHR {
		view.HR, err = d.HRMetrics(ctx)
	} else {
		view.Employee, err = d.EmployeeDashboard(ctx)
	}
	if err != nil {
		if client.IsAuthError(err) {
			fmt.Fprintln(w, "Not signed in. The stored session has expired.\nRun 'hrdesk login' to sign in.")
			return exitDenied
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatStatusJSON(view))
	} else {
		fmt.Fprintln(w, formatStatusHuman(view))
	}
	return exitOK
}

// formatStatusHuman formats the dashboard summary for human readability
func formatStatusHuman(v statusView) string {
	out := fmt.Sprintf("Signed in as %s\n\n", formatUserLine(v.User))

	if v.HR != nil {
		out += fmt.Sprintf(`Employees:        %d
Pending leave:    %d [%s]
Recent activity:  %d`,
			v.HR.EmployeeCount,
			v.HR.PendingLeaveRequests, pendingStatus(v.HR.PendingLeaveRequests),
			len(v.HR.RecentActivity))
		for _, a := range v.HR.RecentActivity {
			out += "\n  - " + a.Description
		}
		return out
	}

	if v.Employee != nil {
		pending := 0
		for _, r := range v.Employee.RecentRequests {
			if r.Status == "pending" {
				pending++
			}
		}
		out += fmt.Sprintf(`Leave balance:    %g days
Recent requests:  %d (%d pending)`,
			v.Employee.LeaveBalance,
			len(v.Employee.RecentRequests), pending)
		for _, r := range v.Employee.RecentRequests {
			out += fmt.Sprintf("\n  - %s %s to %s [%s]", r.LeaveType,
				r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"), r.Status)
		}
	}
	return out
}

// formatStatusJSON formats the dashboard summary as JSON
func formatStatusJSON(v statusView) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}

// pendingStatus returns ok or attention for the pending leave queue
func pendingStatus(pending int) string {
	if pending > 0 {
		return "attention"
	}
	return "ok"
}
