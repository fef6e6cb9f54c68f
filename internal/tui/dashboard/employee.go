// ABOUTME: Employee dashboard screen showing leave balance and recent requests
// ABOUTME: Renders the GET /dashboard/employee payload plus the user's details

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/hrdesk/internal/client"
	"github.com/markalston/hrdesk/internal/tui/icons"
	"github.com/markalston/hrdesk/internal/tui/styles"
	"github.com/markalston/hrdesk/internal/tui/widgets"
)

const dateLayout = "Jan 2, 2006"

// Employee displays the personal dashboard for employee users
type Employee struct {
	user   *client.User
	data   *client.EmployeeDashboard
	width  int
	height int
}

// NewEmployee creates an employee dashboard for user with optional data
func NewEmployee(user *client.User, data *client.EmployeeDashboard, width, height int) *Employee {
	return &Employee{user: user, data: data, width: width, height: height}
}

// Update replaces the displayed dashboard data
func (d *Employee) Update(data *client.EmployeeDashboard) {
	d.data = data
}

// SetSize updates the dashboard dimensions
func (d *Employee) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the dashboard
func (d *Employee) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(welcome(d.user)))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render("Here's your personal dashboard with leave information and recent activity."))
	sb.WriteString("\n")

	if d.data == nil {
		sb.WriteString(styles.Panel.Render("Loading your dashboard..."))
		return d.frame(sb.String())
	}

	cfg := widgets.DefaultMetricBlockConfig()
	cards := []string{
		widgets.MetricBlock(icons.Calendar, "Leave Balance",
			formatDays(d.data.LeaveBalance), "Available days", cfg),
		widgets.CountBlock(icons.Clock, "Pending Requests",
			countStatus(d.data.RecentRequests, "pending"), "Awaiting review", cfg),
	}
	sb.WriteString(cardRow(d.width, cards))
	sb.WriteString("\n\n")

	sb.WriteString(styles.ValueStyle.Render("Recent Leave Requests"))
	sb.WriteString("\n")
	if len(d.data.RecentRequests) == 0 {
		sb.WriteString(styles.Help.UnsetMarginTop().Render("No leave requests yet"))
		sb.WriteString("\n")
	}
	for _, r := range d.data.RecentRequests {
		sb.WriteString(formatRequest(r))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(styles.ValueStyle.Render("Personal Information"))
	sb.WriteString("\n")
	sb.WriteString(d.personalInfo())

	return d.frame(sb.String())
}

func (d *Employee) personalInfo() string {
	info := d.data.PersonalInfo
	name := strings.TrimSpace(info.FirstName + " " + info.LastName)
	email := info.Email
	dept := info.Department
	role := ""
	if d.user != nil {
		if name == "" {
			name = d.user.FullName()
		}
		if email == "" {
			email = d.user.Email
		}
		if dept == "" {
			dept = d.user.Department
		}
		role = d.user.Role.Label()
	}

	rows := [][2]string{
		{"Full Name", name},
		{"Email", email},
		{"Department", dept},
		{"Position", info.Position},
		{"Role", role},
	}
	var sb strings.Builder
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-12s %s\n", row[0]+":", row[1]))
	}
	return sb.String()
}

func (d *Employee) frame(content string) string {
	return lipgloss.NewStyle().Width(d.width).Height(d.height).Render(content)
}

func formatRequest(r client.LeaveRequest) string {
	line := fmt.Sprintf("  %s %-10s %s - %s (%s)",
		widgets.LeaveStatusBadge(r.Status),
		r.LeaveType,
		r.StartDate.Format(dateLayout),
		r.EndDate.Format(dateLayout),
		pluralDays(leaveDays(r)))
	if r.Reason != "" {
		line += "\n    " + styles.Subtitle.UnsetMarginBottom().Render(r.Reason)
	}
	return line
}

// leaveDays counts calendar days including both ends
func leaveDays(r client.LeaveRequest) int {
	if r.StartDate.IsZero() || r.EndDate.Before(r.StartDate) {
		return 0
	}
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func formatDays(balance float64) string {
	if balance == float64(int(balance)) {
		return pluralDays(int(balance))
	}
	return fmt.Sprintf("%.1f days", balance)
}

func countStatus(requests []client.LeaveRequest, status string) int {
	n := 0
	for _, r := range requests {
		if strings.EqualFold(r.Status, status) {
			n++
		}
	}
	return n
}
