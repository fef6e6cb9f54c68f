// ABOUTME: HR dashboard screen showing workforce metrics and recent activity
// ABOUTME: Renders metric cards from the GET /dashboard/hr payload

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

// maxActivity limits the activity feed to what fits on a normal terminal
const maxActivity = 5

// HR displays workforce metrics for HR users
type HR struct {
	user    *client.User
	metrics *client.HRMetrics
	width   int
	height  int
}

// NewHR creates an HR dashboard for user with optional metrics
func NewHR(user *client.User, metrics *client.HRMetrics, width, height int) *HR {
	return &HR{user: user, metrics: metrics, width: width, height: height}
}

// Update replaces the displayed metrics
func (d *HR) Update(metrics *client.HRMetrics) {
	d.metrics = metrics
}

// SetSize updates the dashboard dimensions
func (d *HR) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the dashboard
func (d *HR) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(welcome(d.user)))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render("Here's what's happening with your workforce today."))
	sb.WriteString("\n")

	if d.metrics == nil {
		sb.WriteString(styles.Panel.Render("Loading dashboard metrics..."))
		return d.frame(sb.String())
	}

	cfg := widgets.DefaultMetricBlockConfig()
	cards := []string{
		widgets.CountBlock(icons.Users, "Total Employees", d.metrics.EmployeeCount,
			"All employees", cfg),
		widgets.CountBlock(icons.Calendar, "Pending Leave", d.metrics.PendingLeaveRequests,
			pendingCaption(d.metrics.PendingLeaveRequests), cfg),
	}
	sb.WriteString(cardRow(d.width, cards))
	sb.WriteString("\n\n")

	sb.WriteString(styles.ValueStyle.Render("Recent Activity"))
	sb.WriteString("\n")
	if len(d.metrics.RecentActivity) == 0 {
		sb.WriteString(styles.Help.Render("No recent activity"))
	}
	for i, a := range d.metrics.RecentActivity {
		if i == maxActivity {
			sb.WriteString(styles.Help.Render(fmt.Sprintf("  ... and %d more", len(d.metrics.RecentActivity)-maxActivity)))
			break
		}
		sb.WriteString(formatActivity(a))
		sb.WriteString("\n")
	}

	return d.frame(sb.String())
}

func (d *HR) frame(content string) string {
	return lipgloss.NewStyle().Width(d.width).Height(d.height).Render(content)
}

func pendingCaption(n int) string {
	if n == 0 {
		return "Nothing awaiting approval"
	}
	return "Requires attention"
}

func formatActivity(a client.Activity) string {
	when := ""
	if !a.Timestamp.IsZero() {
		when = styles.Help.UnsetMarginTop().Render(" " + a.Timestamp.Local().Format("Jan 2 15:04"))
	}
	return fmt.Sprintf("  %s %s%s", widgets.StatusIcon(activityLevel(a.Type)), a.Description, when)
}

// activityLevel maps an activity type to the color of its bullet
func activityLevel(kind string) widgets.StatusLevel {
	switch {
	case strings.Contains(kind, "approved"):
		return widgets.StatusOK
	case strings.Contains(kind, "rejected"):
		return widgets.StatusCritical
	case strings.Contains(kind, "submitted"), strings.Contains(kind, "leave"):
		return widgets.StatusWarning
	default:
		return widgets.StatusInfo
	}
}

func welcome(u *client.User) string {
	name := ""
	if u != nil {
		name = u.FirstName
		if name == "" {
			name = u.Username
		}
	}
	return fmt.Sprintf("Welcome back, %s!", name)
}

// cardRow lays cards side by side, or stacks them when width is too narrow
func cardRow(width int, cards []string) string {
	row := make([]string, 0, len(cards)*2)
	for i, c := range cards {
		if i > 0 {
			row = append(row, "  ")
		}
		row = append(row, c)
	}
	joined := lipgloss.JoinHorizontal(lipgloss.Top, row...)
	if width > 0 && lipgloss.Width(joined) > width {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	return joined
}
