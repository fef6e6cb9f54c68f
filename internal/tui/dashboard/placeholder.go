// ABOUTME: Placeholder screen for sections that are not built yet
// ABOUTME: Shows the section title and a note about the next iteration

package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/hrdesk/internal/guard"
	"github.com/markalston/hrdesk/internal/tui/icons"
	"github.com/markalston/hrdesk/internal/tui/styles"
)

// placeholderText is the note shown for each unfinished section
var placeholderText = map[string]string{
	guard.PathHREmployees:     "Employee management features will be implemented in Iteration 2.",
	guard.PathHRLeaveRequests: "Leave management features will be implemented in Iteration 2.",
	guard.PathEmployeeLeave:   "Leave management features will be implemented in Iteration 2.",
	guard.PathProfile:         "Profile management features will be implemented in Iteration 2.",
	guard.PathSettings:        "System settings will be implemented in Iteration 2.",
}

// PlaceholderText returns the note for path
func PlaceholderText(path string) string {
	if text, ok := placeholderText[path]; ok {
		return text
	}
	return "This section will be implemented in Iteration 2."
}

// Placeholder renders a titled panel for an unfinished route
func Placeholder(route guard.Route, width int) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.ForPath(route.Path).String() + " " + route.Title))
	sb.WriteString("\n")
	sb.WriteString(styles.Panel.Render(PlaceholderText(route.Path)))
	return lipgloss.NewStyle().Width(width).Render(sb.String())
}
