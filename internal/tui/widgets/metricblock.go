// ABOUTME: Compact metric card widget for dashboard displays
// ABOUTME: Draws an icon title in the top border above a value and caption

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/hrdesk/internal/tui/icons"
)

// MetricBlockConfig holds configuration for a metric block
type MetricBlockConfig struct {
	Width       int
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	ValueColor  lipgloss.Color
}

// DefaultMetricBlockConfig returns sensible defaults
func DefaultMetricBlockConfig() MetricBlockConfig {
	return MetricBlockConfig{
		Width:       22,
		BorderColor: lipgloss.Color("#6B7280"), // Muted gray
		TitleColor:  lipgloss.Color("#2563EB"), // Blue
		ValueColor:  lipgloss.Color("#F9FAFB"), // Light
	}
}

// MetricBlock renders a compact metric display block. Every line has the
// configured width.
func MetricBlock(icon icons.Icon, title, value, caption string, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = 22
	}

	// border + one space of padding on each side
	innerWidth := config.Width - 4

	titleStr := truncate(fmt.Sprintf("%s %s", icon.String(), title), innerWidth-2)
	titleStyle := lipgloss.NewStyle().Foreground(config.TitleColor)
	borderStyle := lipgloss.NewStyle().Foreground(config.BorderColor)

	// "┌─ " + title + " " + dashes + "┐"
	dashes := max(0, config.Width-5-lipgloss.Width(titleStr))
	topBorder := borderStyle.Render("┌─ ") +
		titleStyle.Render(titleStr) +
		borderStyle.Render(" "+strings.Repeat("─", dashes)+"┐")

	valueStyle := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true)
	captionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	line := func(content string) string {
		pad := max(0, innerWidth-lipgloss.Width(content))
		return borderStyle.Render("│ ") + content + strings.Repeat(" ", pad) + borderStyle.Render(" │")
	}

	bottomBorder := borderStyle.Render(fmt.Sprintf("└%s┘", strings.Repeat("─", config.Width-2)))

	return strings.Join([]string{
		topBorder,
		line(valueStyle.Render(truncate(value, innerWidth))),
		line(captionStyle.Render(truncate(caption, innerWidth))),
		bottomBorder,
	}, "\n")
}

// CountBlock renders a simple count metric such as the employee total
func CountBlock(icon icons.Icon, title string, count int, caption string, config MetricBlockConfig) string {
	return MetricBlock(icon, title, fmt.Sprintf("%d", count), caption, config)
}

// truncate shortens a string to maxLen cells with ellipsis if needed
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:min(len(r), maxLen)])
	}
	for lipgloss.Width(string(r)) > maxLen-3 {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
