// ABOUTME: Test to verify header/footer width alignment
// ABOUTME: Ensures frame renders at correct terminal width on every screen

package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func checkFrame(t *testing.T, view string, targetWidth, maxHeight int) {
	t.Helper()

	// Frame uses width-1 to prevent wrapping on some terminals,
	// but clamps to minimum of 80 for usability
	expectedWidth := targetWidth - 1
	if expectedWidth < 80 {
		expectedWidth = 80
	}

	lines := strings.Split(view, "\n")
	if !strings.HasPrefix(lines[0], "╭") {
		t.Errorf("expected header on first line, got %q", lines[0])
	}
	if w := lipgloss.Width(lines[0]); w != expectedWidth {
		t.Errorf("header width mismatch at width %d: expected %d, got %d", targetWidth, expectedWidth, w)
	}

	last := lines[len(lines)-1]
	if !strings.HasPrefix(last, "╰") {
		t.Errorf("expected footer on last line, got %q", last)
	}
	if w := lipgloss.Width(last); w != expectedWidth {
		t.Errorf("footer width mismatch at width %d: expected %d, got %d", targetWidth, expectedWidth, w)
	}

	for i, line := range lines {
		if w := lipgloss.Width(line); w > expectedWidth {
			t.Errorf("line %d wider than frame: %d > %d", i, w, expectedWidth)
		}
	}
	if maxHeight > 0 && len(lines) > maxHeight {
		t.Errorf("expected at most %d lines, got %d", maxHeight, len(lines))
	}
}

func TestFrameAlignment(t *testing.T) {
	for _, targetWidth := range []int{60, 80, 100, 120} {
		t.Run(fmt.Sprintf("login_%d", targetWidth), func(t *testing.T) {
			app, m, _ := newTestApp(t, "")
			m.Start(t.Context())
			syncSession(app, m)
			app.Update(tea.WindowSizeMsg{Width: targetWidth, Height: 40})

			checkFrame(t, app.View(), targetWidth, 0)
		})

		t.Run(fmt.Sprintf("hr_%d", targetWidth), func(t *testing.T) {
			app, m, _ := newTestApp(t, "")
			signIn(t, app, m, "hr")
			app.Update(tea.WindowSizeMsg{Width: targetWidth, Height: 40})
			deliver[hrLoadedMsg](app, app.loadScreen())

			checkFrame(t, app.View(), targetWidth, 0)
		})
	}
}

func TestDashboardFitsTerminalHeight(t *testing.T) {
	app, m, _ := newTestApp(t, "")
	signIn(t, app, m, "employee")
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	deliver[employeeLoadedMsg](app, app.loadScreen())

	checkFrame(t, app.View(), 120, 40)
}
