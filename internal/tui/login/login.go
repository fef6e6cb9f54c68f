// ABOUTME: Sign-in screen as a bubbletea model wrapping a huh form
// ABOUTME: Emits SubmitMsg with the entered credentials and shows login errors

package login

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/hrdesk/internal/client"
	"github.com/markalston/hrdesk/internal/tui/icons"
	"github.com/markalston/hrdesk/internal/tui/styles"
)

// SubmitMsg is sent when the user submits the form
type SubmitMsg struct {
	Credentials client.Credentials
}

// demoAccounts are the seeded backend accounts shown under the form
var demoAccounts = []struct {
	label    string
	username string
}{
	{"HR User", "hr"},
	{"Employee User", "employee"},
}

const demoPassword = "password123"

// Form is the sign-in screen
type Form struct {
	form       *huh.Form
	username   string
	password   string
	err        string
	submitting bool
	width      int
}

// createTheme returns a huh theme using the app palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	blue := styles.Primary
	blueLight := styles.Accent
	gray := lipgloss.Color("#9CA3AF")      // Gray-400 - muted
	grayLight := lipgloss.Color("#E5E7EB") // Gray-200 - text
	red := lipgloss.Color("#F87171")       // Red-400 - errors
	slate := lipgloss.Color("#334155")     // Slate-700 - borders

	t.Group.Title = lipgloss.NewStyle().
		Foreground(blue).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(gray).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(blue)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(blueLight).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(red).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(red)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(blue)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(blue)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(grayLight)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(blue).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(gray).
		Background(slate).
		Padding(0, 2).
		MarginRight(1)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(gray)

	return t
}

// New creates an empty sign-in form
func New() *Form {
	f := &Form{}
	f.form = f.createForm()
	return f
}

func (f *Form) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("username").
				Title("Username").
				Placeholder("Enter your username").
				Value(&f.username).
				Validate(ValidateField("Username")),
			huh.NewInput().
				Key("password").
				Title("Password").
				Placeholder("Enter your password").
				EchoMode(huh.EchoModePassword).
				Value(&f.password).
				Validate(ValidateField("Password")),
		).Title("Sign in to your account").
			Description("Employee Management System"),
	).WithTheme(createTheme()).WithShowHelp(false)
}

// ValidateField returns a huh validator for a Credentials field that applies
// the same rules and messages as the login request itself
func ValidateField(field string) func(string) error {
	return func(s string) error {
		return client.ValidateCredentialField(field, s)
	}
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		f.width = ws.Width
	}
	if f.submitting {
		return f, nil
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		f.submitting = true
		f.err = ""
		creds := client.Credentials{Username: strings.TrimSpace(f.username), Password: f.password}
		return f, func() tea.Msg { return SubmitMsg{Credentials: creds} }
	}

	return f, cmd
}

// SetError shows a failed attempt and resets the form for another try. The
// username is kept and the password cleared.
func (f *Form) SetError(msg string) tea.Cmd {
	f.err = msg
	f.submitting = false
	f.password = ""
	f.form = f.createForm()
	return f.form.Init()
}

// Submitting reports whether a submit is waiting for its result
func (f *Form) Submitting() bool {
	return f.submitting
}

// Err returns the last login error shown on the form
func (f *Form) Err() string {
	return f.err
}

// View implements tea.Model
func (f *Form) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Lock.String() + " Employee Management System"))
	sb.WriteString("\n")

	if f.submitting {
		sb.WriteString(styles.Subtitle.Render("Signing in..."))
		sb.WriteString("\n")
	} else {
		sb.WriteString(f.form.View())
		sb.WriteString("\n")
	}

	if f.err != "" {
		sb.WriteString(styles.StatusCritical.Render(icons.Critical.String() + " " + f.err))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(demoHint())
	return sb.String()
}

func demoHint() string {
	lines := []string{styles.ValueStyle.Render("Demo Credentials")}
	for _, a := range demoAccounts {
		lines = append(lines, fmt.Sprintf("%s: %s / %s", a.label, a.username, demoPassword))
	}
	return styles.HintPanel.Render(strings.Join(lines, "\n"))
}
