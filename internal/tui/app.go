// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Follows the session machine, routes screens through the guard and loads dashboards

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/hrdesk/internal/cache"
	"github.com/markalston/hrdesk/internal/client"
	"github.com/markalston/hrdesk/internal/guard"
	"github.com/markalston/hrdesk/internal/session"
	"github.com/markalston/hrdesk/internal/tui/dashboard"
	"github.com/markalston/hrdesk/internal/tui/icons"
	"github.com/markalston/hrdesk/internal/tui/login"
	"github.com/markalston/hrdesk/internal/tui/styles"
	"github.com/markalston/hrdesk/internal/tui/widgets"
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before the frame stops shrinking
	navWidth         = 28 // Width of the navigation pane including its border
	panelPadding     = 4  // Total horizontal padding from panel borders (2 each side)
)

// Machine is the part of the session machine the TUI drives
type Machine interface {
	Start(ctx context.Context) session.Session
	Snapshot() session.Session
	Subscribe() (<-chan session.Session, func())
	Login(ctx context.Context, creds client.Credentials) (session.Session, error)
	Logout(ctx context.Context) session.Session
	RefreshUser(ctx context.Context) (session.Session, error)
}

// Dashboards fetches the role dashboards
type Dashboards interface {
	HRMetrics(ctx context.Context) (*client.HRMetrics, error)
	EmployeeDashboard(ctx context.Context) (*client.EmployeeDashboard, error)
}

// sessionMsg carries a snapshot published by the machine
type sessionMsg struct {
	s session.Session
}

// loginResultMsg is sent when a login attempt finishes
type loginResultMsg struct {
	err error
}

// refreshedMsg is sent when the user profile refresh finishes
type refreshedMsg struct {
	err error
}

// loadTicket identifies the dashboard load a result belongs to
type loadTicket struct {
	seq    uint64
	userID string
	path   string
	key    string // cache key the result was stored under
}

// hrLoadedMsg is sent when HR metrics are loaded
type hrLoadedMsg struct {
	ticket  loadTicket
	metrics *client.HRMetrics
	err     error
}

// employeeLoadedMsg is sent when the employee dashboard is loaded
type employeeLoadedMsg struct {
	ticket loadTicket
	data   *client.EmployeeDashboard
	err    error
}

// App is the root model for the TUI
type App struct {
	ctx        context.Context
	machine    Machine
	dashboards Dashboards

	updates     <-chan session.Session
	unsubscribe func()

	sess     session.Session
	path     string // screen being shown or waited on
	from     string // protected path to resume after signing in
	decision guard.Decision

	width      int
	height     int
	err        error
	loading    bool
	lastUpdate time.Time
	spinner    spinner.Model

	// Child models
	loginForm *login.Form
	hrView    *dashboard.HR
	empView   *dashboard.Employee

	hrCache  *cache.Cache[*client.HRMetrics]
	empCache *cache.Cache[*client.EmployeeDashboard]
	cacheGen uint64 // bumped by purge so loads still in flight write to dead keys
	loadSeq  uint64 // bumped by every load and purge; only the latest result applies
}

// New creates a new TUI application starting at path
func New(ctx context.Context, d Dashboards, m Machine, path string) *App {
	if path == "" {
		path = guard.PathRoot
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	a := &App{
		ctx:        ctx,
		machine:    m,
		dashboards: d,
		spinner:    sp,
		hrCache:    cache.New[*client.HRMetrics](cache.DashboardTTL),
		empCache:   cache.New[*client.EmployeeDashboard](cache.DashboardTTL),
	}
	a.updates, a.unsubscribe = m.Subscribe()
	a.path = path
	a.sess = m.Snapshot()
	a.decision = guard.Navigate(a.sess, a.path)
	return a
}

// Close stops the session subscription and cache cleanup
func (a *App) Close() {
	a.unsubscribe()
	a.hrCache.Close()
	a.empCache.Close()
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.waitForSession(), a.start(), a.spinner.Tick)
}

// waitForSession blocks on the next published snapshot
func (a *App) waitForSession() tea.Cmd {
	ch := a.updates
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return sessionMsg{s: s}
	}
}

// start restores the stored session; the result arrives through the subscription
func (a *App) start() tea.Cmd {
	return func() tea.Msg {
		a.machine.Start(a.ctx)
		return nil
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeViews()
		if a.loginForm != nil {
			return a.updateLogin(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.onLoginScreen() {
			return a.updateLogin(msg)
		}
		return a.updateKeys(msg)

	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case sessionMsg:
		cmd := a.applySession(msg.s)
		return a, tea.Batch(cmd, a.waitForSession())

	case login.SubmitMsg:
		return a, a.login(msg.Credentials)

	case loginResultMsg:
		if msg.err != nil && a.loginForm != nil {
			return a, a.loginForm.SetError(loginMessage(msg.err))
		}
		return a, nil

	case refreshedMsg:
		if msg.err != nil && !errors.Is(msg.err, session.ErrNotAuthenticated) {
			a.err = msg.err
		}
		return a, a.loadScreen()

	case hrLoadedMsg:
		if !a.current(msg.ticket) {
			a.discard(msg.ticket)
			return a, nil
		}
		a.loading = false
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.lastUpdate = time.Now()
		a.hrView = dashboard.NewHR(a.sess.User, msg.metrics, a.screenWidth(), a.contentHeight())
		return a, nil

	case employeeLoadedMsg:
		if !a.current(msg.ticket) {
			a.discard(msg.ticket)
			return a, nil
		}
		a.loading = false
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.lastUpdate = time.Now()
		a.empView = dashboard.NewEmployee(a.sess.User, msg.data, a.screenWidth(), a.contentHeight())
		return a, nil

	default:
		// huh forms rely on their own internal messages
		if a.onLoginScreen() {
			return a.updateLogin(msg)
		}
	}

	return a, nil
}

// applySession records a new snapshot and re-runs the guard for the current path
func (a *App) applySession(s session.Session) tea.Cmd {
	prevUser := ""
	if a.sess.User != nil {
		prevUser = a.sess.User.ID
	}
	a.sess = s

	if !s.IsAuthenticated && prevUser != "" {
		// signed out or the token was rejected
		a.purge()
	}
	if s.IsAuthenticated && !s.IsLoading && a.path == guard.PathLogin {
		a.path = guard.AfterLogin(s, a.from)
		a.from = ""
	}
	return a.navigate(a.path)
}

// navigate runs the guard for path and switches screens
func (a *App) navigate(path string) tea.Cmd {
	d := guard.Navigate(a.sess, path)
	prev := a.decision
	a.decision = d
	if d.From != "" {
		a.from = d.From
	}

	a.path = d.Path

	var cmds []tea.Cmd
	if d.Kind == guard.ShowLoading {
		cmds = append(cmds, a.spinner.Tick)
	}

	if a.path == guard.PathLogin {
		if a.loginForm == nil {
			a.loginForm = login.New()
			cmds = append(cmds, a.loginForm.Init())
		}
	} else {
		a.loginForm = nil
	}

	if d.Kind == guard.Render && (d.Path != prev.Path || prev.Kind != guard.Render) {
		a.err = nil
		cmds = append(cmds, a.loadScreen())
	}
	return tea.Batch(cmds...)
}

func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.loginForm == nil {
		return a, nil
	}
	model, cmd := a.loginForm.Update(msg)
	a.loginForm = model.(*login.Form)
	return a, cmd
}

func (a *App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return a, tea.Quit
	case "o":
		if a.sess.IsAuthenticated {
			a.from = ""
			a.path = guard.PathLogin
			return a, a.logout()
		}
	case "r":
		if a.sess.IsAuthenticated {
			a.purge()
			a.loading = true
			return a, tea.Batch(a.refresh(), a.spinner.Tick)
		}
	}

	if a.sess.User != nil {
		for _, item := range guard.NavItems(a.sess.User.Role) {
			if item.Key == key {
				return a, a.navigate(item.Path)
			}
		}
	}
	return a, nil
}

// login submits credentials; the session change arrives through the subscription
func (a *App) login(creds client.Credentials) tea.Cmd {
	return func() tea.Msg {
		_, err := a.machine.Login(a.ctx, creds)
		return loginResultMsg{err: err}
	}
}

func (a *App) logout() tea.Cmd {
	a.purge()
	return func() tea.Msg {
		a.machine.Logout(a.ctx)
		return nil
	}
}

func (a *App) refresh() tea.Cmd {
	return func() tea.Msg {
		_, err := a.machine.RefreshUser(a.ctx)
		return refreshedMsg{err: err}
	}
}

// purge drops cached dashboards and the views built from them. Loads already
// in flight are orphaned.
func (a *App) purge() {
	a.cacheGen++
	a.loadSeq++
	a.hrCache.Purge()
	a.empCache.Purge()
	a.hrView = nil
	a.empView = nil
	a.lastUpdate = time.Time{}
}

// loadScreen fetches the data for the current screen, if it has any
func (a *App) loadScreen() tea.Cmd {
	a.loadSeq++
	if a.decision.Kind != guard.Render || a.sess.User == nil {
		a.loading = false
		return nil
	}
	t := loadTicket{
		seq:    a.loadSeq,
		userID: a.sess.User.ID,
		path:   a.path,
		key:    a.cacheKey(a.sess.User.ID),
	}

	switch a.path {
	case guard.PathHRDashboard:
		a.loading = true
		return tea.Batch(a.spinner.Tick, func() tea.Msg {
			m, err := a.hrCache.GetOrLoad(a.ctx, t.key, a.dashboards.HRMetrics)
			return hrLoadedMsg{ticket: t, metrics: m, err: err}
		})
	case guard.PathEmployeeDashboard:
		a.loading = true
		return tea.Batch(a.spinner.Tick, func() tea.Msg {
			d, err := a.empCache.GetOrLoad(a.ctx, t.key, a.dashboards.EmployeeDashboard)
			return employeeLoadedMsg{ticket: t, data: d, err: err}
		})
	}
	a.loading = false
	return nil
}

func (a *App) cacheKey(userID string) string {
	return fmt.Sprintf("%s/%d", userID, a.cacheGen)
}

// current reports whether a load result still belongs to the screen and user on show
func (a *App) current(t loadTicket) bool {
	return t.seq == a.loadSeq &&
		a.sess.User != nil && a.sess.User.ID == t.userID &&
		a.path == t.path
}

// discard drops a stale result, removing what it cached under an older generation
func (a *App) discard(t loadTicket) {
	slog.Debug("Dropping stale dashboard result", "path", t.path, "seq", t.seq)
	if t.key != a.cacheKey(t.userID) {
		a.hrCache.Clear(t.key)
		a.empCache.Clear(t.key)
	}
}

func (a *App) onLoginScreen() bool {
	return a.path == guard.PathLogin && a.sess.Status != session.StatusInitializing
}

// busy reports whether a spinner should be animating
func (a *App) busy() bool {
	return a.loading || a.decision.Kind == guard.ShowLoading
}

// loginMessage turns a login error into the line shown under the form
func loginMessage(err error) string {
	var ae *client.AuthError
	var ne *client.NetworkError
	var ve *client.ValidationError
	switch {
	case errors.As(err, &ae):
		return ae.Message
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &ne):
		return "Unable to reach the server. Please try again."
	case errors.Is(err, session.ErrLoginInProgress):
		return "A sign-in is already in progress"
	default:
		return err.Error()
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch {
	case a.decision.Kind == guard.ShowLoading && !a.onLoginScreen():
		content = a.viewLoading("Checking your session...")
	case a.path == guard.PathLogin:
		content = a.viewLogin()
	default:
		content = a.viewMain()
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewLoading(label string) string {
	return styles.Panel.Render(a.spinner.View() + " " + label)
}

// viewLogin renders the sign-in screen with any session-ended notice
func (a *App) viewLogin() string {
	var sb strings.Builder
	switch a.sess.Reason {
	case session.ReasonInvalid, session.ReasonUnauthorized:
		sb.WriteString(widgets.StatusText("Your session has expired. Please sign in again.", widgets.StatusWarning))
		sb.WriteString("\n\n")
	}
	if a.loginForm != nil {
		sb.WriteString(a.loginForm.View())
	}
	return sb.String()
}

// viewMain renders the navigation pane next to the current screen
func (a *App) viewMain() string {
	nav := styles.NavPanel.Width(navWidth - 2).Render(a.viewNav())

	var main string
	switch {
	case a.err != nil:
		main = styles.StatusCritical.Render("Error: "+a.err.Error()) + "\n" +
			styles.Help.Render("Press r to retry")
	case a.loading:
		main = a.viewLoading("Loading dashboard...")
	default:
		main = a.viewScreen()
	}
	main = styles.ActivePanel.Width(a.contentWidth()).Render(main)

	return lipgloss.JoinHorizontal(lipgloss.Top, nav, main)
}

func (a *App) viewScreen() string {
	switch a.path {
	case guard.PathHRDashboard:
		if a.hrView == nil {
			a.hrView = dashboard.NewHR(a.sess.User, nil, a.screenWidth(), a.contentHeight())
		}
		return a.hrView.View()
	case guard.PathEmployeeDashboard:
		if a.empView == nil {
			a.empView = dashboard.NewEmployee(a.sess.User, nil, a.screenWidth(), a.contentHeight())
		}
		return a.empView.View()
	}
	route, _ := guard.Lookup(a.path)
	return dashboard.Placeholder(route, a.screenWidth())
}

func (a *App) viewNav() string {
	if a.sess.User == nil {
		return ""
	}
	var lines []string
	for _, item := range guard.NavItems(a.sess.User.Role) {
		label := fmt.Sprintf("%s %s", icons.ForPath(item.Path), item.Label)
		key := styles.KeyStyle.Render(item.Key)
		if item.Path == a.path {
			lines = append(lines, key+" "+styles.NavActive.Render(label))
		} else {
			lines = append(lines, key+" "+styles.NavItem.Render(label))
		}
	}
	lines = append(lines, "", styles.KeyStyle.Render("o")+" "+styles.NavItem.Render(icons.Logout.String()+" Sign out"))
	return strings.Join(lines, "\n")
}

func (a *App) resizeViews() {
	if a.hrView != nil {
		a.hrView.SetSize(a.screenWidth(), a.contentHeight())
	}
	if a.empView != nil {
		a.empView.SetSize(a.screenWidth(), a.contentHeight())
	}
}

// frameWidth is one less than the terminal width so the frame never wraps,
// clamped to the minimum
func (a *App) frameWidth() int {
	if a.width-1 < minTerminalWidth {
		return minTerminalWidth
	}
	return a.width - 1
}

// contentWidth calculates the width for the screen pane
func (a *App) contentWidth() int {
	return a.frameWidth() - navWidth - panelPadding
}

// screenWidth is the text width inside the screen pane
func (a *App) screenWidth() int {
	return a.contentWidth() - panelPadding
}

// contentHeight calculates the height available for screen content
func (a *App) contentHeight() int {
	// header, blank, panel border and padding (4), blank, footer
	h := a.height - 8
	if h < 0 {
		return 0
	}
	return h
}

// renderHeader creates the header bar with app branding and the signed-in user
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	userStyle := lipgloss.NewStyle().Foreground(styles.Text)

	leftRendered := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("Employee Management System"))

	rightRendered := ""
	if u := a.sess.User; u != nil && a.sess.IsAuthenticated {
		name := u.FullName()
		if name == "" {
			name = u.Username
		}
		rightRendered = " " + userStyle.Render(icons.User.String()+" "+name) + " " + widgets.RoleBadge(u.Role) + " "
	}

	leftWidth := lipgloss.Width(leftRendered)
	rightWidth := lipgloss.Width(rightRendered)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	return borderStyle.Render("╭─") + leftRendered + borderStyle.Render(strings.Repeat("─", fillWidth)) +
		rightRendered + borderStyle.Render("─╮")
}

// shortcuts lists the footer key hints for the current screen
func (a *App) shortcuts() []string {
	if a.path == guard.PathLogin || a.sess.User == nil {
		return []string{"Tab Next", "Enter Submit", "ctrl+c Quit"}
	}
	var out []string
	for _, item := range guard.NavItems(a.sess.User.Role) {
		out = append(out, item.Key+" "+item.Label)
	}
	return append(out, "r Refresh", "o Logout", "q Quit")
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	shortcuts := a.shortcuts()
	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styled = append(styled, s)
		}
	}

	rightPlain := ""
	if !a.lastUpdate.IsZero() && a.path != guard.PathLogin {
		rightPlain = "Updated " + formatTimeSince(a.lastUpdate) + " "
	}

	// drop shortcuts from the end until the footer fits
	leftPlain := " " + strings.Join(shortcuts, "  ")
	for len(styled) > 1 && lipgloss.Width(leftPlain)+lipgloss.Width(rightPlain)+4 > width {
		shortcuts = shortcuts[:len(shortcuts)-1]
		styled = styled[:len(styled)-1]
		leftPlain = " " + strings.Join(shortcuts, "  ")
	}
	leftText := " " + strings.Join(styled, "  ")

	fillWidth := width - 4 - lipgloss.Width(leftPlain) - lipgloss.Width(rightPlain) // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	rightText := ""
	if rightPlain != "" {
		rightText = statusStyle.Render(rightPlain)
	}

	return borderStyle.Render("╰─") + leftText + borderStyle.Render(strings.Repeat("─", fillWidth)) +
		rightText + borderStyle.Render("─╯")
}

// formatTimeSince formats a duration since the given time in human-readable form
func formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}

	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI at path and blocks until the user quits
func Run(ctx context.Context, d Dashboards, m Machine, path string) error {
	app := New(ctx, d, m, path)
	defer app.Close()

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
