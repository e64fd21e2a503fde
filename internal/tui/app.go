// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state and routes keyboard input to child components

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bgremover/cli/internal/client"
	"github.com/bgremover/cli/internal/session"
	"github.com/bgremover/cli/internal/tui/authform"
	"github.com/bgremover/cli/internal/tui/debuglog"
	"github.com/bgremover/cli/internal/tui/icons"
	"github.com/bgremover/cli/internal/tui/keyform"
	"github.com/bgremover/cli/internal/tui/keyview"
	"github.com/bgremover/cli/internal/tui/styles"
	"github.com/bgremover/cli/internal/tui/widgets"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenKeys
	ScreenCreateKey
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before clamping the frame
	panelPadding     = 4  // Total horizontal padding from panel borders (2 each side)
)

// loginDoneMsg is sent when a login attempt completes
type loginDoneMsg struct {
	err error
}

// registerDoneMsg is sent when a registration attempt completes
type registerDoneMsg struct {
	email string
	err   error
}

// keysLoadedMsg is sent when the key list has been fetched
type keysLoadedMsg struct {
	keys []client.APIKey
	err  error
}

// keyCreatedMsg is sent when key creation completes
type keyCreatedMsg struct {
	key *client.APIKey
	err error
}

// keyDeletedMsg is sent when key deletion completes
type keyDeletedMsg struct {
	err error
}

// App is the root model for the TUI
type App struct {
	ctrl       *session.Controller
	screen     Screen
	width      int
	height     int
	err        error
	status     string
	busy       bool
	spin       spinner.Model
	lastUpdate time.Time

	// Child models
	authForm *authform.Form
	keyForm  *keyform.Form
	keyView  *keyview.KeyView

	// Delete confirmation state
	confirmDelete bool
	pendingDelete int
}

// New creates a new TUI application
func New(ctrl *session.Controller) *App {
	a := &App{
		ctrl:    ctrl,
		keyView: keyview.New(0, 0),
		spin: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
		),
	}
	if ctrl.Authenticated() {
		a.screen = ScreenKeys
	} else {
		a.screen = ScreenLogin
		a.authForm = authform.New(authform.ModeLogin)
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenKeys {
		return a.startBusy("Loading keys...", a.refreshKeys())
	}
	return a.authForm.Init()
}

// startBusy marks an async operation in flight and keeps the spinner ticking
func (a *App) startBusy(status string, cmd tea.Cmd) tea.Cmd {
	a.busy = true
	a.status = status
	return tea.Batch(cmd, a.spin.Tick)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.keyView.SetSize(a.contentWidth(), a.contentHeight())
		if a.authForm != nil {
			a.authForm.SetWidth(a.contentWidth())
			return a.updateForm(msg)
		}
		if a.keyForm != nil {
			a.keyForm.SetWidth(a.contentWidth())
			return a.updateKeyForm(msg)
		}
		return a, nil

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Route to current screen
		switch a.screen {
		case ScreenLogin, ScreenRegister:
			return a.updateForm(msg)
		case ScreenKeys:
			return a.updateKeys(msg)
		case ScreenCreateKey:
			return a.updateKeyForm(msg)
		}

	case authform.LoginSubmitMsg:
		return a, a.startBusy("Signing in...", a.login(msg.Email, msg.Password))

	case authform.RegisterSubmitMsg:
		return a, a.startBusy("Creating account...", a.register(msg.Name, msg.Email, msg.Password))

	case authform.CancelledMsg:
		if a.screen == ScreenRegister {
			// Back to login
			return a, a.showLogin("")
		}
		return a, tea.Quit

	case keyform.SubmitMsg:
		return a, a.startBusy("Creating key...", a.createKey(msg.Name))

	case keyform.CancelledMsg:
		a.screen = ScreenKeys
		a.keyForm = nil
		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case loginDoneMsg:
		a.busy = false
		if msg.err != nil {
			debuglog.Error("login failed", msg.err)
			a.status = ""
			a.err = msg.err
			return a, a.showLogin("")
		}
		a.err = nil
		a.status = ""
		a.authForm = nil
		a.screen = ScreenKeys
		a.keyView.SetKeys(a.ctrl.Keys())
		a.lastUpdate = time.Now()
		return a, nil

	case registerDoneMsg:
		a.busy = false
		a.status = ""
		if msg.err != nil {
			debuglog.Error("registration failed", msg.err)
			a.err = msg.err
			return a, a.showRegister()
		}
		a.err = nil
		// Registration does not log in; hand back to the login form with
		// the email prefilled by the status line.
		return a, a.showLogin(fmt.Sprintf("Account created for %s. Sign in to continue.", msg.email))

	case keysLoadedMsg:
		return a.handleKeysLoaded(msg)

	case keyCreatedMsg:
		a.busy = false
		a.status = ""
		if msg.err != nil {
			debuglog.Error("key creation failed", msg.err)
			if a.sessionLost(msg.err) {
				return a, a.showLogin("Session expired. Sign in again.")
			}
			a.err = msg.err
			a.screen = ScreenKeys
			a.keyForm = nil
			return a, nil
		}
		a.err = nil
		a.screen = ScreenKeys
		a.keyForm = nil
		a.keyView.SetKeys(a.ctrl.Keys())
		a.lastUpdate = time.Now()
		a.status = fmt.Sprintf("Created %q", msg.key.Name)
		return a, nil

	case keyDeletedMsg:
		a.busy = false
		a.status = ""
		if msg.err != nil {
			debuglog.Error("key deletion failed", msg.err)
			if a.sessionLost(msg.err) {
				return a, a.showLogin("Session expired. Sign in again.")
			}
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.keyView.SetKeys(a.ctrl.Keys())
		a.lastUpdate = time.Now()
		a.status = "Key deleted"
		return a, nil

	default:
		// Forward unknown messages to the active form (needed for huh internals)
		if a.authForm != nil && (a.screen == ScreenLogin || a.screen == ScreenRegister) {
			return a.updateForm(msg)
		}
		if a.keyForm != nil && a.screen == ScreenCreateKey {
			return a.updateKeyForm(msg)
		}
	}

	return a, nil
}

func (a *App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.authForm == nil {
		return a, nil
	}
	// On the login screen, tab jumps to registration
	if key, ok := msg.(tea.KeyMsg); ok && a.screen == ScreenLogin && key.String() == "tab" {
		return a, a.showRegister()
	}
	model, cmd := a.authForm.Update(msg)
	a.authForm = model.(*authform.Form)
	return a, cmd
}

func (a *App) updateKeyForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.keyForm == nil {
		return a, nil
	}
	model, cmd := a.keyForm.Update(msg)
	a.keyForm = model.(*keyform.Form)
	return a, cmd
}

func (a *App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Pending delete confirmation swallows the next keypress
	if a.confirmDelete {
		a.confirmDelete = false
		if msg.String() == "y" {
			return a, a.startBusy("Deleting key...", a.deleteKey(a.pendingDelete))
		}
		a.status = "Delete cancelled"
		return a, nil
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "up", "k":
		a.keyView.MoveUp()
	case "down", "j":
		a.keyView.MoveDown()
	case "v":
		a.keyView.ToggleSelected()
	case "c":
		if err := a.keyView.CopySelected(); err != nil {
			a.status = "Copy failed: " + err.Error()
		} else {
			a.status = "Copied to clipboard"
		}
	case "n":
		a.keyForm = keyform.New()
		a.keyForm.SetWidth(a.contentWidth())
		a.screen = ScreenCreateKey
		return a, a.keyForm.Init()
	case "d":
		if k := a.keyView.Selected(); k != nil {
			a.confirmDelete = true
			a.pendingDelete = k.ID
			a.status = fmt.Sprintf("Delete %q? (y/n)", k.Name)
		}
	case "r":
		return a, a.startBusy("Refreshing...", a.refreshKeys())
	case "l":
		if err := a.ctrl.Logout(); err != nil {
			a.err = err
			return a, nil
		}
		return a, a.showLogin("Logged out.")
	}
	return a, nil
}

func (a *App) handleKeysLoaded(msg keysLoadedMsg) (tea.Model, tea.Cmd) {
	a.busy = false
	a.status = ""
	if msg.err != nil {
		debuglog.Error("key list refresh failed", msg.err)
		if a.sessionLost(msg.err) {
			return a, a.showLogin("Session expired. Sign in again.")
		}
		a.err = msg.err
		return a, nil
	}
	a.err = nil
	a.keyView.SetKeys(msg.keys)
	a.lastUpdate = time.Now()
	return a, nil
}

// sessionLost reports whether an error forced the controller back to guest
func (a *App) sessionLost(err error) bool {
	return client.IsAuth(err) && !a.ctrl.Authenticated()
}

// showLogin transitions to the login screen with an optional status line
func (a *App) showLogin(status string) tea.Cmd {
	a.screen = ScreenLogin
	a.keyForm = nil
	a.confirmDelete = false
	a.status = status
	a.authForm = authform.New(authform.ModeLogin)
	a.authForm.SetWidth(a.contentWidth())
	return a.authForm.Init()
}

// showRegister transitions to the registration screen
func (a *App) showRegister() tea.Cmd {
	a.screen = ScreenRegister
	a.status = ""
	a.authForm = authform.New(authform.ModeRegister)
	a.authForm.SetWidth(a.contentWidth())
	return a.authForm.Init()
}

// login creates a command that authenticates and loads the key list
func (a *App) login(email, password string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.ctrl.Login(context.Background(), email, password)
		return loginDoneMsg{err: err}
	}
}

// register creates a command that registers a new account
func (a *App) register(name, email, password string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.ctrl.Register(context.Background(), name, email, password)
		return registerDoneMsg{email: email, err: err}
	}
}

// refreshKeys creates a command that refetches the key list
func (a *App) refreshKeys() tea.Cmd {
	return func() tea.Msg {
		keys, err := a.ctrl.RefreshKeys(context.Background())
		return keysLoadedMsg{keys: keys, err: err}
	}
}

// createKey creates a command that provisions a new API key
func (a *App) createKey(name string) tea.Cmd {
	return func() tea.Msg {
		key, err := a.ctrl.CreateKey(context.Background(), name)
		return keyCreatedMsg{key: key, err: err}
	}
}

// deleteKey creates a command that revokes an API key
func (a *App) deleteKey(id int) tea.Cmd {
	return func() tea.Msg {
		err := a.ctrl.DeleteKey(context.Background(), id)
		return keyDeletedMsg{err: err}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin, ScreenRegister:
		content = a.viewAuth()
	case ScreenKeys:
		content = a.viewKeys()
	case ScreenCreateKey:
		content = a.viewKeyForm()
	default:
		content = a.viewAuth()
	}

	return a.wrapWithFrame(content)
}

// viewAuth renders the login or registration form
func (a *App) viewAuth() string {
	var sb strings.Builder
	if line := a.statusLine(); line != "" {
		sb.WriteString(line)
		sb.WriteString("\n\n")
	}
	if a.authForm != nil {
		sb.WriteString(a.authForm.View())
	}
	return sb.String()
}

// viewKeys renders the key list with a status line
func (a *App) viewKeys() string {
	var sb strings.Builder

	if line := a.statusLine(); line != "" {
		sb.WriteString(line)
		sb.WriteString("\n\n")
	}

	sb.WriteString(a.keyView.View())

	return styles.ActivePanel.Width(a.contentWidth()).Render(sb.String())
}

// viewKeyForm renders the key creation form
func (a *App) viewKeyForm() string {
	if a.keyForm != nil {
		return a.keyForm.View()
	}
	return ""
}

// statusLine renders the transient error/status line above the content
func (a *App) statusLine() string {
	if a.err != nil {
		return widgets.StatusText(errorLine(a.err), widgets.StatusCritical)
	}
	if a.status == "" {
		return ""
	}
	if a.busy {
		return a.spin.View() + " " + a.status
	}
	level := widgets.StatusInfo
	if a.confirmDelete {
		level = widgets.StatusWarning
	}
	return widgets.StatusText(a.status, level)
}

// errorLine flattens an API error for single-line display
func errorLine(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", " ")
}

// contentWidth calculates the width available inside the frame
func (a *App) contentWidth() int {
	if a.width < minTerminalWidth {
		return minTerminalWidth - panelPadding
	}
	return a.width - panelPadding
}

// contentHeight calculates the height available for list content
func (a *App) contentHeight() int {
	// Total overhead:
	// - Header: 1 line
	// - Newline after header: 1 line
	// - ActivePanel border+padding: 4 lines (top border, top padding, bottom padding, bottom border)
	// - Newline before footer: 1 line
	// - Footer: 1 line
	// Total: 8 lines overhead
	return a.height - 8
}

// renderHeader creates the header bar with app branding and session context
func (a *App) renderHeader() string {
	// Guard against zero/small width before WindowSizeMsg is received
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	icon := icons.App.String()
	title := "Background Remover"

	// Build left content
	leftText := fmt.Sprintf(" %s %s", icon, titleStyle.Render(title))

	// Build right content: the signed-in account
	rightText := ""
	if sess := a.ctrl.Current(); sess != nil {
		rightText = contextStyle.Render(icons.User.String()+" "+sess.User.Email) + " "
	}

	leftRendered := lipgloss.NewStyle().Render(leftText)
	rightRendered := lipgloss.NewStyle().Align(lipgloss.Right).Render(rightText)

	// Calculate fill needed
	leftWidth := lipgloss.Width(leftRendered)
	rightWidth := lipgloss.Width(rightRendered)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	fill := strings.Repeat("─", fillWidth)

	header := "╭─" + leftRendered + fill + rightRendered + "─╮"

	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	// Guard against zero/small width before WindowSizeMsg is received
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	// Build keyboard shortcuts based on current screen
	var shortcuts []string
	switch a.screen {
	case ScreenLogin:
		shortcuts = []string{"Enter Submit", "Tab Register", "Esc Quit"}
	case ScreenRegister:
		shortcuts = []string{"Enter Submit", "Esc Back"}
	case ScreenKeys:
		shortcuts = []string{"↑↓ Move", "v Reveal", "c Copy", "n New", "d Delete", "r Refresh", "l Logout", "q Quit"}
	case ScreenCreateKey:
		shortcuts = []string{"Enter Create", "Esc Back"}
	}

	// Build styled shortcuts
	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	// Right side status (last refresh time)
	rightText := ""
	rightPlainText := ""
	if !a.lastUpdate.IsZero() && a.screen == ScreenKeys {
		elapsed := a.formatTimeSince(a.lastUpdate)
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlainText = "Updated " + elapsed + " "
	}

	// Calculate widths
	leftWidth := lipgloss.Width(leftPlainText)
	rightWidth := lipgloss.Width(rightPlainText)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	fill := strings.Repeat("─", fillWidth)

	footer := "╰─" + leftText + fill + rightText + "─╯"

	return borderStyle.Render(footer)
}

// formatTimeSince formats a duration since the given time in human-readable form
func (a *App) formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	}

	hours := int(d.Hours())
	if hours == 1 {
		return "1h ago"
	}
	return fmt.Sprintf("%dh ago", hours)
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

// Run starts the TUI
func Run(ctrl *session.Controller) error {
	app := New(ctrl)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
