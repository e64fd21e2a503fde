// ABOUTME: Login and registration forms as bubbletea models
// ABOUTME: Uses huh forms with client-side validation before submission

package authform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/bgremover/cli/internal/session"
	"github.com/bgremover/cli/internal/tui/styles"
)

// Mode selects which form is presented
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// LoginSubmitMsg is sent when the login form completes
type LoginSubmitMsg struct {
	Email    string
	Password string
}

// RegisterSubmitMsg is sent when the registration form completes
type RegisterSubmitMsg struct {
	Name     string
	Email    string
	Password string
}

// CancelledMsg is sent when the user backs out of the form
type CancelledMsg struct{}

// Form wraps a huh form for login or registration
type Form struct {
	mode  Mode
	form  *huh.Form
	width int

	name     string
	email    string
	password string
	confirm  string
}

// createTheme returns a custom huh theme matching the bgr color palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	slate := lipgloss.Color("#374151")

	// Group styles (section headers)
	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(styles.Muted).
		MarginBottom(1)

	// Focused field styles
	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(styles.Danger).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(styles.Danger)

	// Text input styles
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(styles.Text)

	// Button styles
	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(styles.Primary).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(styles.Muted).
		Background(slate).
		Padding(0, 2).
		MarginRight(1)

	// Blurred field styles (inherit from focused with muted colors)
	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(styles.Muted)

	return t
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	at := strings.Index(email, "@")
	if at < 1 || !strings.Contains(email[at:], ".") {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

// New creates a form in the given mode
func New(mode Mode) *Form {
	f := &Form{mode: mode}
	switch mode {
	case ModeRegister:
		f.form = f.createRegisterForm()
	default:
		f.form = f.createLoginForm()
	}
	return f
}

func (f *Form) createLoginForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&f.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&f.password).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("password is required")
					}
					return nil
				}),
		).Title("Sign In").
			Description("Log in to manage your API keys"),
	).WithTheme(createTheme())
}

func (f *Form) createRegisterForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Jane Doe").
				Value(&f.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&f.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				Description(fmt.Sprintf("At least %d characters", session.MinPasswordLength)).
				EchoMode(huh.EchoModePassword).
				Value(&f.password).
				Validate(session.ValidatePassword),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&f.confirm).
				Validate(func(s string) error {
					if s != f.password {
						return fmt.Errorf("passwords do not match")
					}
					return nil
				}),
		).Title("Create Account").
			Description("Register to get API keys for background removal"),
	).WithTheme(createTheme())
}

// SetWidth sets the form width for proper rendering
func (f *Form) SetWidth(width int) {
	f.width = width
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return f, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		return f, f.submit()
	}

	return f, cmd
}

func (f *Form) submit() tea.Cmd {
	if f.mode == ModeRegister {
		msg := RegisterSubmitMsg{
			Name:     strings.TrimSpace(f.name),
			Email:    strings.TrimSpace(f.email),
			Password: f.password,
		}
		return func() tea.Msg { return msg }
	}
	msg := LoginSubmitMsg{
		Email:    strings.TrimSpace(f.email),
		Password: f.password,
	}
	return func() tea.Msg { return msg }
}

// View implements tea.Model
func (f *Form) View() string {
	return f.form.View()
}
