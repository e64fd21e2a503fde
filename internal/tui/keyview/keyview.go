// ABOUTME: API key list component with cursor navigation
// ABOUTME: Renders masked secrets, usage counts, and active status badges

package keyview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bgremover/cli/internal/client"
	"github.com/bgremover/cli/internal/keylist"
	"github.com/bgremover/cli/internal/tui/icons"
	"github.com/bgremover/cli/internal/tui/styles"
	"github.com/bgremover/cli/internal/tui/widgets"
)

// KeyView displays the API key list with a selection cursor
type KeyView struct {
	presenter *keylist.Presenter
	cursor    int
	width     int
	height    int
}

// New creates an empty key view
func New(width, height int) *KeyView {
	return &KeyView{
		presenter: keylist.New(),
		width:     width,
		height:    height,
	}
}

// SetKeys replaces the displayed list. The cursor is clamped and all
// secrets reset to masked.
func (v *KeyView) SetKeys(keys []client.APIKey) {
	v.presenter.SetKeys(keys)
	if v.cursor >= len(keys) {
		v.cursor = len(keys) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// SetSize updates the view dimensions
func (v *KeyView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Len returns the number of displayed keys
func (v *KeyView) Len() int {
	return len(v.presenter.Keys())
}

// Selected returns the key under the cursor, or nil when the list is empty
func (v *KeyView) Selected() *client.APIKey {
	keys := v.presenter.Keys()
	if len(keys) == 0 {
		return nil
	}
	return &keys[v.cursor]
}

// MoveUp moves the cursor toward the top of the list
func (v *KeyView) MoveUp() {
	if v.cursor > 0 {
		v.cursor--
	}
}

// MoveDown moves the cursor toward the bottom of the list
func (v *KeyView) MoveDown() {
	if v.cursor < len(v.presenter.Keys())-1 {
		v.cursor++
	}
}

// ToggleSelected flips masked/visible for the key under the cursor
func (v *KeyView) ToggleSelected() {
	if k := v.Selected(); k != nil {
		v.presenter.Toggle(k.ID)
	}
}

// CopySelected writes the selected key's full secret to the clipboard
func (v *KeyView) CopySelected() error {
	k := v.Selected()
	if k == nil {
		return fmt.Errorf("no key selected")
	}
	return v.presenter.Copy(*k)
}

// View renders the key list
func (v *KeyView) View() string {
	keys := v.presenter.Keys()

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Key.String() + " API Keys"))
	sb.WriteString("\n")

	if len(keys) == 0 {
		sb.WriteString(styles.Subtitle.Render("No API keys yet"))
		sb.WriteString("\n\n")
		sb.WriteString("Press 'n' to create your first key.\n")
		return lipgloss.NewStyle().Width(v.width).Render(sb.String())
	}

	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d key(s)", len(keys))))
	sb.WriteString("\n\n")

	for i, k := range keys {
		sb.WriteString(v.renderKey(i, k))
		sb.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(v.width).Render(sb.String())
}

func (v *KeyView) renderKey(i int, k client.APIKey) string {
	var sb strings.Builder

	cursor := "  "
	nameStyle := styles.ValueStyle
	if i == v.cursor {
		cursor = styles.KeyStyle.Render("> ")
		nameStyle = nameStyle.Foreground(styles.Accent)
	}

	eye := icons.EyeOff.String()
	if v.presenter.Visible(k.ID) {
		eye = icons.Eye.String()
	}

	sb.WriteString(cursor)
	sb.WriteString(nameStyle.Render(k.Name))
	sb.WriteString("  ")
	sb.WriteString(widgets.ActiveBadge(k.IsActive))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("    %s %s\n", eye, styles.SecretStyle.Render(v.presenter.Display(k))))
	sb.WriteString(fmt.Sprintf("    uses: %d", k.UsageCount))
	if k.CreatedAt != "" {
		sb.WriteString(styles.Subtitle.Render("  created " + k.CreatedAt))
	}
	sb.WriteString("\n")

	return sb.String()
}
