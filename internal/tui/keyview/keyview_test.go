// ABOUTME: Tests for the key list component
// ABOUTME: Verifies cursor movement, masking, and empty-state rendering

package keyview

import (
	"strings"
	"testing"

	"github.com/bgremover/cli/internal/client"
)

func testKeys() []client.APIKey {
	return []client.APIKey{
		{ID: 1, Name: "production", Key: "bgr_abcdefghijklmnopqrstuvwx", UsageCount: 42, IsActive: true},
		{ID: 2, Name: "staging", Key: "bgr_zyxwvutsrqponmlkjihgfedc", UsageCount: 0, IsActive: false},
	}
}

func TestEmptyList_ShowsHint(t *testing.T) {
	v := New(80, 20)

	view := v.View()
	if !strings.Contains(view, "No API keys") {
		t.Errorf("expected empty-state hint, got:\n%s", view)
	}
	if v.Selected() != nil {
		t.Error("expected no selection on empty list")
	}
}

func TestCursorMovement_Clamps(t *testing.T) {
	v := New(80, 20)
	v.SetKeys(testKeys())

	v.MoveUp() // Already at top
	if v.Selected().ID != 1 {
		t.Errorf("expected cursor to stay at first key, got %d", v.Selected().ID)
	}

	v.MoveDown()
	if v.Selected().ID != 2 {
		t.Errorf("expected cursor on second key, got %d", v.Selected().ID)
	}

	v.MoveDown() // Already at bottom
	if v.Selected().ID != 2 {
		t.Errorf("expected cursor to stay at last key, got %d", v.Selected().ID)
	}
}

func TestSetKeys_ClampsCursorAndRemasks(t *testing.T) {
	v := New(80, 20)
	v.SetKeys(testKeys())
	v.MoveDown()
	v.ToggleSelected()

	if !strings.Contains(v.View(), "bgr_zyxwvutsrqponmlkjihgfedc") {
		t.Fatal("expected toggled secret to be visible")
	}

	// Refresh with a shorter list: cursor clamps, visibility resets
	v.SetKeys(testKeys()[:1])

	if v.Selected().ID != 1 {
		t.Errorf("expected cursor clamped to remaining key, got %d", v.Selected().ID)
	}
	if strings.Contains(v.View(), "bgr_abcdefghijklmnopqrstuvwx") {
		t.Error("expected secrets to be re-masked after refresh")
	}
}

func TestView_MasksSecrets(t *testing.T) {
	v := New(80, 20)
	v.SetKeys(testKeys())

	view := v.View()
	if strings.Contains(view, "bgr_abcdefghijklmnopqrstuvwx") {
		t.Error("expected secret to be masked by default")
	}
	if !strings.Contains(view, "bgr_abcd...uvwx") {
		t.Errorf("expected masked form in view, got:\n%s", view)
	}
	if !strings.Contains(view, "ACTIVE") {
		t.Error("expected active badge")
	}
	if !strings.Contains(view, "INACTIVE") {
		t.Error("expected inactive badge for disabled key")
	}
}
