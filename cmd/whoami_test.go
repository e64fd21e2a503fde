// ABOUTME: Tests for the whoami command
// ABOUTME: Verifies session display formatting and guest exit code

package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/bgremover/cli/internal/client"
	"github.com/bgremover/cli/internal/session"
)

func sampleSession() *session.Session {
	return &session.Session{
		Token: "jwt-token",
		User: client.User{
			ID:            7,
			Name:          "Jane Doe",
			Email:         "jane@example.com",
			CreatedAt:     "2025-01-01T00:00:00",
			LastLogin:     "2025-03-01T12:00:00",
			IsActive:      true,
			APICallsCount: 128,
		},
	}
}

func TestFormatWhoamiHuman(t *testing.T) {
	output := formatWhoamiHuman(sampleSession())

	if !strings.Contains(output, "Jane Doe") {
		t.Error("expected user name in output")
	}
	if !strings.Contains(output, "jane@example.com") {
		t.Error("expected email in output")
	}
	if !strings.Contains(output, "128") {
		t.Error("expected API call count in output")
	}
	if strings.Contains(output, "jwt-token") {
		t.Error("token must never be printed")
	}
}

func TestFormatWhoamiJSON(t *testing.T) {
	output := formatWhoamiJSON(sampleSession())

	var parsed struct {
		Authenticated bool        `json:"authenticated"`
		User          client.User `json:"user"`
	}
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !parsed.Authenticated {
		t.Error("expected authenticated true")
	}
	if parsed.User.Email != "jane@example.com" {
		t.Errorf("expected email in JSON, got %s", parsed.User.Email)
	}
}

func TestWhoami_NotLoggedIn(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var buf bytes.Buffer
	exitCode := runWhoami(&buf)

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Not logged in")) {
		t.Errorf("expected login hint, got %q", buf.String())
	}
}
