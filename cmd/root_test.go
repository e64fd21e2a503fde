// ABOUTME: Tests for the root command and global flag handling
// ABOUTME: Verifies environment variable and flag configuration

package cmd

import (
	"os"
	"testing"
)

func TestGetAPIURL_Default(t *testing.T) {
	os.Unsetenv("BGR_API_URL")
	apiURL = "" // Reset flag
	useLocal = false

	url := GetAPIURL()
	if url != defaultAPIURL {
		t.Errorf("expected default URL %s, got %s", defaultAPIURL, url)
	}
}

func TestGetAPIURL_FromEnv(t *testing.T) {
	os.Setenv("BGR_API_URL", "http://backend.example.com")
	defer os.Unsetenv("BGR_API_URL")
	apiURL = "" // Reset flag
	useLocal = false

	url := GetAPIURL()
	if url != "http://backend.example.com" {
		t.Errorf("expected http://backend.example.com, got %s", url)
	}
}

func TestGetAPIURL_FlagOverridesEnv(t *testing.T) {
	os.Setenv("BGR_API_URL", "http://backend.example.com")
	defer os.Unsetenv("BGR_API_URL")
	apiURL = "http://flag-override.example.com"
	defer func() { apiURL = "" }()

	url := GetAPIURL()
	if url != "http://flag-override.example.com" {
		t.Errorf("expected flag to override env, got %s", url)
	}
}

func TestGetAPIURL_LocalFlag(t *testing.T) {
	os.Setenv("BGR_API_URL", "http://backend.example.com")
	defer os.Unsetenv("BGR_API_URL")
	apiURL = ""
	useLocal = true
	defer func() { useLocal = false }()

	url := GetAPIURL()
	if url != localAPIURL {
		t.Errorf("expected --local to win over env, got %s", url)
	}
}

func TestJSONOutput(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	if !IsJSONOutput() {
		t.Error("expected IsJSONOutput to return true")
	}
}
