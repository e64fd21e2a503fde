// ABOUTME: Durable session storage in the XDG config directory
// ABOUTME: Persists the bearer token and user profile as two entries

package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bgremover/cli/internal/client"
)

// Persisted entry names. The token is stored raw, the profile as JSON.
const (
	tokenEntry = "authToken"
	userEntry  = "userData"
)

// Session couples the bearer token with the cached user profile. The two
// are atomic: never a token without a profile or vice versa.
type Session struct {
	Token string
	User  client.User
}

// Store reads and writes the persisted session
type Store struct {
	configDir string
}

// NewStore creates a session store rooted at the given config directory
func NewStore(configDir string) *Store {
	return &Store{configDir: configDir}
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bgr")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "bgr")
}

func (s *Store) tokenPath() string {
	return filepath.Join(s.configDir, tokenEntry)
}

func (s *Store) userPath() string {
	return filepath.Join(s.configDir, userEntry)
}

// Load reads the persisted session. It returns nil when no session is
// stored. A corrupt or partial record is removed and reported as absent;
// the caller never sees a parse error.
func (s *Store) Load() *Session {
	token, err := os.ReadFile(s.tokenPath())
	if err != nil || len(token) == 0 {
		// Missing, empty, or unreadable token. Clear both entries so an
		// orphaned profile never survives a half-written save.
		s.Clear()
		return nil
	}

	data, err := os.ReadFile(s.userPath())
	if err != nil {
		s.Clear()
		return nil
	}

	var user client.User
	if err := json.Unmarshal(data, &user); err != nil || user.Email == "" {
		// Corrupt profile, discard the whole session
		s.Clear()
		return nil
	}

	return &Session{Token: string(token), User: user}
}

// Save persists the session. The profile is written before the token so a
// readable token always has a readable profile next to it.
func (s *Store) Save(sess *Session) error {
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sess.User, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.userPath(), data, 0600); err != nil {
		return err
	}
	return os.WriteFile(s.tokenPath(), []byte(sess.Token), 0600)
}

// Clear removes both persisted entries
func (s *Store) Clear() error {
	tokenErr := os.Remove(s.tokenPath())
	userErr := os.Remove(s.userPath())
	if tokenErr != nil && !os.IsNotExist(tokenErr) {
		return tokenErr
	}
	if userErr != nil && !os.IsNotExist(userErr) {
		return userErr
	}
	return nil
}
