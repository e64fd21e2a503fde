// ABOUTME: Session controller owning the guest/authenticated state machine
// ABOUTME: Validates input, drives the API client, and keeps the store in sync

package session

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/bgremover/cli/internal/client"
)

// MinPasswordLength is enforced client-side before any network call
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Controller owns the in-memory session state. It starts Authenticated when
// the store holds a well-formed session, Guest otherwise. All mutations are
// serialized so overlapping TUI commands cannot interleave writes.
type Controller struct {
	mu      sync.Mutex
	store   *Store
	api     *client.Client
	current *Session
	keys    []client.APIKey
}

// NewController creates a controller seeded from the persistent store
func NewController(store *Store, api *client.Client) *Controller {
	return &Controller{
		store:   store,
		api:     api,
		current: store.Load(),
	}
}

// Authenticated reports whether a session is present
func (c *Controller) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// Current returns the active session, or nil for guest
func (c *Controller) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Keys returns the last fetched key list
func (c *Controller) Keys() []client.APIKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keys
}

// Login validates credentials, authenticates, persists the session, and
// refreshes the key list. A refresh failure does not undo the login.
func (c *Controller) Login(ctx context.Context, email, password string) (*Session, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, &client.ValidationError{Field: "password", Message: "password is required"}
	}

	resp, err := c.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	sess := &Session{Token: resp.Token, User: resp.User}
	if err := c.store.Save(sess); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.current = sess
	c.keys = nil
	c.mu.Unlock()

	c.RefreshKeys(ctx)
	return sess, nil
}

// Register creates an account. It does not establish a session; the caller
// is expected to log in afterward.
func (c *Controller) Register(ctx context.Context, name, email, password string) (*client.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &client.ValidationError{Field: "name", Message: "name is required"}
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	resp, err := c.api.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Logout clears the store and the in-memory key list
func (c *Controller) Logout() error {
	c.mu.Lock()
	c.current = nil
	c.keys = nil
	c.mu.Unlock()
	return c.store.Clear()
}

// RefreshKeys fetches the authoritative key list. It is a no-op returning
// an empty list for guests. An auth rejection forces the session back to
// guest before the error is returned.
func (c *Controller) RefreshKeys(ctx context.Context) ([]client.APIKey, error) {
	sess := c.Current()
	if sess == nil {
		return nil, nil
	}

	keys, err := c.api.ListAPIKeys(ctx, sess.Token)
	if err != nil {
		return nil, c.checkAuth(err)
	}

	c.mu.Lock()
	c.keys = keys
	c.mu.Unlock()
	return keys, nil
}

// CreateKey creates a named key and re-fetches the list from the server.
// The displayed list is never patched locally.
func (c *Controller) CreateKey(ctx context.Context, name string) (*client.APIKey, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &client.ValidationError{Field: "name", Message: "key name is required"}
	}

	sess := c.Current()
	if sess == nil {
		return nil, &client.AuthError{Message: "not logged in"}
	}

	key, err := c.api.CreateAPIKey(ctx, sess.Token, name)
	if err != nil {
		return nil, c.checkAuth(err)
	}

	if _, err := c.RefreshKeys(ctx); err != nil {
		return key, err
	}
	return key, nil
}

// DeleteKey deletes a key and re-fetches the list from the server
func (c *Controller) DeleteKey(ctx context.Context, id int) error {
	sess := c.Current()
	if sess == nil {
		return &client.AuthError{Message: "not logged in"}
	}

	if err := c.api.DeleteAPIKey(ctx, sess.Token, id); err != nil {
		return c.checkAuth(err)
	}

	_, err := c.RefreshKeys(ctx)
	return err
}

// checkAuth forces the transition to guest when the server rejected the
// token. The stale session is cleared rather than silently kept around.
func (c *Controller) checkAuth(err error) error {
	if client.IsAuth(err) {
		c.Logout()
	}
	return err
}

// ValidatePassword enforces the minimum password length
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return &client.ValidationError{
			Field:   "password",
			Message: "password must be at least 6 characters",
		}
	}
	return nil
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return &client.ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailPattern.MatchString(email) {
		return &client.ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}
