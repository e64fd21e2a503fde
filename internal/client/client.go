// ABOUTME: HTTP client for the Background Remover API
// ABOUTME: One method per remote endpoint with typed failures for CLI usage

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Default wall-clock budgets. Background removal runs a model server-side
// and can legitimately take minutes on large images.
const (
	requestTimeout = 30 * time.Second
	removeTimeout  = 5 * time.Minute
)

// Client is the API client for the Background Remover backend
type Client struct {
	baseURL    string
	httpClient *http.Client

	// uploadClient has no transport timeout; the remove-background call is
	// bounded by its own context deadline instead.
	uploadClient *http.Client
}

// New creates a new API client with the given base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		uploadClient: &http.Client{},
	}
}

// BaseURL returns the configured API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// User is the profile record returned by the auth endpoints
type User struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	CreatedAt     string `json:"created_at,omitempty"`
	LastLogin     string `json:"last_login,omitempty"`
	IsActive      bool   `json:"is_active"`
	APICallsCount int    `json:"api_calls_count"`
}

// APIKey is a key record owned by the authenticated user. Key holds the
// secret material and must be masked before display.
type APIKey struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Key        string `json:"key"`
	CreatedAt  string `json:"created_at,omitempty"`
	LastUsed   string `json:"last_used,omitempty"`
	UsageCount int    `json:"usage_count"`
	IsActive   bool   `json:"is_active"`
}

// LoginResponse is the POST /auth/login success payload
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterResponse is the POST /auth/register success payload. Registration
// does not establish a session; the caller logs in afterward.
type RegisterResponse struct {
	User User `json:"user"`
}

// HealthResponse is the GET /health payload
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ContactResponse is the POST /contact payload
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RemoveOptions are the alpha-matting parameters passed through to the
// background-removal service. Zero values mean server defaults.
type RemoveOptions struct {
	AlphaMatting        bool
	ForegroundThreshold int
	BackgroundThreshold int
	ErodeSize           int
	BaseSize            int
}

// apiKeysEnvelope wraps the GET /auth/api-keys response
type apiKeysEnvelope struct {
	APIKeys []APIKey `json:"api_keys"`
}

// errorBody covers the error payload shapes the backend emits
type errorBody struct {
	Error   string `json:"error"`
	Detail  string `json:"detail"`
	Details string `json:"details"`
	Message string `json:"message"`
}

func (e errorBody) text() string {
	for _, s := range []string{e.Error, e.Detail, e.Message, e.Details} {
		if s != "" {
			return s
		}
	}
	return ""
}

// Login calls POST /auth/login. No bearer header is sent.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	payload := map[string]string{"email": email, "password": password}
	var out LoginResponse
	if err := c.postJSON(ctx, "/auth/login", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register calls POST /auth/register. No bearer header is sent and no
// session token is returned.
func (c *Client) Register(ctx context.Context, name, email, password string) (*RegisterResponse, error) {
	payload := map[string]string{"name": name, "email": email, "password": password}
	var out RegisterResponse
	if err := c.postJSON(ctx, "/auth/register", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAPIKeys calls GET /auth/api-keys with the bearer token
func (c *Client) ListAPIKeys(ctx context.Context, token string) ([]APIKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/api-keys", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp)
	}

	var envelope apiKeysEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("invalid response from API: %w", err)
	}
	return envelope.APIKeys, nil
}

// CreateAPIKey calls POST /api-keys with the key name as a form field
func (c *Client) CreateAPIKey(ctx context.Context, token, name string) (*APIKey, error) {
	form := url.Values{}
	form.Set("key_name", name)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api-keys", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.handleErrorResponse(resp)
	}

	var key APIKey
	if err := json.NewDecoder(resp.Body).Decode(&key); err != nil {
		return nil, fmt.Errorf("invalid response from API: %w", err)
	}
	return &key, nil
}

// DeleteAPIKey calls DELETE /auth/api-keys/{id}
func (c *Client) DeleteAPIKey(ctx context.Context, token string, id int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/auth/api-keys/%d", c.baseURL, id), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return c.handleErrorResponse(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// RemoveBackground calls POST /remove-background with a multipart upload.
// The API key travels as a form field, not a bearer header. The call is
// bounded by a hard 5-minute budget; exceeding it reports a TimeoutError.
func (c *Client) RemoveBackground(ctx context.Context, apiKey, filename string, file io.Reader, opts RemoveOptions) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, removeTimeout)
	defer cancel()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	fields := map[string]string{
		"api_key":       apiKey,
		"alpha_matting": strconv.FormatBool(opts.AlphaMatting),
	}
	if opts.ForegroundThreshold > 0 {
		fields["alpha_matting_foreground_threshold"] = strconv.Itoa(opts.ForegroundThreshold)
	}
	if opts.BackgroundThreshold > 0 {
		fields["alpha_matting_background_threshold"] = strconv.Itoa(opts.BackgroundThreshold)
	}
	if opts.ErodeSize > 0 {
		fields["alpha_matting_erode_structure_size"] = strconv.Itoa(opts.ErodeSize)
	}
	if opts.BaseSize > 0 {
		fields["alpha_matting_base_size"] = strconv.Itoa(opts.BaseSize)
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to build upload: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/remove-background", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, &TimeoutError{Budget: removeTimeout}
		}
		return nil, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp)
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, &TimeoutError{Budget: removeTimeout}
		}
		return nil, fmt.Errorf("failed to read processed image: %w", err)
	}
	return image, nil
}

// Contact calls POST /contact with form fields. No bearer header is sent.
func (c *Client) Contact(ctx context.Context, name, email, message string) (*ContactResponse, error) {
	form := url.Values{}
	form.Set("name", name)
	form.Set("email", email)
	form.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/contact", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp)
	}

	var out ContactResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("invalid response from API: %w", err)
	}
	return &out, nil
}

// Health calls GET /health
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp)
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("invalid response from API: %w", err)
	}
	return &health, nil
}

// postJSON issues an unauthenticated JSON POST and decodes a 2xx response
func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from API: %w", err)
	}
	return nil
}

// handleRequestError converts transport and context errors to typed failures
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return ErrCanceled
	}
	if ctx.Err() == context.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{}
	}
	return &NetworkError{URL: c.baseURL, Err: err}
}

// handleErrorResponse parses API error responses into the failure taxonomy
func (c *Client) handleErrorResponse(resp *http.Response) error {
	var body errorBody
	msg := ""
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		msg = body.text()
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthError{Message: msg}
	}
	return &ServerError{StatusCode: resp.StatusCode, Message: msg}
}
