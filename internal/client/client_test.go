// ABOUTME: Tests for the Background Remover API client
// ABOUTME: Uses httptest to mock backend responses

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("expected path /auth/login, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("login must not send Authorization header, got %q", auth)
		}

		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid request body: %v", err)
		}
		if payload["email"] != "a@b.com" || payload["password"] != "secret1" {
			t.Errorf("unexpected credentials: %v", payload)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(LoginResponse{
			Token: "t1",
			User:  User{ID: 1, Name: "A", Email: "a@b.com"},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.Login(context.Background(), "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token != "t1" {
		t.Errorf("expected token t1, got %s", resp.Token)
	}
	if resp.User.Email != "a@b.com" {
		t.Errorf("expected user email a@b.com, got %s", resp.User.Email)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid email or password"})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Login(context.Background(), "a@b.com", "wrong")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !IsAuth(err) {
		t.Errorf("expected AuthError, got %T", err)
	}
	if !strings.Contains(err.Error(), "invalid email or password") {
		t.Errorf("expected server message to surface, got %q", err.Error())
	}
}

func TestLogin_ConnectionError(t *testing.T) {
	c := New("http://127.0.0.1:1")
	_, err := c.Login(context.Background(), "a@b.com", "secret1")
	if err == nil {
		t.Fatal("expected connection error, got nil")
	}
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Errorf("expected NetworkError, got %T", err)
	}
}

func TestRegister_DoesNotSendBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Errorf("expected path /auth/register, got %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("register must not send Authorization header, got %q", auth)
		}
		json.NewEncoder(w).Encode(RegisterResponse{
			User: User{ID: 2, Name: "B", Email: "b@c.com"},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.Register(context.Background(), "B", "b@c.com", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.User.ID != 2 {
		t.Errorf("expected user id 2, got %d", resp.User.ID)
	}
}

func TestListAPIKeys_SendsBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/api-keys" {
			t.Errorf("expected path /auth/api-keys, got %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer t1" {
			t.Errorf("expected bearer token, got %q", auth)
		}
		json.NewEncoder(w).Encode(map[string][]APIKey{
			"api_keys": {
				{ID: 1, Name: "prod", Key: "bgr_abc", UsageCount: 3, IsActive: true},
				{ID: 2, Name: "dev", Key: "bgr_def", IsActive: false},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	keys, err := c.ListAPIKeys(context.Background(), "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
	if keys[0].Name != "prod" || keys[0].UsageCount != 3 {
		t.Errorf("unexpected first key: %+v", keys[0])
	}
}

func TestListAPIKeys_ExpiredToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "token expired"})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.ListAPIKeys(context.Background(), "stale")
	if !IsAuth(err) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if !strings.Contains(err.Error(), "token expired") {
		t.Errorf("expected detail message, got %q", err.Error())
	}
}

func TestCreateAPIKey_FormEncoded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api-keys" {
			t.Errorf("expected path /api-keys, got %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if got := r.PostFormValue("key_name"); got != "prod" {
			t.Errorf("expected key_name=prod, got %q", got)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer t1" {
			t.Errorf("expected bearer token, got %q", auth)
		}
		json.NewEncoder(w).Encode(APIKey{
			ID: 7, Name: "prod", Key: "bgr_secret", UsageCount: 0, IsActive: true,
		})
	}))
	defer server.Close()

	c := New(server.URL)
	key, err := c.CreateAPIKey(context.Background(), "t1", "prod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key.ID != 7 || key.UsageCount != 0 {
		t.Errorf("unexpected key: %+v", key)
	}
}

func TestDeleteAPIKey_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		if r.URL.Path != "/auth/api-keys/7" {
			t.Errorf("expected path /auth/api-keys/7, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := New(server.URL)
	if err := c.DeleteAPIKey(context.Background(), "t1", 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteAPIKey_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "API key not found"})
	}))
	defer server.Close()

	c := New(server.URL)
	err := c.DeleteAPIKey(context.Background(), "t1", 99)
	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if se.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", se.StatusCode)
	}
}

func TestRemoveBackground_Multipart(t *testing.T) {
	image := []byte{0x89, 'P', 'N', 'G'}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/remove-background" {
			t.Errorf("expected path /remove-background, got %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}
		if got := r.FormValue("api_key"); got != "bgr_abc" {
			t.Errorf("expected api_key form field, got %q", got)
		}
		if got := r.FormValue("alpha_matting"); got != "true" {
			t.Errorf("expected alpha_matting=true, got %q", got)
		}
		if got := r.FormValue("alpha_matting_foreground_threshold"); got != "240" {
			t.Errorf("expected foreground threshold 240, got %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		defer file.Close()
		if header.Filename != "photo.png" {
			t.Errorf("expected filename photo.png, got %s", header.Filename)
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(image)
	}))
	defer server.Close()

	c := New(server.URL)
	opts := RemoveOptions{AlphaMatting: true, ForegroundThreshold: 240}
	out, err := c.RemoveBackground(context.Background(), "bgr_abc", "photo.png", bytes.NewReader([]byte("fake image")), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(out, image) {
		t.Errorf("expected image bytes back, got %v", out)
	}
}

func TestRemoveBackground_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := New(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.RemoveBackground(ctx, "bgr_abc", "photo.png", bytes.NewReader([]byte("x")), RemoveOptions{})
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !IsTimeout(err) {
		t.Errorf("expected TimeoutError, got %T: %v", err, err)
	}
}

func TestContact_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/contact" {
			t.Errorf("expected path /contact, got %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if r.PostFormValue("name") != "A" || r.PostFormValue("email") != "a@b.com" {
			t.Errorf("unexpected form values: %v", r.PostForm)
		}
		json.NewEncoder(w).Encode(ContactResponse{Success: true, Message: "thanks"})
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.Contact(context.Background(), "A", "a@b.com", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success || resp.Message != "thanks" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHealth_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("expected path /health, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(HealthResponse{Status: "healthy", Service: "background-remover-api"})
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("expected healthy, got %s", resp.Status)
	}
}

func TestHealth_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		json.NewEncoder(w).Encode(HealthResponse{Status: "healthy"})
	}))
	defer server.Close()

	c := New(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := c.Health(ctx)
	if !errors.Is(err, ErrCanceled) {
		t.Errorf("expected ErrCanceled for canceled context, got %v", err)
	}
}

func TestErrorBody_FallbackWhenUnparseable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Health(context.Background())
	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if !strings.Contains(se.Error(), "500") {
		t.Errorf("expected generic status message, got %q", se.Error())
	}
}
