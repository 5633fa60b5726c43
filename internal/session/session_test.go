// ABOUTME: Tests for the session provider state machine and persistence.
// ABOUTME: Covers login, resolution, expiry handling, and subscriber fanout.
package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/models"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/store"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func authServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/auth/v1/token":
			_, _ = w.Write([]byte(`{
				"access_token": "` + token + `",
				"refresh_token": "refresh",
				"expires_in": 3600,
				"user": {"id": "u1", "email": "a@example.com", "user_metadata": {"full_name": "Ana"}}
			}`))
		case r.URL.Path == "/auth/v1/user":
			_, _ = w.Write([]byte(`{"id": "u1", "email": "a@example.com", "user_metadata": {"full_name": "Ana"}}`))
		case r.URL.Path == "/auth/v1/logout":
			_, _ = w.Write([]byte(`{}`))
		case r.URL.Path == "/rest/v1/profiles":
			_, _ = w.Write([]byte(`[{"full_name": "Ana Silva", "weight": 62.5}]`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginPersistsAndNotifies(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	srv := authServer(t, token)
	client := store.NewClient(srv.URL, "key", zerolog.Nop())
	path := filepath.Join(t.TempDir(), "session.json")
	p := NewProvider(client, nil, path, zerolog.Nop())

	var notified []*models.User
	unsub := p.Subscribe(func(u *models.User) { notified = append(notified, u) })
	defer unsub()

	user, err := p.Login(context.Background(), "a@example.com", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if p.State() != StateAuthenticated {
		t.Errorf("State() = %s, want authenticated", p.State())
	}
	if user.FullName != "Ana Silva" {
		t.Errorf("FullName = %q, profile row should override metadata", user.FullName)
	}
	if user.Weight == nil || *user.Weight != 62.5 {
		t.Errorf("Weight = %v, want 62.5 from profile", user.Weight)
	}
	if len(notified) != 1 || notified[0] == nil || notified[0].ID != "u1" {
		t.Errorf("subscribers notified = %+v, want one login event", notified)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("session file not written: %v", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_description": "Invalid login credentials"}`))
	}))
	t.Cleanup(srv.Close)

	client := store.NewClient(srv.URL, "key", zerolog.Nop())
	p := NewProvider(client, nil, filepath.Join(t.TempDir(), "session.json"), zerolog.Nop())

	_, err := p.Login(context.Background(), "a@example.com", "wrong")
	if !errors.Is(err, store.ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
	if p.State() != StateUnauthenticated {
		t.Errorf("State() = %s after rejected login", p.State())
	}
	if p.CurrentUser() != nil {
		t.Error("CurrentUser() != nil after rejected login")
	}
}

func TestResolveRestoresValidSession(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	srv := authServer(t, token)
	client := store.NewClient(srv.URL, "key", zerolog.Nop())
	path := filepath.Join(t.TempDir(), "session.json")

	// One provider logs in, a fresh one resolves from the same file.
	first := NewProvider(client, nil, path, zerolog.Nop())
	if _, err := first.Login(context.Background(), "a@example.com", "pw"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	fresh := NewProvider(store.NewClient(srv.URL, "key", zerolog.Nop()), nil, path, zerolog.Nop())
	if err := fresh.Resolve(context.Background()); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if fresh.State() != StateAuthenticated {
		t.Errorf("State() = %s, want authenticated", fresh.State())
	}
	user := fresh.CurrentUser()
	if user == nil || user.ID != "u1" {
		t.Errorf("CurrentUser() = %+v", user)
	}
}

func TestResolveExpiredSession(t *testing.T) {
	token := signedToken(t, time.Now().Add(-time.Hour))
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"access_token": "`+token+`", "user_id": "u1"}`), 0600); err != nil {
		t.Fatal(err)
	}

	client := store.NewClient("http://127.0.0.1:0", "key", zerolog.Nop())
	p := NewProvider(client, nil, path, zerolog.Nop())

	if err := p.Resolve(context.Background()); err != nil {
		t.Fatalf("Resolve() error = %v, expiry should not be an error", err)
	}
	if p.State() != StateUnauthenticated {
		t.Errorf("State() = %s, want unauthenticated", p.State())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expired session file was not removed")
	}
}

func TestResolveMissingSession(t *testing.T) {
	client := store.NewClient("http://127.0.0.1:0", "key", zerolog.Nop())
	p := NewProvider(client, nil, filepath.Join(t.TempDir(), "session.json"), zerolog.Nop())

	if err := p.Resolve(context.Background()); err != nil {
		t.Fatalf("Resolve() error = %v, absence should not be an error", err)
	}
	if p.State() != StateUnauthenticated {
		t.Errorf("State() = %s, want unauthenticated", p.State())
	}
}

func TestResolveRejectedToken(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "invalid token"}`))
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"access_token": "`+token+`", "user_id": "u1"}`), 0600); err != nil {
		t.Fatal(err)
	}

	client := store.NewClient(srv.URL, "key", zerolog.Nop())
	p := NewProvider(client, nil, path, zerolog.Nop())

	if err := p.Resolve(context.Background()); err != nil {
		t.Fatalf("Resolve() error = %v, rejection should clear quietly", err)
	}
	if p.State() != StateUnauthenticated {
		t.Errorf("State() = %s, want unauthenticated", p.State())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("rejected session file was not removed")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	srv := authServer(t, token)
	client := store.NewClient(srv.URL, "key", zerolog.Nop())
	path := filepath.Join(t.TempDir(), "session.json")
	p := NewProvider(client, nil, path, zerolog.Nop())

	if _, err := p.Login(context.Background(), "a@example.com", "pw"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	var last *models.User = &models.User{ID: "sentinel"}
	unsub := p.Subscribe(func(u *models.User) { last = u })
	defer unsub()

	if err := p.Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if p.State() != StateUnauthenticated {
		t.Errorf("State() = %s, want unauthenticated", p.State())
	}
	if p.CurrentUser() != nil {
		t.Error("CurrentUser() != nil after logout")
	}
	if last != nil {
		t.Error("subscribers should receive nil on logout")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("session file survived logout")
	}
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		exp  time.Time
		want bool
	}{
		{"valid", now.Add(time.Hour), false},
		{"expired", now.Add(-time.Hour), true},
		{"inside leeway", now.Add(30 * time.Second), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokenExpired(signedToken(t, tt.exp), now); got != tt.want {
				t.Errorf("tokenExpired() = %v, want %v", got, tt.want)
			}
		})
	}

	if !tokenExpired("not-a-jwt", now) {
		t.Error("malformed token should read as expired")
	}
}
