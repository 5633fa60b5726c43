// ABOUTME: Shared test helpers for the store package.
// ABOUTME: Fake identity provider and httptest-backed client construction.
package store

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/models"
)

type fakeIdentity struct {
	mu   sync.Mutex
	user *models.User
	subs []func(*models.User)
}

func (f *fakeIdentity) CurrentUser() *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user
}

func (f *fakeIdentity) Subscribe(fn func(*models.User)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
	return func() {}
}

func (f *fakeIdentity) set(u *models.User) {
	f.mu.Lock()
	f.user = u
	subs := make([]func(*models.User), len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(u)
	}
}

func loggedInIdentity(id string) *fakeIdentity {
	return &fakeIdentity{user: &models.User{ID: id, Email: id + "@example.com"}}
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", zerolog.Nop())
}

func writeJSON(t *testing.T, w http.ResponseWriter, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(body)); err != nil {
		t.Errorf("write response: %v", err)
	}
}
