// ABOUTME: Tests for the symptom store: validation gate, ordering, staleness.
// ABOUTME: Uses an httptest server standing in for the remote store.
package store

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/models"
)

func TestSymptomCreateValidatesBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(t, w, `[{"id":"s1"}]`)
	}))
	sess := loggedInIdentity("u1")
	s := NewSymptomStore(client, sess, nil, zerolog.Nop())
	defer s.Close()

	tests := []struct {
		name    string
		symptom *models.Symptom
		wantErr bool
	}{
		{"no types", models.NewSymptom("u1", nil, 5), true},
		{"unknown type", models.NewSymptom("u1", []models.SymptomType{"vertigo"}, 5), true},
		{"intensity below range", models.NewSymptom("u1", []models.SymptomType{models.SymptomGas}, 0), true},
		{"intensity above range", models.NewSymptom("u1", []models.SymptomType{models.SymptomGas}, 11), true},
		{"minimum intensity", models.NewSymptom("u1", []models.SymptomType{models.SymptomGas}, 1), false},
		{"maximum intensity", models.NewSymptom("u1", []models.SymptomType{models.SymptomNausea}, 10), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := calls.Load()
			_, err := s.Create(context.Background(), tt.symptom)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Create() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && calls.Load() != before {
				t.Error("invalid symptom reached the network")
			}
			if !tt.wantErr && calls.Load() != before+1 {
				t.Error("valid symptom did not reach the network")
			}
		})
	}
}

func TestSymptomFetchKeepsItemsOnFailure(t *testing.T) {
	var fail atomic.Bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			writeJSON(t, w, `{"message":"unavailable"}`)
			return
		}
		writeJSON(t, w, `[
			{"id":"s1","user_id":"u1","datetime":"2026-08-30T10:00:00Z","intensity":4},
			{"id":"s2","user_id":"u1","datetime":"2026-08-29T10:00:00Z","intensity":6},
			{"id":"s3","user_id":"u1","datetime":"2026-08-28T10:00:00Z","intensity":2}
		]`)
	}))
	sess := loggedInIdentity("u1")
	s := NewSymptomStore(client, sess, nil, zerolog.Nop())
	defer s.Close()

	if err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	if s.Err() != nil {
		t.Fatalf("Err() = %v after success", s.Err())
	}

	fail.Store(true)
	if err := s.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch() succeeded, want error")
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d after failed refresh, want 3", s.Len())
	}
	if s.Err() == nil {
		t.Error("Err() = nil after failed refresh")
	}
}

func TestSymptomCreateKeepsCanonicalOrder(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, `[
				{"id":"s1","user_id":"u1","datetime":"2026-08-25T10:00:00Z"},
				{"id":"s2","user_id":"u1","datetime":"2026-08-20T10:00:00Z"}
			]`)
		case http.MethodPost:
			writeJSON(t, w, `[{"id":"s3","user_id":"u1","datetime":"2026-08-22T10:00:00Z","intensity":3,"types":["gas"]}]`)
		}
	}))
	sess := loggedInIdentity("u1")
	s := NewSymptomStore(client, sess, nil, zerolog.Nop())
	defer s.Close()

	if err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	mid := models.NewSymptom("u1", []models.SymptomType{models.SymptomGas}, 3).
		WithDatetime(time.Date(2026, 8, 22, 10, 0, 0, 0, time.UTC))
	if _, err := s.Create(context.Background(), mid); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	items := s.Items()
	if len(items) != 3 {
		t.Fatalf("Len() = %d, want 3", len(items))
	}
	wantOrder := []string{"s1", "s3", "s2"}
	for i, want := range wantOrder {
		if got := items[i]["id"]; got != want {
			t.Errorf("items[%d] id = %v, want %s", i, got, want)
		}
	}
}

func TestSymptomUpdateResortsCollection(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, `[
				{"id":"s1","user_id":"u1","datetime":"2026-08-25T10:00:00Z","intensity":4},
				{"id":"s2","user_id":"u1","datetime":"2026-08-20T10:00:00Z","intensity":6}
			]`)
		case http.MethodPatch:
			if got := r.URL.Query().Get("id"); got != "eq.s2" {
				t.Errorf("patch id filter = %q, want %q", got, "eq.s2")
			}
			writeJSON(t, w, `[{"id":"s2","user_id":"u1","datetime":"2026-08-28T10:00:00Z","intensity":9}]`)
		}
	}))
	sess := loggedInIdentity("u1")
	s := NewSymptomStore(client, sess, nil, zerolog.Nop())
	defer s.Close()

	if err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	rec, err := s.Update(context.Background(), "s2", map[string]any{"intensity": 9})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if rec["intensity"] != float64(9) {
		t.Errorf("updated intensity = %v, want 9", rec["intensity"])
	}

	items := s.Items()
	if len(items) != 2 {
		t.Fatalf("Len() = %d, want 2", len(items))
	}
	wantOrder := []string{"s2", "s1"}
	for i, want := range wantOrder {
		if got := items[i]["id"]; got != want {
			t.Errorf("items[%d] id = %v, want %s", i, got, want)
		}
	}
}

func TestSymptomFetchRequiresIdentity(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `[]`)
	}))
	sess := &fakeIdentity{}
	s := NewSymptomStore(client, sess, nil, zerolog.Nop())
	defer s.Close()

	if err := s.Fetch(context.Background()); err != ErrNotAuthenticated {
		t.Errorf("Fetch() error = %v, want ErrNotAuthenticated", err)
	}
}

func TestSymptomLogoutClearsCollection(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `[{"id":"s1","user_id":"u1","datetime":"2026-08-30T10:00:00Z"}]`)
	}))
	sess := loggedInIdentity("u1")
	s := NewSymptomStore(client, sess, nil, zerolog.Nop())
	defer s.Close()

	if err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}

	sess.set(nil)
	if s.Len() != 0 {
		t.Errorf("Len() = %d after logout, want 0", s.Len())
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v after logout, want nil", s.Err())
	}
}
