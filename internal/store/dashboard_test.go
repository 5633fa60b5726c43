// ABOUTME: Tests for the dashboard stats providers and fallback switching.
// ABOUTME: Covers the client-side aggregate math and the RPC failure path.
package store

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/models"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/normalize"
)

func TestComputeStats(t *testing.T) {
	symptoms := []normalize.Record{
		{"intensity": float64(2)},
		{"intensity": float64(4)},
		{"intensity": float64(6)},
		{"intensity": float64(8)},
	}
	statuses := []normalize.Record{
		{"status": "safe"},
		{"status": "safe"},
		{"status": "moderate"},
		{"status": "avoid"},
	}

	got := ComputeStats(symptoms, statuses)
	if got.TotalSymptoms != 4 {
		t.Errorf("TotalSymptoms = %d, want 4", got.TotalSymptoms)
	}
	if got.AvgIntensity != 5.0 {
		t.Errorf("AvgIntensity = %v, want 5.0", got.AvgIntensity)
	}
	if got.SafeFoods != 2 || got.ModerateFoods != 1 || got.AvoidFoods != 1 {
		t.Errorf("food counts = %d/%d/%d, want 2/1/1", got.SafeFoods, got.ModerateFoods, got.AvoidFoods)
	}
	if got.LatestReport != nil {
		t.Error("LatestReport should be nil in the fallback aggregate")
	}
	if got.UnreadInsights != 0 || got.UnreadNotifications != 0 {
		t.Error("unread counters should stay zero in the fallback aggregate")
	}
}

func TestComputeStatsRounding(t *testing.T) {
	tests := []struct {
		name        string
		intensities []float64
		want        float64
	}{
		{"empty", nil, 0},
		{"single", []float64{7}, 7.0},
		{"repeating fraction", []float64{1, 1, 2}, 1.3},
		{"rounds half up", []float64{1, 2}, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var symptoms []normalize.Record
			for _, i := range tt.intensities {
				symptoms = append(symptoms, normalize.Record{"intensity": i})
			}
			got := ComputeStats(symptoms, nil)
			if got.AvgIntensity != tt.want {
				t.Errorf("AvgIntensity = %v, want %v", got.AvgIntensity, tt.want)
			}
		})
	}
}

type stubProvider struct {
	stats *models.DashboardStats
	err   error
	calls atomic.Int32
}

func (p *stubProvider) Stats(context.Context, string) (*models.DashboardStats, error) {
	p.calls.Add(1)
	return p.stats, p.err
}

func TestDashboardFallsBackWhenRPCFails(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `[]`)
	}))
	sess := loggedInIdentity("u1")
	s := NewDashboardStore(client, sess, zerolog.Nop())
	defer s.Close()

	primary := &stubProvider{err: errors.New("function not found")}
	fallback := &stubProvider{stats: &models.DashboardStats{TotalSymptoms: 2, AvgIntensity: 3.5}}
	s.SetProviders(primary, fallback)

	if err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	stats := s.Stats()
	if stats == nil || stats.TotalSymptoms != 2 {
		t.Fatalf("Stats() = %+v, want fallback result", stats)
	}
	if primary.calls.Load() != 1 || fallback.calls.Load() != 1 {
		t.Errorf("provider calls = %d/%d, want 1/1", primary.calls.Load(), fallback.calls.Load())
	}

	// A failed RPC is remembered; the next fetch skips it.
	if err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("second Fetch() error = %v", err)
	}
	if primary.calls.Load() != 1 {
		t.Errorf("primary called %d times, want 1", primary.calls.Load())
	}
	if fallback.calls.Load() != 2 {
		t.Errorf("fallback called %d times, want 2", fallback.calls.Load())
	}
}

func TestDashboardUsesRPCWhenAvailable(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `[]`)
	}))
	sess := loggedInIdentity("u1")
	s := NewDashboardStore(client, sess, zerolog.Nop())
	defer s.Close()

	primary := &stubProvider{stats: &models.DashboardStats{TotalSymptoms: 9, UnreadInsights: 3}}
	fallback := &stubProvider{stats: &models.DashboardStats{}}
	s.SetProviders(primary, fallback)

	if err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	stats := s.Stats()
	if stats == nil || stats.TotalSymptoms != 9 || stats.UnreadInsights != 3 {
		t.Fatalf("Stats() = %+v, want RPC result", stats)
	}
	if fallback.calls.Load() != 0 {
		t.Errorf("fallback called %d times, want 0", fallback.calls.Load())
	}
}

func TestLocalProviderQueries(t *testing.T) {
	var symptomQuery, statusQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/symptoms":
			symptomQuery = r.URL.RawQuery
			writeJSON(t, w, `[{"intensity":5},{"intensity":6}]`)
		case "/rest/v1/user_food_status":
			statusQuery = r.URL.RawQuery
			writeJSON(t, w, `[{"status":"safe"}]`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	p := NewLocalStatsProvider(client)
	stats, err := p.Stats(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalSymptoms != 2 || stats.AvgIntensity != 5.5 || stats.SafeFoods != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
	if symptomQuery == "" || statusQuery == "" {
		t.Fatal("both queries should have been issued")
	}
}
