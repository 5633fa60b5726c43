// ABOUTME: Dashboard aggregate store with a two-provider stats strategy.
// ABOUTME: Prefers the remote aggregation RPC, falls back to client-side math.
package store

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/models"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/normalize"
)

const (
	dashboardStatsRPC = "get_user_dashboard_stats"

	// statsWindow is the symptom window the fallback aggregates over.
	statsWindow = 7 * 24 * time.Hour
)

// StatsProvider computes the dashboard aggregate for one user. Both
// implementations must produce the same result shape so callers stay
// agnostic to which path executed.
type StatsProvider interface {
	Stats(ctx context.Context, userID string) (*models.DashboardStats, error)
}

// RPCStatsProvider asks the remote aggregation procedure.
type RPCStatsProvider struct {
	client *Client
}

// NewRPCStatsProvider builds the primary provider.
func NewRPCStatsProvider(client *Client) *RPCStatsProvider {
	return &RPCStatsProvider{client: client}
}

// Stats invokes the dashboard RPC.
func (p *RPCStatsProvider) Stats(ctx context.Context, _ string) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := p.client.RPC(ctx, dashboardStatsRPC, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// LocalStatsProvider recomputes the aggregate from two raw queries issued
// in parallel: symptoms in the stats window and all food statuses.
type LocalStatsProvider struct {
	client *Client
	now    func() time.Time
}

// NewLocalStatsProvider builds the fallback provider.
func NewLocalStatsProvider(client *Client) *LocalStatsProvider {
	return &LocalStatsProvider{client: client, now: time.Now}
}

// Stats recomputes the aggregate client-side.
func (p *LocalStatsProvider) Stats(ctx context.Context, userID string) (*models.DashboardStats, error) {
	var symptoms, statuses []normalize.Record

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		since := p.now().Add(-statsWindow).UTC().Format(time.RFC3339)
		rows, err := p.client.SelectRows(gctx, symptomsTable, Query{
			Filters: []Filter{Eq("user_id", userID), Gte("datetime", since)},
		})
		if err != nil {
			return err
		}
		symptoms = rows
		return nil
	})
	g.Go(func() error {
		rows, err := p.client.SelectRows(gctx, foodStatusTable, Query{
			Select:  "status",
			Filters: []Filter{Eq("user_id", userID)},
		})
		if err != nil {
			return err
		}
		statuses = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ComputeStats(symptoms, statuses), nil
}

// ComputeStats reduces raw rows to the dashboard aggregate. The counters
// the RPC fills from other tables stay zero here, matching the original
// fallback behavior.
func ComputeStats(symptoms, statuses []normalize.Record) *models.DashboardStats {
	stats := &models.DashboardStats{TotalSymptoms: len(symptoms)}

	if len(symptoms) > 0 {
		var sum float64
		for _, s := range symptoms {
			sum += recordFloat(s, "intensity")
		}
		avg := sum / float64(len(symptoms))
		stats.AvgIntensity = math.Round(avg*10) / 10
	}

	for _, st := range statuses {
		switch models.FoodStatus(recordString(st, "status")) {
		case models.FoodSafe:
			stats.SafeFoods++
		case models.FoodModerate:
			stats.ModerateFoods++
		case models.FoodAvoid:
			stats.AvoidFoods++
		}
	}
	return stats
}

// DashboardStore owns the home-screen aggregate for the current identity.
type DashboardStore struct {
	client  *Client
	session Identity
	log     zerolog.Logger
	unsub   func()

	primary  StatsProvider
	fallback StatsProvider

	mu             sync.RWMutex
	stats          *models.DashboardStats
	loading        bool
	err            error
	rpcUnavailable bool
}

// NewDashboardStore creates the store with the default provider pair and
// subscribes it to identity changes.
func NewDashboardStore(client *Client, sess Identity, log zerolog.Logger) *DashboardStore {
	s := &DashboardStore{
		client:   client,
		session:  sess,
		primary:  NewRPCStatsProvider(client),
		fallback: NewLocalStatsProvider(client),
		log:      log.With().Str("store", "dashboard").Logger(),
	}
	s.unsub = sess.Subscribe(func(u *models.User) {
		if u != nil {
			_ = s.Fetch(context.Background())
		} else {
			s.clear()
		}
	})
	return s
}

// SetProviders overrides the provider pair. Used by tests and by callers
// that already probed the RPC's availability.
func (s *DashboardStore) SetProviders(primary, fallback StatsProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primary = primary
	s.fallback = fallback
	s.rpcUnavailable = false
}

// Close unsubscribes the store from identity changes.
func (s *DashboardStore) Close() {
	if s.unsub != nil {
		s.unsub()
	}
}

// Stats returns the last computed aggregate, or nil.
func (s *DashboardStore) Stats() *models.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Loading reports whether a fetch is in flight.
func (s *DashboardStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last operation error, if any.
func (s *DashboardStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *DashboardStore) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = nil
	s.loading = false
	s.err = nil
	s.rpcUnavailable = false
}

// Fetch computes the aggregate via the primary provider, switching to the
// fallback when the RPC is unavailable or fails. A failed RPC is
// remembered so later fetches go straight to the fallback.
func (s *DashboardStore) Fetch(ctx context.Context) error {
	user := s.session.CurrentUser()
	if user == nil {
		return ErrNotAuthenticated
	}

	s.mu.Lock()
	s.loading = true
	skipRPC := s.rpcUnavailable
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	if !skipRPC {
		stats, err := s.primary.Stats(ctx, user.ID)
		if err == nil {
			s.setStats(stats)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn().Err(err).Msg("stats RPC unavailable, using fallback")
		s.mu.Lock()
		s.rpcUnavailable = true
		s.mu.Unlock()
	}

	stats, err := s.fallback.Stats(ctx, user.ID)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn().Err(err).Msg("fallback stats failed")
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return err
	}

	s.setStats(stats)
	return nil
}

func (s *DashboardStore) setStats(stats *models.DashboardStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
	s.err = nil
}
