// ABOUTME: Report store: list reports and trigger remote generation.
// ABOUTME: Reports are immutable; there is no update or delete path.
package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/cache"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/models"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/normalize"
)

const (
	reportsTable      = "reports"
	generateReportRPC = "generate_user_report"

	// DefaultReportPeriodDays is the window the generation RPC covers when
	// the caller does not pick one.
	DefaultReportPeriodDays = 30
)

// ReportStore owns the generated reports for the current identity.
type ReportStore struct {
	collection
	client  *Client
	session Identity
	cache   *cache.Cache
	log     zerolog.Logger
	unsub   func()
}

// NewReportStore creates the store and subscribes it to identity changes.
func NewReportStore(client *Client, sess Identity, c *cache.Cache, log zerolog.Logger) *ReportStore {
	s := &ReportStore{
		client:  client,
		session: sess,
		cache:   c,
		log:     log.With().Str("store", "reports").Logger(),
	}
	s.less = byTimeDesc("created_at")
	s.unsub = sess.Subscribe(func(u *models.User) {
		if u != nil {
			_ = s.Fetch(context.Background())
		} else {
			s.clear()
		}
	})
	return s
}

// Close unsubscribes the store from identity changes.
func (s *ReportStore) Close() {
	if s.unsub != nil {
		s.unsub()
	}
}

// Fetch replaces the collection with the user's reports, newest first.
func (s *ReportStore) Fetch(ctx context.Context) error {
	user := s.session.CurrentUser()
	if user == nil {
		return ErrNotAuthenticated
	}

	s.setLoading(true)
	defer s.setLoading(false)

	rows, err := s.client.SelectRows(ctx, reportsTable, Query{
		Filters: []Filter{Eq("user_id", user.ID)},
		OrderBy: "created_at",
		Desc:    true,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn().Err(err).Msg("fetch reports failed")
		s.setErr(err)
		s.restoreSnapshot(user.ID)
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	items := normalize.Reports(rows)
	s.replace(items)
	s.putSnapshot(user.ID, items)
	return nil
}

// Generate asks the remote procedure to build a new report covering the
// last periodDays days, then refetches the list.
func (s *ReportStore) Generate(ctx context.Context, periodDays int) error {
	if s.session.CurrentUser() == nil {
		return ErrNotAuthenticated
	}
	if periodDays <= 0 {
		periodDays = DefaultReportPeriodDays
	}

	if err := s.client.RPC(ctx, generateReportRPC, map[string]any{"p_period_days": periodDays}, nil); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn().Err(err).Int("period_days", periodDays).Msg("report generation failed")
		s.setErr(err)
		return err
	}
	return s.Fetch(ctx)
}

func (s *ReportStore) putSnapshot(userID string, items []normalize.Record) {
	if s.cache == nil {
		return
	}
	if err := s.cache.PutSnapshot(userID, reportsTable, items); err != nil {
		s.log.Debug().Err(err).Msg("snapshot write failed")
	}
}

func (s *ReportStore) restoreSnapshot(userID string) {
	if s.cache == nil || s.Len() > 0 {
		return
	}
	var items []normalize.Record
	found, err := s.cache.GetSnapshot(userID, reportsTable, &items)
	if err != nil || !found {
		return
	}
	s.restore(items)
}
