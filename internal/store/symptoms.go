// ABOUTME: Symptom store: fetch, create, update, delete against the remote store.
// ABOUTME: Validates locally before any network call; normalizes both ways.
package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/cache"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/models"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/normalize"
)

const symptomsTable = "symptoms"

// SymptomStore owns the symptom collection for the current identity.
type SymptomStore struct {
	collection
	client  *Client
	session Identity
	cache   *cache.Cache
	log     zerolog.Logger
	unsub   func()
}

// NewSymptomStore creates the store and subscribes it to identity changes:
// a fetch on login, a clear on logout.
func NewSymptomStore(client *Client, sess Identity, c *cache.Cache, log zerolog.Logger) *SymptomStore {
	s := &SymptomStore{
		client:  client,
		session: sess,
		cache:   c,
		log:     log.With().Str("store", "symptoms").Logger(),
	}
	s.less = byTimeDesc("datetime")
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
func (s *SymptomStore) Close() {
	if s.unsub != nil {
		s.unsub()
	}
}

// Fetch replaces the collection with the user's symptoms, newest first.
// On failure the previous items stay in place and the error slot is set;
// with an empty collection the cached snapshot is restored instead.
func (s *SymptomStore) Fetch(ctx context.Context) error {
	user := s.session.CurrentUser()
	if user == nil {
		return ErrNotAuthenticated
	}

	s.setLoading(true)
	defer s.setLoading(false)

	rows, err := s.client.SelectRows(ctx, symptomsTable, Query{
		Filters: []Filter{Eq("user_id", user.ID)},
		OrderBy: "datetime",
		Desc:    true,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn().Err(err).Msg("fetch symptoms failed")
		s.setErr(err)
		s.restoreSnapshot(user.ID)
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	items := normalize.Symptoms(rows)
	s.replace(items)
	s.putSnapshot(user.ID, items)
	return nil
}

// Create validates the symptom, inserts it, and merges the normalized
// server response into the collection in canonical order.
func (s *SymptomStore) Create(ctx context.Context, sym *models.Symptom) (normalize.Record, error) {
	user := s.session.CurrentUser()
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	sym.UserID = user.ID
	if err := sym.Validate(); err != nil {
		return nil, err
	}

	stored, err := s.client.InsertRow(ctx, symptomsTable, symptomRow(sym))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warn().Err(err).Msg("create symptom failed")
		s.setErr(err)
		return nil, err
	}

	rec := normalize.Symptom(stored)
	s.insert(rec)
	s.putSnapshot(user.ID, s.Items())
	return rec, nil
}

// Update patches a symptom by id and replaces the matching local record.
// Local state is untouched on failure.
func (s *SymptomStore) Update(ctx context.Context, id string, patch normalize.Record) (normalize.Record, error) {
	stored, err := s.client.UpdateRow(ctx, symptomsTable, id, patch)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warn().Err(err).Str("id", id).Msg("update symptom failed")
		s.setErr(err)
		return nil, err
	}

	rec := normalize.Symptom(stored)
	s.replaceByID(id, rec)
	if user := s.session.CurrentUser(); user != nil {
		s.putSnapshot(user.ID, s.Items())
	}
	return rec, nil
}

// Delete removes a symptom remotely, then locally.
func (s *SymptomStore) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteRow(ctx, symptomsTable, id); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn().Err(err).Str("id", id).Msg("delete symptom failed")
		s.setErr(err)
		return err
	}

	s.removeByID(id)
	if user := s.session.CurrentUser(); user != nil {
		s.putSnapshot(user.ID, s.Items())
	}
	return nil
}

func (s *SymptomStore) putSnapshot(userID string, items []normalize.Record) {
	if s.cache == nil {
		return
	}
	if err := s.cache.PutSnapshot(userID, symptomsTable, items); err != nil {
		s.log.Debug().Err(err).Msg("snapshot write failed")
	}
}

func (s *SymptomStore) restoreSnapshot(userID string) {
	if s.cache == nil || s.Len() > 0 {
		return
	}
	var items []normalize.Record
	found, err := s.cache.GetSnapshot(userID, symptomsTable, &items)
	if err != nil || !found {
		return
	}
	s.restore(items)
}

// symptomRow maps a validated symptom to the remote naming convention.
func symptomRow(sym *models.Symptom) normalize.Record {
	row := normalize.Record{
		"id":        sym.ID,
		"user_id":   sym.UserID,
		"types":     sym.Types,
		"intensity": sym.Intensity,
		"datetime":  sym.Datetime.UTC().Format(time.RFC3339),
	}
	if sym.Duration != nil {
		row["duration"] = *sym.Duration
	}
	if sym.PainLocation != nil {
		row["pain_location"] = *sym.PainLocation
	}
	if sym.Notes != nil {
		row["notes"] = *sym.Notes
	}
	return row
}
