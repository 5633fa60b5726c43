// ABOUTME: Food log store: fetch (capped at 50), create, delete.
// ABOUTME: Entries order newest-first by occurrence time.
package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/cache"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/models"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/normalize"
)

const (
	foodLogsTable = "food_logs"
	foodLogsLimit = 50
)

// FoodLogStore owns the food intake entries for the current identity.
type FoodLogStore struct {
	collection
	client  *Client
	session Identity
	cache   *cache.Cache
	log     zerolog.Logger
	unsub   func()
}

// NewFoodLogStore creates the store and subscribes it to identity changes.
func NewFoodLogStore(client *Client, sess Identity, c *cache.Cache, log zerolog.Logger) *FoodLogStore {
	s := &FoodLogStore{
		client:  client,
		session: sess,
		cache:   c,
		log:     log.With().Str("store", "food_logs").Logger(),
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
func (s *FoodLogStore) Close() {
	if s.unsub != nil {
		s.unsub()
	}
}

// Fetch replaces the collection with the user's latest entries.
func (s *FoodLogStore) Fetch(ctx context.Context) error {
	user := s.session.CurrentUser()
	if user == nil {
		return ErrNotAuthenticated
	}

	s.setLoading(true)
	defer s.setLoading(false)

	rows, err := s.client.SelectRows(ctx, foodLogsTable, Query{
		Filters: []Filter{Eq("user_id", user.ID)},
		OrderBy: "datetime",
		Desc:    true,
		Limit:   foodLogsLimit,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn().Err(err).Msg("fetch food logs failed")
		s.setErr(err)
		s.restoreSnapshot(user.ID)
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	items := normalize.FoodLogs(rows)
	s.replace(items)
	s.putSnapshot(user.ID, items)
	return nil
}

// Create validates the entry, inserts it, and merges the normalized server
// response into the collection.
func (s *FoodLogStore) Create(ctx context.Context, fl *models.FoodLog) (normalize.Record, error) {
	user := s.session.CurrentUser()
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	fl.UserID = user.ID
	if err := fl.Validate(); err != nil {
		return nil, err
	}

	stored, err := s.client.InsertRow(ctx, foodLogsTable, foodLogRow(fl))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warn().Err(err).Msg("create food log failed")
		s.setErr(err)
		return nil, err
	}

	rec := normalize.FoodLog(stored)
	s.insert(rec)
	s.putSnapshot(user.ID, s.Items())
	return rec, nil
}

// Delete removes an entry remotely, then locally.
func (s *FoodLogStore) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteRow(ctx, foodLogsTable, id); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn().Err(err).Str("id", id).Msg("delete food log failed")
		s.setErr(err)
		return err
	}

	s.removeByID(id)
	if user := s.session.CurrentUser(); user != nil {
		s.putSnapshot(user.ID, s.Items())
	}
	return nil
}

func (s *FoodLogStore) putSnapshot(userID string, items []normalize.Record) {
	if s.cache == nil {
		return
	}
	if err := s.cache.PutSnapshot(userID, foodLogsTable, items); err != nil {
		s.log.Debug().Err(err).Msg("snapshot write failed")
	}
}

func (s *FoodLogStore) restoreSnapshot(userID string) {
	if s.cache == nil || s.Len() > 0 {
		return
	}
	var items []normalize.Record
	found, err := s.cache.GetSnapshot(userID, foodLogsTable, &items)
	if err != nil || !found {
		return
	}
	s.restore(items)
}

// foodLogRow maps a validated entry to the remote naming convention.
func foodLogRow(fl *models.FoodLog) normalize.Record {
	row := normalize.Record{
		"id":        fl.ID,
		"user_id":   fl.UserID,
		"food_name": fl.FoodName,
		"meal_type": string(fl.MealType),
		"datetime":  fl.Datetime.UTC().Format(time.RFC3339),
	}
	if fl.FoodID != nil {
		row["food_id"] = *fl.FoodID
	}
	if fl.PortionSize != nil {
		row["portion_size"] = *fl.PortionSize
	}
	if fl.Notes != nil {
		row["notes"] = *fl.Notes
	}
	return row
}
