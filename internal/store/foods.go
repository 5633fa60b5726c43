// ABOUTME: Food store: shared reference foods plus per-user safety statuses.
// ABOUTME: Search and score recomputation go through named remote procedures.
package store

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/cache"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/models"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/normalize"
)

const (
	foodsTable      = "foods"
	foodStatusTable = "user_food_status"

	searchFoodsRPC   = "search_foods"
	updateScoresRPC  = "update_user_food_status_scores"
	searchFoodsLimit = 20
)

// FoodStore owns the shared food list and the per-user safety statuses.
// Foods are reference data and load regardless of identity; statuses are
// identity-scoped like every other collection.
type FoodStore struct {
	collection // the user_food_status records, ordered by safety score

	client  *Client
	session Identity
	cache   *cache.Cache
	log     zerolog.Logger
	unsub   func()

	foodsMu sync.RWMutex
	foods   []models.Food
}

// NewFoodStore creates the store and subscribes it to identity changes.
func NewFoodStore(client *Client, sess Identity, c *cache.Cache, log zerolog.Logger) *FoodStore {
	s := &FoodStore{
		client:  client,
		session: sess,
		cache:   c,
		log:     log.With().Str("store", "foods").Logger(),
	}
	s.less = byFloatDesc("safety_score")
	s.unsub = sess.Subscribe(func(u *models.User) {
		if u != nil {
			_ = s.FetchStatuses(context.Background())
		} else {
			s.clear()
		}
	})
	return s
}

// Close unsubscribes the store from identity changes.
func (s *FoodStore) Close() {
	if s.unsub != nil {
		s.unsub()
	}
}

// Foods returns a copy of the reference food list, name ascending.
func (s *FoodStore) Foods() []models.Food {
	s.foodsMu.RLock()
	defer s.foodsMu.RUnlock()
	out := make([]models.Food, len(s.foods))
	copy(out, s.foods)
	return out
}

// Statuses returns a copy of the per-user food status records.
func (s *FoodStore) Statuses() []normalize.Record {
	return s.Items()
}

// FetchFoods loads the shared food list, ordered by name.
func (s *FoodStore) FetchFoods(ctx context.Context) error {
	rows, err := s.client.SelectRows(ctx, foodsTable, Query{OrderBy: "name"})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn().Err(err).Msg("fetch foods failed")
		s.setErr(err)
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	foods, err := decodeFoods(rows)
	if err != nil {
		s.setErr(err)
		return err
	}
	sort.Slice(foods, func(i, j int) bool {
		return strings.ToLower(foods[i].Name) < strings.ToLower(foods[j].Name)
	})

	s.foodsMu.Lock()
	s.foods = foods
	s.foodsMu.Unlock()
	return nil
}

// FetchStatuses replaces the per-user status collection, including the
// embedded food rows, ordered by safety score descending.
func (s *FoodStore) FetchStatuses(ctx context.Context) error {
	user := s.session.CurrentUser()
	if user == nil {
		return ErrNotAuthenticated
	}

	s.setLoading(true)
	defer s.setLoading(false)

	rows, err := s.client.SelectRows(ctx, foodStatusTable, Query{
		Select:  "*,food:foods(*)",
		Filters: []Filter{Eq("user_id", user.ID)},
		OrderBy: "safety_score",
		Desc:    true,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn().Err(err).Msg("fetch food statuses failed")
		s.setErr(err)
		s.restoreSnapshot(user.ID)
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	items := normalize.UserFoodStatuses(rows)
	s.replace(items)
	s.putSnapshot(user.ID, items)
	return nil
}

// Search looks foods up by term and optional category via the search RPC.
func (s *FoodStore) Search(ctx context.Context, term, category string) ([]models.Food, error) {
	params := map[string]any{
		"p_search_term": term,
		"p_limit":       searchFoodsLimit,
	}
	if category != "" {
		params["p_category"] = category
	}

	var rows []normalize.Record
	if err := s.client.RPC(ctx, searchFoodsRPC, params, &rows); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warn().Err(err).Str("term", term).Msg("food search failed")
		s.setErr(err)
		return nil, err
	}
	return decodeFoods(rows)
}

// RecomputeScores asks the remote aggregation procedure to refresh every
// safety score, then refetches the statuses.
func (s *FoodStore) RecomputeScores(ctx context.Context) error {
	if err := s.client.RPC(ctx, updateScoresRPC, nil, nil); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn().Err(err).Msg("score recompute failed")
		s.setErr(err)
		return err
	}
	return s.FetchStatuses(ctx)
}

func (s *FoodStore) putSnapshot(userID string, items []normalize.Record) {
	if s.cache == nil {
		return
	}
	if err := s.cache.PutSnapshot(userID, foodStatusTable, items); err != nil {
		s.log.Debug().Err(err).Msg("snapshot write failed")
	}
}

func (s *FoodStore) restoreSnapshot(userID string) {
	if s.cache == nil || s.Len() > 0 {
		return
	}
	var items []normalize.Record
	found, err := s.cache.GetSnapshot(userID, foodStatusTable, &items)
	if err != nil || !found {
		return
	}
	s.restore(items)
}

func decodeFoods(rows []normalize.Record) ([]models.Food, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}
	var foods []models.Food
	if err := json.Unmarshal(data, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}
