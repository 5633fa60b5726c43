// ABOUTME: Preferences store: one settings record per identity, upserted.
// ABOUTME: A missing record is not an error; defaults apply until first save.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/models"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/normalize"
)

const preferencesTable = "user_preferences"

// PreferencesPatch is a partial preferences update. Nil fields keep their
// current values.
type PreferencesPatch struct {
	DietaryRestrictions  *[]string
	Allergies            *[]string
	NotificationSettings *models.NotificationSettings
	AlertIntensity       *models.AlertIntensity
	Theme                *models.Theme
}

// PreferencesStore owns the settings record for the current identity.
type PreferencesStore struct {
	client  *Client
	session Identity
	log     zerolog.Logger
	unsub   func()

	mu      sync.RWMutex
	prefs   models.Preferences
	loading bool
	err     error
}

// NewPreferencesStore creates the store and subscribes it to identity changes.
func NewPreferencesStore(client *Client, sess Identity, log zerolog.Logger) *PreferencesStore {
	s := &PreferencesStore{
		client:  client,
		session: sess,
		prefs:   models.DefaultPreferences(),
		log:     log.With().Str("store", "preferences").Logger(),
	}
	s.unsub = sess.Subscribe(func(u *models.User) {
		if u != nil {
			_ = s.Fetch(context.Background())
		} else {
			s.reset()
		}
	})
	return s
}

// Close unsubscribes the store from identity changes.
func (s *PreferencesStore) Close() {
	if s.unsub != nil {
		s.unsub()
	}
}

// Preferences returns the current settings.
func (s *PreferencesStore) Preferences() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Loading reports whether a fetch is in flight.
func (s *PreferencesStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last operation error, if any.
func (s *PreferencesStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *PreferencesStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = models.DefaultPreferences()
	s.loading = false
	s.err = nil
}

// Fetch loads the user's settings record. Absence of a record keeps the
// defaults in place without recording an error.
func (s *PreferencesStore) Fetch(ctx context.Context) error {
	user := s.session.CurrentUser()
	if user == nil {
		return ErrNotAuthenticated
	}

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	rows, err := s.client.SelectRows(ctx, preferencesTable, Query{
		Filters: []Filter{Eq("user_id", user.ID)},
		Limit:   1,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn().Err(err).Msg("fetch preferences failed")
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if len(rows) == 0 {
		return nil
	}

	prefs := preferencesFromRecord(rows[0])
	s.mu.Lock()
	s.prefs = prefs
	s.err = nil
	s.mu.Unlock()
	return nil
}

// Update merges the patch over the current settings and upserts the result
// keyed by the identity id. Two updates in a row touch one record.
func (s *PreferencesStore) Update(ctx context.Context, patch PreferencesPatch) (models.Preferences, error) {
	user := s.session.CurrentUser()
	if user == nil {
		return models.Preferences{}, ErrNotAuthenticated
	}

	s.mu.RLock()
	merged := s.prefs
	s.mu.RUnlock()

	if patch.DietaryRestrictions != nil {
		merged.DietaryRestrictions = *patch.DietaryRestrictions
	}
	if patch.Allergies != nil {
		merged.Allergies = *patch.Allergies
	}
	if patch.NotificationSettings != nil {
		merged.NotificationSettings = *patch.NotificationSettings
	}
	if patch.AlertIntensity != nil {
		merged.AlertIntensity = *patch.AlertIntensity
	}
	if patch.Theme != nil {
		merged.Theme = *patch.Theme
	}

	row := normalize.Record{
		"user_id":               user.ID,
		"dietary_restrictions":  merged.DietaryRestrictions,
		"allergies":             merged.Allergies,
		"notification_settings": merged.NotificationSettings,
		"alert_intensity":       string(merged.AlertIntensity),
		"theme":                 string(merged.Theme),
		"updated_at":            time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := s.client.UpsertRow(ctx, preferencesTable, row, "user_id"); err != nil {
		if ctx.Err() != nil {
			return models.Preferences{}, ctx.Err()
		}
		s.log.Warn().Err(err).Msg("update preferences failed")
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return models.Preferences{}, err
	}

	s.mu.Lock()
	s.prefs = merged
	s.err = nil
	s.mu.Unlock()
	return merged, nil
}

func preferencesFromRecord(rec normalize.Record) models.Preferences {
	prefs := models.DefaultPreferences()

	if v, ok := rec["dietary_restrictions"]; ok {
		prefs.DietaryRestrictions = stringSlice(v)
	}
	if v, ok := rec["allergies"]; ok {
		prefs.Allergies = stringSlice(v)
	}
	if v, ok := rec["notification_settings"].(map[string]any); ok {
		ns := prefs.NotificationSettings
		if b, ok := v["symptom_reminder"].(bool); ok {
			ns.SymptomReminder = b
		}
		if b, ok := v["new_insights"].(bool); ok {
			ns.NewInsights = b
		}
		if b, ok := v["reports_ready"].(bool); ok {
			ns.ReportsReady = b
		}
		if b, ok := v["daily_tips"].(bool); ok {
			ns.DailyTips = b
		}
		prefs.NotificationSettings = ns
	}
	if v := recordString(rec, "alert_intensity"); v != "" {
		prefs.AlertIntensity = models.AlertIntensity(v)
	}
	if v := recordString(rec, "theme"); v != "" {
		prefs.Theme = models.Theme(v)
	}
	return prefs
}

func stringSlice(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}
