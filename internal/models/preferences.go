// ABOUTME: UserPreferences model with notification, alert, and theme settings.
// ABOUTME: One record per user, upserted; absence means defaults apply.
package models

// AlertIntensity controls how aggressively the app surfaces alerts.
type AlertIntensity string

const (
	AlertHigh   AlertIntensity = "high"
	AlertMedium AlertIntensity = "medium"
	AlertLow    AlertIntensity = "low"
)

// Theme is the UI color scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// NotificationSettings holds the four independent notification toggles.
type NotificationSettings struct {
	SymptomReminder bool `json:"symptom_reminder"`
	NewInsights     bool `json:"new_insights"`
	ReportsReady    bool `json:"reports_ready"`
	DailyTips       bool `json:"daily_tips"`
}

// Preferences is the per-user settings record.
type Preferences struct {
	DietaryRestrictions  []string             `json:"dietary_restrictions"`
	Allergies            []string             `json:"allergies"`
	NotificationSettings NotificationSettings `json:"notification_settings"`
	AlertIntensity       AlertIntensity       `json:"alert_intensity"`
	Theme                Theme                `json:"theme"`
}

// DefaultPreferences returns the settings used when no record exists yet.
func DefaultPreferences() Preferences {
	return Preferences{
		DietaryRestrictions: []string{},
		Allergies:           []string{},
		NotificationSettings: NotificationSettings{
			SymptomReminder: true,
			NewInsights:     true,
			ReportsReady:    true,
			DailyTips:       false,
		},
		AlertIntensity: AlertMedium,
		Theme:          ThemeLight,
	}
}
