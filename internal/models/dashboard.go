// ABOUTME: DashboardStats aggregate returned by the stats RPC or its fallback.
// ABOUTME: Both paths must produce this exact shape so callers stay agnostic.
package models

// DashboardStats is the home-screen aggregate for one user.
type DashboardStats struct {
	TotalSymptoms       int     `json:"total_symptoms"`
	AvgIntensity        float64 `json:"avg_intensity"`
	SafeFoods           int     `json:"safe_foods"`
	ModerateFoods       int     `json:"moderate_foods"`
	AvoidFoods          int     `json:"avoid_foods"`
	LatestReport        *Report `json:"latest_report,omitempty"`
	UnreadInsights      int     `json:"unread_insights"`
	UnreadNotifications int     `json:"unread_notifications"`
}
