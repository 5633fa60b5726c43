// ABOUTME: Food reference data and per-user food safety status.
// ABOUTME: Food rows are shared; UserFoodStatus links a user to a food with a score.
package models

import "time"

// FoodStatus is the tri-state safety classification for a food.
type FoodStatus string

const (
	FoodSafe     FoodStatus = "safe"
	FoodModerate FoodStatus = "moderate"
	FoodAvoid    FoodStatus = "avoid"
)

// AllFoodStatuses returns all valid safety classifications.
var AllFoodStatuses = []FoodStatus{FoodSafe, FoodModerate, FoodAvoid}

// IsValidFoodStatus checks if a string is a valid safety classification.
func IsValidFoodStatus(s string) bool {
	for _, fs := range AllFoodStatuses {
		if string(fs) == s {
			return true
		}
	}
	return false
}

// Food is a shared reference food, not owned by any user.
type Food struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	CommonAllergens []string `json:"common_allergens,omitempty"`
	ImageURL        *string  `json:"image_url,omitempty"`
}

// UserFoodStatus links a user to a food with an AI-maintained safety score.
// Scores are recomputed server-side; the client never writes them directly.
type UserFoodStatus struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	FoodID      string     `json:"food_id"`
	Food        *Food      `json:"food,omitempty"`
	Status      FoodStatus `json:"status"`
	SafetyScore int        `json:"safety_score"`
	AINotes     *string    `json:"ai_notes,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
