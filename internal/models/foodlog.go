// ABOUTME: FoodLog model and MealType enum for food intake entries.
// ABOUTME: Covers the four meal slots with portion and notes metadata.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MealType represents the meal slot a food entry belongs to.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// AllMealTypes returns all valid meal slots.
var AllMealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// IsValidMealType checks if a string is a valid meal slot.
func IsValidMealType(s string) bool {
	for _, mt := range AllMealTypes {
		if string(mt) == s {
			return true
		}
	}
	return false
}

// FoodLog represents a single food intake entry.
type FoodLog struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	FoodName    string    `json:"food_name"`
	FoodID      *string   `json:"food_id,omitempty"`
	MealType    MealType  `json:"meal_type"`
	Datetime    time.Time `json:"datetime"`
	PortionSize *string   `json:"portion_size,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewFoodLog creates a new FoodLog with generated UUID and current timestamps.
func NewFoodLog(userID, foodName string, mealType MealType) *FoodLog {
	now := time.Now().UTC()
	return &FoodLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		FoodName:  foodName,
		MealType:  mealType,
		Datetime:  now,
		CreatedAt: now,
	}
}

// WithDatetime sets a custom occurrence timestamp.
func (f *FoodLog) WithDatetime(t time.Time) *FoodLog {
	f.Datetime = t
	return f
}

// WithPortion sets a portion label like "1 cup" or "200g".
func (f *FoodLog) WithPortion(p string) *FoodLog {
	f.PortionSize = &p
	return f
}

// WithNotes sets free-text notes on the entry.
func (f *FoodLog) WithNotes(notes string) *FoodLog {
	f.Notes = &notes
	return f
}

// Validate checks the food log invariants before it is sent anywhere.
func (f *FoodLog) Validate() error {
	if strings.TrimSpace(f.FoodName) == "" {
		return fmt.Errorf("food log requires a food name")
	}
	if !IsValidMealType(string(f.MealType)) {
		return fmt.Errorf("unknown meal type: %s", f.MealType)
	}
	return nil
}
