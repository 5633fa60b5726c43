// ABOUTME: Tests for FoodLog model validation and meal types.
// ABOUTME: Covers name requirement and meal slot validation.
package models

import "testing"

func TestFoodLogValidate(t *testing.T) {
	tests := []struct {
		name     string
		foodName string
		mealType MealType
		wantErr  bool
	}{
		{"valid breakfast", "oatmeal", MealBreakfast, false},
		{"valid snack", "apple", MealSnack, false},
		{"empty name", "", MealLunch, true},
		{"whitespace name", "   ", MealDinner, true},
		{"unknown meal", "rice", "brunch", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFoodLog("user-1", tt.foodName, tt.mealType)
			err := f.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAllMealTypesValid(t *testing.T) {
	for _, mt := range AllMealTypes {
		if !IsValidMealType(string(mt)) {
			t.Errorf("expected %s to be valid", mt)
		}
	}
}

func TestUserMergeProfile(t *testing.T) {
	avatar := "https://img.example/a.png"
	u := &User{ID: "u1", Email: "a@b.c", FullName: "From Auth"}

	u.MergeProfile(&Profile{FullName: "From Profile", AvatarURL: &avatar})
	if u.FullName != "From Profile" {
		t.Errorf("FullName = %s, want From Profile", u.FullName)
	}
	if u.AvatarURL == nil || *u.AvatarURL != avatar {
		t.Error("expected avatar to be merged")
	}

	// Empty profile fields keep existing values.
	u.MergeProfile(&Profile{})
	if u.FullName != "From Profile" {
		t.Error("expected empty profile to keep existing name")
	}

	// Nil profile is a no-op.
	u.MergeProfile(nil)
	if u.FullName != "From Profile" {
		t.Error("expected nil profile to keep existing name")
	}
}

func TestDefaultPreferences(t *testing.T) {
	p := DefaultPreferences()
	if !p.NotificationSettings.SymptomReminder {
		t.Error("expected symptom reminders on by default")
	}
	if p.NotificationSettings.DailyTips {
		t.Error("expected daily tips off by default")
	}
	if p.AlertIntensity != AlertMedium {
		t.Errorf("AlertIntensity = %s, want medium", p.AlertIntensity)
	}
	if p.Theme != ThemeLight {
		t.Errorf("Theme = %s, want light", p.Theme)
	}
	if p.DietaryRestrictions == nil || p.Allergies == nil {
		t.Error("expected empty, non-nil tag sets")
	}
}
