// ABOUTME: Tests for Symptom model validation and construction.
// ABOUTME: Covers intensity bounds, type set rules, and builders.
package models

import (
	"testing"
	"time"
)

func TestNewSymptom(t *testing.T) {
	s := NewSymptom("user-1", []SymptomType{SymptomBloating}, 5)

	if s.ID == "" {
		t.Error("expected ID to be set")
	}
	if s.UserID != "user-1" {
		t.Errorf("UserID = %s, want user-1", s.UserID)
	}
	if s.Intensity != 5 {
		t.Errorf("Intensity = %d, want 5", s.Intensity)
	}
	if s.Datetime.IsZero() {
		t.Error("expected Datetime to be set")
	}
	if s.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestSymptomValidateIntensity(t *testing.T) {
	tests := []struct {
		name      string
		intensity int
		wantErr   bool
	}{
		{"below minimum", 0, true},
		{"at minimum", 1, false},
		{"middle", 5, false},
		{"at maximum", 10, false},
		{"above maximum", 11, true},
		{"negative", -3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSymptom("user-1", []SymptomType{SymptomGas}, tt.intensity)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSymptomValidateTypes(t *testing.T) {
	tests := []struct {
		name    string
		types   []SymptomType
		wantErr bool
	}{
		{"empty set", []SymptomType{}, true},
		{"nil set", nil, true},
		{"single valid", []SymptomType{SymptomNausea}, false},
		{"multiple valid", []SymptomType{SymptomCramps, SymptomDiarrhea}, false},
		{"unknown type", []SymptomType{"migraine"}, true},
		{"mixed valid and unknown", []SymptomType{SymptomGas, "migraine"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSymptom("user-1", tt.types, 5)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSymptomBuilders(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	s := NewSymptom("user-1", []SymptomType{SymptomHeartburn}, 7).
		WithDatetime(at).
		WithDuration("2h").
		WithPainLocation("upper abdomen").
		WithNotes("after coffee")

	if !s.Datetime.Equal(at) {
		t.Errorf("Datetime = %v, want %v", s.Datetime, at)
	}
	if s.Duration == nil || *s.Duration != "2h" {
		t.Error("expected duration to be 2h")
	}
	if s.PainLocation == nil || *s.PainLocation != "upper abdomen" {
		t.Error("expected pain location to be set")
	}
	if s.Notes == nil || *s.Notes != "after coffee" {
		t.Error("expected notes to be set")
	}
}

func TestIsValidSymptomType(t *testing.T) {
	for _, st := range AllSymptomTypes {
		if !IsValidSymptomType(string(st)) {
			t.Errorf("expected %s to be valid", st)
		}
	}
	if IsValidSymptomType("headache") {
		t.Error("expected headache to be invalid")
	}
	if IsValidSymptomType("") {
		t.Error("expected empty string to be invalid")
	}
}
