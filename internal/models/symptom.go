// ABOUTME: Symptom model and SymptomType enum for digestive health data.
// ABOUTME: Defines 10 symptom kinds, intensity bounds, and validation.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SymptomType represents the kind of digestive symptom being recorded.
type SymptomType string

const (
	SymptomAbdominalPain SymptomType = "abdominal_pain"
	SymptomBloating      SymptomType = "bloating"
	SymptomGas           SymptomType = "gas"
	SymptomDiarrhea      SymptomType = "diarrhea"
	SymptomConstipation  SymptomType = "constipation"
	SymptomNausea        SymptomType = "nausea"
	SymptomHeartburn     SymptomType = "heartburn"
	SymptomVomiting      SymptomType = "vomiting"
	SymptomCramps        SymptomType = "cramps"
	SymptomOther         SymptomType = "other"
)

// Intensity bounds for a symptom entry, inclusive.
const (
	MinIntensity = 1
	MaxIntensity = 10
)

// AllSymptomTypes returns all valid symptom types.
var AllSymptomTypes = []SymptomType{
	SymptomAbdominalPain, SymptomBloating, SymptomGas,
	SymptomDiarrhea, SymptomConstipation, SymptomNausea,
	SymptomHeartburn, SymptomVomiting, SymptomCramps, SymptomOther,
}

// IsValidSymptomType checks if a string is a valid symptom type.
func IsValidSymptomType(s string) bool {
	for _, st := range AllSymptomTypes {
		if string(st) == s {
			return true
		}
	}
	return false
}

// Symptom represents a single digestive symptom entry.
type Symptom struct {
	ID           string        `json:"id"`
	UserID       string        `json:"user_id"`
	Types        []SymptomType `json:"types"`
	Intensity    int           `json:"intensity"`
	Datetime     time.Time     `json:"datetime"`
	Duration     *string       `json:"duration,omitempty"`
	PainLocation *string       `json:"pain_location,omitempty"`
	Notes        *string       `json:"notes,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewSymptom creates a new Symptom with generated UUID and current timestamps.
func NewSymptom(userID string, types []SymptomType, intensity int) *Symptom {
	now := time.Now().UTC()
	return &Symptom{
		ID:        uuid.NewString(),
		UserID:    userID,
		Types:     types,
		Intensity: intensity,
		Datetime:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithDatetime sets a custom occurrence timestamp.
func (s *Symptom) WithDatetime(t time.Time) *Symptom {
	s.Datetime = t
	return s
}

// WithDuration sets a duration label like "30min" or "2h".
func (s *Symptom) WithDuration(d string) *Symptom {
	s.Duration = &d
	return s
}

// WithPainLocation sets the pain location tag.
func (s *Symptom) WithPainLocation(loc string) *Symptom {
	s.PainLocation = &loc
	return s
}

// WithNotes sets free-text notes on the symptom.
func (s *Symptom) WithNotes(notes string) *Symptom {
	s.Notes = &notes
	return s
}

// Validate checks the symptom invariants before it is sent anywhere.
func (s *Symptom) Validate() error {
	if len(s.Types) == 0 {
		return fmt.Errorf("symptom requires at least one type")
	}
	for _, t := range s.Types {
		if !IsValidSymptomType(string(t)) {
			return fmt.Errorf("unknown symptom type: %s", t)
		}
	}
	if s.Intensity < MinIntensity || s.Intensity > MaxIntensity {
		return fmt.Errorf("intensity must be between %d and %d, got %d", MinIntensity, MaxIntensity, s.Intensity)
	}
	return nil
}
