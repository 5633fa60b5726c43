// ABOUTME: User identity model merging auth metadata with profile rows.
// ABOUTME: Profile fields override auth defaults when present and non-empty.
package models

import "time"

// Gender is the optional biometric sex attribute on a profile.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// User is the authenticated identity and its profile attributes.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Gender    *Gender    `json:"gender,omitempty"`
	Weight    *float64   `json:"weight,omitempty"`
	Height    *float64   `json:"height,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Profile is the remote profile row merged over auth metadata.
type Profile struct {
	FullName  string     `json:"full_name,omitempty"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Gender    *Gender    `json:"gender,omitempty"`
	Weight    *float64   `json:"weight,omitempty"`
	Height    *float64   `json:"height,omitempty"`
}

// MergeProfile applies profile fields over the user, keeping existing values
// where the profile is empty.
func (u *User) MergeProfile(p *Profile) {
	if p == nil {
		return
	}
	if p.FullName != "" {
		u.FullName = p.FullName
	}
	if p.AvatarURL != nil {
		u.AvatarURL = p.AvatarURL
	}
	if p.BirthDate != nil {
		u.BirthDate = p.BirthDate
	}
	if p.Gender != nil {
		u.Gender = p.Gender
	}
	if p.Weight != nil {
		u.Weight = p.Weight
	}
	if p.Height != nil {
		u.Height = p.Height
	}
}
