package models

import "time"

// User holds login credentials. Display attributes live on Profile.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never expose in JSON
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Profile is the public face of a user.
type Profile struct {
	ID        string    `json:"id" db:"id"`
	FullName  string    `json:"fullName" db:"full_name"`
	AvatarURL *string   `json:"avatarUrl,omitempty" db:"avatar_url"`
	Bio       string    `json:"bio" db:"bio"`
	Location  string    `json:"location" db:"location"`
	Role      string    `json:"role" db:"role"`
	Skills    []string  `json:"skills" db:"skills"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ProfileSummary is the slice of a profile embedded in other resources.
type ProfileSummary struct {
	ID        string  `json:"id"`
	FullName  string  `json:"fullName"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Role      string  `json:"role,omitempty"`
}

// ProfileUpdate carries the fields a user may change on their own profile.
type ProfileUpdate struct {
	FullName string
	Bio      string
	Location string
	Role     string
	Skills   []string
}

// Summary converts Profile to ProfileSummary
func (p *Profile) Summary() ProfileSummary {
	return ProfileSummary{
		ID:        p.ID,
		FullName:  p.FullName,
		AvatarURL: p.AvatarURL,
		Role:      p.Role,
	}
}
