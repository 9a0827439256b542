package models

import (
	"time"
)

// Stats tracks a user's journaling activity. LongestStreak never drops
// below Streak after an update and none of the counters ever decrease.
type Stats struct {
	TotalEntries  int        `bson:"totalEntries" json:"totalEntries"`
	Streak        int        `bson:"streak" json:"streak"`
	LongestStreak int        `bson:"longestStreak" json:"longestStreak"`
	LastEntryDate *time.Time `bson:"lastEntryDate,omitempty" json:"lastEntryDate,omitempty"`
}

// Profile defines a user profile entity. ID equals the auth provider's
// user id, so the profiles collection is keyed by identity rather than
// by a generated ObjectID.
type Profile struct {
	ID           string   `bson:"_id" json:"id"`
	Name         string   `bson:"name" json:"name"`
	Email        string   `bson:"email" json:"email"`
	Bio          string   `bson:"bio" json:"bio"`
	Goals        []string `bson:"goals" json:"goals"`
	Stats        Stats    `bson:"stats" json:"stats"`
	Achievements []string `bson:"achievements" json:"achievements"`
}

// NewProfile builds the initial profile record created at registration.
func NewProfile(id, name, email string) *Profile {
	return &Profile{
		ID:           id,
		Name:         name,
		Email:        email,
		Bio:          "",
		Goals:        []string{},
		Stats:        Stats{},
		Achievements: []string{},
	}
}

// AuthUser is the identity returned by the auth provider.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Session is an authenticated session as reported by the auth provider.
type Session struct {
	User        AuthUser  `json:"user"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
