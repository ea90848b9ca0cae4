package entity

import "time"

// User represents a known blockchain account with locally stored preferences.
// Authentication happens against the user's blockchain keys on the client;
// we only keep profile and preference state here.
type User struct {
	ID          string            `bson:"_id,omitempty" json:"id"`
	Username    string            `bson:"username" json:"username"`
	DisplayName *string           `bson:"display_name,omitempty" json:"display_name,omitempty"`
	About       *string           `bson:"about,omitempty" json:"about,omitempty"`
	AvatarURL   *string           `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	Preferences map[string]string `bson:"preferences,omitempty" json:"preferences,omitempty"`
	CreatedAt   time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `bson:"updated_at" json:"updated_at"`
	LastLoginAt *time.Time        `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
}
