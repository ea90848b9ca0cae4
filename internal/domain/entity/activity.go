package entity

import "time"

// Activity is one logged user action (page view, login, merge, ...).
type Activity struct {
	ID        string            `bson:"_id,omitempty" json:"id"`
	Username  string            `bson:"username" json:"username"`
	Type      string            `bson:"type" json:"type"`
	Details   map[string]string `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
}
