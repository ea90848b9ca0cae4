package entity

import "time"

// AuthMethod identifies how a session was established.
type AuthMethod string

const (
	AuthMethodKeychain AuthMethod = "keychain"
	AuthMethodHiveAuth AuthMethod = "hiveauth"
	AuthMethodDemo     AuthMethod = "demo"
)

// Session is a server-side login session for a blockchain account.
type Session struct {
	ID         string     `bson:"_id" json:"id"`
	Username   string     `bson:"username" json:"username"`
	AuthMethod AuthMethod `bson:"auth_method" json:"auth_method"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	ExpiresAt  time.Time  `bson:"expires_at" json:"expires_at"`
}

// Expired reports whether the session is past its expiry time.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Claims carries the identity extracted from a verified access token.
type Claims struct {
	SessionID string
	Username  string
}
