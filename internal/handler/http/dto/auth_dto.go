package dto

// LoginRequest starts a session for a blockchain account. The key
// signature is verified client-side against the chain; the server only
// records which method established the identity.
type LoginRequest struct {
	Username   string `json:"username" binding:"required"`
	AuthMethod string `json:"auth_method" binding:"required"`
}

// LogoutRequest invalidates the session carried by the access token. The
// token may also come from the Authorization header.
type LogoutRequest struct {
	AccessToken string `json:"access_token"`
}

// UpdatePreferencesRequest merges preference keys into the stored profile.
type UpdatePreferencesRequest struct {
	Preferences map[string]string `json:"preferences" binding:"required"`
}
