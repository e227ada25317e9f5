package models

import (
	"time"
)

// Session is the identity reported by the auth provider.
// A nil *Session means signed out.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Profile represents a row of the profiles table
type Profile struct {
	ID        string  `json:"id" db:"id"`
	Username  string  `json:"username" db:"username"`
	AvatarURL *string `json:"avatar_url,omitempty" db:"avatar_url"`
}

// SessionResponse is the API view of the current session
type SessionResponse struct {
	SignedIn bool     `json:"signed_in"`
	Session  *Session `json:"session,omitempty"`
	Profile  *Profile `json:"profile,omitempty"`
}

// SignInRequest carries an access token issued by the auth provider
type SignInRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

// Preferences are the persisted client preferences
type Preferences struct {
	DarkMode bool `json:"dark_mode"`
}

// DarkModeRequest sets the dark-mode flag
type DarkModeRequest struct {
	DarkMode *bool `json:"dark_mode" binding:"required"`
}
