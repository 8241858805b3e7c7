package models

import "time"

// RefreshToken is a persisted session credential. Token is the opaque
// string handed to the client and doubles as the lookup key.
//
// ExpiresIn is the lifetime label the token was issued with ("30d").
// ExpiresAt lets stores expire or prune records; rotation does not consult it.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresIn string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
