package models

import "time"

// User is a registered identity. PasswordHash holds the bcrypt digest,
// never the plaintext.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName is the name shown to clients: first and last name joined by a space.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}
