package users

import "time"

// User represents a registered account.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         *string
	ImageURL     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary is the user shape returned to clients.
type Summary struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Name     *string `json:"name"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

// Summarize maps a User to its client-facing shape.
func (u *User) Summarize() Summary {
	return Summary{ID: u.ID, Email: u.Email, Name: u.Name, ImageURL: u.ImageURL}
}
