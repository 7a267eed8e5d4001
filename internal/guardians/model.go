package guardians

import "time"

// MaxGuardiansPerUser caps how many guardians one user may register.
const MaxGuardiansPerUser = 3

// Guardian is a trusted contact registered by a user to receive
// emergency notifications.
type Guardian struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Relationship string    `json:"relationship"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Fields carries the caller-editable guardian attributes. Ownership and the
// active flag are never set through this struct.
type Fields struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}
