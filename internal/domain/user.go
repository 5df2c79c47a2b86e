package domain

import (
	"time"
)

// User is a registered member who can post donations.
type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`    // Unique
	PasswordHash string    `bson:"passwordHash" json:"-"` // Never exposed via JSON
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CurrentUser is the slice of identity the donation form needs to prefill donor fields.
type CurrentUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Current projects a User onto the identity exposed to clients.
func (u *User) Current() CurrentUser {
	return CurrentUser{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}
