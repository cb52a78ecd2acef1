package models

import "time"

// AuthUser is an identity in the auth store. Password holds the bcrypt hash
// and never leaves the server.
type AuthUser struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password_hash"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Credentials represents the data needed for login.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Registration is the sign-up payload: credentials plus the profile fields a
// new researcher fills in.
type Registration struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	FullName    string  `json:"full_name" validate:"required,max=200"`
	Institution *string `json:"institution"`
	Department  *string `json:"department"`
}
