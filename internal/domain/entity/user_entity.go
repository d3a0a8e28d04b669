package entity

import (
	"time"
)

// User is the aggregate root for the credential lifecycle.
// Password holds the bcrypt hash and is never serialized.
// VerificationToken is empty once the email address is verified.
type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Password          string    `json:"-"`
	Name              string    `json:"name"`
	IsVerified        bool      `json:"verified"`
	VerificationToken string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// MarkVerified moves the user into the verified state and drops the token.
func (u *User) MarkVerified() {
	u.IsVerified = true
	u.VerificationToken = ""
}
