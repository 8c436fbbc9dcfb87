package model

import "time"

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	DisplayName  *string    `json:"display_name"`
	VerifiedAt   *time.Time `json:"verified_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Verified reports whether the account's email has been verified.
// Mutating bot operations require a verified account.
func (u *User) Verified() bool {
	return u.VerifiedAt != nil
}

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID   string
	Email    string
	Verified bool
}

// JWTClaims is the payload of a session token.
type JWTClaims struct {
	Sub      string `json:"sub"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
	Iat      int64  `json:"iat"`
	Exp      int64  `json:"exp"`
	Iss      string `json:"iss"`
}
