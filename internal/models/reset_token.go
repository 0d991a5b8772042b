package models

import "time"

// ResetToken authorizes a single password reset without re-authentication.
// Only the SHA-256 hash of the token is ever stored; the plaintext is
// generated once and sent to the user out of band.
type ResetToken struct {
	UserID    string    `json:"userId"`
	TokenHash string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
