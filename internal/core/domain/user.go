package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Every user owns exactly one wallet,
// created together with the user at registration.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // argon2id, never exposed
	CreatedAt    time.Time `json:"created_at"`
}
