package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity record. PasswordHash never leaves the process.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Avatar       string
	PasswordHash string
	CreatedAt    time.Time
}

// Summary is the read-only part of an identity that profiles expose.
type Summary struct {
	ID     uuid.UUID `json:"_id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

func (u User) Summary() Summary {
	return Summary{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}
