package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users and their profiles.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (User, error)
	Create(ctx context.Context, user User) (User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (Profile, error)
	UpdateProfileImageURL(ctx context.Context, userID uuid.UUID, imageURL string) error
}

// User represents a stored user account.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Email        string
	CreatedAt    time.Time
}

// Profile is the joined user + profile view returned to the client.
type Profile struct {
	Email           string
	Username        string
	ProfileImageURL *string
}
