package model

import "github.com/google/uuid"

// Claims is the identity payload carried by an auth token.
type Claims struct {
	UserID   uuid.UUID
	Username string
}

// TokenManager issues and verifies signed auth tokens.
type TokenManager interface {
	Issue(userID uuid.UUID, username string) (string, error)
	Verify(tokenString string) (Claims, error)
}
