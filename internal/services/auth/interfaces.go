package authservice

import (
	"context"

	"digesto/internal/models"
)

type UserProvider interface {
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

type SessionStorer interface {
	SaveSession(ctx context.Context, token string, userJSON string) error
	DeleteSession(ctx context.Context, token string) error
	GetUserByToken(ctx context.Context, token string) (string, error)
}
