package users

import (
	"context"

	"digesto/internal/dto"
	"digesto/internal/models"
)

const pkg = "handlers/users/"

type UserService interface {
	Register(ctx context.Context, req dto.RegisterUserRequest, actorID int) (*models.User, error)
	Modify(ctx context.Context, id int, req dto.UpdateUserRequest, actorID int) (*models.User, error)
	Deactivate(ctx context.Context, id int, actorID int) error
	Delete(ctx context.Context, id int) error
	UserByID(ctx context.Context, id int) (*models.User, error)
}
