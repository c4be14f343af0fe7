package userservice

import (
	"context"

	"digesto/internal/models"
)

type UserRepository interface {
	AddUser(ctx context.Context, user *models.User, rec *models.AuditRecord) (int, error)
	UpdateUser(ctx context.Context, user *models.User, rec *models.AuditRecord) error
	DeleteUser(ctx context.Context, id int) error
	UserByID(ctx context.Context, id int) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}
