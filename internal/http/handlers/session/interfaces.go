package session

import "context"

const pkg = "handlers/session/"

type AuthService interface {
	Login(ctx context.Context, email string, password string) (string, error)
	Logout(ctx context.Context, token string) error
}
