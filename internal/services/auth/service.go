package authservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"digesto/internal/models"

	uuid "github.com/satori/go.uuid"
	"golang.org/x/crypto/bcrypt"
)

const pkg = "authService/"

type AuthService struct {
	log           *slog.Logger
	userProvider  UserProvider
	sessionStorer SessionStorer
	adminToken    string
}

func New(
	log *slog.Logger,
	userProvider UserProvider,
	sessionStorer SessionStorer,
	adminToken string,
) *AuthService {
	return &AuthService{
		log:           log,
		userProvider:  userProvider,
		sessionStorer: sessionStorer,
		adminToken:    adminToken,
	}
}

func (a *AuthService) Login(ctx context.Context, email string, password string) (string, error) {
	op := pkg + "Login"

	log := a.log.With(slog.String("op", op))

	log.Debug("attempting to login user")

	user, err := a.userProvider.UserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Info("user not found")
			return "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
		}

		log.Error("failed to get user", slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if !user.Active {
		log.Info("deactivated account rejected", slog.Int("user_id", user.ID))
		return "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials")
		return "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	token := uuid.NewV4().String()

	userJSON, err := json.Marshal(user)
	if err != nil {
		log.Error("failed to marshal user", slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := a.sessionStorer.SaveSession(ctx, token, string(userJSON)); err != nil {
		log.Error("failed to store session", slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("user logged in successfully", slog.Int("user_id", user.ID))

	return token, nil
}

// UserByToken resolves a session token to its account. The configured
// admin token acts as a bootstrap credential for provisioning the first
// accounts and maps to a synthetic user.
func (a *AuthService) UserByToken(ctx context.Context, token string) (*models.User, error) {
	op := pkg + "UserByToken"

	log := a.log.With(slog.String("op", op))

	if a.adminToken != "" && token == a.adminToken {
		return &models.User{ID: 0, Name: "admin", Active: true}, nil
	}

	userJSON, err := a.sessionStorer.GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			log.Warn("session not found")
			return nil, models.ErrInvalidCredentials
		}
		log.Error("failed to get session", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	var user models.User

	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		log.Error("failed to unmarshal session user", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	if !user.Active {
		log.Warn("session of deactivated account rejected", slog.Int("user_id", user.ID))
		return nil, models.ErrInvalidCredentials
	}

	return &user, nil
}

func (a *AuthService) Logout(ctx context.Context, token string) error {
	op := pkg + "Logout"

	log := a.log.With(slog.String("op", op))

	log.Debug("attempting to logout user")

	if err := a.sessionStorer.DeleteSession(ctx, token); err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			log.Warn("session not found")
			return models.ErrSessionNotFound
		}
		log.Error("failed to delete session", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("user logged out successfully")

	return nil
}
