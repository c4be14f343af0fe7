package userservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"digesto/internal/dto"
	"digesto/internal/models"
	"digesto/internal/validator"

	"golang.org/x/crypto/bcrypt"
)

const pkg = "userService/"

type UserService struct {
	log  *slog.Logger
	repo UserRepository
}

func New(log *slog.Logger, repo UserRepository) *UserService {
	return &UserService{log: log, repo: repo}
}

func (us *UserService) Register(ctx context.Context, req dto.RegisterUserRequest, actorID int) (*models.User, error) {
	op := pkg + "Register"

	log := us.log.With(slog.String("op", op))

	log.Debug("attempting to register user", slog.String("email", req.Email))

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(strings.ToLower(req.Email))

	if !validator.IsValidName(name) || !validator.IsValidEmail(email) || !validator.IsValidPassword(req.Password) {
		log.Warn("invalid register request")
		return nil, models.ErrInvalidParams
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Active:   true,
		PassHash: passHash,
	}

	rec := newRecord(models.OpRegister, actorID)

	id, err := us.repo.AddUser(ctx, user, rec)
	if err != nil {
		var uce *models.UniqueConstraintError
		if errors.As(err, &uce) {
			log.Warn("user already exists", slog.String("constraint", uce.Constraint))
			return nil, models.NewDuplicate("email", email)
		}
		log.Error("failed to add user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	user.ID = id

	log.Debug("user registered successfully", slog.Int("user_id", id))

	return user, nil
}

func (us *UserService) Modify(ctx context.Context, id int, req dto.UpdateUserRequest, actorID int) (*models.User, error) {
	op := pkg + "Modify"

	log := us.log.With(slog.String("op", op), slog.Int("user_id", id))

	log.Debug("attempting to modify user")

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(strings.ToLower(req.Email))

	if !validator.IsValidName(name) || !validator.IsValidEmail(email) {
		log.Warn("invalid modify request")
		return nil, models.ErrInvalidParams
	}

	user, err := us.userByID(ctx, log, id)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Email = email

	rec := newRecord(models.OpModify, actorID)

	if err := us.repo.UpdateUser(ctx, user, rec); err != nil {
		var uce *models.UniqueConstraintError
		if errors.As(err, &uce) {
			log.Warn("email already taken", slog.String("constraint", uce.Constraint))
			return nil, models.NewDuplicate("email", email)
		}
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, err
		}
		log.Error("failed to update user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("user modified successfully")

	return user, nil
}

// Deactivate keeps the account row so past audit records keep their
// actor, it only blocks further logins.
func (us *UserService) Deactivate(ctx context.Context, id int, actorID int) error {
	op := pkg + "Deactivate"

	log := us.log.With(slog.String("op", op), slog.Int("user_id", id))

	log.Debug("attempting to deactivate user")

	user, err := us.userByID(ctx, log, id)
	if err != nil {
		return err
	}

	user.Active = false

	rec := newRecord(models.OpDeactivate, actorID)

	if err := us.repo.UpdateUser(ctx, user, rec); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return err
		}
		log.Error("failed to deactivate user", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("user deactivated successfully")

	return nil
}

// Delete removes the account entirely. Audit records that named it as
// actor or subject survive with those references nulled out.
func (us *UserService) Delete(ctx context.Context, id int) error {
	op := pkg + "Delete"

	log := us.log.With(slog.String("op", op), slog.Int("user_id", id))

	log.Debug("attempting to delete user")

	if err := us.repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Warn("user not found")
			return err
		}
		log.Error("failed to delete user", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("user deleted successfully")

	return nil
}

func (us *UserService) UserByID(ctx context.Context, id int) (*models.User, error) {
	op := pkg + "UserByID"

	log := us.log.With(slog.String("op", op), slog.Int("user_id", id))

	return us.userByID(ctx, log, id)
}

func (us *UserService) userByID(ctx context.Context, log *slog.Logger, id int) (*models.User, error) {
	user, err := us.repo.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Warn("user not found")
			return nil, models.ErrUserNotFound
		}
		log.Error("failed to get user by id", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	return user, nil
}

func newRecord(operation string, actorID int) *models.AuditRecord {
	rec := &models.AuditRecord{
		RecordedAt: time.Now(),
		Operation:  operation,
	}

	// The bootstrap admin token resolves to a synthetic user with id 0
	// that has no users row; its actions are recorded without an actor.
	if actorID != 0 {
		rec.ActorID = &actorID
	}

	return rec
}
