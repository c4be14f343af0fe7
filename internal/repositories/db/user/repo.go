package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"digesto/internal/entities"
	"digesto/internal/models"
	auditrepo "digesto/internal/repositories/db/audit"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "userRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) AddUser(ctx context.Context, user *models.User, rec *models.AuditRecord) (int, error) {
	op := pkg + "AddUser"

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	var id int

	err = tx.QueryRowxContext(ctx,
		`INSERT INTO users (name, email, active, pass_hash) VALUES ($1, $2, $3, $4) RETURNING id`,
		user.Name, user.Email, user.Active, user.PassHash).Scan(&id)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return 0, &models.UniqueConstraintError{
				Constraint: pgErr.Constraint,
				Err:        models.ErrUNIQUEConstraintFailed,
			}
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	rec.AffectedUserID = &id

	if err := auditrepo.Append(ctx, tx, rec); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *repository) UpdateUser(ctx context.Context, user *models.User, rec *models.AuditRecord) error {
	op := pkg + "UpdateUser"

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET name = $1, email = $2, active = $3 WHERE id = $4`,
		user.Name, user.Email, user.Active, user.ID)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return &models.UniqueConstraintError{
				Constraint: pgErr.Constraint,
				Err:        models.ErrUNIQUEConstraintFailed,
			}
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}

	rec.AffectedUserID = &user.ID

	if err := auditrepo.Append(ctx, tx, rec); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeleteUser removes the account after nulling every audit reference to
// it. Audit history must survive subject deletion, so the detach and the
// row delete commit together.
func (r *repository) DeleteUser(ctx context.Context, id int) error {
	op := pkg + "DeleteUser"

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	if err := auditrepo.DetachUser(ctx, tx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) UserByID(ctx context.Context, id int) (*models.User, error) {
	op := pkg + "UserByID"

	rawUser := entities.User{}

	err := r.db.GetContext(ctx, &rawUser,
		`SELECT
			u.id AS id,
			u.name AS name,
			u.email AS email,
			u.active AS active,
			u.pass_hash AS pass_hash
		FROM users u
		WHERE u.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toUser(rawUser), nil
}

func (r *repository) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	op := pkg + "UserByEmail"

	rawUser := entities.User{}

	err := r.db.GetContext(ctx, &rawUser,
		`SELECT
			u.id AS id,
			u.name AS name,
			u.email AS email,
			u.active AS active,
			u.pass_hash AS pass_hash
		FROM users u
		WHERE u.email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toUser(rawUser), nil
}

func toUser(raw entities.User) *models.User {
	return &models.User{
		ID:       raw.ID,
		Name:     raw.Name,
		Email:    raw.Email,
		Active:   raw.Active,
		PassHash: raw.PassHash,
	}
}
