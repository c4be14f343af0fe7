package attachmentrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"digesto/internal/entities"
	"digesto/internal/models"

	"github.com/jmoiron/sqlx"
)

const pkg = "attachmentRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, att *models.Attachment) (int, error) {
	op := pkg + "Insert"

	var id int

	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO attachments (document_id, name, path) VALUES ($1, $2, $3) RETURNING id`,
		att.DocumentID, att.Name, att.Path).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *repository) ByID(ctx context.Context, id int) (*models.Attachment, error) {
	op := pkg + "ByID"

	row := entities.Attachment{}

	err := r.db.GetContext(ctx, &row,
		`SELECT a.id AS id, a.document_id AS document_id, a.name AS name, a.path AS path
		FROM attachments a
		WHERE a.id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.NewNotFound("attachment", id))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.Attachment{ID: row.ID, DocumentID: row.DocumentID, Name: row.Name, Path: row.Path}, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	op := pkg + "Delete"

	res, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%s: %w", op, models.NewNotFound("attachment", id))
	}

	return nil
}
