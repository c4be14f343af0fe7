package attachmentrepo

import (
	"context"
	"regexp"
	"testing"

	"digesto/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, *repository) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "postgres")
	repo := NewRepository(sqlxDB)
	return sqlxDB, mock, repo
}

func TestInsert_ReturnsID(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	att := &models.Attachment{DocumentID: 42, Name: "budget.pdf", Path: "documents/000/000/042/budget.pdf"}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO attachments (document_id, name, path) VALUES ($1, $2, $3) RETURNING id`)).
		WithArgs(att.DocumentID, att.Name, att.Path).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

	id, err := repo.Insert(context.Background(), att)

	require.NoError(t, err)
	assert.Equal(t, 9, id)
}

func TestByID_NotFound(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	mock.ExpectQuery(`FROM attachments a WHERE a\.id = \$1`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id", "document_id", "name", "path"}))

	_, err := repo.ByID(context.Background(), 99)

	assert.ErrorIs(t, err, models.ErrResourceNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM attachments WHERE id = $1`)).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)

	assert.ErrorIs(t, err, models.ErrResourceNotFound)
}
