package auditrepo

import (
	"context"
	"regexp"
	"testing"
	"time"

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

func TestAppend_Success(t *testing.T) {
	t.Parallel()

	db, mock, _ := setup(t)
	defer db.Close()

	actorID := 7
	docID := 42

	rec := &models.AuditRecord{
		RecordedAt:     time.Now(),
		Operation:      models.OpDelete,
		ActorID:        &actorID,
		DocumentID:     &docID,
		DocumentNumber: "ORD-12-2024",
	}

	mock.ExpectExec(`INSERT INTO audit_records`).
		WithArgs(rec.RecordedAt, models.OpDelete, 7, 42, "ORD-12-2024", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := Append(context.Background(), db, rec)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_NumberSnapshotNullWhenEmpty(t *testing.T) {
	t.Parallel()

	db, mock, _ := setup(t)
	defer db.Close()

	actorID := 7
	userID := 3

	rec := &models.AuditRecord{
		RecordedAt:     time.Now(),
		Operation:      models.OpRegister,
		ActorID:        &actorID,
		AffectedUserID: &userID,
	}

	mock.ExpectExec(`INSERT INTO audit_records`).
		WithArgs(rec.RecordedAt, models.OpRegister, 7, nil, nil, 3).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := Append(context.Background(), db, rec)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDetachUser_NullsBothRoles(t *testing.T) {
	t.Parallel()

	db, mock, _ := setup(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE audit_records SET actor_id = NULL WHERE actor_id = $1`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE audit_records SET affected_user_id = NULL WHERE affected_user_id = $1`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := DetachUser(context.Background(), db, 3)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_OrdersNewestFirst(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectQuery(`FROM audit_records a ORDER BY a\.recorded_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "recorded_at", "operation", "actor_id", "document_id", "document_number", "affected_user_id",
		}).
			AddRow(2, now, models.OpDelete, 7, nil, "ORD-12-2024", nil).
			AddRow(1, now.Add(-time.Hour), models.OpCreate, 7, 42, "ORD-12-2024", nil))

	records, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)

	// The deletion record keeps naming the document through the number
	// snapshot even though its id reference is gone.
	assert.Equal(t, models.OpDelete, records[0].Operation)
	assert.Nil(t, records[0].DocumentID)
	assert.Equal(t, "ORD-12-2024", records[0].DocumentNumber)

	require.NotNil(t, records[1].DocumentID)
	assert.Equal(t, 42, *records[1].DocumentID)
}

func TestByDocument_FiltersByID(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE a.document_id = $1`)).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "recorded_at", "operation", "actor_id", "document_id", "document_number", "affected_user_id",
		}).AddRow(1, time.Now(), models.OpCreate, 7, 42, "ORD-12-2024", nil))

	records, err := repo.ByDocument(context.Background(), 42)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.OpCreate, records[0].Operation)
}

func TestByUser_MatchesActorAndSubject(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE a.actor_id = $1 OR a.affected_user_id = $1`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "recorded_at", "operation", "actor_id", "document_id", "document_number", "affected_user_id",
		}).
			AddRow(2, time.Now(), models.OpModify, 1, nil, nil, 7).
			AddRow(1, time.Now(), models.OpCreate, 7, 42, "ORD-12-2024", nil))

	records, err := repo.ByUser(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, records, 2)
	require.NotNil(t, records[0].AffectedUserID)
	assert.Equal(t, 7, *records[0].AffectedUserID)
}
