package auditrepo

import (
	"context"
	"fmt"

	"digesto/internal/entities"
	"digesto/internal/models"

	"github.com/jmoiron/sqlx"
)

const pkg = "auditRepo/"

// Append inserts one immutable audit record. It takes an ExtContext so
// the append can live inside the same transaction as the mutation it
// describes: both commit or neither does.
func Append(ctx context.Context, q sqlx.ExtContext, rec *models.AuditRecord) error {
	op := pkg + "Append"

	var number any
	if rec.DocumentNumber != "" {
		number = rec.DocumentNumber
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO audit_records (recorded_at, operation, actor_id, document_id, document_number, affected_user_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.RecordedAt, rec.Operation, rec.ActorID, rec.DocumentID, number, rec.AffectedUserID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DetachUser nulls every audit reference to the user, as actor and as
// subject, so the history survives the physical deletion of the account.
// Must run in the same transaction as the user row delete.
func DetachUser(ctx context.Context, q sqlx.ExtContext, userID int) error {
	op := pkg + "DetachUser"

	_, err := q.ExecContext(ctx,
		`UPDATE audit_records SET actor_id = NULL WHERE actor_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = q.ExecContext(ctx,
		`UPDATE audit_records SET affected_user_id = NULL WHERE affected_user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

const selectRecords = `SELECT
	a.id AS id,
	a.recorded_at AS recorded_at,
	a.operation AS operation,
	a.actor_id AS actor_id,
	a.document_id AS document_id,
	a.document_number AS document_number,
	a.affected_user_id AS affected_user_id
	FROM audit_records a`

func (r *repository) List(ctx context.Context) ([]models.AuditRecord, error) {
	op := pkg + "List"

	rows := make([]entities.AuditRecord, 0)

	err := r.db.SelectContext(ctx, &rows, selectRecords+` ORDER BY a.recorded_at DESC, a.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toModels(rows), nil
}

func (r *repository) ByDocument(ctx context.Context, documentID int) ([]models.AuditRecord, error) {
	op := pkg + "ByDocument"

	rows := make([]entities.AuditRecord, 0)

	err := r.db.SelectContext(ctx, &rows,
		selectRecords+` WHERE a.document_id = $1 ORDER BY a.recorded_at DESC, a.id DESC`,
		documentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toModels(rows), nil
}

func (r *repository) ByUser(ctx context.Context, userID int) ([]models.AuditRecord, error) {
	op := pkg + "ByUser"

	rows := make([]entities.AuditRecord, 0)

	err := r.db.SelectContext(ctx, &rows,
		selectRecords+` WHERE a.actor_id = $1 OR a.affected_user_id = $1 ORDER BY a.recorded_at DESC, a.id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toModels(rows), nil
}

func toModels(rows []entities.AuditRecord) []models.AuditRecord {
	records := make([]models.AuditRecord, 0, len(rows))

	for _, row := range rows {
		rec := models.AuditRecord{
			ID:         row.ID,
			RecordedAt: row.RecordedAt,
			Operation:  row.Operation,
		}
		if row.ActorID.Valid {
			id := int(row.ActorID.Int64)
			rec.ActorID = &id
		}
		if row.DocumentID.Valid {
			id := int(row.DocumentID.Int64)
			rec.DocumentID = &id
		}
		if row.DocumentNumber.Valid {
			rec.DocumentNumber = row.DocumentNumber.String
		}
		if row.AffectedUserID.Valid {
			id := int(row.AffectedUserID.Int64)
			rec.AffectedUserID = &id
		}

		records = append(records, rec)
	}

	return records
}
