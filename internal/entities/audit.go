package entities

import (
	"database/sql"
	"time"
)

type AuditRecord struct {
	ID             int            `db:"id"`
	RecordedAt     time.Time      `db:"recorded_at"`
	Operation      string         `db:"operation"`
	ActorID        sql.NullInt64  `db:"actor_id"`
	DocumentID     sql.NullInt64  `db:"document_id"`
	DocumentNumber sql.NullString `db:"document_number"`
	AffectedUserID sql.NullInt64  `db:"affected_user_id"`
}
