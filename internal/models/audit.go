package models

import "time"

// Operation kinds recorded in the audit trail.
const (
	OpCreate     = "CREATE"
	OpUpdate     = "UPDATE"
	OpDelete     = "DELETE"
	OpRegister   = "REGISTER"
	OpModify     = "MODIFY"
	OpDeactivate = "DEACTIVATE"
)

// AuditRecord is one immutable fact: who performed which operation, when,
// and on which document and/or user. Foreign keys are nullable so the
// record outlives the deletion of its subjects; DocumentNumber is
// snapshotted for the same reason.
type AuditRecord struct {
	ID             int       `json:"id"`
	RecordedAt     time.Time `json:"recorded_at"`
	Operation      string    `json:"operation"`
	ActorID        *int      `json:"actor_id,omitempty"`
	DocumentID     *int      `json:"document_id,omitempty"`
	DocumentNumber string    `json:"document_number,omitempty"`
	AffectedUserID *int      `json:"affected_user_id,omitempty"`
}
