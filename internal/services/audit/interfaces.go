package auditservice

import (
	"context"

	"digesto/internal/models"
)

type AuditProvider interface {
	List(ctx context.Context) ([]models.AuditRecord, error)
	ByDocument(ctx context.Context, documentID int) ([]models.AuditRecord, error)
	ByUser(ctx context.Context, userID int) ([]models.AuditRecord, error)
}
