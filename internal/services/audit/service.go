package auditservice

import (
	"context"
	"fmt"
	"log/slog"

	"digesto/internal/models"
)

const pkg = "auditService/"

// AuditService exposes the registry's audit trail. Records are append
// only; the service never mutates them.
type AuditService struct {
	log      *slog.Logger
	provider AuditProvider
}

func New(log *slog.Logger, provider AuditProvider) *AuditService {
	return &AuditService{log: log, provider: provider}
}

func (as *AuditService) List(ctx context.Context) ([]models.AuditRecord, error) {
	op := pkg + "List"

	log := as.log.With(slog.String("op", op))

	records, err := as.provider.List(ctx)
	if err != nil {
		log.Error("failed to list audit records", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return records, nil
}

func (as *AuditService) ByDocument(ctx context.Context, documentID int) ([]models.AuditRecord, error) {
	op := pkg + "ByDocument"

	log := as.log.With(slog.String("op", op), slog.Int("doc_id", documentID))

	records, err := as.provider.ByDocument(ctx, documentID)
	if err != nil {
		log.Error("failed to get document audit trail", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return records, nil
}

func (as *AuditService) ByUser(ctx context.Context, userID int) ([]models.AuditRecord, error) {
	op := pkg + "ByUser"

	log := as.log.With(slog.String("op", op), slog.Int("user_id", userID))

	records, err := as.provider.ByUser(ctx, userID)
	if err != nil {
		log.Error("failed to get user audit trail", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return records, nil
}
