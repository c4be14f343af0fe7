package catalogservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"digesto/internal/models"
	"digesto/internal/validator"
)

const pkg = "catalogService/"

// CatalogService manages the lookup tables documents are classified by.
type CatalogService struct {
	log  *slog.Logger
	repo CatalogRepository
}

func New(log *slog.Logger, repo CatalogRepository) *CatalogService {
	return &CatalogService{log: log, repo: repo}
}

func (cs *CatalogService) List(ctx context.Context, kind models.CatalogKind) ([]models.CatalogEntry, error) {
	op := pkg + "List"

	log := cs.log.With(slog.String("op", op), slog.String("kind", string(kind)))

	if !kind.Valid() {
		log.Warn("unknown catalog kind")
		return nil, models.ErrInvalidParams
	}

	entries, err := cs.repo.List(ctx, kind)
	if err != nil {
		log.Error("failed to list catalog", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return entries, nil
}

func (cs *CatalogService) ByID(ctx context.Context, kind models.CatalogKind, id int) (*models.CatalogEntry, error) {
	op := pkg + "ByID"

	log := cs.log.With(slog.String("op", op), slog.String("kind", string(kind)), slog.Int("id", id))

	if !kind.Valid() {
		log.Warn("unknown catalog kind")
		return nil, models.ErrInvalidParams
	}

	entry, err := cs.repo.ByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, models.ErrResourceNotFound) {
			log.Warn("catalog entry not found")
			return nil, err
		}
		log.Error("failed to get catalog entry", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return entry, nil
}

func (cs *CatalogService) ByIDs(ctx context.Context, kind models.CatalogKind, ids []int) ([]models.CatalogEntry, error) {
	op := pkg + "ByIDs"

	log := cs.log.With(slog.String("op", op), slog.String("kind", string(kind)))

	if !kind.Valid() {
		log.Warn("unknown catalog kind")
		return nil, models.ErrInvalidParams
	}

	entries, err := cs.repo.ByIDs(ctx, kind, ids)
	if err != nil {
		log.Error("failed to resolve catalog entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return entries, nil
}

func (cs *CatalogService) Create(ctx context.Context, kind models.CatalogKind, entry models.CatalogEntry) (*models.CatalogEntry, error) {
	op := pkg + "Create"

	log := cs.log.With(slog.String("op", op), slog.String("kind", string(kind)))

	log.Debug("attempting to create catalog entry", slog.String("name", entry.Name))

	if !kind.Valid() {
		log.Warn("unknown catalog kind")
		return nil, models.ErrInvalidParams
	}

	entry.Name = strings.TrimSpace(entry.Name)
	if !validator.IsValidName(entry.Name) {
		log.Warn("invalid catalog entry name")
		return nil, models.ErrInvalidParams
	}

	id, err := cs.repo.Create(ctx, kind, &entry)
	if err != nil {
		return nil, cs.mapWriteError(log, "create", err)
	}

	entry.ID = id

	log.Debug("catalog entry created successfully", slog.Int("id", id))

	return &entry, nil
}

func (cs *CatalogService) Update(ctx context.Context, kind models.CatalogKind, entry models.CatalogEntry) (*models.CatalogEntry, error) {
	op := pkg + "Update"

	log := cs.log.With(slog.String("op", op), slog.String("kind", string(kind)), slog.Int("id", entry.ID))

	log.Debug("attempting to update catalog entry")

	if !kind.Valid() {
		log.Warn("unknown catalog kind")
		return nil, models.ErrInvalidParams
	}

	entry.Name = strings.TrimSpace(entry.Name)
	if !validator.IsValidName(entry.Name) {
		log.Warn("invalid catalog entry name")
		return nil, models.ErrInvalidParams
	}

	if err := cs.repo.Update(ctx, kind, &entry); err != nil {
		return nil, cs.mapWriteError(log, "update", err)
	}

	log.Debug("catalog entry updated successfully")

	return &entry, nil
}

// Delete refuses to remove entries still referenced by documents; the
// repository reports that as ErrCatalogInUse.
func (cs *CatalogService) Delete(ctx context.Context, kind models.CatalogKind, id int) error {
	op := pkg + "Delete"

	log := cs.log.With(slog.String("op", op), slog.String("kind", string(kind)), slog.Int("id", id))

	log.Debug("attempting to delete catalog entry")

	if !kind.Valid() {
		log.Warn("unknown catalog kind")
		return models.ErrInvalidParams
	}

	if err := cs.repo.Delete(ctx, kind, id); err != nil {
		switch {
		case errors.Is(err, models.ErrCatalogInUse):
			log.Warn("catalog entry still referenced by documents")
			return models.ErrCatalogInUse
		case errors.Is(err, models.ErrResourceNotFound):
			log.Warn("catalog entry not found")
			return err
		default:
			log.Error("failed to delete catalog entry", slog.String("error", err.Error()))
			return fmt.Errorf("%s: %w", op, models.ErrInternal)
		}
	}

	log.Debug("catalog entry deleted successfully")

	return nil
}

func (cs *CatalogService) mapWriteError(log *slog.Logger, action string, err error) error {
	var dup *models.DuplicateResourceError
	if errors.As(err, &dup) {
		log.Warn("duplicate catalog name rejected", slog.String("value", dup.Value))
		return dup
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		log.Warn("catalog entry not found during " + action)
		return err
	}

	log.Error("failed to "+action+" catalog entry", slog.String("error", err.Error()))

	return models.ErrInternal
}
