package catalogservice

import (
	"context"

	"digesto/internal/models"
)

type CatalogRepository interface {
	ByID(ctx context.Context, kind models.CatalogKind, id int) (*models.CatalogEntry, error)
	ByIDs(ctx context.Context, kind models.CatalogKind, ids []int) ([]models.CatalogEntry, error)
	List(ctx context.Context, kind models.CatalogKind) ([]models.CatalogEntry, error)
	Create(ctx context.Context, kind models.CatalogKind, entry *models.CatalogEntry) (int, error)
	Update(ctx context.Context, kind models.CatalogKind, entry *models.CatalogEntry) error
	Delete(ctx context.Context, kind models.CatalogKind, id int) error
}
