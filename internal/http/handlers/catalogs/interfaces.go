package catalogs

import (
	"context"

	"digesto/internal/models"
)

const pkg = "handlers/catalogs/"

type CatalogService interface {
	List(ctx context.Context, kind models.CatalogKind) ([]models.CatalogEntry, error)
	ByID(ctx context.Context, kind models.CatalogKind, id int) (*models.CatalogEntry, error)
	Create(ctx context.Context, kind models.CatalogKind, entry models.CatalogEntry) (*models.CatalogEntry, error)
	Update(ctx context.Context, kind models.CatalogKind, entry models.CatalogEntry) (*models.CatalogEntry, error)
	Delete(ctx context.Context, kind models.CatalogKind, id int) error
}
