package documentservice

import (
	"context"
	"io"

	"digesto/internal/models"
)

type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc *models.Document, keywordIDs, referenceIDs []int, rec *models.AuditRecord) (int, error)
	UpdateDocument(ctx context.Context, doc *models.Document, keywordIDs, referenceIDs []int, rec *models.AuditRecord) error
	DeleteDocument(ctx context.Context, id int, number string, rec *models.AuditRecord) error
	DocumentByID(ctx context.Context, id int) (*models.Document, error)
	ExistingIDs(ctx context.Context, ids []int) ([]int, error)
	Search(ctx context.Context, f models.SearchFilter) (*models.Page[models.DocumentSummary], error)
}

type AttachmentRepository interface {
	Insert(ctx context.Context, att *models.Attachment) (int, error)
	ByID(ctx context.Context, id int) (*models.Attachment, error)
	Delete(ctx context.Context, id int) error
}

type CatalogResolver interface {
	ByID(ctx context.Context, kind models.CatalogKind, id int) (*models.CatalogEntry, error)
	ByIDs(ctx context.Context, kind models.CatalogKind, ids []int) ([]models.CatalogEntry, error)
}

type FileStorage interface {
	SaveFile(relPath string, reader io.Reader) error
	LoadFile(relPath string) (io.ReadCloser, error)
	DeleteFile(relPath string)
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}) error
	Del(ctx context.Context, keys ...string) error
}
