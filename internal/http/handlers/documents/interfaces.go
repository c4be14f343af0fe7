package documents

import (
	"context"
	"io"

	"digesto/internal/dto"
	"digesto/internal/models"
)

const pkg = "handlers/documents/"

type DocumentService interface {
	CreateDocument(ctx context.Context, cmd models.DocumentCommand, actorID int) (*models.Document, error)
	UpdateDocument(ctx context.Context, id int, cmd models.DocumentCommand, actorID int) (*models.Document, error)
	DeleteDocument(ctx context.Context, id int, actorID int) error
	DocumentByID(ctx context.Context, id int) (*models.Document, error)
	Search(ctx context.Context, req dto.SearchRequest) (*models.Page[models.DocumentSummary], error)
	UploadAttachments(ctx context.Context, docID int, files []dto.UploadFile) ([]models.Attachment, error)
	DownloadAttachment(ctx context.Context, attachmentID int) (*models.Attachment, io.ReadCloser, error)
	DeleteAttachment(ctx context.Context, attachmentID int) error
}
