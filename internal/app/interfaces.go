package app

import (
	"context"
	"io"

	"digesto/internal/dto"
	"digesto/internal/models"
)

type AuthService interface {
	Login(ctx context.Context, email string, password string) (string, error)
	UserByToken(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
}

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

type CatalogService interface {
	List(ctx context.Context, kind models.CatalogKind) ([]models.CatalogEntry, error)
	ByID(ctx context.Context, kind models.CatalogKind, id int) (*models.CatalogEntry, error)
	Create(ctx context.Context, kind models.CatalogKind, entry models.CatalogEntry) (*models.CatalogEntry, error)
	Update(ctx context.Context, kind models.CatalogKind, entry models.CatalogEntry) (*models.CatalogEntry, error)
	Delete(ctx context.Context, kind models.CatalogKind, id int) error
}

type UserService interface {
	Register(ctx context.Context, req dto.RegisterUserRequest, actorID int) (*models.User, error)
	Modify(ctx context.Context, id int, req dto.UpdateUserRequest, actorID int) (*models.User, error)
	Deactivate(ctx context.Context, id int, actorID int) error
	Delete(ctx context.Context, id int) error
	UserByID(ctx context.Context, id int) (*models.User, error)
}

type AuditService interface {
	List(ctx context.Context) ([]models.AuditRecord, error)
	ByDocument(ctx context.Context, documentID int) ([]models.AuditRecord, error)
	ByUser(ctx context.Context, userID int) ([]models.AuditRecord, error)
}
