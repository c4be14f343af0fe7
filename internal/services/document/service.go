package documentservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"digesto/internal/dto"
	"digesto/internal/models"
	filerepo "digesto/internal/repositories/storage/file"
	"digesto/internal/validator"
)

const pkg = "documentService/"

// DocumentService orchestrates the document lifecycle: it resolves
// catalogs, enforces uniqueness, keeps the reference graph and attached
// files consistent with the aggregate, and audits every mutation.
type DocumentService struct {
	log         *slog.Logger
	docRepo     DocumentRepository
	attRepo     AttachmentRepository
	catalogs    CatalogResolver
	cache       Cache
	fileStorage FileStorage
}

func New(
	log *slog.Logger,
	docRepo DocumentRepository,
	attRepo AttachmentRepository,
	catalogs CatalogResolver,
	cache Cache,
	fileStorage FileStorage,
) *DocumentService {
	return &DocumentService{
		log:         log,
		docRepo:     docRepo,
		attRepo:     attRepo,
		catalogs:    catalogs,
		cache:       cache,
		fileStorage: fileStorage,
	}
}

func (ds *DocumentService) CreateDocument(ctx context.Context, cmd models.DocumentCommand, actorID int) (*models.Document, error) {
	op := pkg + "CreateDocument"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to create document", slog.String("number", cmd.Number))

	if err := validateCommand(cmd); err != nil {
		log.Warn("invalid document command", slog.String("error", err.Error()))
		return nil, err
	}

	doc, keywordIDs, referenceIDs, err := ds.resolve(ctx, cmd)
	if err != nil {
		if errors.Is(err, models.ErrResourceNotFound) {
			log.Warn("failed to resolve catalogs", slog.String("error", err.Error()))
			return nil, err
		}
		log.Error("failed to resolve catalogs", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	doc.CreatedAt = time.Now()

	rec := newRecord(models.OpCreate, actorID)

	id, err := ds.docRepo.CreateDocument(ctx, doc, keywordIDs, referenceIDs, rec)
	if err != nil {
		return nil, ds.mapWriteError(log, "create", doc, err)
	}

	log.Debug("document created successfully", slog.Int("doc_id", id))

	return ds.docRepo.DocumentByID(ctx, id)
}

func (ds *DocumentService) UpdateDocument(ctx context.Context, id int, cmd models.DocumentCommand, actorID int) (*models.Document, error) {
	op := pkg + "UpdateDocument"

	log := ds.log.With(slog.String("op", op), slog.Int("doc_id", id))

	log.Debug("attempting to update document")

	if err := validateCommand(cmd); err != nil {
		log.Warn("invalid document command", slog.String("error", err.Error()))
		return nil, err
	}

	doc, keywordIDs, referenceIDs, err := ds.resolve(ctx, cmd)
	if err != nil {
		if errors.Is(err, models.ErrResourceNotFound) {
			log.Warn("failed to resolve catalogs", slog.String("error", err.Error()))
			return nil, err
		}
		log.Error("failed to resolve catalogs", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	doc.ID = id

	rec := newRecord(models.OpUpdate, actorID)

	if err := ds.docRepo.UpdateDocument(ctx, doc, keywordIDs, referenceIDs, rec); err != nil {
		return nil, ds.mapWriteError(log, "update", doc, err)
	}

	ds.invalidate(ctx, log, id)

	log.Debug("document updated successfully")

	return ds.docRepo.DocumentByID(ctx, id)
}

// DeleteDocument audits the deletion first, removes the aggregate and its
// attachment rows in one unit, then clears the physical blobs. Blob
// removal is best-effort: an orphaned file is recoverable, a committed
// row pointing at a deleted file is not.
func (ds *DocumentService) DeleteDocument(ctx context.Context, id int, actorID int) error {
	op := pkg + "DeleteDocument"

	log := ds.log.With(slog.String("op", op), slog.Int("doc_id", id))

	log.Debug("attempting to delete document")

	doc, err := ds.docRepo.DocumentByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrResourceNotFound) {
			log.Warn("document not found")
			return err
		}
		log.Error("failed to get document by id", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	// Snapshot before the rows go away.
	attachments := doc.Attachments

	rec := newRecord(models.OpDelete, actorID)

	if err := ds.docRepo.DeleteDocument(ctx, id, doc.Number, rec); err != nil {
		if errors.Is(err, models.ErrResourceNotFound) {
			return err
		}
		log.Error("failed to delete document", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	for _, att := range attachments {
		ds.fileStorage.DeleteFile(att.Path)
	}

	ds.invalidate(ctx, log, id)

	log.Debug("document deleted successfully", slog.Int("attachments", len(attachments)))

	return nil
}

func (ds *DocumentService) DocumentByID(ctx context.Context, id int) (*models.Document, error) {
	op := pkg + "DocumentByID"

	log := ds.log.With(slog.String("op", op), slog.Int("doc_id", id))

	cacheKey := docKey(id)

	if docJSON, err := ds.cache.Get(ctx, cacheKey); err == nil && docJSON != "" {
		var doc models.Document
		if err := json.Unmarshal([]byte(docJSON), &doc); err == nil {
			return &doc, nil
		}
		log.Warn("failed to decode cached document")
	}

	doc, err := ds.docRepo.DocumentByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrResourceNotFound) {
			log.Warn("document not found")
			return nil, err
		}
		log.Error("failed to get document by id", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if docJSON, err := json.Marshal(doc); err == nil {
		if err := ds.cache.Set(ctx, cacheKey, string(docJSON)); err != nil {
			log.Warn("failed to cache document", slog.String("error", err.Error()))
		}
	}

	return doc, nil
}

func (ds *DocumentService) Search(ctx context.Context, req dto.SearchRequest) (*models.Page[models.DocumentSummary], error) {
	op := pkg + "Search"

	log := ds.log.With(slog.String("op", op))

	filter := req.ToFilter()

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	page, err := ds.docRepo.Search(ctx, filter)
	if err != nil {
		log.Error("failed to search documents", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("documents searched successfully", slog.Int("count", len(page.Items)), slog.Int("total", page.Total))

	return page, nil
}

// UploadAttachments stores each payload under the document's sharded
// directory and records its metadata. The blob write happens first; a
// failed metadata insert triggers a compensating blob delete.
func (ds *DocumentService) UploadAttachments(ctx context.Context, docID int, files []dto.UploadFile) ([]models.Attachment, error) {
	op := pkg + "UploadAttachments"

	log := ds.log.With(slog.String("op", op), slog.Int("doc_id", docID))

	log.Debug("attempting to upload attachments", slog.Int("count", len(files)))

	doc, err := ds.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrResourceNotFound) {
			log.Warn("document not found")
			return nil, err
		}
		log.Error("failed to get document by id", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	dir := filerepo.ShardedDir(doc.ID)

	saved := make([]models.Attachment, 0, len(files))

	for _, file := range files {
		name := filerepo.TruncateName(file.Name)
		relPath := dir + "/" + name

		if err := ds.fileStorage.SaveFile(relPath, file.Content); err != nil {
			if errors.Is(err, models.ErrInvalidPath) || errors.Is(err, models.ErrEmptyPayload) {
				log.Warn("rejected attachment", slog.String("name", name), slog.String("error", err.Error()))
				return nil, err
			}
			log.Error("failed to save file", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
		}

		att := models.Attachment{DocumentID: doc.ID, Name: name, Path: relPath}

		id, err := ds.attRepo.Insert(ctx, &att)
		if err != nil {
			log.Error("failed to save attachment metadata", slog.String("error", err.Error()))
			ds.fileStorage.DeleteFile(relPath)
			return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
		}

		att.ID = id
		saved = append(saved, att)
	}

	ds.invalidate(ctx, log, docID)

	log.Debug("attachments uploaded successfully", slog.Int("count", len(saved)))

	return saved, nil
}

func (ds *DocumentService) DownloadAttachment(ctx context.Context, attachmentID int) (*models.Attachment, io.ReadCloser, error) {
	op := pkg + "DownloadAttachment"

	log := ds.log.With(slog.String("op", op), slog.Int("attachment_id", attachmentID))

	att, err := ds.attRepo.ByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, models.ErrResourceNotFound) {
			log.Warn("attachment not found")
			return nil, nil, err
		}
		log.Error("failed to get attachment", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	content, err := ds.fileStorage.LoadFile(att.Path)
	if err != nil {
		if errors.Is(err, models.ErrResourceNotFound) {
			log.Warn("attachment blob missing", slog.String("path", att.Path))
			return nil, nil, err
		}
		log.Error("failed to load file", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return att, content, nil
}

func (ds *DocumentService) DeleteAttachment(ctx context.Context, attachmentID int) error {
	op := pkg + "DeleteAttachment"

	log := ds.log.With(slog.String("op", op), slog.Int("attachment_id", attachmentID))

	log.Debug("attempting to delete attachment")

	att, err := ds.attRepo.ByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, models.ErrResourceNotFound) {
			log.Warn("attachment not found")
			return err
		}
		log.Error("failed to get attachment", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	ds.fileStorage.DeleteFile(att.Path)

	if err := ds.attRepo.Delete(ctx, attachmentID); err != nil {
		if errors.Is(err, models.ErrResourceNotFound) {
			return err
		}
		log.Error("failed to delete attachment metadata", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	ds.invalidate(ctx, log, att.DocumentID)

	log.Debug("attachment deleted successfully")

	return nil
}

// resolve turns raw command ids into validated catalog handles. Required
// single-valued references fail the whole operation; ids in the keyword
// and reference sets that do not exist are silently dropped.
func (ds *DocumentService) resolve(ctx context.Context, cmd models.DocumentCommand) (*models.Document, []int, []int, error) {
	docType, err := ds.catalogs.ByID(ctx, models.CatalogDocumentType, cmd.TypeID)
	if err != nil {
		return nil, nil, nil, err
	}

	status, err := ds.catalogs.ByID(ctx, models.CatalogStatus, cmd.StatusID)
	if err != nil {
		return nil, nil, nil, err
	}

	sector, err := ds.catalogs.ByID(ctx, models.CatalogSector, cmd.SectorID)
	if err != nil {
		return nil, nil, nil, err
	}

	doc := &models.Document{
		Title:   strings.TrimSpace(cmd.Title),
		Summary: cmd.Summary,
		Number:  strings.TrimSpace(cmd.Number),
		Active:  cmd.Active,
		Type:    *docType,
		Status:  *status,
		Sector:  *sector,
	}

	if cmd.ExecutingUnitID != nil {
		unit, err := ds.catalogs.ByID(ctx, models.CatalogExecutingUnit, *cmd.ExecutingUnitID)
		if err != nil {
			return nil, nil, nil, err
		}
		doc.ExecutingUnit = unit
	}

	keywords, err := ds.catalogs.ByIDs(ctx, models.CatalogKeyword, cmd.KeywordIDs)
	if err != nil {
		return nil, nil, nil, err
	}

	keywordIDs := make([]int, 0, len(keywords))
	for _, kw := range keywords {
		keywordIDs = append(keywordIDs, kw.ID)
	}

	referenceIDs, err := ds.docRepo.ExistingIDs(ctx, cmd.ReferenceIDs)
	if err != nil {
		return nil, nil, nil, err
	}

	return doc, keywordIDs, referenceIDs, nil
}

func (ds *DocumentService) mapWriteError(log *slog.Logger, action string, doc *models.Document, err error) error {
	var dup *models.DuplicateResourceError
	if errors.As(err, &dup) {
		log.Warn("duplicate document rejected", slog.String("field", dup.Field), slog.String("value", dup.Value))
		return dup
	}

	var uce *models.UniqueConstraintError
	if errors.As(err, &uce) {
		// A concurrent writer won the race past the application check;
		// the unique index caught it.
		log.Warn("unique index rejected document", slog.String("constraint", uce.Constraint))
		if strings.Contains(uce.Constraint, "title") {
			return models.NewDuplicate("title", doc.Title)
		}
		return models.NewDuplicate("number", doc.Number)
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		log.Warn("document not found during "+action, slog.String("error", err.Error()))
		return err
	}

	log.Error("failed to "+action+" document", slog.String("error", err.Error()))

	return models.ErrInternal
}

func (ds *DocumentService) invalidate(ctx context.Context, log *slog.Logger, docID int) {
	if err := ds.cache.Del(ctx, docKey(docID)); err != nil {
		log.Warn("failed to invalidate document cache", slog.String("error", err.Error()))
	}
}

func validateCommand(cmd models.DocumentCommand) error {
	if !validator.IsValidTitle(cmd.Title) || !validator.IsValidNumber(cmd.Number) || !validator.IsValidSummary(cmd.Summary) {
		return models.ErrInvalidParams
	}
	return nil
}

func newRecord(operation string, actorID int) *models.AuditRecord {
	rec := &models.AuditRecord{
		RecordedAt: time.Now(),
		Operation:  operation,
	}

	// The bootstrap admin token resolves to a synthetic user with id 0
	// that has no users row; its actions are recorded without an actor.
	if actorID != 0 {
		rec.ActorID = &actorID
	}

	return rec
}

func docKey(id int) string {
	return fmt.Sprintf("document:%d", id)
}
