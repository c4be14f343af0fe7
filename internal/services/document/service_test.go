package documentservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"digesto/internal/dto"
	"digesto/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) CreateDocument(ctx context.Context, doc *models.Document, keywordIDs, referenceIDs []int, rec *models.AuditRecord) (int, error) {
	args := m.Called(ctx, doc, keywordIDs, referenceIDs, rec)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentRepository) UpdateDocument(ctx context.Context, doc *models.Document, keywordIDs, referenceIDs []int, rec *models.AuditRecord) error {
	args := m.Called(ctx, doc, keywordIDs, referenceIDs, rec)
	return args.Error(0)
}

func (m *MockDocumentRepository) DeleteDocument(ctx context.Context, id int, number string, rec *models.AuditRecord) error {
	args := m.Called(ctx, id, number, rec)
	return args.Error(0)
}

func (m *MockDocumentRepository) DocumentByID(ctx context.Context, id int) (*models.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) ExistingIDs(ctx context.Context, ids []int) ([]int, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockDocumentRepository) Search(ctx context.Context, f models.SearchFilter) (*models.Page[models.DocumentSummary], error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page[models.DocumentSummary]), args.Error(1)
}

type MockAttachmentRepository struct {
	mock.Mock
}

func (m *MockAttachmentRepository) Insert(ctx context.Context, att *models.Attachment) (int, error) {
	args := m.Called(ctx, att)
	return args.Int(0), args.Error(1)
}

func (m *MockAttachmentRepository) ByID(ctx context.Context, id int) (*models.Attachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCatalogResolver struct {
	mock.Mock
}

func (m *MockCatalogResolver) ByID(ctx context.Context, kind models.CatalogKind, id int) (*models.CatalogEntry, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CatalogEntry), args.Error(1)
}

func (m *MockCatalogResolver) ByIDs(ctx context.Context, kind models.CatalogKind, ids []int) ([]models.CatalogEntry, error) {
	args := m.Called(ctx, kind, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CatalogEntry), args.Error(1)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) SaveFile(relPath string, reader io.Reader) error {
	args := m.Called(relPath, reader)
	return args.Error(0)
}

func (m *MockFileStorage) LoadFile(relPath string) (io.ReadCloser, error) {
	args := m.Called(relPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockFileStorage) DeleteFile(relPath string) {
	m.Called(relPath)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func newTestService() (*DocumentService, *MockDocumentRepository, *MockAttachmentRepository, *MockCatalogResolver, *MockCache, *MockFileStorage) {
	docRepo := new(MockDocumentRepository)
	attRepo := new(MockAttachmentRepository)
	catalogs := new(MockCatalogResolver)
	cache := new(MockCache)
	storage := new(MockFileStorage)
	service := New(slog.Default(), docRepo, attRepo, catalogs, cache, storage)
	return service, docRepo, attRepo, catalogs, cache, storage
}

func validCommand() models.DocumentCommand {
	return models.DocumentCommand{
		Title:        "Ordinance 12/2024",
		Summary:      "Approves the annual budget",
		Number:       "ORD-12-2024",
		Active:       true,
		TypeID:       1,
		StatusID:     2,
		SectorID:     3,
		KeywordIDs:   []int{10, 11},
		ReferenceIDs: []int{5},
	}
}

func stubCatalogs(catalogs *MockCatalogResolver, cmd models.DocumentCommand) {
	catalogs.On("ByID", mock.Anything, models.CatalogDocumentType, cmd.TypeID).
		Return(&models.CatalogEntry{ID: cmd.TypeID, Name: "ordinance"}, nil)
	catalogs.On("ByID", mock.Anything, models.CatalogStatus, cmd.StatusID).
		Return(&models.CatalogEntry{ID: cmd.StatusID, Name: "in force"}, nil)
	catalogs.On("ByID", mock.Anything, models.CatalogSector, cmd.SectorID).
		Return(&models.CatalogEntry{ID: cmd.SectorID, Name: "finance"}, nil)
}

func TestCreateDocument_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, docRepo, _, catalogs, _, _ := newTestService()

	cmd := validCommand()

	stubCatalogs(catalogs, cmd)
	catalogs.On("ByIDs", ctx, models.CatalogKeyword, cmd.KeywordIDs).
		Return([]models.CatalogEntry{{ID: 10, Name: "budget"}, {ID: 11, Name: "annual"}}, nil)
	docRepo.On("ExistingIDs", ctx, cmd.ReferenceIDs).Return([]int{5}, nil)

	docRepo.On("CreateDocument", ctx, mock.Anything, []int{10, 11}, []int{5}, mock.Anything).Return(42, nil)
	docRepo.On("DocumentByID", ctx, 42).Return(&models.Document{ID: 42, Number: cmd.Number}, nil)

	doc, err := service.CreateDocument(ctx, cmd, 7)

	assert.NoError(t, err)
	assert.Equal(t, 42, doc.ID)

	rec := docRepo.Calls[1].Arguments.Get(4).(*models.AuditRecord)
	assert.Equal(t, models.OpCreate, rec.Operation)
	assert.Equal(t, 7, *rec.ActorID)

	docRepo.AssertExpectations(t)
	catalogs.AssertExpectations(t)
}

func TestCreateDocument_DuplicateNumber(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, docRepo, _, catalogs, cache, _ := newTestService()

	cmd := validCommand()

	stubCatalogs(catalogs, cmd)
	catalogs.On("ByIDs", ctx, models.CatalogKeyword, cmd.KeywordIDs).
		Return([]models.CatalogEntry{{ID: 10}, {ID: 11}}, nil)
	docRepo.On("ExistingIDs", ctx, cmd.ReferenceIDs).Return([]int{5}, nil)

	docRepo.On("CreateDocument", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(0, models.NewDuplicate("number", cmd.Number))

	_, err := service.CreateDocument(ctx, cmd, 7)

	assert.ErrorIs(t, err, models.ErrDuplicateResource)
	docRepo.AssertNotCalled(t, "DocumentByID", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateDocument_BootstrapAdminHasNoActor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, docRepo, _, catalogs, _, _ := newTestService()

	cmd := validCommand()

	stubCatalogs(catalogs, cmd)
	catalogs.On("ByIDs", ctx, models.CatalogKeyword, cmd.KeywordIDs).
		Return([]models.CatalogEntry{{ID: 10}, {ID: 11}}, nil)
	docRepo.On("ExistingIDs", ctx, cmd.ReferenceIDs).Return([]int{5}, nil)

	docRepo.On("CreateDocument", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(42, nil)
	docRepo.On("DocumentByID", ctx, 42).Return(&models.Document{ID: 42}, nil)

	// The synthetic admin (id 0) has no users row, so the record must
	// carry a null actor or the insert hits the actor foreign key.
	_, err := service.CreateDocument(ctx, cmd, 0)

	assert.NoError(t, err)

	rec := docRepo.Calls[1].Arguments.Get(4).(*models.AuditRecord)
	assert.Nil(t, rec.ActorID)
}

func TestCreateDocument_UniqueIndexRaceCarriesValue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, docRepo, _, catalogs, _, _ := newTestService()

	cmd := validCommand()

	stubCatalogs(catalogs, cmd)
	catalogs.On("ByIDs", ctx, models.CatalogKeyword, cmd.KeywordIDs).
		Return([]models.CatalogEntry{{ID: 10}, {ID: 11}}, nil)
	docRepo.On("ExistingIDs", ctx, cmd.ReferenceIDs).Return([]int{5}, nil)

	docRepo.On("CreateDocument", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(0, &models.UniqueConstraintError{Constraint: "documents_number_key"})

	_, err := service.CreateDocument(ctx, cmd, 7)

	var dup *models.DuplicateResourceError
	assert.ErrorAs(t, err, &dup)
	assert.Equal(t, "number", dup.Field)
	assert.Equal(t, cmd.Number, dup.Value)
}

func TestCreateDocument_UnknownType(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, docRepo, _, catalogs, _, _ := newTestService()

	cmd := validCommand()

	catalogs.On("ByID", mock.Anything, models.CatalogDocumentType, cmd.TypeID).
		Return(nil, models.NewNotFound("document_type", cmd.TypeID))

	_, err := service.CreateDocument(ctx, cmd, 7)

	assert.ErrorIs(t, err, models.ErrResourceNotFound)
	docRepo.AssertNotCalled(t, "CreateDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateDocument_InvalidTitle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, docRepo, _, catalogs, _, _ := newTestService()

	cmd := validCommand()
	cmd.Title = "   "

	_, err := service.CreateDocument(ctx, cmd, 7)

	assert.ErrorIs(t, err, models.ErrInvalidParams)
	catalogs.AssertNotCalled(t, "ByID", mock.Anything, mock.Anything, mock.Anything)
	docRepo.AssertNotCalled(t, "CreateDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateDocument_ReplacesKeywordSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, docRepo, _, catalogs, cache, _ := newTestService()

	cmd := validCommand()
	cmd.KeywordIDs = []int{11, 12}

	stubCatalogs(catalogs, cmd)
	catalogs.On("ByIDs", ctx, models.CatalogKeyword, []int{11, 12}).
		Return([]models.CatalogEntry{{ID: 11, Name: "annual"}, {ID: 12, Name: "budget"}}, nil)
	docRepo.On("ExistingIDs", ctx, cmd.ReferenceIDs).Return([]int{5}, nil)

	docRepo.On("UpdateDocument", ctx, mock.Anything, []int{11, 12}, []int{5}, mock.Anything).Return(nil)
	docRepo.On("DocumentByID", ctx, 42).Return(&models.Document{ID: 42}, nil)
	cache.On("Del", ctx, []string{"document:42"}).Return(nil)

	_, err := service.UpdateDocument(ctx, 42, cmd, 7)

	assert.NoError(t, err)
	docRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestUpdateDocument_DropsUnknownReferences(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, docRepo, _, catalogs, cache, _ := newTestService()

	cmd := validCommand()
	cmd.ReferenceIDs = []int{5, 999}

	stubCatalogs(catalogs, cmd)
	catalogs.On("ByIDs", ctx, models.CatalogKeyword, cmd.KeywordIDs).
		Return([]models.CatalogEntry{{ID: 10}, {ID: 11}}, nil)
	docRepo.On("ExistingIDs", ctx, []int{5, 999}).Return([]int{5}, nil)

	docRepo.On("UpdateDocument", ctx, mock.Anything, mock.Anything, []int{5}, mock.Anything).Return(nil)
	docRepo.On("DocumentByID", ctx, 42).Return(&models.Document{ID: 42}, nil)
	cache.On("Del", ctx, []string{"document:42"}).Return(nil)

	_, err := service.UpdateDocument(ctx, 42, cmd, 7)

	assert.NoError(t, err)
	docRepo.AssertExpectations(t)
}

func TestDeleteDocument_RemovesBlobsAfterRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, docRepo, _, _, cache, storage := newTestService()

	doc := &models.Document{
		ID:     42,
		Number: "ORD-12-2024",
		Attachments: []models.Attachment{
			{ID: 1, DocumentID: 42, Path: "documents/000/000/042/a.pdf"},
			{ID: 2, DocumentID: 42, Path: "documents/000/000/042/b.pdf"},
		},
	}

	docRepo.On("DocumentByID", ctx, 42).Return(doc, nil)
	docRepo.On("DeleteDocument", ctx, 42, "ORD-12-2024", mock.Anything).Return(nil)
	storage.On("DeleteFile", "documents/000/000/042/a.pdf").Return()
	storage.On("DeleteFile", "documents/000/000/042/b.pdf").Return()
	cache.On("Del", ctx, []string{"document:42"}).Return(nil)

	err := service.DeleteDocument(ctx, 42, 7)

	assert.NoError(t, err)
	docRepo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestDeleteDocument_RowDeleteFails_KeepsBlobs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, docRepo, _, _, _, storage := newTestService()

	doc := &models.Document{
		ID:          42,
		Number:      "ORD-12-2024",
		Attachments: []models.Attachment{{ID: 1, DocumentID: 42, Path: "documents/000/000/042/a.pdf"}},
	}

	docRepo.On("DocumentByID", ctx, 42).Return(doc, nil)
	docRepo.On("DeleteDocument", ctx, 42, "ORD-12-2024", mock.Anything).Return(errors.New("connection reset"))

	err := service.DeleteDocument(ctx, 42, 7)

	assert.ErrorIs(t, err, models.ErrInternal)
	storage.AssertNotCalled(t, "DeleteFile", mock.Anything)
}

func TestDocumentByID_CacheHit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, docRepo, _, _, cache, _ := newTestService()

	cached, _ := json.Marshal(models.Document{ID: 42, Title: "Ordinance 12/2024"})
	cache.On("Get", ctx, "document:42").Return(string(cached), nil)

	doc, err := service.DocumentByID(ctx, 42)

	assert.NoError(t, err)
	assert.Equal(t, "Ordinance 12/2024", doc.Title)
	docRepo.AssertNotCalled(t, "DocumentByID", mock.Anything, mock.Anything)
}

func TestDocumentByID_CacheMiss(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, docRepo, _, _, cache, _ := newTestService()

	cache.On("Get", ctx, "document:42").Return("", errors.New("cache: key not found"))
	docRepo.On("DocumentByID", ctx, 42).Return(&models.Document{ID: 42}, nil)
	cache.On("Set", ctx, "document:42", mock.Anything).Return(nil)

	doc, err := service.DocumentByID(ctx, 42)

	assert.NoError(t, err)
	assert.Equal(t, 42, doc.ID)
	cache.AssertExpectations(t)
}

func TestSearch_DefaultsLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, docRepo, _, _, _, _ := newTestService()

	docRepo.On("Search", ctx, mock.MatchedBy(func(f models.SearchFilter) bool {
		return f.Limit == 20 && f.Offset == 0
	})).Return(&models.Page[models.DocumentSummary]{Items: []models.DocumentSummary{}, Total: 0}, nil)

	_, err := service.Search(ctx, dto.SearchRequest{SearchTerm: "budget"})

	assert.NoError(t, err)
	docRepo.AssertExpectations(t)
}

func TestUploadAttachments_ShardsAndTruncates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, docRepo, attRepo, _, cache, storage := newTestService()

	docRepo.On("DocumentByID", ctx, 123456).Return(&models.Document{ID: 123456}, nil)

	longName := "annual-budget-report-with-a-deliberately-very-long-descriptive-title.pdf"
	wantPath := "documents/000/123/456/annual-budget-report-with-a-deliberately-very-long-descr.pdf"

	storage.On("SaveFile", wantPath, mock.Anything).Return(nil)
	attRepo.On("Insert", ctx, mock.Anything).Return(9, nil)
	cache.On("Del", ctx, []string{"document:123456"}).Return(nil)

	saved, err := service.UploadAttachments(ctx, 123456, []dto.UploadFile{
		{Name: longName, Content: bytes.NewReader([]byte("pdf bytes"))},
	})

	assert.NoError(t, err)
	assert.Len(t, saved, 1)
	assert.Equal(t, 9, saved[0].ID)
	assert.Equal(t, wantPath, saved[0].Path)
	assert.LessOrEqual(t, len(saved[0].Name), 60)
	storage.AssertExpectations(t)
}

func TestUploadAttachments_EmptyPayload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, docRepo, attRepo, _, _, storage := newTestService()

	docRepo.On("DocumentByID", ctx, 42).Return(&models.Document{ID: 42}, nil)
	storage.On("SaveFile", mock.Anything, mock.Anything).Return(models.ErrEmptyPayload)

	_, err := service.UploadAttachments(ctx, 42, []dto.UploadFile{
		{Name: "empty.pdf", Content: bytes.NewReader(nil)},
	})

	assert.ErrorIs(t, err, models.ErrEmptyPayload)
	attRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestUploadAttachments_MetadataFails_RemovesBlob(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, docRepo, attRepo, _, _, storage := newTestService()

	docRepo.On("DocumentByID", ctx, 42).Return(&models.Document{ID: 42}, nil)
	storage.On("SaveFile", mock.Anything, mock.Anything).Return(nil)
	attRepo.On("Insert", ctx, mock.Anything).Return(0, errors.New("connection reset"))
	storage.On("DeleteFile", "documents/000/000/042/report.pdf").Return()

	_, err := service.UploadAttachments(ctx, 42, []dto.UploadFile{
		{Name: "report.pdf", Content: bytes.NewReader([]byte("data"))},
	})

	assert.ErrorIs(t, err, models.ErrInternal)
	storage.AssertExpectations(t)
}

func TestDeleteAttachment_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _, attRepo, _, cache, storage := newTestService()

	att := &models.Attachment{ID: 9, DocumentID: 42, Name: "a.pdf", Path: "documents/000/000/042/a.pdf"}

	attRepo.On("ByID", ctx, 9).Return(att, nil)
	storage.On("DeleteFile", att.Path).Return()
	attRepo.On("Delete", ctx, 9).Return(nil)
	cache.On("Del", ctx, []string{"document:42"}).Return(nil)

	err := service.DeleteAttachment(ctx, 9)

	assert.NoError(t, err)
	attRepo.AssertExpectations(t)
}

func TestDownloadAttachment_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _, attRepo, _, _, storage := newTestService()

	attRepo.On("ByID", ctx, 9).Return(nil, models.NewNotFound("attachment", 9))

	_, _, err := service.DownloadAttachment(ctx, 9)

	assert.ErrorIs(t, err, models.ErrResourceNotFound)
	storage.AssertNotCalled(t, "LoadFile", mock.Anything)
}
