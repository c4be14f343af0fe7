package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"digesto/internal/dto"
	"digesto/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) CreateDocument(ctx context.Context, cmd models.DocumentCommand, actorID int) (*models.Document, error) {
	args := m.Called(ctx, cmd, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentService) UpdateDocument(ctx context.Context, id int, cmd models.DocumentCommand, actorID int) (*models.Document, error) {
	args := m.Called(ctx, id, cmd, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentService) DeleteDocument(ctx context.Context, id int, actorID int) error {
	args := m.Called(ctx, id, actorID)
	return args.Error(0)
}

func (m *MockDocumentService) DocumentByID(ctx context.Context, id int) (*models.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentService) Search(ctx context.Context, req dto.SearchRequest) (*models.Page[models.DocumentSummary], error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page[models.DocumentSummary]), args.Error(1)
}

func (m *MockDocumentService) UploadAttachments(ctx context.Context, docID int, files []dto.UploadFile) ([]models.Attachment, error) {
	args := m.Called(ctx, docID, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Attachment), args.Error(1)
}

func (m *MockDocumentService) DownloadAttachment(ctx context.Context, attachmentID int) (*models.Attachment, io.ReadCloser, error) {
	args := m.Called(ctx, attachmentID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Attachment), args.Get(1).(io.ReadCloser), args.Error(2)
}

func (m *MockDocumentService) DeleteAttachment(ctx context.Context, attachmentID int) error {
	args := m.Called(ctx, attachmentID)
	return args.Error(0)
}

func authedContext() context.Context {
	return context.WithValue(context.Background(), models.UserContextKey, &models.User{ID: 7, Active: true})
}

func TestCreate_Success(t *testing.T) {
	t.Parallel()

	service := new(MockDocumentService)

	body, _ := json.Marshal(dto.DocumentRequest{
		Title:    "Ordinance 12/2024",
		Number:   "ORD-12-2024",
		TypeID:   1,
		StatusID: 2,
		SectorID: 3,
	})

	service.On("CreateDocument", mock.Anything, mock.Anything, 7).
		Return(&models.Document{ID: 42, Number: "ORD-12-2024"}, nil)

	ctx := authedContext()
	r := httptest.NewRequest(http.MethodPost, "/api/documents", bytes.NewReader(body)).WithContext(ctx)
	w := httptest.NewRecorder()

	Create(ctx, slog.Default(), w, r, service)

	assert.Equal(t, http.StatusCreated, w.Code)

	var doc models.Document
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, 42, doc.ID)
}

func TestCreate_DuplicateNumberConflicts(t *testing.T) {
	t.Parallel()

	service := new(MockDocumentService)

	body, _ := json.Marshal(dto.DocumentRequest{Title: "x", Number: "ORD-12-2024"})

	service.On("CreateDocument", mock.Anything, mock.Anything, 7).
		Return(nil, models.NewDuplicate("number", "ORD-12-2024"))

	ctx := authedContext()
	r := httptest.NewRequest(http.MethodPost, "/api/documents", bytes.NewReader(body)).WithContext(ctx)
	w := httptest.NewRecorder()

	Create(ctx, slog.Default(), w, r, service)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreate_NoRequesterForbidden(t *testing.T) {
	t.Parallel()

	service := new(MockDocumentService)

	ctx := context.Background()
	r := httptest.NewRequest(http.MethodPost, "/api/documents", bytes.NewReader([]byte("{}"))).WithContext(ctx)
	w := httptest.NewRecorder()

	Create(ctx, slog.Default(), w, r, service)

	assert.Equal(t, http.StatusForbidden, w.Code)
	service.AssertNotCalled(t, "CreateDocument", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetByID_NotFound(t *testing.T) {
	t.Parallel()

	service := new(MockDocumentService)

	service.On("DocumentByID", mock.Anything, 99).
		Return(nil, models.NewNotFound("document", 99))

	ctx := context.Background()
	r := httptest.NewRequest(http.MethodGet, "/api/documents/99", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	GetByID(ctx, slog.Default(), w, r, "99", service)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetByID_BadID(t *testing.T) {
	t.Parallel()

	service := new(MockDocumentService)

	ctx := context.Background()
	r := httptest.NewRequest(http.MethodGet, "/api/documents/abc", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	GetByID(ctx, slog.Default(), w, r, "abc", service)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "DocumentByID", mock.Anything, mock.Anything)
}

func TestSearch_ParsesQuery(t *testing.T) {
	t.Parallel()

	service := new(MockDocumentService)

	service.On("Search", mock.Anything, mock.MatchedBy(func(req dto.SearchRequest) bool {
		return req.SearchTerm == "budget" && req.TypeID == 1 && req.Limit == 10 && req.Offset == 20
	})).Return(&models.Page[models.DocumentSummary]{Items: []models.DocumentSummary{}, Total: 0}, nil)

	ctx := context.Background()
	r := httptest.NewRequest(http.MethodGet, "/api/documents?q=budget&type_id=1&limit=10&offset=20", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	Search(ctx, slog.Default(), w, r, service)

	assert.Equal(t, http.StatusOK, w.Code)
	service.AssertExpectations(t)
}

func TestSearch_BadDate(t *testing.T) {
	t.Parallel()

	service := new(MockDocumentService)

	ctx := context.Background()
	r := httptest.NewRequest(http.MethodGet, "/api/documents?date_from=not-a-date", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	Search(ctx, slog.Default(), w, r, service)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestDelete_Success(t *testing.T) {
	t.Parallel()

	service := new(MockDocumentService)

	service.On("DeleteDocument", mock.Anything, 42, 7).Return(nil)

	ctx := authedContext()
	r := httptest.NewRequest(http.MethodDelete, "/api/documents/42", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	Delete(ctx, slog.Default(), w, r, "42", service)

	assert.Equal(t, http.StatusOK, w.Code)
	service.AssertExpectations(t)
}
