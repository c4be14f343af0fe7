package documents

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"digesto/internal/dto"
	"digesto/internal/models"
	utils "digesto/internal/utils/http_errors"
)

const maxUploadSize = 64 << 20

func UploadAttachments(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, ds DocumentService) {
	op := pkg + "UploadAttachments"

	log = log.With(slog.String("op", op))

	if _, ok := requesterFrom(ctx); !ok {
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	id, err := strconv.Atoi(docID)
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Warn("failed to parse multipart form", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	var files []dto.UploadFile

	for _, header := range r.MultipartForm.File["files"] {
		file, err := header.Open()
		if err != nil {
			log.Warn("failed to open uploaded file", slog.String("error", err.Error()))
			utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
			return
		}
		defer file.Close()

		files = append(files, dto.UploadFile{Name: header.Filename, Content: file})
	}

	if len(files) == 0 {
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrEmptyPayload.Error())
		return
	}

	saved, err := ds.UploadAttachments(ctx, id, files)
	if err != nil {
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusCreated, saved)
}

func DownloadAttachment(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, attachmentID string, ds DocumentService) {
	op := pkg + "DownloadAttachment"

	log = log.With(slog.String("op", op))

	id, err := strconv.Atoi(attachmentID)
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	att, content, err := ds.DownloadAttachment(ctx, id)
	if err != nil {
		writeServiceError(log, w, err)
		return
	}
	defer content.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": att.Name}))

	if _, err := io.Copy(w, content); err != nil {
		log.Error("failed to stream attachment", slog.String("error", err.Error()))
	}
}

func DeleteAttachment(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, attachmentID string, ds DocumentService) {
	op := pkg + "DeleteAttachment"

	log = log.With(slog.String("op", op))

	if _, ok := requesterFrom(ctx); !ok {
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	id, err := strconv.Atoi(attachmentID)
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	if err := ds.DeleteAttachment(ctx, id); err != nil {
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, map[string]any{"deleted": id})
}
