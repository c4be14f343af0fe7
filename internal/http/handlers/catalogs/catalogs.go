package catalogs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"digesto/internal/dto"
	"digesto/internal/models"
	utils "digesto/internal/utils/http_errors"
)

func List(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, kind string, cs CatalogService) {
	op := pkg + "List"

	log = log.With(slog.String("op", op))

	entries, err := cs.List(ctx, models.CatalogKind(kind))
	if err != nil {
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, entries)
}

func Get(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, kind, rawID string, cs CatalogService) {
	op := pkg + "Get"

	log = log.With(slog.String("op", op))

	id, err := strconv.Atoi(rawID)
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	entry, err := cs.ByID(ctx, models.CatalogKind(kind), id)
	if err != nil {
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, entry)
}

func Create(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, kind string, cs CatalogService) {
	op := pkg + "Create"

	log = log.With(slog.String("op", op))

	var request dto.CatalogRequest

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Warn("failed to decode body", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}
	defer r.Body.Close()

	entry, err := cs.Create(ctx, models.CatalogKind(kind), models.CatalogEntry{
		Name:        request.Name,
		Description: request.Description,
	})
	if err != nil {
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusCreated, entry)
}

func Update(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, kind, rawID string, cs CatalogService) {
	op := pkg + "Update"

	log = log.With(slog.String("op", op))

	id, err := strconv.Atoi(rawID)
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	var request dto.CatalogRequest

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Warn("failed to decode body", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}
	defer r.Body.Close()

	entry, err := cs.Update(ctx, models.CatalogKind(kind), models.CatalogEntry{
		ID:          id,
		Name:        request.Name,
		Description: request.Description,
	})
	if err != nil {
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, entry)
}

func Delete(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, kind, rawID string, cs CatalogService) {
	op := pkg + "Delete"

	log = log.With(slog.String("op", op))

	id, err := strconv.Atoi(rawID)
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	if err := cs.Delete(ctx, models.CatalogKind(kind), id); err != nil {
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, map[string]any{"deleted": id})
}

func writeJSON(log *slog.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func writeServiceError(log *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrResourceNotFound):
		log.Warn("catalog entry not found", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrCatalogInUse):
		log.Warn("catalog entry in use", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrDuplicateResource):
		log.Warn("duplicate catalog entry", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrInvalidParams):
		log.Warn("invalid request", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error("request failed", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
	}
}
