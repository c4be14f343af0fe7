package documents

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"digesto/internal/models"
	utils "digesto/internal/utils/http_errors"
)

func requesterFrom(ctx context.Context) (*models.User, bool) {
	requester, ok := ctx.Value(models.UserContextKey).(*models.User)
	return requester, ok
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
		log.Warn("resource not found", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrDuplicateResource):
		log.Warn("duplicate resource", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrInvalidParams),
		errors.Is(err, models.ErrInvalidPath),
		errors.Is(err, models.ErrEmptyPayload):
		log.Warn("invalid request", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error("request failed", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
	}
}
