package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"digesto/internal/models"
	utils "digesto/internal/utils/http_errors"
)

const pkg = "handlers/audit/"

type AuditService interface {
	List(ctx context.Context) ([]models.AuditRecord, error)
	ByDocument(ctx context.Context, documentID int) ([]models.AuditRecord, error)
	ByUser(ctx context.Context, userID int) ([]models.AuditRecord, error)
}

func List(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, as AuditService) {
	op := pkg + "List"

	log = log.With(slog.String("op", op))

	records, err := as.List(ctx)
	if err != nil {
		log.Error("failed to list audit records", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	writeJSON(log, w, records)
}

func ByDocument(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, rawID string, as AuditService) {
	op := pkg + "ByDocument"

	log = log.With(slog.String("op", op))

	id, err := strconv.Atoi(rawID)
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	records, err := as.ByDocument(ctx, id)
	if err != nil {
		log.Error("failed to get document audit trail", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	writeJSON(log, w, records)
}

func ByUser(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, rawID string, as AuditService) {
	op := pkg + "ByUser"

	log = log.With(slog.String("op", op))

	id, err := strconv.Atoi(rawID)
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	records, err := as.ByUser(ctx, id)
	if err != nil {
		log.Error("failed to get user audit trail", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	writeJSON(log, w, records)
}

func writeJSON(log *slog.Logger, w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
