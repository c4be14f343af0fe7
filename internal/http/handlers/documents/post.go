package documents

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"digesto/internal/dto"
	"digesto/internal/models"
	utils "digesto/internal/utils/http_errors"
)

func Create(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, ds DocumentService) {
	op := pkg + "Create"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFrom(ctx)
	if !ok {
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	var request dto.DocumentRequest

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Warn("failed to decode body", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}
	defer r.Body.Close()

	doc, err := ds.CreateDocument(ctx, request.ToCommand(), requester.ID)
	if err != nil {
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusCreated, doc)
}
