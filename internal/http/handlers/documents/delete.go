package documents

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"digesto/internal/models"
	utils "digesto/internal/utils/http_errors"
)

func Delete(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, ds DocumentService) {
	op := pkg + "Delete"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFrom(ctx)
	if !ok {
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	id, err := strconv.Atoi(docID)
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	if err := ds.DeleteDocument(ctx, id, requester.ID); err != nil {
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, map[string]any{"deleted": id})
}
