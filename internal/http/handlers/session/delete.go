package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"digesto/internal/models"
	utils "digesto/internal/utils/http_errors"
)

func Delete(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, token string, auth AuthService) {
	op := pkg + "Delete"

	log = log.With(slog.String("op", op))

	if err := auth.Logout(ctx, token); err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			log.Warn("session not found")
			utils.WriteJSONError(w, http.StatusNotFound, models.ErrSessionNotFound.Error())
			return
		}
		log.Error("failed to logout user", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	response := map[string]any{
		"response": map[string]any{
			token: true,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
