package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"digesto/internal/dto"
	"digesto/internal/models"
	utils "digesto/internal/utils/http_errors"
)

func Add(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, auth AuthService) {
	op := pkg + "Add"

	log = log.With(slog.String("op", op))

	var request dto.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Warn("failed to decode body", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}
	defer r.Body.Close()

	token, err := auth.Login(ctx, request.Email, request.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			log.Warn("failed to login user", slog.String("error", err.Error()))
			utils.WriteJSONError(w, http.StatusForbidden, models.ErrInvalidCredentials.Error())
			return
		}
		log.Error("failed to login user", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(dto.LoginResponse{Token: token}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
