package users

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

func Register(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, us UserService) {
	op := pkg + "Register"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFrom(ctx)
	if !ok {
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	var request dto.RegisterUserRequest

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Warn("failed to decode body", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}
	defer r.Body.Close()

	user, err := us.Register(ctx, request, requester.ID)
	if err != nil {
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusCreated, user)
}

func Modify(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, rawID string, us UserService) {
	op := pkg + "Modify"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFrom(ctx)
	if !ok {
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	id, err := strconv.Atoi(rawID)
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	var request dto.UpdateUserRequest

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Warn("failed to decode body", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}
	defer r.Body.Close()

	user, err := us.Modify(ctx, id, request, requester.ID)
	if err != nil {
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, user)
}

func Deactivate(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, rawID string, us UserService) {
	op := pkg + "Deactivate"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFrom(ctx)
	if !ok {
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	id, err := strconv.Atoi(rawID)
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	if err := us.Deactivate(ctx, id, requester.ID); err != nil {
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, map[string]any{"deactivated": id})
}

func Delete(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, rawID string, us UserService) {
	op := pkg + "Delete"

	log = log.With(slog.String("op", op))

	if _, ok := requesterFrom(ctx); !ok {
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	id, err := strconv.Atoi(rawID)
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	if err := us.Delete(ctx, id); err != nil {
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, map[string]any{"deleted": id})
}

func Get(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, rawID string, us UserService) {
	op := pkg + "Get"

	log = log.With(slog.String("op", op))

	id, err := strconv.Atoi(rawID)
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	user, err := us.UserByID(ctx, id)
	if err != nil {
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, user)
}

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
	case errors.Is(err, models.ErrUserNotFound):
		log.Warn("user not found", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrDuplicateResource):
		log.Warn("duplicate user", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrInvalidParams):
		log.Warn("invalid request", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error("request failed", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
	}
}
