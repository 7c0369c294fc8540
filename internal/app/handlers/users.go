package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mkorolev/dp-store/internal/service"
	"github.com/mkorolev/dp-store/internal/storage"
)

// UsersHandler — чтение учетных записей; хэш пароля наружу не отдается
type UsersHandler struct {
	log   *slog.Logger
	users service.UserService
}

func NewUsersHandler(log *slog.Logger, users service.UserService) *UsersHandler {
	return &UsersHandler{log: log, users: users}
}

func (h *UsersHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UsersHandler.List"
		logger := h.log.With(slog.String("op", op))

		users, err := h.users.List(r.Context())
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, users)
	}
}

func (h *UsersHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UsersHandler.Get"
		logger := h.log.With(slog.String("op", op))

		id, ok := userIDParam(r)
		if !ok {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid id")
			return
		}
		user, err := h.users.Get(r.Context(), id)
		if err != nil {
			// на чтении сущности отсутствие пользователя — 404, а не 400,
			// как при оформлении заказа
			if errors.Is(err, storage.ErrUserNotFound) {
				writeErrorKind(logger, w, http.StatusNotFound, "NotFound", "requested entity not found")
				return
			}
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, user)
	}
}
