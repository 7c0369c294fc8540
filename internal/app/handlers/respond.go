package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mkorolev/dp-store/internal/cart"
	"github.com/mkorolev/dp-store/internal/service"
	"github.com/mkorolev/dp-store/internal/storage"
)

// ErrorResponse — единый конверт ошибки: машинно-проверяемый kind и
// человекочитаемая деталь. Внутренние подробности наружу не уходят
type ErrorResponse struct {
	Error ErrorInfo `json:"error"`
}

type ErrorInfo struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

func writeJSON(log *slog.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", slog.Any("error", err))
	}
}

func writeErrorKind(log *slog.Logger, w http.ResponseWriter, status int, kind, detail string) {
	writeJSON(log, w, status, ErrorResponse{Error: ErrorInfo{Kind: kind, Detail: detail}})
}

// writeError сопоставляет ошибки сервисного слоя со статусами и kind.
// Неопознанная ошибка считается сбоем хранилища и наружу отдается без деталей
func writeError(log *slog.Logger, w http.ResponseWriter, err error) {
	var lineErr *service.LineNotFoundError

	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		writeErrorKind(log, w, http.StatusBadRequest, "InvalidQuantity", "quantity must be between 1 and 100")
	case errors.Is(err, service.ErrEmptyCart):
		writeErrorKind(log, w, http.StatusBadRequest, "EmptyCart", "cart is empty")
	case errors.Is(err, service.ErrUnauthenticated):
		writeErrorKind(log, w, http.StatusUnauthorized, "Unauthenticated", "missing or invalid token")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeErrorKind(log, w, http.StatusUnauthorized, "Unauthenticated", "invalid username or password")
	case errors.Is(err, storage.ErrUserExists):
		writeErrorKind(log, w, http.StatusBadRequest, "UserExists", "user already exists")
	case errors.Is(err, storage.ErrUserNotFound):
		writeErrorKind(log, w, http.StatusBadRequest, "UserNotFound", "user not found")
	case errors.As(err, &lineErr):
		writeErrorKind(log, w, http.StatusBadRequest, "NotFound", lineErr.Error())
	case errors.Is(err, service.ErrNoExportData):
		writeErrorKind(log, w, http.StatusBadRequest, "NoExportData", "no data to export")
	case errors.Is(err, storage.ErrConflict):
		writeErrorKind(log, w, http.StatusConflict, "Conflict", "record was modified concurrently, re-fetch and retry")
	case errors.Is(err, storage.ErrAlreadyAwarded):
		writeErrorKind(log, w, http.StatusConflict, "Conflict", "achievement already awarded")
	case errors.Is(err, storage.ErrAttributeExists):
		writeErrorKind(log, w, http.StatusConflict, "Conflict", "attribute for this product and size already exists")
	case errors.Is(err, storage.ErrProductNotFound),
		errors.Is(err, storage.ErrCategoryNotFound),
		errors.Is(err, storage.ErrSizeNotFound),
		errors.Is(err, storage.ErrImageNotFound),
		errors.Is(err, storage.ErrOrderNotFound),
		errors.Is(err, storage.ErrAchievementNotFound),
		errors.Is(err, storage.ErrAttributeNotFound):
		writeErrorKind(log, w, http.StatusNotFound, "NotFound", "requested entity not found")
	default:
		log.Error("internal error", slog.Any("error", err))
		writeErrorKind(log, w, http.StatusInternalServerError, "PersistenceError", "internal server error")
	}
}

func decodeBody(log *slog.Logger, w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Error("invalid request: decoding error", slog.Any("error", err))
		writeErrorKind(log, w, http.StatusBadRequest, "BadRequest", "invalid request body")
		return false
	}
	return true
}
