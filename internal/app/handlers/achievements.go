package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mkorolev/dp-store/internal/domain/models"
	"github.com/mkorolev/dp-store/internal/service"
)

type AchievementRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
}

type AwardRequest struct {
	AchievementID int64 `json:"achievementId" validate:"required,gt=0"`
}

// AchievementsHandler — справочник достижений и их выдача пользователям
type AchievementsHandler struct {
	log          *slog.Logger
	achievements service.AchievementService
}

func NewAchievementsHandler(log *slog.Logger, achievements service.AchievementService) *AchievementsHandler {
	return &AchievementsHandler{log: log, achievements: achievements}
}

func (h *AchievementsHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AchievementsHandler.List"
		logger := h.log.With(slog.String("op", op))

		achievements, err := h.achievements.List(r.Context())
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, achievements)
	}
}

func (h *AchievementsHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AchievementsHandler.Get"
		logger := h.log.With(slog.String("op", op))

		id, ok := idParam(r)
		if !ok {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid id")
			return
		}
		a, err := h.achievements.Get(r.Context(), id)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, a)
	}
}

func (h *AchievementsHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AchievementsHandler.Create"
		logger := h.log.With(slog.String("op", op))

		var req AchievementRequest
		if !decodeBody(logger, w, r, &req) {
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "validation error")
			return
		}
		created, err := h.achievements.Create(r.Context(), &models.Achievement{
			Title:       req.Title,
			Description: req.Description,
		})
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusCreated, created)
	}
}

func (h *AchievementsHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AchievementsHandler.Delete"
		logger := h.log.With(slog.String("op", op))

		id, ok := idParam(r)
		if !ok {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid id")
			return
		}
		if err := h.achievements.Delete(r.Context(), id); err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// userIDParam разбирает параметр пути {userID}
func userIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Award – POST /api/users/{userID}/achievements: выдать достижение.
// Повторная выдача того же достижения дает 409
func (h *AchievementsHandler) Award() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AchievementsHandler.Award"
		logger := h.log.With(slog.String("op", op))

		userID, ok := userIDParam(r)
		if !ok {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid user id")
			return
		}
		var req AwardRequest
		if !decodeBody(logger, w, r, &req) {
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "validation error")
			return
		}
		if err := h.achievements.Award(r.Context(), userID, req.AchievementID); err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusCreated, map[string]string{"status": "awarded"})
	}
}

// ListByUser – GET /api/users/{userID}/achievements
func (h *AchievementsHandler) ListByUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AchievementsHandler.ListByUser"
		logger := h.log.With(slog.String("op", op))

		userID, ok := userIDParam(r)
		if !ok {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid user id")
			return
		}
		awarded, err := h.achievements.ListByUser(r.Context(), userID)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, awarded)
	}
}
