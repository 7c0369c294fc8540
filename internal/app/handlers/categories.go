package handlers

import (
	"log/slog"
	"net/http"

	"github.com/mkorolev/dp-store/internal/domain/models"
	"github.com/mkorolev/dp-store/internal/service"
)

type CategoryRequest struct {
	Title   string `json:"title" validate:"required"`
	Version int    `json:"version"`
}

// CategoriesHandler — CRUD категорий
type CategoriesHandler struct {
	log     *slog.Logger
	catalog service.CatalogService
}

func NewCategoriesHandler(log *slog.Logger, catalog service.CatalogService) *CategoriesHandler {
	return &CategoriesHandler{log: log, catalog: catalog}
}

func (h *CategoriesHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CategoriesHandler.List"
		logger := h.log.With(slog.String("op", op))

		categories, err := h.catalog.ListCategories(r.Context())
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, categories)
	}
}

func (h *CategoriesHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CategoriesHandler.Create"
		logger := h.log.With(slog.String("op", op))

		var req CategoryRequest
		if !decodeBody(logger, w, r, &req) {
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "validation error")
			return
		}
		created, err := h.catalog.CreateCategory(r.Context(), &models.Category{Title: req.Title})
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusCreated, created)
	}
}

func (h *CategoriesHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CategoriesHandler.Update"
		logger := h.log.With(slog.String("op", op))

		id, ok := idParam(r)
		if !ok {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid id")
			return
		}
		var req CategoryRequest
		if !decodeBody(logger, w, r, &req) {
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "validation error")
			return
		}
		category := &models.Category{ID: id, Title: req.Title, Version: req.Version}
		if err := h.catalog.UpdateCategory(r.Context(), category); err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

func (h *CategoriesHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CategoriesHandler.Delete"
		logger := h.log.With(slog.String("op", op))

		id, ok := idParam(r)
		if !ok {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid id")
			return
		}
		if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
