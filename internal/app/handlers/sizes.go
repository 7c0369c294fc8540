package handlers

import (
	"log/slog"
	"net/http"

	"github.com/mkorolev/dp-store/internal/domain/models"
	"github.com/mkorolev/dp-store/internal/service"
)

type SizeRequest struct {
	Label string `json:"label" validate:"required"`
}

// SizesHandler — справочник размеров
type SizesHandler struct {
	log     *slog.Logger
	catalog service.CatalogService
}

func NewSizesHandler(log *slog.Logger, catalog service.CatalogService) *SizesHandler {
	return &SizesHandler{log: log, catalog: catalog}
}

func (h *SizesHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SizesHandler.List"
		logger := h.log.With(slog.String("op", op))

		sizes, err := h.catalog.ListSizes(r.Context())
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, sizes)
	}
}

func (h *SizesHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SizesHandler.Create"
		logger := h.log.With(slog.String("op", op))

		var req SizeRequest
		if !decodeBody(logger, w, r, &req) {
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "validation error")
			return
		}
		created, err := h.catalog.CreateSize(r.Context(), &models.Size{Label: req.Label})
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusCreated, created)
	}
}

func (h *SizesHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SizesHandler.Delete"
		logger := h.log.With(slog.String("op", op))

		id, ok := idParam(r)
		if !ok {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid id")
			return
		}
		if err := h.catalog.DeleteSize(r.Context(), id); err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
