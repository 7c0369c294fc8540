package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mkorolev/dp-store/internal/domain/models"
	"github.com/mkorolev/dp-store/internal/service"
)

// AttributeRequest — тело создания и обновления варианта товара.
// Version обязателен при обновлении, несовпадение дает 409
type AttributeRequest struct {
	ProductID int64  `json:"productId" validate:"required,gt=0"`
	SizeID    *int64 `json:"sizeId,omitempty"`
	Count     int    `json:"count" validate:"gte=0"`
	Version   int    `json:"version"`
}

// AttributesHandler — администрирование продаваемых вариантов (товар + размер).
// Именно эти записи находит оформление заказа
type AttributesHandler struct {
	log     *slog.Logger
	catalog service.CatalogService
}

func NewAttributesHandler(log *slog.Logger, catalog service.CatalogService) *AttributesHandler {
	return &AttributesHandler{log: log, catalog: catalog}
}

// List – GET /api/attributes?productId: варианты товара
func (h *AttributesHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AttributesHandler.List"
		logger := h.log.With(slog.String("op", op))

		productID, err := strconv.ParseInt(r.URL.Query().Get("productId"), 10, 64)
		if err != nil || productID <= 0 {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid productId")
			return
		}
		attrs, err := h.catalog.ListAttributes(r.Context(), productID)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, attrs)
	}
}

func (h *AttributesHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AttributesHandler.Create"
		logger := h.log.With(slog.String("op", op))

		var req AttributeRequest
		if !decodeBody(logger, w, r, &req) {
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "validation error")
			return
		}
		created, err := h.catalog.CreateAttribute(r.Context(), &models.ProductAttribute{
			ProductID: req.ProductID,
			SizeID:    req.SizeID,
			Count:     req.Count,
		})
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusCreated, created)
	}
}

func (h *AttributesHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AttributesHandler.Update"
		logger := h.log.With(slog.String("op", op))

		id, ok := idParam(r)
		if !ok {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid id")
			return
		}
		var req AttributeRequest
		if !decodeBody(logger, w, r, &req) {
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "validation error")
			return
		}
		attr := &models.ProductAttribute{
			ID:        id,
			ProductID: req.ProductID,
			SizeID:    req.SizeID,
			Count:     req.Count,
			Version:   req.Version,
		}
		if err := h.catalog.UpdateAttribute(r.Context(), attr); err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

func (h *AttributesHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AttributesHandler.Delete"
		logger := h.log.With(slog.String("op", op))

		id, ok := idParam(r)
		if !ok {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid id")
			return
		}
		if err := h.catalog.DeleteAttribute(r.Context(), id); err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
