package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mkorolev/dp-store/internal/domain/models"
	"github.com/mkorolev/dp-store/internal/service"
	"github.com/shopspring/decimal"
)

// idParam разбирает параметр пути {id}
func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ProductRequest — тело создания и обновления товара. Version обязателен
// при обновлении: несовпадение с текущей версией в БД дает 409
type ProductRequest struct {
	Title           string          `json:"title" validate:"required"`
	Price           decimal.Decimal `json:"price"`
	PurchasePrice   decimal.Decimal `json:"purchasePrice"`
	DiscountPercent *int            `json:"discountPercent,omitempty"`
	Description     string          `json:"description,omitempty"`
	CategoryID      *int64          `json:"categoryId,omitempty"`
	Version         int             `json:"version"`
}

func (req *ProductRequest) toModel(id int64) *models.Product {
	return &models.Product{
		ID:              id,
		Title:           req.Title,
		Price:           req.Price,
		PurchasePrice:   req.PurchasePrice,
		DiscountPercent: req.DiscountPercent,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
		Version:         req.Version,
	}
}

// ProductsHandler — CRUD товаров каталога
type ProductsHandler struct {
	log     *slog.Logger
	catalog service.CatalogService
}

func NewProductsHandler(log *slog.Logger, catalog service.CatalogService) *ProductsHandler {
	return &ProductsHandler{log: log, catalog: catalog}
}

func (h *ProductsHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductsHandler.List"
		logger := h.log.With(slog.String("op", op))

		products, err := h.catalog.ListProducts(r.Context())
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, products)
	}
}

// Get отдает карточку товара: товар, варианты, описания изображений
func (h *ProductsHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductsHandler.Get"
		logger := h.log.With(slog.String("op", op))

		id, ok := idParam(r)
		if !ok {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid id")
			return
		}
		details, err := h.catalog.GetProduct(r.Context(), id)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, details)
	}
}

func (h *ProductsHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductsHandler.Create"
		logger := h.log.With(slog.String("op", op))

		var req ProductRequest
		if !decodeBody(logger, w, r, &req) {
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "validation error")
			return
		}
		created, err := h.catalog.CreateProduct(r.Context(), req.toModel(0))
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusCreated, created)
	}
}

func (h *ProductsHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductsHandler.Update"
		logger := h.log.With(slog.String("op", op))

		id, ok := idParam(r)
		if !ok {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid id")
			return
		}
		var req ProductRequest
		if !decodeBody(logger, w, r, &req) {
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "validation error")
			return
		}
		if err := h.catalog.UpdateProduct(r.Context(), req.toModel(id)); err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

func (h *ProductsHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductsHandler.Delete"
		logger := h.log.With(slog.String("op", op))

		id, ok := idParam(r)
		if !ok {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid id")
			return
		}
		if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
