package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mkorolev/dp-store/internal/cart"
	"github.com/mkorolev/dp-store/internal/service"
)

// CartItemRequest — позиция корзины в теле запроса
type CartItemRequest struct {
	ProductID int64  `json:"productId" validate:"required,gt=0"`
	SizeID    *int64 `json:"sizeId,omitempty"`
	Quantity  int    `json:"quantity"`
}

// CartHandler обслуживает корзину в подписанной cookie; каждая операция
// читает актуальное состояние и записывает новое той же cookie
type CartHandler struct {
	log   *slog.Logger
	codec *cart.CookieCodec
	view  service.CartViewService
}

func NewCartHandler(log *slog.Logger, codec *cart.CookieCodec, view service.CartViewService) *CartHandler {
	return &CartHandler{log: log, codec: codec, view: view}
}

// View – GET /api/cart: содержимое корзины, обогащенное каталогом
func (h *CartHandler) View() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CartHandler.View"
		logger := h.log.With(slog.String("op", op))

		store := h.codec.Store(w, r)
		c, err := store.Load()
		if err != nil {
			logger.Error("failed to load cart", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		view, err := h.view.View(r.Context(), c)
		if err != nil {
			logger.Error("failed to build cart view", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, view)
	}
}

// Add – POST /api/cart/add: слить позицию в корзину
func (h *CartHandler) Add() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CartHandler.Add"
		logger := h.log.With(slog.String("op", op))

		var req CartItemRequest
		if !decodeBody(logger, w, r, &req) {
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "validation error")
			return
		}

		store := h.codec.Store(w, r)
		c, err := store.Load()
		if err != nil {
			writeError(logger, w, err)
			return
		}
		if err := c.Upsert(req.ProductID, req.SizeID, req.Quantity); err != nil {
			logger.Warn("cart add rejected", slog.Int64("productID", req.ProductID), slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		if err := store.Save(c); err != nil {
			logger.Error("failed to save cart", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, c)
	}
}

// Update – POST /api/cart/update: выставить количество позиции
func (h *CartHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CartHandler.Update"
		logger := h.log.With(slog.String("op", op))

		var req CartItemRequest
		if !decodeBody(logger, w, r, &req) {
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "validation error")
			return
		}

		store := h.codec.Store(w, r)
		c, err := store.Load()
		if err != nil {
			writeError(logger, w, err)
			return
		}
		if err := c.SetQuantity(req.ProductID, req.SizeID, req.Quantity); err != nil {
			logger.Warn("cart update rejected", slog.Int64("productID", req.ProductID), slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		if err := store.Save(c); err != nil {
			logger.Error("failed to save cart", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, c)
	}
}

// Quantity – GET /api/cart/quantity?productId&sizeId: текущее количество позиции
func (h *CartHandler) Quantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CartHandler.Quantity"
		logger := h.log.With(slog.String("op", op))

		productID, err := strconv.ParseInt(r.URL.Query().Get("productId"), 10, 64)
		if err != nil || productID <= 0 {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid productId")
			return
		}
		sizeID, ok := optionalIDParam(r.URL.Query().Get("sizeId"))
		if !ok {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid sizeId")
			return
		}

		store := h.codec.Store(w, r)
		c, err := store.Load()
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]int{"currentQuantity": c.QuantityOf(productID, sizeID)})
	}
}

// Remove – POST /api/cart/remove: убрать позицию; отсутствие позиции не ошибка
func (h *CartHandler) Remove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CartHandler.Remove"
		logger := h.log.With(slog.String("op", op))

		var req struct {
			ProductID int64  `json:"productId" validate:"required,gt=0"`
			SizeID    *int64 `json:"sizeId,omitempty"`
		}
		if !decodeBody(logger, w, r, &req) {
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "validation error")
			return
		}

		store := h.codec.Store(w, r)
		c, err := store.Load()
		if err != nil {
			writeError(logger, w, err)
			return
		}
		c.Remove(req.ProductID, req.SizeID)
		if err := store.Save(c); err != nil {
			logger.Error("failed to save cart", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, c)
	}
}

// optionalIDParam разбирает необязательный числовой параметр запроса
func optionalIDParam(raw string) (*int64, bool) {
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	return &id, true
}
