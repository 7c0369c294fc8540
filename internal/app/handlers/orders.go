package handlers

import (
	"log/slog"
	"net/http"

	"github.com/mkorolev/dp-store/internal/lib/jwt/jwtmiddleware"
	"github.com/mkorolev/dp-store/internal/service"
)

// OrdersHandler — заказы пользователя; маршруты закрыты JWT-middleware,
// имя пользователя берется из контекста запроса
type OrdersHandler struct {
	log    *slog.Logger
	orders service.OrderService
}

func NewOrdersHandler(log *slog.Logger, orders service.OrderService) *OrdersHandler {
	return &OrdersHandler{log: log, orders: orders}
}

// List – GET /api/orders: заказы текущего пользователя
func (h *OrdersHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrdersHandler.List"
		logger := h.log.With(slog.String("op", op))

		username, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeErrorKind(logger, w, http.StatusUnauthorized, "Unauthenticated", "missing or invalid token")
			return
		}
		orders, err := h.orders.ListByUsername(r.Context(), username)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, orders)
	}
}

// Get – GET /api/orders/{id}: заказ вместе с составом
func (h *OrdersHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrdersHandler.Get"
		logger := h.log.With(slog.String("op", op))

		id, ok := idParam(r)
		if !ok {
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid id")
			return
		}
		details, err := h.orders.Get(r.Context(), id)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, details)
	}
}
