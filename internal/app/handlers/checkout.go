package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/mkorolev/dp-store/internal/cart"
	"github.com/mkorolev/dp-store/internal/lib/jwt/jwtmiddleware"
	"github.com/mkorolev/dp-store/internal/service"
)

// CheckoutRequest — обернутая форма тела оформления
type CheckoutRequest struct {
	Items []cart.Item `json:"items"`
}

// decodeCheckoutItems разбирает тело оформления. Каноническая форма — голый
// массив позиций; обернутая {"items": [...]} тоже принимается. Пустое тело
// не ошибка: тогда оформляется содержимое cookie-корзины
func decodeCheckoutItems(r *http.Request) ([]cart.Item, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}

	var items []cart.Item
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}
	var req CheckoutRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}
	return req.Items, nil
}

// CheckoutHandler – POST /api/cart/checkout. Токен берется из cookie Token
// или заголовка Authorization; проверка выполняется внутри сервиса, а не
// middleware, чтобы неавторизованное оформление не трогало ни корзину, ни БД.
// Cookie корзины очищается только после успешного заказа
func CheckoutHandler(log *slog.Logger, checkout service.CheckoutService, codec *cart.CookieCodec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckoutHandler"
		logger := log.With(slog.String("op", op))

		items, err := decodeCheckoutItems(r)
		if err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "invalid request body")
			return
		}

		store := codec.Store(w, r)
		if len(items) == 0 {
			c, err := store.Load()
			if err != nil {
				logger.Error("failed to load cart", slog.Any("error", err))
				writeError(logger, w, err)
				return
			}
			items = c.Items
		}

		credential := jwtmiddleware.CredentialFromRequest(r)
		receipt, err := checkout.Checkout(r.Context(), credential, items)
		if err != nil {
			logger.Warn("checkout failed", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		if err := store.Clear(); err != nil {
			// Заказ уже создан; неудавшаяся очистка cookie его не отменяет
			logger.Error("failed to clear cart cookie", slog.Any("error", err))
		}
		writeJSON(logger, w, http.StatusOK, receipt)
	}
}
