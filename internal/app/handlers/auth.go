package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mkorolev/dp-store/internal/lib/jwt/jwtmiddleware"
	"github.com/mkorolev/dp-store/internal/service"
)

// AuthRequest представляет структуру запроса для регистрации и входа
type AuthRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthResponse представляет структуру ответа с JWT-токеном
type AuthResponse struct {
	Token string `json:"token"`
}

var validate = validator.New()

// RegisterHandler – HTTP-обработчик регистрации пользователя
func RegisterHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RegisterHandler"
		logger := log.With(slog.String("op", op))

		var req AuthRequest
		if !decodeBody(logger, w, r, &req) {
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "validation error")
			return
		}

		user, err := authService.Register(r.Context(), req.Username, req.Password)
		if err != nil {
			logger.Error("registration failed", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusCreated, map[string]any{"id": user.ID, "username": user.Username})
	}
}

// LoginHandler – HTTP-обработчик входа; токен возвращается в теле и
// дублируется в cookie Token, откуда его читает оформление заказа
func LoginHandler(log *slog.Logger, authService service.AuthServiceInterface, tokenTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LoginHandler"
		logger := log.With(slog.String("op", op))

		var req AuthRequest
		if !decodeBody(logger, w, r, &req) {
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeErrorKind(logger, w, http.StatusBadRequest, "BadRequest", "validation error")
			return
		}

		token, err := authService.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			logger.Error("login failed", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     jwtmiddleware.TokenCookieName,
			Value:    token,
			Path:     "/",
			Expires:  time.Now().Add(tokenTTL),
			HttpOnly: true,
		})
		writeJSON(logger, w, http.StatusOK, AuthResponse{Token: token})
	}
}
