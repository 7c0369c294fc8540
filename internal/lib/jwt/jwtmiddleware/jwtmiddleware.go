package jwtmiddleware

import (
	"context"
	"net/http"
	"strings"

	jwtauth "github.com/mkorolev/dp-store/internal/lib/jwt"
)

type contextKey string

const usernameKey contextKey = "username"

// TokenCookieName — имя cookie, в которой клиент может передать токен
const TokenCookieName = "Token"

// CredentialFromRequest извлекает токен из cookie Token либо из заголовка
// Authorization (формат "Bearer <token>"). Пустая строка — токена нет
func CredentialFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// New создает middleware, проверяющее токен и кладущее имя пользователя в контекст
func New(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := CredentialFromRequest(r)
			if tokenStr == "" {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}

			username, err := jwtauth.ParseUsername(tokenStr, secret)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext извлекает имя пользователя из контекста
func FromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok
}
