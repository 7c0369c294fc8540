package jwtmiddleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mkorolev/dp-store/internal/domain/models"
	jwtauth "github.com/mkorolev/dp-store/internal/lib/jwt"
	"github.com/mkorolev/dp-store/internal/lib/jwt/jwtmiddleware"
	"github.com/stretchr/testify/assert"
)

var secret = []byte("testsecret")

func protected(t *testing.T) http.Handler {
	t.Helper()
	mw := jwtmiddleware.New(secret)
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, ok := jwtmiddleware.FromContext(r.Context())
		assert.True(t, ok, "username must be in context behind the middleware")
		w.Write([]byte(username))
	}))
}

func testToken(t *testing.T) string {
	t.Helper()
	token, err := jwtauth.NewToken(&models.User{Username: "buyer"}, secret, time.Hour)
	assert.NoError(t, err)
	return token
}

func TestMiddleware_MissingToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()

	protected(t).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMiddleware_BearerHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t))
	rr := httptest.NewRecorder()

	protected(t).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "buyer", rr.Body.String())
}

func TestMiddleware_TokenCookie(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: jwtmiddleware.TokenCookieName, Value: testToken(t)})
	rr := httptest.NewRecorder()

	protected(t).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "buyer", rr.Body.String())
}

func TestMiddleware_InvalidToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr := httptest.NewRecorder()

	protected(t).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
