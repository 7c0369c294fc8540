package cart_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mkorolev/dp-store/internal/cart"
	"github.com/stretchr/testify/assert"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

// carryCookies переносит Set-Cookie из ответа в следующий запрос
func carryCookies(t *testing.T, rr *httptest.ResponseRecorder, req *http.Request) {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

func TestCookieStore_RoundTrip(t *testing.T) {
	codec := cart.NewCookieCodec(testKey, 72*time.Hour)

	// Сохраняем корзину в рамках первого запроса
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/cart/add", nil)
	store := codec.Store(rr, req)

	c, err := store.Load()
	assert.NoError(t, err)
	assert.Equal(t, 0, c.Len(), "fresh session starts with an empty cart")

	assert.NoError(t, c.Upsert(5, nil, 3))
	assert.NoError(t, store.Save(c))

	// Читаем корзину в рамках второго запроса с перенесенной cookie
	rr2 := httptest.NewRecorder()
	req2 := httptest.NewRequest("GET", "/cart", nil)
	carryCookies(t, rr, req2)

	loaded, err := codec.Store(rr2, req2).Load()
	assert.NoError(t, err)
	assert.Equal(t, 3, loaded.QuantityOf(5, nil))
}

func TestCookieStore_ReadYourWrites(t *testing.T) {
	codec := cart.NewCookieCodec(testKey, 72*time.Hour)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/cart/add", nil)
	store := codec.Store(rr, req)

	c, _ := store.Load()
	assert.NoError(t, c.Upsert(1, nil, 2))
	assert.NoError(t, store.Save(c))

	// Load в том же запросе должен видеть только что сохраненные данные
	again, err := store.Load()
	assert.NoError(t, err)
	assert.Equal(t, 2, again.QuantityOf(1, nil))
}

func TestCookieStore_TamperedCookieIgnored(t *testing.T) {
	codec := cart.NewCookieCodec(testKey, 72*time.Hour)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/cart", nil)
	req.AddCookie(&http.Cookie{Name: cart.CookieName, Value: "forged-value"})

	c, err := codec.Store(rr, req).Load()
	assert.NoError(t, err)
	assert.Equal(t, 0, c.Len(), "cookie with a bad signature must be discarded")
}

func TestCookieStore_Clear(t *testing.T) {
	codec := cart.NewCookieCodec(testKey, 72*time.Hour)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/cart/checkout", nil)
	store := codec.Store(rr, req)

	c, _ := store.Load()
	assert.NoError(t, c.Upsert(1, nil, 1))
	assert.NoError(t, store.Save(c))
	assert.NoError(t, store.Clear())

	// После очистки Load возвращает пустую корзину
	cleared, err := store.Load()
	assert.NoError(t, err)
	assert.Equal(t, 0, cleared.Len())

	// Последняя установленная cookie должна гасить клиентскую
	cookies := rr.Result().Cookies()
	last := cookies[len(cookies)-1]
	assert.Equal(t, cart.CookieName, last.Name)
	assert.Less(t, last.MaxAge, 0)
}

func TestMemoryStore(t *testing.T) {
	store := &cart.MemoryStore{}

	c, err := store.Load()
	assert.NoError(t, err)
	assert.NoError(t, c.Upsert(2, nil, 5))
	assert.NoError(t, store.Save(c))

	loaded, err := store.Load()
	assert.NoError(t, err)
	assert.Equal(t, 5, loaded.QuantityOf(2, nil))

	assert.NoError(t, store.Clear())
	loaded, _ = store.Load()
	assert.Equal(t, 0, loaded.Len())
}
