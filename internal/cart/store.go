package cart

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

// CookieName — имя cookie, в которой живет корзина
const CookieName = "Cart"

// Store — хранилище корзины, привязанное к сессии клиента. Передается в
// обработчики явно, чтобы бизнес-логика не зависела от HTTP-слоя
type Store interface {
	Load() (Cart, error)
	Save(c Cart) error
	Clear() error
}

// CookieCodec подписывает и проверяет cookie корзины (HMAC через securecookie).
// Поддельная или протухшая cookie отбрасывается — корзина считается пустой
type CookieCodec struct {
	sc  *securecookie.SecureCookie
	ttl time.Duration
}

// NewCookieCodec создает кодек с ключом подписи и временем жизни cookie
func NewCookieCodec(hashKey []byte, ttl time.Duration) *CookieCodec {
	sc := securecookie.New(hashKey, nil)
	sc.SetSerializer(securecookie.JSONEncoder{})
	sc.MaxAge(int(ttl.Seconds()))
	return &CookieCodec{sc: sc, ttl: ttl}
}

// Store возвращает хранилище корзины для конкретного запроса
func (cc *CookieCodec) Store(w http.ResponseWriter, r *http.Request) Store {
	return &cookieStore{codec: cc, w: w, r: r}
}

type cookieStore struct {
	codec  *CookieCodec
	w      http.ResponseWriter
	r      *http.Request
	cached *Cart // read-your-writes в пределах одного запроса
}

func (s *cookieStore) Load() (Cart, error) {
	if s.cached != nil {
		return *s.cached, nil
	}
	cookie, err := s.r.Cookie(CookieName)
	if err != nil {
		// cookie нет — корзина пустая
		return Cart{}, nil
	}
	var items []Item
	if err := s.codec.sc.Decode(CookieName, cookie.Value, &items); err != nil {
		// подпись не сошлась или cookie протухла — начинаем с чистой корзины
		return Cart{}, nil
	}
	c := Cart{Items: items}
	s.cached = &c
	return c, nil
}

func (s *cookieStore) Save(c Cart) error {
	encoded, err := s.codec.sc.Encode(CookieName, c.Items)
	if err != nil {
		return fmt.Errorf("failed to encode cart cookie: %w", err)
	}
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		Expires:  time.Now().Add(s.codec.ttl),
		HttpOnly: true,
	})
	s.cached = &c
	return nil
}

func (s *cookieStore) Clear() error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	s.cached = &Cart{}
	return nil
}

// MemoryStore — хранилище корзины в памяти, для тестов и как пример замены
// cookie на серверную сессию
type MemoryStore struct {
	cart Cart
}

func (s *MemoryStore) Load() (Cart, error) { return s.cart, nil }

func (s *MemoryStore) Save(c Cart) error {
	s.cart = c
	return nil
}

func (s *MemoryStore) Clear() error {
	s.cart = Cart{}
	return nil
}
