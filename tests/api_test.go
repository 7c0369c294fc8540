package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Сценарные тесты против работающего сервера. Запускаются только при
// заданном API_BASE_URL, например API_BASE_URL=http://localhost:8080
func baseURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("API_BASE_URL")
	if url == "" {
		t.Skip("API_BASE_URL not set, skipping black-box API tests")
	}
	return url
}

// AuthResponse структура ответа при аутентификации
type AuthResponse struct {
	Token string `json:"token"`
}

// ReceiptResponse – структура ответа оформления заказа
type ReceiptResponse struct {
	OrderID      int64 `json:"orderId"`
	OrderDetails []struct {
		ProductTitle string `json:"productTitle"`
		Quantity     int    `json:"quantity"`
		UnitPrice    string `json:"unitPrice"`
		TotalPrice   string `json:"totalPrice"`
	} `json:"orderDetails"`
	Total string `json:"total"`
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

func registerAndLogin(t *testing.T, client *http.Client, base string) string {
	t.Helper()
	username := fmt.Sprintf("user_%d", time.Now().UnixNano())
	creds := []byte(`{"username": "` + username + `", "password": "strongpass123"}`)

	resp, err := client.Post(base+"/api/auth/register", "application/json", bytes.NewBuffer(creds))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = client.Post(base+"/api/auth/login", "application/json", bytes.NewBuffer(creds))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var auth AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&auth))
	require.NotEmpty(t, auth.Token)
	return auth.Token
}

func addToCart(t *testing.T, client *http.Client, base string, productID, quantity int) *http.Response {
	t.Helper()
	body := []byte(fmt.Sprintf(`{"productId": %d, "quantity": %d}`, productID, quantity))
	resp, err := client.Post(base+"/api/cart/add", "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	return resp
}

func TestCheckoutRequiresAuthentication(t *testing.T) {
	base := baseURL(t)
	client := newClient(t)

	resp := addToCart(t, client, base, 1, 2)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// без токена оформление отклоняется, корзина остается
	resp2, err := client.Post(base+"/api/cart/checkout", "application/json", nil)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)

	resp3, err := client.Get(base + "/api/cart/quantity?productId=1")
	require.NoError(t, err)
	defer resp3.Body.Close()
	var q struct {
		Quantity int `json:"currentQuantity"`
	}
	require.NoError(t, json.NewDecoder(resp3.Body).Decode(&q))
	assert.Equal(t, 2, q.Quantity)
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	base := baseURL(t)
	client := newClient(t)
	registerAndLogin(t, client, base)

	resp, err := client.Post(base+"/api/cart/checkout", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCartQuantityBounds(t *testing.T) {
	base := baseURL(t)
	client := newClient(t)

	resp := addToCart(t, client, base, 1, 101)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp2 := addToCart(t, client, base, 1, 0)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestCartAddMergesDuplicates(t *testing.T) {
	base := baseURL(t)
	client := newClient(t)

	resp := addToCart(t, client, base, 1, 30)
	resp.Body.Close()
	resp = addToCart(t, client, base, 1, 40)
	resp.Body.Close()

	resp2, err := client.Get(base + "/api/cart/quantity?productId=1")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var q struct {
		Quantity int `json:"currentQuantity"`
	}
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&q))
	assert.Equal(t, 70, q.Quantity)
}

// Полный сценарий: регистрация, корзина, оформление, выгрузка.
// Требует товара с id=1 в каталоге тестовой базы
func TestCheckoutAndExportScenario(t *testing.T) {
	base := baseURL(t)
	client := newClient(t)
	registerAndLogin(t, client, base)

	resp := addToCart(t, client, base, 1, 3)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := client.Post(base+"/api/cart/checkout", "application/json", nil)
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var receipt ReceiptResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&receipt))
	require.NotZero(t, receipt.OrderID)
	require.Len(t, receipt.OrderDetails, 1)
	assert.Equal(t, 3, receipt.OrderDetails[0].Quantity)

	// после успешного оформления корзина пуста
	resp3, err := client.Get(base + "/api/cart/quantity?productId=1")
	require.NoError(t, err)
	defer resp3.Body.Close()
	var q struct {
		Quantity int `json:"currentQuantity"`
	}
	require.NoError(t, json.NewDecoder(resp3.Body).Decode(&q))
	assert.Equal(t, 0, q.Quantity)

	// выгрузка состава заказа в xlsx
	resp4, err := client.Post(fmt.Sprintf("%s/api/cart/export?orderId=%d", base, receipt.OrderID), "application/json", nil)
	require.NoError(t, err)
	defer resp4.Body.Close()
	require.Equal(t, http.StatusOK, resp4.StatusCode)
	assert.Contains(t, resp4.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp4.Header.Get("Content-Disposition"), "Order_")
}
