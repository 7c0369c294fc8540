package storage_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/mkorolev/dp-store/internal/domain/models"
	"github.com/mkorolev/dp-store/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGetUserByUsername_Success(t *testing.T) {
	// Создаем sqlmock для эмуляции базы данных.
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)
	ctx := context.Background()

	registered := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "username", "pass_hash", "email", "full_name", "phone", "registered_at"}).
		AddRow(int64(1), "buyer", []byte("hashed-password"), "buyer@example.com", nil, nil, registered)

	mock.ExpectQuery("SELECT id, username, pass_hash, email, full_name, phone, registered_at FROM users WHERE username = \\$1").
		WithArgs("buyer").WillReturnRows(rows)

	user, err := repo.GetUserByUsername(ctx, "buyer")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "buyer", user.Username)
	assert.Equal(t, "buyer@example.com", user.Email)
	assert.Empty(t, user.FullName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "username", "pass_hash", "email", "full_name", "phone", "registered_at"})
	mock.ExpectQuery("SELECT id, username, pass_hash, email, full_name, phone, registered_at FROM users WHERE username = \\$1").
		WithArgs("ghost").WillReturnRows(rows)

	user, err := repo.GetUserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPriced_WithSize(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewAttributeRepository(db)
	sizeID := int64(2)

	rows := sqlmock.NewRows([]string{"id", "title", "label", "price", "count"}).
		AddRow(int64(10), "T-Shirt", "M", "19.99", 7)

	// Совпадение строго по паре (productId, sizeId)
	mock.ExpectQuery(`SELECT pa\.id, p\.title, COALESCE\(s\.label, ''\), p\.price, pa\.count`).
		WithArgs(int64(5), sizeID).WillReturnRows(rows)

	priced, err := repo.GetPriced(context.Background(), nil, 5, &sizeID)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), priced.AttributeID)
	assert.Equal(t, "T-Shirt", priced.ProductTitle)
	assert.Equal(t, "M", priced.SizeLabel)
	assert.True(t, priced.UnitPrice.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, 7, priced.Available)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPriced_WithoutSize(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewAttributeRepository(db)

	rows := sqlmock.NewRows([]string{"id", "title", "label", "price", "count"}).
		AddRow(int64(11), "Mug", "", "5.50", 3)

	// Без размера ищется вариант с NULL-размером
	mock.ExpectQuery(`WHERE pa\.product_id = \$1 AND pa\.size_id IS NULL`).
		WithArgs(int64(8)).WillReturnRows(rows)

	priced, err := repo.GetPriced(context.Background(), nil, 8, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(11), priced.AttributeID)
	assert.Empty(t, priced.SizeLabel)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPriced_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewAttributeRepository(db)
	sizeID := int64(99)

	rows := sqlmock.NewRows([]string{"id", "title", "label", "price", "count"})
	mock.ExpectQuery(`SELECT pa\.id, p\.title, COALESCE\(s\.label, ''\), p\.price, pa\.count`).
		WithArgs(int64(5), sizeID).WillReturnRows(rows)

	priced, err := repo.GetPriced(context.Background(), nil, 5, &sizeID)
	assert.ErrorIs(t, err, storage.ErrAttributeNotFound)
	assert.Nil(t, priced)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPriced_InsideTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewAttributeRepository(db)

	mock.ExpectBegin()
	rows := sqlmock.NewRows([]string{"id", "title", "label", "price", "count"}).
		AddRow(int64(12), "Cap", "", "9.00", 1)
	mock.ExpectQuery(`WHERE pa\.product_id = \$1 AND pa\.size_id IS NULL`).
		WithArgs(int64(3)).WillReturnRows(rows)

	tx, err := db.Begin()
	assert.NoError(t, err)

	priced, err := repo.GetPriced(context.Background(), tx, 3, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(12), priced.AttributeID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderAndComposition(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders (user_id, order_type, created_at) VALUES ($1, $2, NOW()) RETURNING id")).
		WithArgs(int64(1), "website").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_compositions (order_id, attribute_id, quantity, unit_cost) VALUES ($1, $2, $3, $4)")).
		WithArgs(int64(42), int64(10), 3, decimal.RequireFromString("19.99")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	assert.NoError(t, err)

	orderID, err := repo.CreateOrder(ctx, tx, 1, "website")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), orderID)

	err = repo.AddComposition(ctx, tx, orderID, 10, 3, decimal.RequireFromString("19.99"))
	assert.NoError(t, err)

	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProduct_Conflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	product := &models.Product{
		ID:      5,
		Title:   "T-Shirt",
		Price:   decimal.RequireFromString("19.99"),
		Version: 2,
	}

	// Версия не совпала: UPDATE не задел ни одной строки, но товар существует
	mock.ExpectExec("UPDATE products").
		WillReturnResult(sqlmock.NewResult(0, 0))
	rows := sqlmock.NewRows([]string{"id", "title", "price", "purchase_price", "discount_percent", "description", "category_id", "version"}).
		AddRow(int64(5), "T-Shirt", "19.99", "10.00", nil, nil, nil, 3)
	mock.ExpectQuery("SELECT id, title, price, purchase_price, discount_percent, description, category_id, version FROM products WHERE id = \\$1").
		WithArgs(int64(5)).WillReturnRows(rows)

	err = repo.UpdateProduct(context.Background(), product)
	assert.ErrorIs(t, err, storage.ErrConflict)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProduct_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	product := &models.Product{ID: 77, Title: "Ghost", Version: 1}

	mock.ExpectExec("UPDATE products").
		WillReturnResult(sqlmock.NewResult(0, 0))
	rows := sqlmock.NewRows([]string{"id", "title", "price", "purchase_price", "discount_percent", "description", "category_id", "version"})
	mock.ExpectQuery("SELECT id, title, price, purchase_price, discount_percent, description, category_id, version FROM products WHERE id = \\$1").
		WithArgs(int64(77)).WillReturnRows(rows)

	err = repo.UpdateProduct(context.Background(), product)
	assert.ErrorIs(t, err, storage.ErrProductNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderLines(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)

	rows := sqlmock.NewRows([]string{"attribute_id", "title", "label", "quantity", "unit_cost"}).
		AddRow(int64(10), "T-Shirt", "M", 3, "19.99").
		AddRow(int64(11), "Mug", "", 1, "5.50")
	mock.ExpectQuery(`SELECT oc\.attribute_id, p\.title, COALESCE\(s\.label, ''\), oc\.quantity, oc\.unit_cost`).
		WithArgs(int64(42)).WillReturnRows(rows)

	lines, err := repo.GetOrderLines(context.Background(), 42)
	assert.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Equal(t, "T-Shirt", lines[0].ProductTitle)
	assert.True(t, lines[0].UnitCost.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, 1, lines[1].Quantity)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderLines_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)

	mock.ExpectQuery(`SELECT oc\.attribute_id`).
		WithArgs(int64(42)).WillReturnError(errors.New("db error"))

	lines, err := repo.GetOrderLines(context.Background(), 42)
	assert.Error(t, err)
	assert.Nil(t, lines)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAttribute_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewAttributeRepository(db)
	sizeID := int64(2)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO product_attributes (product_id, size_id, count, version) VALUES ($1, $2, $3, 1) RETURNING id")).
		WithArgs(int64(5), int64(2), 10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(33)))

	attr, err := repo.CreateAttribute(context.Background(), &models.ProductAttribute{
		ProductID: 5,
		SizeID:    &sizeID,
		Count:     10,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(33), attr.ID)
	assert.Equal(t, 1, attr.Version)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAttribute_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewAttributeRepository(db)
	sizeID := int64(2)

	mock.ExpectQuery("INSERT INTO product_attributes").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err = repo.CreateAttribute(context.Background(), &models.ProductAttribute{
		ProductID: 5,
		SizeID:    &sizeID,
		Count:     10,
	})
	assert.ErrorIs(t, err, storage.ErrAttributeExists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAttribute_Conflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewAttributeRepository(db)

	// Версия не совпала: строка не задета, но вариант существует
	mock.ExpectExec("UPDATE product_attributes").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, product_id, size_id, count, version FROM product_attributes WHERE id = $1")).
		WithArgs(int64(33)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "size_id", "count", "version"}).
			AddRow(int64(33), int64(5), int64(2), 10, 4))

	err = repo.UpdateAttribute(context.Background(), &models.ProductAttribute{ID: 33, Count: 7, Version: 3})
	assert.ErrorIs(t, err, storage.ErrConflict)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAttribute_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewAttributeRepository(db)

	mock.ExpectExec("UPDATE product_attributes").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, product_id, size_id, count, version FROM product_attributes WHERE id = $1")).
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "size_id", "count", "version"}))

	err = repo.UpdateAttribute(context.Background(), &models.ProductAttribute{ID: 77, Count: 1, Version: 1})
	assert.ErrorIs(t, err, storage.ErrAttributeNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAttribute_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewAttributeRepository(db)

	mock.ExpectExec("DELETE FROM product_attributes").
		WithArgs(int64(77)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.DeleteAttribute(context.Background(), 77)
	assert.ErrorIs(t, err, storage.ErrAttributeNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
