package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkorolev/dp-store/internal/domain/models"
	"github.com/shopspring/decimal"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStorage описывает запись и чтение заказов. Методы, принимающие tx,
// вызываются только внутри транзакции оформления: шапка и состав заказа
// фиксируются атомарно либо не фиксируются вовсе
type OrderStorage interface {
	// CreateOrder вставляет шапку заказа и возвращает ее идентификатор
	CreateOrder(ctx context.Context, tx *sql.Tx, userID int64, orderType string) (int64, error)
	// AddComposition вставляет одну строку состава заказа
	AddComposition(ctx context.Context, tx *sql.Tx, orderID, attributeID int64, quantity int, unitCost decimal.Decimal) error
	// GetOrdersByUserID возвращает заказы пользователя, новые первыми
	GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	// GetOrderLines возвращает состав заказа с названиями товаров (для чека и выгрузки)
	GetOrderLines(ctx context.Context, orderID int64) ([]*models.OrderLine, error)
}

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, tx *sql.Tx, userID int64, orderType string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		"INSERT INTO orders (user_id, order_type, created_at) VALUES ($1, $2, NOW()) RETURNING id",
		userID, orderType,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}
	return id, nil
}

func (r *orderRepository) AddComposition(ctx context.Context, tx *sql.Tx, orderID, attributeID int64, quantity int, unitCost decimal.Decimal) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO order_compositions (order_id, attribute_id, quantity, unit_cost) VALUES ($1, $2, $3, $4)",
		orderID, attributeID, quantity, unitCost,
	)
	if err != nil {
		return fmt.Errorf("failed to add order composition: %w", err)
	}
	return nil
}

func (r *orderRepository) GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, created_at, order_type FROM orders WHERE user_id = $1 ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.UserID, &order.CreatedAt, &order.OrderType); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	order := &models.Order{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, created_at, order_type FROM orders WHERE id = $1", id)
	if err := row.Scan(&order.ID, &order.UserID, &order.CreatedAt, &order.OrderType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetOrderLines(ctx context.Context, orderID int64) ([]*models.OrderLine, error) {
	query := `
		SELECT oc.attribute_id, p.title, COALESCE(s.label, ''), oc.quantity, oc.unit_cost
		FROM order_compositions oc
		JOIN product_attributes pa ON pa.id = oc.attribute_id
		JOIN products p ON p.id = pa.product_id
		LEFT JOIN sizes s ON s.id = pa.size_id
		WHERE oc.order_id = $1
		ORDER BY oc.attribute_id`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*models.OrderLine
	for rows.Next() {
		line := &models.OrderLine{}
		if err := rows.Scan(&line.AttributeID, &line.ProductTitle, &line.SizeLabel, &line.Quantity, &line.UnitCost); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
