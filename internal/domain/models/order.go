package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order представляет шапку заказа; создается ровно один раз при успешном оформлении
type Order struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	OrderType string    `json:"order_type"`
}

// OrderLine — строка состава заказа c названием товара; заполняется через JOIN
// с таблицами вариантов и товаров (для чеков и выгрузки)
type OrderLine struct {
	AttributeID  int64           `json:"attribute_id"`
	ProductTitle string          `json:"product_title"`
	SizeLabel    string          `json:"size_label,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
}
