package models

import "github.com/shopspring/decimal"

// Product представляет товар каталога.
// Денежные поля хранятся как decimal, чтобы исключить ошибки двоичного округления
type Product struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Price           decimal.Decimal `json:"price"`
	PurchasePrice   decimal.Decimal `json:"purchasePrice"`
	DiscountPercent *int            `json:"discountPercent,omitempty"`
	Description     string          `json:"description,omitempty"`
	CategoryID      *int64          `json:"categoryId,omitempty"`
	Version         int             `json:"version"` // счетчик версий для оптимистичной блокировки
}

// Category представляет категорию товаров
type Category struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Version int    `json:"version"`
}

// Size представляет размер (вариант исполнения товара)
type Size struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}
