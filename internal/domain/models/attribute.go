package models

import "github.com/shopspring/decimal"

// ProductAttribute — конкретный продаваемый вариант товара (товар + размер) с остатком.
// Пара (ProductID, SizeID) уникальна; SizeID может отсутствовать для безразмерных товаров
type ProductAttribute struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"productId"`
	SizeID    *int64 `json:"sizeId,omitempty"`
	Count     int    `json:"count"`
	Version   int    `json:"version"`
}

// PricedAttribute — результат поиска варианта по (productId, sizeId) на момент оформления:
// идентификатор варианта, актуальная цена и данные для чека
type PricedAttribute struct {
	AttributeID  int64
	ProductTitle string
	SizeLabel    string
	UnitPrice    decimal.Decimal
	Available    int
}
