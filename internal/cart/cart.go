package cart

import "errors"

// Границы количества для одной позиции корзины
const (
	MinQuantity = 1
	MaxQuantity = 100
)

var ErrInvalidQuantity = errors.New("quantity must be between 1 and 100")

// Item — позиция корзины: товар, опциональный размер и количество.
// Уникальность позиции определяется парой (ProductID, SizeID)
type Item struct {
	ProductID int64  `json:"productId" validate:"required,gt=0"`
	SizeID    *int64 `json:"sizeId,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Cart — упорядоченный список позиций. Дубликаты по (ProductID, SizeID)
// не допускаются: Upsert сливает количество в существующую позицию
type Cart struct {
	Items []Item `json:"items"`
}

// sameKey сравнивает ключи позиций с учетом отсутствующего размера
func sameKey(a, b Item) bool {
	if a.ProductID != b.ProductID {
		return false
	}
	if a.SizeID == nil || b.SizeID == nil {
		return a.SizeID == nil && b.SizeID == nil
	}
	return *a.SizeID == *b.SizeID
}

func validQuantity(q int) bool {
	return q >= MinQuantity && q <= MaxQuantity
}

// Upsert добавляет позицию в корзину. Если позиция с таким ключом уже есть,
// количества складываются; сумма сверх MaxQuantity отклоняется целиком
func (c *Cart) Upsert(productID int64, sizeID *int64, quantity int) error {
	if !validQuantity(quantity) {
		return ErrInvalidQuantity
	}
	item := Item{ProductID: productID, SizeID: sizeID, Quantity: quantity}
	for i := range c.Items {
		if sameKey(c.Items[i], item) {
			total := c.Items[i].Quantity + quantity
			if total > MaxQuantity {
				return ErrInvalidQuantity
			}
			c.Items[i].Quantity = total
			return nil
		}
	}
	c.Items = append(c.Items, item)
	return nil
}

// SetQuantity выставляет количество позиции; если позиции нет — добавляет ее
func (c *Cart) SetQuantity(productID int64, sizeID *int64, quantity int) error {
	if !validQuantity(quantity) {
		return ErrInvalidQuantity
	}
	item := Item{ProductID: productID, SizeID: sizeID, Quantity: quantity}
	for i := range c.Items {
		if sameKey(c.Items[i], item) {
			c.Items[i].Quantity = quantity
			return nil
		}
	}
	c.Items = append(c.Items, item)
	return nil
}

// Remove удаляет позицию; отсутствие позиции ошибкой не считается
func (c *Cart) Remove(productID int64, sizeID *int64) {
	key := Item{ProductID: productID, SizeID: sizeID}
	for i := range c.Items {
		if sameKey(c.Items[i], key) {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// QuantityOf возвращает текущее количество позиции (0, если позиции нет)
func (c *Cart) QuantityOf(productID int64, sizeID *int64) int {
	key := Item{ProductID: productID, SizeID: sizeID}
	for i := range c.Items {
		if sameKey(c.Items[i], key) {
			return c.Items[i].Quantity
		}
	}
	return 0
}

// Len возвращает число позиций в корзине
func (c *Cart) Len() int {
	return len(c.Items)
}

// Normalize собирает корзину из произвольного списка позиций: дубликаты
// сливаются, границы количества проверяются. Используется при оформлении,
// когда клиент присылает содержимое корзины телом запроса
func Normalize(items []Item) (Cart, error) {
	var c Cart
	for _, item := range items {
		if err := c.Upsert(item.ProductID, item.SizeID, item.Quantity); err != nil {
			return Cart{}, err
		}
	}
	return c, nil
}
