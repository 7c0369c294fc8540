package service_test

import (
	"context"
	"testing"

	"github.com/mkorolev/dp-store/internal/cart"
	"github.com/mkorolev/dp-store/internal/domain/models"
	"github.com/mkorolev/dp-store/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCartView_EnrichesLines(t *testing.T) {
	attrs := catalogWith(map[string]*models.PricedAttribute{
		attrKey(5, sizeID(2)): {
			AttributeID:  10,
			ProductTitle: "T-Shirt",
			SizeLabel:    "M",
			UnitPrice:    decimal.RequireFromString("19.99"),
			Available:    7,
		},
	})
	svc := service.NewCartViewService(discardLogger(), attrs)

	var c cart.Cart
	assert.NoError(t, c.Upsert(5, sizeID(2), 3))
	assert.NoError(t, c.Upsert(99, nil, 1)) // больше не в каталоге

	view, err := svc.View(context.Background(), c)
	assert.NoError(t, err)
	assert.Len(t, view.Items, 2)

	assert.NotNil(t, view.Items[0].Product)
	assert.Equal(t, "T-Shirt", view.Items[0].Product.Title)
	assert.Equal(t, 7, view.Items[0].Product.Available)

	// Ненайденная позиция не прерывает просмотр, а возвращается без товара
	assert.Nil(t, view.Items[1].Product)
	assert.Equal(t, int64(99), view.Items[1].ProductID)
}

func TestCartView_EmptyCart(t *testing.T) {
	svc := service.NewCartViewService(discardLogger(), catalogWith(nil))

	view, err := svc.View(context.Background(), cart.Cart{})
	assert.NoError(t, err)
	assert.Empty(t, view.Items)
}
