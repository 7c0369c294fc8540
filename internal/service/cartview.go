package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mkorolev/dp-store/internal/cart"
	"github.com/mkorolev/dp-store/internal/storage"
	"github.com/shopspring/decimal"
)

// CartViewService отдает содержимое корзины, обогащенное данными каталога
type CartViewService interface {
	View(ctx context.Context, c cart.Cart) (*CartView, error)
}

type CartView struct {
	Items []CartViewLine `json:"items"`
}

type CartViewLine struct {
	ProductID int64        `json:"productId"`
	SizeID    *int64       `json:"sizeId,omitempty"`
	Quantity  int          `json:"quantity"`
	Product   *ProductInfo `json:"product,omitempty"` // nil, если позиция больше не находится в каталоге
}

type ProductInfo struct {
	Title     string          `json:"title"`
	SizeLabel string          `json:"sizeLabel,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Available int             `json:"available"`
}

type cartViewService struct {
	log      *slog.Logger
	attrRepo storage.AttributeStorage
}

func NewCartViewService(log *slog.Logger, attrRepo storage.AttributeStorage) CartViewService {
	return &cartViewService{log: log, attrRepo: attrRepo}
}

// View обогащает позиции корзины каталогом. Ненайденные позиции не
// прерывают просмотр (в отличие от оформления) — они возвращаются без
// данных товара, чтобы клиент мог показать их как недоступные
func (s *cartViewService) View(ctx context.Context, c cart.Cart) (*CartView, error) {
	const op = "service.CartViewService.View"
	logger := s.log.With(slog.String("op", op))

	view := &CartView{Items: make([]CartViewLine, 0, c.Len())}
	for _, item := range c.Items {
		line := CartViewLine{
			ProductID: item.ProductID,
			SizeID:    item.SizeID,
			Quantity:  item.Quantity,
		}
		attr, err := s.attrRepo.GetPriced(ctx, nil, item.ProductID, item.SizeID)
		switch {
		case err == nil:
			line.Product = &ProductInfo{
				Title:     attr.ProductTitle,
				SizeLabel: attr.SizeLabel,
				UnitPrice: attr.UnitPrice,
				Available: attr.Available,
			}
		case errors.Is(err, storage.ErrAttributeNotFound):
			logger.Warn("cart line no longer in catalog", slog.Int64("productID", item.ProductID))
		default:
			logger.Error("failed to enrich cart line", slog.Any("error", err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		view.Items = append(view.Items, line)
	}
	return view, nil
}
