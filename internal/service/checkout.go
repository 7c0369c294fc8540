package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mkorolev/dp-store/internal/cart"
	"github.com/mkorolev/dp-store/internal/storage"
	"github.com/shopspring/decimal"
)

var ErrEmptyCart = errors.New("cart is empty")

// OrderTypeWebsite — тип заказа, оформленного через сайт
const OrderTypeWebsite = "website"

// LineNotFoundError — позиция корзины не нашла варианта в каталоге.
// Оформление прерывается целиком, заказ не создается
type LineNotFoundError struct {
	ProductID int64
	SizeID    *int64
}

func (e *LineNotFoundError) Error() string {
	if e.SizeID != nil {
		return fmt.Sprintf("product %d with size %d not found", e.ProductID, *e.SizeID)
	}
	return fmt.Sprintf("product %d not found", e.ProductID)
}

func (e *LineNotFoundError) Unwrap() error { return storage.ErrAttributeNotFound }

// Receipt — чек успешного оформления; не хранится в БД, собирается из
// данных заказа и каталога только для ответа
type Receipt struct {
	OrderID int64           `json:"orderId"`
	Lines   []ReceiptLine   `json:"orderDetails"`
	Total   decimal.Decimal `json:"total"`
}

type ReceiptLine struct {
	ProductTitle string          `json:"productTitle"`
	Quantity     int             `json:"quantity"`
	SizeLabel    string          `json:"sizeName,omitempty"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
}

// CheckoutService оформляет заказ из содержимого корзины
type CheckoutService interface {
	Checkout(ctx context.Context, credential string, items []cart.Item) (*Receipt, error)
}

type checkoutService struct {
	log      *slog.Logger
	db       *sql.DB
	identity IdentityResolver
	attrRepo storage.AttributeStorage
	orderRepo storage.OrderStorage
}

func NewCheckoutService(log *slog.Logger, db *sql.DB, identity IdentityResolver, attrRepo storage.AttributeStorage, orderRepo storage.OrderStorage) CheckoutService {
	return &checkoutService{
		log:       log,
		db:        db,
		identity:  identity,
		attrRepo:  attrRepo,
		orderRepo: orderRepo,
	}
}

// pricedLine — строка корзины после оценки каталогом
type pricedLine struct {
	attributeID int64
	title       string
	sizeLabel   string
	quantity    int
	unitPrice   decimal.Decimal
}

// Checkout проводит оформление строго по шагам: валидация корзины,
// проверка токена, оценка каждой позиции по каталогу, запись шапки заказа
// и состава одной транзакцией. Любой сбой на любом шаге откатывает все:
// частично оформленных заказов не бывает. Набор позиций фиксируется на
// входе — более поздние изменения корзины не учитываются
func (s *checkoutService) Checkout(ctx context.Context, credential string, items []cart.Item) (*Receipt, error) {
	const op = "service.CheckoutService.Checkout"
	logger := s.log.With(slog.String("op", op))

	// Валидация: границы количеств, слияние дубликатов, непустая корзина
	normalized, err := cart.Normalize(items)
	if err != nil {
		logger.Warn("invalid cart contents", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if normalized.Len() == 0 {
		logger.Warn("checkout of empty cart rejected")
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}

	// Проверка личности до любых записей в БД
	user, err := s.identity.Resolve(ctx, credential)
	if err != nil {
		logger.Warn("identity resolution failed", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger = logger.With(slog.Int64("userID", user.ID))
	logger.Info("starting checkout transaction", slog.Int("lines", normalized.Len()))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	// Оценка позиций в порядке корзины; первая ненайденная прерывает все
	priced := make([]pricedLine, 0, normalized.Len())
	for _, item := range normalized.Items {
		attr, err := s.attrRepo.GetPriced(ctx, tx, item.ProductID, item.SizeID)
		if err != nil {
			s.rollback(logger, tx)
			if errors.Is(err, storage.ErrAttributeNotFound) {
				logger.Warn("cart line not resolvable",
					slog.Int64("productID", item.ProductID),
					slog.Any("sizeID", item.SizeID))
				return nil, fmt.Errorf("%s: %w", op, &LineNotFoundError{ProductID: item.ProductID, SizeID: item.SizeID})
			}
			logger.Error("failed to price cart line", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to price cart line: %w", op, err)
		}
		priced = append(priced, pricedLine{
			attributeID: attr.AttributeID,
			title:       attr.ProductTitle,
			sizeLabel:   attr.SizeLabel,
			quantity:    item.Quantity,
			unitPrice:   attr.UnitPrice,
		})
	}

	// Запись шапки и состава в рамках той же транзакции
	orderID, err := s.orderRepo.CreateOrder(ctx, tx, user.ID, OrderTypeWebsite)
	if err != nil {
		s.rollback(logger, tx)
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}
	for _, line := range priced {
		if err := s.orderRepo.AddComposition(ctx, tx, orderID, line.attributeID, line.quantity, line.unitPrice); err != nil {
			s.rollback(logger, tx)
			logger.Error("failed to add order composition",
				slog.Int64("attributeID", line.attributeID),
				slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to add order composition: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	// Чек считается точной десятичной арифметикой
	receipt := &Receipt{OrderID: orderID, Total: decimal.Zero}
	for _, line := range priced {
		lineTotal := line.unitPrice.Mul(decimal.NewFromInt(int64(line.quantity)))
		receipt.Lines = append(receipt.Lines, ReceiptLine{
			ProductTitle: line.title,
			Quantity:     line.quantity,
			SizeLabel:    line.sizeLabel,
			UnitPrice:    line.unitPrice,
			TotalPrice:   lineTotal,
		})
		receipt.Total = receipt.Total.Add(lineTotal)
	}

	logger.Info("checkout completed", slog.Int64("orderID", orderID), slog.String("total", receipt.Total.String()))
	return receipt, nil
}

func (s *checkoutService) rollback(logger *slog.Logger, tx *sql.Tx) {
	if err := tx.Rollback(); err != nil {
		logger.Error("transaction rollback failed", slog.Any("error", err))
	}
}
