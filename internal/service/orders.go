package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkorolev/dp-store/internal/domain/models"
	"github.com/mkorolev/dp-store/internal/storage"
)

// OrderService — чтение заказов для личного кабинета
type OrderService interface {
	ListByUsername(ctx context.Context, username string) ([]*models.Order, error)
	Get(ctx context.Context, orderID int64) (*OrderDetails, error)
}

// OrderDetails — заказ вместе с составом
type OrderDetails struct {
	Order *models.Order       `json:"order"`
	Lines []*models.OrderLine `json:"lines"`
}

type orderService struct {
	log       *slog.Logger
	userRepo  storage.UserStorage
	orderRepo storage.OrderStorage
}

func NewOrderService(log *slog.Logger, userRepo storage.UserStorage, orderRepo storage.OrderStorage) OrderService {
	return &orderService{log: log, userRepo: userRepo, orderRepo: orderRepo}
}

func (s *orderService) ListByUsername(ctx context.Context, username string) ([]*models.Order, error) {
	const op = "service.OrderService.ListByUsername"
	logger := s.log.With(slog.String("op", op), slog.String("username", username))

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	orders, err := s.orderRepo.GetOrdersByUserID(ctx, user.ID)
	if err != nil {
		logger.Error("failed to get orders", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *orderService) Get(ctx context.Context, orderID int64) (*OrderDetails, error) {
	const op = "service.OrderService.Get"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID))

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		logger.Warn("failed to get order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	lines, err := s.orderRepo.GetOrderLines(ctx, orderID)
	if err != nil {
		logger.Error("failed to get order lines", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &OrderDetails{Order: order, Lines: lines}, nil
}
