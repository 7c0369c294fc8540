package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkorolev/dp-store/internal/domain/models"
	"github.com/mkorolev/dp-store/internal/storage"
)

// UserService — чтение учетных записей для административных экранов.
// Наружу отдается представление без хэша пароля
type UserService interface {
	List(ctx context.Context) ([]*UserView, error)
	Get(ctx context.Context, id int64) (*UserView, error)
}

type UserView struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	FullName     string    `json:"fullName,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	RegisteredAt time.Time `json:"registeredAt"`
}

func newUserView(u *models.User) *UserView {
	return &UserView{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		Phone:        u.Phone,
		RegisteredAt: u.RegisteredAt,
	}
}

type userService struct {
	log      *slog.Logger
	userRepo storage.UserStorage
}

func NewUserService(log *slog.Logger, userRepo storage.UserStorage) UserService {
	return &userService{log: log, userRepo: userRepo}
}

func (s *userService) List(ctx context.Context) ([]*UserView, error) {
	const op = "service.UserService.List"
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		s.log.Error("failed to list users", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	views := make([]*UserView, 0, len(users))
	for _, u := range users {
		views = append(views, newUserView(u))
	}
	return views, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*UserView, error) {
	const op = "service.UserService.Get"
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		s.log.Warn("failed to get user", slog.String("op", op), slog.Int64("userID", id), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return newUserView(user), nil
}
