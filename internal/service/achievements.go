package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkorolev/dp-store/internal/domain/models"
	"github.com/mkorolev/dp-store/internal/storage"
)

// AchievementService — достижения и их выдача пользователям
type AchievementService interface {
	List(ctx context.Context) ([]*models.Achievement, error)
	Get(ctx context.Context, id int64) (*models.Achievement, error)
	Create(ctx context.Context, a *models.Achievement) (*models.Achievement, error)
	Delete(ctx context.Context, id int64) error
	Award(ctx context.Context, userID, achievementID int64) error
	ListByUser(ctx context.Context, userID int64) ([]*models.UserAchievement, error)
}

type achievementService struct {
	log      *slog.Logger
	achRepo  storage.AchievementStorage
	userRepo storage.UserStorage
}

func NewAchievementService(log *slog.Logger, achRepo storage.AchievementStorage, userRepo storage.UserStorage) AchievementService {
	return &achievementService{log: log, achRepo: achRepo, userRepo: userRepo}
}

func (s *achievementService) List(ctx context.Context) ([]*models.Achievement, error) {
	const op = "service.AchievementService.List"
	achievements, err := s.achRepo.ListAchievements(ctx)
	if err != nil {
		s.log.Error("failed to list achievements", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return achievements, nil
}

func (s *achievementService) Get(ctx context.Context, id int64) (*models.Achievement, error) {
	const op = "service.AchievementService.Get"
	a, err := s.achRepo.GetAchievementByID(ctx, id)
	if err != nil {
		s.log.Warn("failed to get achievement", slog.String("op", op), slog.Int64("achievementID", id), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

func (s *achievementService) Create(ctx context.Context, a *models.Achievement) (*models.Achievement, error) {
	const op = "service.AchievementService.Create"
	created, err := s.achRepo.CreateAchievement(ctx, a)
	if err != nil {
		s.log.Error("failed to create achievement", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

func (s *achievementService) Delete(ctx context.Context, id int64) error {
	const op = "service.AchievementService.Delete"
	if err := s.achRepo.DeleteAchievement(ctx, id); err != nil {
		s.log.Warn("failed to delete achievement", slog.String("op", op), slog.Int64("achievementID", id), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Award выдает достижение: сперва проверяется, что пользователь существует
func (s *achievementService) Award(ctx context.Context, userID, achievementID int64) error {
	const op = "service.AchievementService.Award"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("achievementID", achievementID))

	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		logger.Warn("failed to get user", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.achRepo.Award(ctx, userID, achievementID); err != nil {
		logger.Warn("failed to award achievement", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("achievement awarded")
	return nil
}

func (s *achievementService) ListByUser(ctx context.Context, userID int64) ([]*models.UserAchievement, error) {
	const op = "service.AchievementService.ListByUser"
	awarded, err := s.achRepo.ListByUser(ctx, userID)
	if err != nil {
		s.log.Error("failed to list user achievements", slog.String("op", op), slog.Int64("userID", userID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return awarded, nil
}
