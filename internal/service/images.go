package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkorolev/dp-store/internal/domain/models"
	"github.com/mkorolev/dp-store/internal/storage"
)

// ImageService — хранение и выдача изображений товаров.
// Байты отдаются как есть, без перекодирования
type ImageService interface {
	List(ctx context.Context) ([]*models.ImageInfo, error)
	ListByProduct(ctx context.Context, productID int64) ([]*models.ImageInfo, error)
	GetData(ctx context.Context, id int64) (*models.Image, error)
	Create(ctx context.Context, img *models.Image) (*models.Image, error)
	Delete(ctx context.Context, id int64) error
}

type imageService struct {
	log       *slog.Logger
	imageRepo storage.ImageStorage
}

func NewImageService(log *slog.Logger, imageRepo storage.ImageStorage) ImageService {
	return &imageService{log: log, imageRepo: imageRepo}
}

func (s *imageService) List(ctx context.Context) ([]*models.ImageInfo, error) {
	const op = "service.ImageService.List"
	infos, err := s.imageRepo.ListImages(ctx)
	if err != nil {
		s.log.Error("failed to list images", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return infos, nil
}

func (s *imageService) ListByProduct(ctx context.Context, productID int64) ([]*models.ImageInfo, error) {
	const op = "service.ImageService.ListByProduct"
	infos, err := s.imageRepo.ListImagesByProduct(ctx, productID)
	if err != nil {
		s.log.Error("failed to list product images", slog.String("op", op), slog.Int64("productID", productID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return infos, nil
}

func (s *imageService) GetData(ctx context.Context, id int64) (*models.Image, error) {
	const op = "service.ImageService.GetData"
	img, err := s.imageRepo.GetImageByID(ctx, id)
	if err != nil {
		s.log.Warn("failed to get image", slog.String("op", op), slog.Int64("imageID", id), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return img, nil
}

func (s *imageService) Create(ctx context.Context, img *models.Image) (*models.Image, error) {
	const op = "service.ImageService.Create"
	created, err := s.imageRepo.CreateImage(ctx, img)
	if err != nil {
		s.log.Error("failed to create image", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("image stored", slog.String("op", op), slog.Int64("imageID", created.ID), slog.Int("bytes", len(created.Data)))
	return created, nil
}

func (s *imageService) Delete(ctx context.Context, id int64) error {
	const op = "service.ImageService.Delete"
	if err := s.imageRepo.DeleteImage(ctx, id); err != nil {
		s.log.Warn("failed to delete image", slog.String("op", op), slog.Int64("imageID", id), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
