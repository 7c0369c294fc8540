package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkorolev/dp-store/internal/domain/models"
	"github.com/mkorolev/dp-store/internal/storage"
)

// CatalogService — CRUD каталога: товары, категории, размеры.
// Обновления защищены оптимистичной блокировкой на стороне хранилища
type CatalogService interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*ProductDetails, error)
	CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error)
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error

	ListSizes(ctx context.Context) ([]*models.Size, error)
	CreateSize(ctx context.Context, s *models.Size) (*models.Size, error)
	DeleteSize(ctx context.Context, id int64) error

	ListAttributes(ctx context.Context, productID int64) ([]*models.ProductAttribute, error)
	CreateAttribute(ctx context.Context, attr *models.ProductAttribute) (*models.ProductAttribute, error)
	UpdateAttribute(ctx context.Context, attr *models.ProductAttribute) error
	DeleteAttribute(ctx context.Context, id int64) error
}

// ProductDetails — товар вместе с вариантами и описаниями изображений
type ProductDetails struct {
	Product    *models.Product            `json:"product"`
	Attributes []*models.ProductAttribute `json:"attributes"`
	Images     []*models.ImageInfo        `json:"images"`
}

type catalogService struct {
	log          *slog.Logger
	productRepo  storage.ProductStorage
	categoryRepo storage.CategoryStorage
	sizeRepo     storage.SizeStorage
	attrRepo     storage.AttributeStorage
	imageRepo    storage.ImageStorage
}

func NewCatalogService(log *slog.Logger, productRepo storage.ProductStorage, categoryRepo storage.CategoryStorage, sizeRepo storage.SizeStorage, attrRepo storage.AttributeStorage, imageRepo storage.ImageStorage) CatalogService {
	return &catalogService{
		log:          log,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		sizeRepo:     sizeRepo,
		attrRepo:     attrRepo,
		imageRepo:    imageRepo,
	}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	const op = "service.CatalogService.ListProducts"
	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// GetProduct собирает карточку товара: сам товар, варианты, изображения
func (s *catalogService) GetProduct(ctx context.Context, id int64) (*ProductDetails, error) {
	const op = "service.CatalogService.GetProduct"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", id))

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		logger.Warn("failed to get product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	attrs, err := s.attrRepo.ListByProduct(ctx, id)
	if err != nil {
		logger.Error("failed to list attributes", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	images, err := s.imageRepo.ListImagesByProduct(ctx, id)
	if err != nil {
		logger.Error("failed to list images", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &ProductDetails{Product: product, Attributes: attrs, Images: images}, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	const op = "service.CatalogService.CreateProduct"
	created, err := s.productRepo.CreateProduct(ctx, p)
	if err != nil {
		s.log.Error("failed to create product", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("product created", slog.String("op", op), slog.Int64("productID", created.ID))
	return created, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, p *models.Product) error {
	const op = "service.CatalogService.UpdateProduct"
	if err := s.productRepo.UpdateProduct(ctx, p); err != nil {
		s.log.Warn("failed to update product", slog.String("op", op), slog.Int64("productID", p.ID), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	const op = "service.CatalogService.DeleteProduct"
	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		s.log.Warn("failed to delete product", slog.String("op", op), slog.Int64("productID", id), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	const op = "service.CatalogService.ListCategories"
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		s.log.Error("failed to list categories", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return categories, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	const op = "service.CatalogService.CreateCategory"
	created, err := s.categoryRepo.CreateCategory(ctx, c)
	if err != nil {
		s.log.Error("failed to create category", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, c *models.Category) error {
	const op = "service.CatalogService.UpdateCategory"
	if err := s.categoryRepo.UpdateCategory(ctx, c); err != nil {
		s.log.Warn("failed to update category", slog.String("op", op), slog.Int64("categoryID", c.ID), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id int64) error {
	const op = "service.CatalogService.DeleteCategory"
	if err := s.categoryRepo.DeleteCategory(ctx, id); err != nil {
		s.log.Warn("failed to delete category", slog.String("op", op), slog.Int64("categoryID", id), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *catalogService) ListSizes(ctx context.Context) ([]*models.Size, error) {
	const op = "service.CatalogService.ListSizes"
	sizes, err := s.sizeRepo.ListSizes(ctx)
	if err != nil {
		s.log.Error("failed to list sizes", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sizes, nil
}

func (s *catalogService) CreateSize(ctx context.Context, size *models.Size) (*models.Size, error) {
	const op = "service.CatalogService.CreateSize"
	created, err := s.sizeRepo.CreateSize(ctx, size)
	if err != nil {
		s.log.Error("failed to create size", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

func (s *catalogService) DeleteSize(ctx context.Context, id int64) error {
	const op = "service.CatalogService.DeleteSize"
	if err := s.sizeRepo.DeleteSize(ctx, id); err != nil {
		s.log.Warn("failed to delete size", slog.String("op", op), slog.Int64("sizeID", id), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *catalogService) ListAttributes(ctx context.Context, productID int64) ([]*models.ProductAttribute, error) {
	const op = "service.CatalogService.ListAttributes"
	attrs, err := s.attrRepo.ListByProduct(ctx, productID)
	if err != nil {
		s.log.Error("failed to list attributes", slog.String("op", op), slog.Int64("productID", productID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return attrs, nil
}

// CreateAttribute добавляет продаваемый вариант; через него позиции товара
// становятся доступными корзине и оформлению
func (s *catalogService) CreateAttribute(ctx context.Context, attr *models.ProductAttribute) (*models.ProductAttribute, error) {
	const op = "service.CatalogService.CreateAttribute"
	created, err := s.attrRepo.CreateAttribute(ctx, attr)
	if err != nil {
		s.log.Warn("failed to create attribute", slog.String("op", op), slog.Int64("productID", attr.ProductID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("attribute created", slog.String("op", op), slog.Int64("attributeID", created.ID))
	return created, nil
}

func (s *catalogService) UpdateAttribute(ctx context.Context, attr *models.ProductAttribute) error {
	const op = "service.CatalogService.UpdateAttribute"
	if err := s.attrRepo.UpdateAttribute(ctx, attr); err != nil {
		s.log.Warn("failed to update attribute", slog.String("op", op), slog.Int64("attributeID", attr.ID), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *catalogService) DeleteAttribute(ctx context.Context, id int64) error {
	const op = "service.CatalogService.DeleteAttribute"
	if err := s.attrRepo.DeleteAttribute(ctx, id); err != nil {
		s.log.Warn("failed to delete attribute", slog.String("op", op), slog.Int64("attributeID", id), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
