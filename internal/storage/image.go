package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mkorolev/dp-store/internal/domain/models"
)

var ErrImageNotFound = errors.New("image not found")

type ImageStorage interface {
	// ListImages возвращает описания изображений без байтов содержимого
	ListImages(ctx context.Context) ([]*models.ImageInfo, error)
	ListImagesByProduct(ctx context.Context, productID int64) ([]*models.ImageInfo, error)
	// GetImageByID возвращает изображение вместе с содержимым
	GetImageByID(ctx context.Context, id int64) (*models.Image, error)
	CreateImage(ctx context.Context, img *models.Image) (*models.Image, error)
	DeleteImage(ctx context.Context, id int64) error
}

type imageRepository struct {
	db *sql.DB
}

func NewImageRepository(db *sql.DB) ImageStorage {
	return &imageRepository{db: db}
}

// списки не тянут содержимое, только его размер
const imageInfoQuery = "SELECT id, product_id, title, length(data) FROM images"

func (r *imageRepository) scanInfos(rows *sql.Rows) ([]*models.ImageInfo, error) {
	defer rows.Close()

	var infos []*models.ImageInfo
	for rows.Next() {
		info := &models.ImageInfo{}
		if err := rows.Scan(&info.ID, &info.ProductID, &info.Title, &info.ByteSize); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return infos, nil
}

func (r *imageRepository) ListImages(ctx context.Context) ([]*models.ImageInfo, error) {
	rows, err := r.db.QueryContext(ctx, imageInfoQuery+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	return r.scanInfos(rows)
}

func (r *imageRepository) ListImagesByProduct(ctx context.Context, productID int64) ([]*models.ImageInfo, error) {
	rows, err := r.db.QueryContext(ctx, imageInfoQuery+" WHERE product_id = $1 ORDER BY id", productID)
	if err != nil {
		return nil, err
	}
	return r.scanInfos(rows)
}

func (r *imageRepository) GetImageByID(ctx context.Context, id int64) (*models.Image, error) {
	img := &models.Image{}
	row := r.db.QueryRowContext(ctx, "SELECT id, product_id, title, data FROM images WHERE id = $1", id)
	if err := row.Scan(&img.ID, &img.ProductID, &img.Title, &img.Data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return img, nil
}

func (r *imageRepository) CreateImage(ctx context.Context, img *models.Image) (*models.Image, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO images (product_id, title, data) VALUES ($1, $2, $3) RETURNING id",
		img.ProductID, img.Title, img.Data,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	img.ID = id
	return img, nil
}

func (r *imageRepository) DeleteImage(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM images WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrImageNotFound
	}
	return nil
}
