package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mkorolev/dp-store/internal/domain/models"
)

var ErrSizeNotFound = errors.New("size not found")

type SizeStorage interface {
	ListSizes(ctx context.Context) ([]*models.Size, error)
	GetSizeByID(ctx context.Context, id int64) (*models.Size, error)
	CreateSize(ctx context.Context, s *models.Size) (*models.Size, error)
	DeleteSize(ctx context.Context, id int64) error
}

type sizeRepository struct {
	db *sql.DB
}

func NewSizeRepository(db *sql.DB) SizeStorage {
	return &sizeRepository{db: db}
}

func (r *sizeRepository) ListSizes(ctx context.Context) ([]*models.Size, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, label FROM sizes ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sizes []*models.Size
	for rows.Next() {
		s := &models.Size{}
		if err := rows.Scan(&s.ID, &s.Label); err != nil {
			return nil, err
		}
		sizes = append(sizes, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sizes, nil
}

func (r *sizeRepository) GetSizeByID(ctx context.Context, id int64) (*models.Size, error) {
	s := &models.Size{}
	row := r.db.QueryRowContext(ctx, "SELECT id, label FROM sizes WHERE id = $1", id)
	if err := row.Scan(&s.ID, &s.Label); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSizeNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *sizeRepository) CreateSize(ctx context.Context, s *models.Size) (*models.Size, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO sizes (label) VALUES ($1) RETURNING id", s.Label,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	s.ID = id
	return s, nil
}

func (r *sizeRepository) DeleteSize(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sizes WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSizeNotFound
	}
	return nil
}
