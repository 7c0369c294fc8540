package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mkorolev/dp-store/internal/domain/models"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryStorage interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error)
	// UpdateCategory обновляет категорию с проверкой версии: несовпадение — ErrConflict
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
}

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) CategoryStorage {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, title, version FROM categories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.Title, &c.Version); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	c := &models.Category{}
	row := r.db.QueryRowContext(ctx, "SELECT id, title, version FROM categories WHERE id = $1", id)
	if err := row.Scan(&c.ID, &c.Title, &c.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *categoryRepository) CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO categories (title, version) VALUES ($1, 1) RETURNING id", c.Title,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	c.ID = id
	c.Version = 1
	return c, nil
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, c *models.Category) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE categories SET title = $1, version = version + 1 WHERE id = $2 AND version = $3",
		c.Title, c.ID, c.Version,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.GetCategoryByID(ctx, c.ID); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

func (r *categoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
