package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mkorolev/dp-store/internal/domain/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
	// ErrConflict — версия записи изменилась между чтением и обновлением
	ErrConflict = errors.New("concurrent update conflict")
)

type ProductStorage interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	// UpdateProduct обновляет товар с проверкой версии: несовпадение — ErrConflict
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

const productColumns = "id, title, price, purchase_price, discount_percent, description, category_id, version"

func scanProduct(scan func(dest ...any) error) (*models.Product, error) {
	p := &models.Product{}
	var discount sql.NullInt64
	var description sql.NullString
	var categoryID sql.NullInt64
	if err := scan(&p.ID, &p.Title, &p.Price, &p.PurchasePrice, &discount, &description, &categoryID, &p.Version); err != nil {
		return nil, err
	}
	if discount.Valid {
		d := int(discount.Int64)
		p.DiscountPercent = &d
	}
	p.Description = description.String
	if categoryID.Valid {
		p.CategoryID = &categoryID.Int64
	}
	return p, nil
}

func (r *productRepository) ListProducts(ctx context.Context) ([]*models.Product, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+productColumns+" FROM products ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	p, err := scanProduct(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO products (title, price, purchase_price, discount_percent, description, category_id, version)
		 VALUES ($1, $2, $3, $4, $5, $6, 1) RETURNING id`,
		p.Title, p.Price, p.PurchasePrice, p.DiscountPercent, nullString(p.Description), p.CategoryID,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	p.ID = id
	p.Version = 1
	return p, nil
}

// UpdateProduct обновляет строку только при совпадении версии; версия
// инкрементируется той же командой. Ноль затронутых строк означает либо
// отсутствие товара, либо конкурентное обновление
func (r *productRepository) UpdateProduct(ctx context.Context, p *models.Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products
		 SET title = $1, price = $2, purchase_price = $3, discount_percent = $4,
		     description = $5, category_id = $6, version = version + 1
		 WHERE id = $7 AND version = $8`,
		p.Title, p.Price, p.PurchasePrice, p.DiscountPercent, nullString(p.Description), p.CategoryID,
		p.ID, p.Version,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.GetProductByID(ctx, p.ID); err != nil {
			return err // ErrProductNotFound либо ошибка БД
		}
		return ErrConflict
	}
	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
