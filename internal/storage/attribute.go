package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/mkorolev/dp-store/internal/domain/models"
)

var (
	ErrAttributeNotFound = errors.New("product attribute not found")
	// ErrAttributeExists — вариант с такой парой (productId, sizeId) уже есть
	ErrAttributeExists = errors.New("product attribute already exists")
)

// AttributeStorage описывает поиск продаваемых вариантов товара.
// GetPriced — каталожный поиск на момент оформления: сопоставление строго
// по паре (productId, sizeId); отсутствующий размер соответствует варианту
// с NULL-размером
type AttributeStorage interface {
	// GetPriced возвращает вариант с актуальной ценой; tx может быть nil,
	// тогда запрос выполняется вне транзакции
	GetPriced(ctx context.Context, tx *sql.Tx, productID int64, sizeID *int64) (*models.PricedAttribute, error)
	// ListByProduct возвращает все варианты товара
	ListByProduct(ctx context.Context, productID int64) ([]*models.ProductAttribute, error)
	GetAttributeByID(ctx context.Context, id int64) (*models.ProductAttribute, error)
	// CreateAttribute добавляет вариант; дубликат пары (productId, sizeId) — ErrAttributeExists
	CreateAttribute(ctx context.Context, attr *models.ProductAttribute) (*models.ProductAttribute, error)
	// UpdateAttribute обновляет вариант с проверкой версии: несовпадение — ErrConflict
	UpdateAttribute(ctx context.Context, attr *models.ProductAttribute) error
	DeleteAttribute(ctx context.Context, id int64) error
}

type attributeRepository struct {
	db *sql.DB
}

func NewAttributeRepository(db *sql.DB) AttributeStorage {
	return &attributeRepository{db: db}
}

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *attributeRepository) queryer(tx *sql.Tx) rowQueryer {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *attributeRepository) GetPriced(ctx context.Context, tx *sql.Tx, productID int64, sizeID *int64) (*models.PricedAttribute, error) {
	var (
		query string
		row   *sql.Row
	)
	if sizeID != nil {
		query = `
			SELECT pa.id, p.title, COALESCE(s.label, ''), p.price, pa.count
			FROM product_attributes pa
			JOIN products p ON p.id = pa.product_id
			LEFT JOIN sizes s ON s.id = pa.size_id
			WHERE pa.product_id = $1 AND pa.size_id = $2`
		row = r.queryer(tx).QueryRowContext(ctx, query, productID, *sizeID)
	} else {
		query = `
			SELECT pa.id, p.title, '', p.price, pa.count
			FROM product_attributes pa
			JOIN products p ON p.id = pa.product_id
			WHERE pa.product_id = $1 AND pa.size_id IS NULL`
		row = r.queryer(tx).QueryRowContext(ctx, query, productID)
	}

	priced := &models.PricedAttribute{}
	if err := row.Scan(&priced.AttributeID, &priced.ProductTitle, &priced.SizeLabel, &priced.UnitPrice, &priced.Available); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttributeNotFound
		}
		return nil, err
	}
	return priced, nil
}

func scanAttribute(scan func(dest ...any) error) (*models.ProductAttribute, error) {
	attr := &models.ProductAttribute{}
	var sizeID sql.NullInt64
	if err := scan(&attr.ID, &attr.ProductID, &sizeID, &attr.Count, &attr.Version); err != nil {
		return nil, err
	}
	if sizeID.Valid {
		attr.SizeID = &sizeID.Int64
	}
	return attr, nil
}

func (r *attributeRepository) GetAttributeByID(ctx context.Context, id int64) (*models.ProductAttribute, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, product_id, size_id, count, version FROM product_attributes WHERE id = $1", id)
	attr, err := scanAttribute(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttributeNotFound
		}
		return nil, err
	}
	return attr, nil
}

func (r *attributeRepository) CreateAttribute(ctx context.Context, attr *models.ProductAttribute) (*models.ProductAttribute, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO product_attributes (product_id, size_id, count, version) VALUES ($1, $2, $3, 1) RETURNING id",
		attr.ProductID, attr.SizeID, attr.Count,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return nil, ErrAttributeExists
			case "23503":
				return nil, ErrProductNotFound
			}
		}
		return nil, err
	}
	attr.ID = id
	attr.Version = 1
	return attr, nil
}

// UpdateAttribute меняет остаток и размер только при совпадении версии;
// версия инкрементируется той же командой
func (r *attributeRepository) UpdateAttribute(ctx context.Context, attr *models.ProductAttribute) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE product_attributes SET size_id = $1, count = $2, version = version + 1 WHERE id = $3 AND version = $4",
		attr.SizeID, attr.Count, attr.ID, attr.Version,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAttributeExists
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.GetAttributeByID(ctx, attr.ID); err != nil {
			return err // ErrAttributeNotFound либо ошибка БД
		}
		return ErrConflict
	}
	return nil
}

func (r *attributeRepository) DeleteAttribute(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM product_attributes WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAttributeNotFound
	}
	return nil
}

func (r *attributeRepository) ListByProduct(ctx context.Context, productID int64) ([]*models.ProductAttribute, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, product_id, size_id, count, version FROM product_attributes WHERE product_id = $1 ORDER BY id",
		productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attrs []*models.ProductAttribute
	for rows.Next() {
		attr := &models.ProductAttribute{}
		var sizeID sql.NullInt64
		if err := rows.Scan(&attr.ID, &attr.ProductID, &sizeID, &attr.Count, &attr.Version); err != nil {
			return nil, err
		}
		if sizeID.Valid {
			attr.SizeID = &sizeID.Int64
		}
		attrs = append(attrs, attr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attrs, nil
}
