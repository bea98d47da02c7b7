package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ridloal/product-catalog/internal/platform/database"
	"github.com/ridloal/product-catalog/internal/platform/logger"
	"github.com/ridloal/product-catalog/internal/product/domain"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrConstraintViolation = errors.New("product violates a database constraint")
	ErrValueOutOfRange     = errors.New("numeric value out of range")
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	AdjustStock(ctx context.Context, id int64, delta int64) (*domain.Product, error)
	ListLowStock(ctx context.Context, threshold int64) ([]domain.Product, error)
}

const productColumns = `id, category_id, name, description, stock, price, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type postgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) ProductRepository {
	return &postgresProductRepository{db: db}
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var categoryID sql.NullInt64
	if err := row.Scan(&p.ID, &categoryID, &p.Name, &p.Description, &p.Stock, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if categoryID.Valid {
		p.CategoryID = categoryID.Int64
	}
	return &p, nil
}

// nullableCategory stores category 0 as NULL so the foreign key allows it.
func nullableCategory(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func translateWriteError(op string, err error) error {
	switch {
	case database.IsForeignKeyViolation(err):
		return ErrCategoryNotFound
	case database.IsCheckViolation(err):
		return ErrConstraintViolation
	case database.IsNumericOutOfRange(err):
		return ErrValueOutOfRange
	}
	logger.Error(op+": query failed", err)
	return err
}

// CreateProduct inserts product and replaces it with the stored row, so the
// caller sees the price as the NUMERIC column holds it.
func (r *postgresProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	query := `INSERT INTO products (category_id, name, description, stock, price)
              VALUES ($1, $2, $3, $4, $5) RETURNING ` + productColumns
	stored, err := scanProduct(r.db.QueryRowContext(ctx, query,
		nullableCategory(product.CategoryID), product.Name, product.Description, product.Stock, product.Price,
	))
	if err != nil {
		return translateWriteError("CreateProduct", err)
	}
	*product = *stored
	return nil
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetProductByID: query failed", err)
		return nil, err
	}
	return p, nil
}

func (r *postgresProductRepository) ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	filter = filter.Normalize()

	var rows *sql.Rows
	var err error
	if filter.CategoryID > 0 {
		query := `SELECT ` + productColumns + ` FROM products WHERE category_id = $1 ORDER BY id ASC LIMIT $2 OFFSET $3`
		rows, err = r.db.QueryContext(ctx, query, filter.CategoryID, filter.Limit, filter.Offset)
	} else {
		query := `SELECT ` + productColumns + ` FROM products ORDER BY id ASC LIMIT $1 OFFSET $2`
		rows, err = r.db.QueryContext(ctx, query, filter.Limit, filter.Offset)
	}
	if err != nil {
		logger.Error("ListProducts: query failed", err)
		return nil, err
	}
	return collectProducts("ListProducts", rows)
}

func (r *postgresProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	query := `UPDATE products
              SET category_id = $1, name = $2, description = $3, stock = $4, price = $5, updated_at = now()
              WHERE id = $6 RETURNING ` + productColumns
	stored, err := scanProduct(r.db.QueryRowContext(ctx, query,
		nullableCategory(product.CategoryID), product.Name, product.Description, product.Stock, product.Price, product.ID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		return translateWriteError("UpdateProduct", err)
	}
	*product = *stored
	return nil
}

func (r *postgresProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		logger.Error("DeleteProduct: delete failed", err)
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		logger.Error("DeleteProduct: rows affected failed", err)
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// AdjustStock adds delta to the stock in one statement; the guard keeps the
// result from going below zero under concurrent adjustments.
func (r *postgresProductRepository) AdjustStock(ctx context.Context, id int64, delta int64) (*domain.Product, error) {
	query := `UPDATE products SET stock = stock + $1, updated_at = now()
              WHERE id = $2 AND stock + $1 >= 0
              RETURNING ` + productColumns
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, delta, id))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		if database.IsNumericOutOfRange(err) {
			return nil, ErrValueOutOfRange
		}
		logger.Error("AdjustStock: update failed", err)
		return nil, err
	}

	// No row: either the product is missing or the guard refused the change.
	if _, getErr := r.GetProductByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrInsufficientStock
}

func (r *postgresProductRepository) ListLowStock(ctx context.Context, threshold int64) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE stock <= $1 ORDER BY stock ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, threshold)
	if err != nil {
		logger.Error("ListLowStock: query failed", err)
		return nil, err
	}
	return collectProducts("ListLowStock", rows)
}

func collectProducts(op string, rows *sql.Rows) ([]domain.Product, error) {
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			logger.Error(op+": scan failed", err)
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		logger.Error(op+": rows iteration error", err)
		return nil, err
	}
	return products, nil
}
