package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ridloal/product-catalog/internal/category/domain"
	"github.com/ridloal/product-catalog/internal/platform/database"
	"github.com/ridloal/product-catalog/internal/platform/logger"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryConflict = errors.New("category with this name already exists")
	ErrCategoryInUse    = errors.New("category still has products")
)

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *domain.Category) error
	GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error
}

type postgresCategoryRepository struct {
	db *sql.DB
}

func NewPostgresCategoryRepository(db *sql.DB) CategoryRepository {
	return &postgresCategoryRepository{db: db}
}

func (r *postgresCategoryRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	query := `INSERT INTO categories (name) VALUES ($1) RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, category.Name).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrCategoryConflict
		}
		logger.Error("CreateCategory: insert failed", err)
		return err
	}
	return nil
}

func (r *postgresCategoryRepository) GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `SELECT id, name, created_at, updated_at FROM categories WHERE id = $1`
	var c domain.Category
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		logger.Error("GetCategoryByID: query failed", err)
		return nil, err
	}
	return &c, nil
}

func (r *postgresCategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT id, name, created_at, updated_at FROM categories ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("ListCategories: query failed", err)
		return nil, err
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			logger.Error("ListCategories: scan failed", err)
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		logger.Error("ListCategories: rows iteration error", err)
		return nil, err
	}
	return categories, nil
}

func (r *postgresCategoryRepository) UpdateCategory(ctx context.Context, category *domain.Category) error {
	query := `UPDATE categories SET name = $1, updated_at = now() WHERE id = $2 RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, category.Name, category.ID).
		Scan(&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCategoryNotFound
		}
		if database.IsUniqueViolation(err) {
			return ErrCategoryConflict
		}
		logger.Error("UpdateCategory: update failed", err)
		return err
	}
	return nil
}

func (r *postgresCategoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrCategoryInUse
		}
		logger.Error("DeleteCategory: delete failed", err)
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		logger.Error("DeleteCategory: rows affected failed", err)
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
