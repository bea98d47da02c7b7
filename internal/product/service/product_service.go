package service

import (
	"context"
	"errors"
	"fmt"

	cDomain "github.com/ridloal/product-catalog/internal/category/domain"
	cRepo "github.com/ridloal/product-catalog/internal/category/repository"
	"github.com/ridloal/product-catalog/internal/platform/logger"
	"github.com/ridloal/product-catalog/internal/product/domain"
	"github.com/ridloal/product-catalog/internal/product/repository"
)

var (
	ErrInvalidProductID = errors.New("invalid product ID")
	ErrEmptyPatch       = errors.New("update must set at least one field")
	ErrZeroDelta        = errors.New("stock delta must not be zero")
)

type ProductService interface {
	CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	AdjustStock(ctx context.Context, id int64, delta int64) (*domain.Product, error)
	CheckLowStock(ctx context.Context) ([]domain.Product, error)
}

// CategoryLookup is satisfied by the category repository.
type CategoryLookup interface {
	GetCategoryByID(ctx context.Context, id int64) (*cDomain.Category, error)
}

type productServiceImpl struct {
	repo              repository.ProductRepository
	categories        CategoryLookup
	lowStockThreshold int64
}

func NewProductService(repo repository.ProductRepository, categories CategoryLookup, lowStockThreshold int64) ProductService {
	return &productServiceImpl{
		repo:              repo,
		categories:        categories,
		lowStockThreshold: lowStockThreshold,
	}
}

// ensureCategory checks a non-zero category id refers to an existing category.
func (s *productServiceImpl) ensureCategory(ctx context.Context, id int64) error {
	if id == 0 {
		return nil
	}
	if _, err := s.categories.GetCategoryByID(ctx, id); err != nil {
		if errors.Is(err, cRepo.ErrCategoryNotFound) {
			return repository.ErrCategoryNotFound
		}
		return fmt.Errorf("could not verify category %d: %w", id, err)
	}
	return nil
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	product, err := domain.NewProduct(in)
	if err != nil {
		return nil, err
	}
	product.ID = 0 // assigned by the database
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, product.CategoryID); err != nil {
		return nil, err
	}

	if err := s.repo.CreateProduct(ctx, &product); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("could not save product: %w", err)
	}
	logger.Info("Product %d created: %s", product.ID, product.Name)
	return &product, nil
}

func (s *productServiceImpl) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, ErrInvalidProductID
	}
	return s.repo.GetProductByID(ctx, id)
}

func (s *productServiceImpl) ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx, filter.Normalize())
	if err != nil {
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}
	return products, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	if id <= 0 {
		return nil, ErrInvalidProductID
	}
	if patch.IsEmpty() {
		return nil, ErrEmptyPatch
	}

	current, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := patch.Apply(*current)
	if err != nil {
		return nil, err
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if updated.CategoryID != current.CategoryID {
		if err := s.ensureCategory(ctx, updated.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateProduct(ctx, &updated); err != nil {
		return nil, err
	}
	logger.Info("Product %d updated", id)
	return &updated, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidProductID
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	logger.Info("Product %d deleted", id)
	return nil
}

func (s *productServiceImpl) AdjustStock(ctx context.Context, id int64, delta int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, ErrInvalidProductID
	}
	if delta == 0 {
		return nil, ErrZeroDelta
	}

	product, err := s.repo.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	logger.Info("Stock of product %d adjusted by %d to %d", id, delta, product.Stock)
	if product.Stock <= s.lowStockThreshold {
		logger.Warn("Product %d (%s) is low on stock: %d left", product.ID, product.Name, product.Stock)
	}
	return product, nil
}

func (s *productServiceImpl) CheckLowStock(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("could not check low stock: %w", err)
	}
	if len(products) == 0 {
		logger.Debug("CheckLowStock: no products at or below %d units", s.lowStockThreshold)
		return products, nil
	}
	for _, p := range products {
		logger.WithFields(map[string]interface{}{
			"product_id": p.ID,
			"stock":      p.Stock,
			"threshold":  s.lowStockThreshold,
		}).Warn("Product is low on stock")
	}
	logger.Info("CheckLowStock: %d products at or below %d units", len(products), s.lowStockThreshold)
	return products, nil
}
