package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ridloal/product-catalog/internal/category/domain"
	"github.com/ridloal/product-catalog/internal/category/repository"
	"github.com/ridloal/product-catalog/internal/platform/logger"
)

var (
	ErrInvalidCategory   = errors.New("category name cannot be empty")
	ErrInvalidCategoryID = errors.New("invalid category ID")
)

type CategoryService interface {
	CreateCategory(ctx context.Context, req domain.CategoryRequest) (*domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	RenameCategory(ctx context.Context, id int64, req domain.CategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type categoryServiceImpl struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryServiceImpl{repo: repo}
}

func (s *categoryServiceImpl) CreateCategory(ctx context.Context, req domain.CategoryRequest) (*domain.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidCategory
	}

	category := &domain.Category{Name: name}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("could not save category: %w", err)
	}
	logger.Info("Category %d created: %s", category.ID, category.Name)
	return category, nil
}

func (s *categoryServiceImpl) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	if id <= 0 {
		return nil, ErrInvalidCategoryID
	}
	return s.repo.GetCategoryByID(ctx, id)
}

func (s *categoryServiceImpl) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve categories: %w", err)
	}
	return categories, nil
}

func (s *categoryServiceImpl) RenameCategory(ctx context.Context, id int64, req domain.CategoryRequest) (*domain.Category, error) {
	if id <= 0 {
		return nil, ErrInvalidCategoryID
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidCategory
	}

	category := &domain.Category{ID: id, Name: name}
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	logger.Info("Category %d renamed to %s", id, name)
	return category, nil
}

func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidCategoryID
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	logger.Info("Category %d deleted", id)
	return nil
}
