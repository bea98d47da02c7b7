package mocks

import (
	"context"

	cDomain "github.com/ridloal/product-catalog/internal/category/domain"

	"github.com/stretchr/testify/mock"
)

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) CreateCategory(ctx context.Context, req cDomain.CategoryRequest) (*cDomain.Category, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*cDomain.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryService) GetCategory(ctx context.Context, id int64) (*cDomain.Category, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*cDomain.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryService) ListCategories(ctx context.Context) ([]cDomain.Category, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]cDomain.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryService) RenameCategory(ctx context.Context, id int64, req cDomain.CategoryRequest) (*cDomain.Category, error) {
	args := m.Called(ctx, id, req)
	if res := args.Get(0); res != nil {
		return res.(*cDomain.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryService) DeleteCategory(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
