package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ridloal/product-catalog/internal/category/domain"
	"github.com/ridloal/product-catalog/internal/category/repository"
	"github.com/ridloal/product-catalog/internal/category/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCategoryService_CreateCategory(t *testing.T) {
	ctx := context.TODO()

	t.Run("Successful creation trims the name", func(t *testing.T) {
		mockRepo := new(mocks.MockCategoryRepository)
		svc := NewCategoryService(mockRepo)
		mockRepo.On("CreateCategory", ctx, mock.MatchedBy(func(c *domain.Category) bool {
			return c.Name == "Tools"
		})).Return(nil).Once()

		c, err := svc.CreateCategory(ctx, domain.CategoryRequest{Name: "  Tools "})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), c.ID)
		assert.Equal(t, "Tools", c.Name)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Blank name", func(t *testing.T) {
		mockRepo := new(mocks.MockCategoryRepository)
		svc := NewCategoryService(mockRepo)

		_, err := svc.CreateCategory(ctx, domain.CategoryRequest{Name: "   "})
		assert.ErrorIs(t, err, ErrInvalidCategory)
		mockRepo.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything)
	})

	t.Run("Duplicate name", func(t *testing.T) {
		mockRepo := new(mocks.MockCategoryRepository)
		svc := NewCategoryService(mockRepo)
		mockRepo.On("CreateCategory", ctx, mock.AnythingOfType("*domain.Category")).Return(repository.ErrCategoryConflict).Once()

		_, err := svc.CreateCategory(ctx, domain.CategoryRequest{Name: "Tools"})
		assert.ErrorIs(t, err, repository.ErrCategoryConflict)
	})

	t.Run("Repository error is wrapped", func(t *testing.T) {
		mockRepo := new(mocks.MockCategoryRepository)
		svc := NewCategoryService(mockRepo)
		mockRepo.On("CreateCategory", ctx, mock.AnythingOfType("*domain.Category")).Return(errors.New("db down")).Once()

		_, err := svc.CreateCategory(ctx, domain.CategoryRequest{Name: "Tools"})
		assert.ErrorContains(t, err, "could not save category")
	})
}

func TestCategoryService_GetCategory(t *testing.T) {
	ctx := context.TODO()
	mockRepo := new(mocks.MockCategoryRepository)
	svc := NewCategoryService(mockRepo)

	t.Run("Found", func(t *testing.T) {
		mockRepo.On("GetCategoryByID", ctx, int64(3)).Return(&domain.Category{ID: 3, Name: "Tools"}, nil).Once()

		c, err := svc.GetCategory(ctx, 3)
		assert.NoError(t, err)
		assert.Equal(t, "Tools", c.Name)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo.On("GetCategoryByID", ctx, int64(4)).Return(nil, repository.ErrCategoryNotFound).Once()

		_, err := svc.GetCategory(ctx, 4)
		assert.ErrorIs(t, err, repository.ErrCategoryNotFound)
	})

	t.Run("Invalid id", func(t *testing.T) {
		_, err := svc.GetCategory(ctx, 0)
		assert.ErrorIs(t, err, ErrInvalidCategoryID)
	})
	mockRepo.AssertExpectations(t)
}

func TestCategoryService_RenameCategory(t *testing.T) {
	ctx := context.TODO()
	mockRepo := new(mocks.MockCategoryRepository)
	svc := NewCategoryService(mockRepo)

	mockRepo.On("UpdateCategory", ctx, mock.MatchedBy(func(c *domain.Category) bool {
		return c.ID == 2 && c.Name == "Garden"
	})).Return(nil).Once()

	c, err := svc.RenameCategory(ctx, 2, domain.CategoryRequest{Name: "Garden"})
	assert.NoError(t, err)
	assert.Equal(t, "Garden", c.Name)

	_, err = svc.RenameCategory(ctx, 2, domain.CategoryRequest{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidCategory)
	mockRepo.AssertExpectations(t)
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	ctx := context.TODO()
	mockRepo := new(mocks.MockCategoryRepository)
	svc := NewCategoryService(mockRepo)

	mockRepo.On("DeleteCategory", ctx, int64(5)).Return(repository.ErrCategoryInUse).Once()
	assert.ErrorIs(t, svc.DeleteCategory(ctx, 5), repository.ErrCategoryInUse)

	mockRepo.On("DeleteCategory", ctx, int64(6)).Return(nil).Once()
	assert.NoError(t, svc.DeleteCategory(ctx, 6))

	assert.ErrorIs(t, svc.DeleteCategory(ctx, -1), ErrInvalidCategoryID)
	mockRepo.AssertExpectations(t)
}

func TestCategoryService_ListCategories(t *testing.T) {
	ctx := context.TODO()
	mockRepo := new(mocks.MockCategoryRepository)
	svc := NewCategoryService(mockRepo)

	mockRepo.On("ListCategories", ctx).Return([]domain.Category{{ID: 1, Name: "Tools"}}, nil).Once()
	categories, err := svc.ListCategories(ctx)
	assert.NoError(t, err)
	assert.Len(t, categories, 1)

	mockRepo.On("ListCategories", ctx).Return(nil, errors.New("db down")).Once()
	_, err = svc.ListCategories(ctx)
	assert.ErrorContains(t, err, "could not retrieve categories")
	mockRepo.AssertExpectations(t)
}
