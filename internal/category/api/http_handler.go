package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/product-catalog/internal/category/domain"
	"github.com/ridloal/product-catalog/internal/category/repository"
	"github.com/ridloal/product-catalog/internal/category/service"
	"github.com/ridloal/product-catalog/internal/platform/auth"
	"github.com/ridloal/product-catalog/internal/platform/logger"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(cs service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: cs}
}

// RegisterRoutes mounts read routes openly and write routes behind admin.
func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup, admin gin.HandlerFunc) {
	categoryRoutes := router.Group("/categories")
	{
		categoryRoutes.GET("", h.ListCategories)
		categoryRoutes.GET("/", h.ListCategories)
		categoryRoutes.GET("/:id", h.GetCategory)
		categoryRoutes.POST("", admin, h.CreateCategory)
		categoryRoutes.PATCH("/:id", admin, h.RenameCategory)
		categoryRoutes.DELETE("/:id", admin, h.DeleteCategory)
	}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		h.writeError(c, "ListCategories", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	category, err := h.categoryService.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "GetCategory", err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req domain.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	category, err := h.categoryService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "CreateCategory", err)
		return
	}
	logger.Info("Category %d created by %s", category.ID, auth.Subject(c))
	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) RenameCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req domain.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	category, err := h.categoryService.RenameCategory(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, "RenameCategory", err)
		return
	}
	logger.Info("Category %d renamed by %s", id, auth.Subject(c))
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		h.writeError(c, "DeleteCategory", err)
		return
	}
	logger.Info("Category %d deleted by %s", id, auth.Subject(c))
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID format"})
		return 0, false
	}
	return id, true
}

func (h *CategoryHandler) writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCategory), errors.Is(err, service.ErrInvalidCategoryID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrCategoryConflict), errors.Is(err, repository.ErrCategoryInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(op+": service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process category request"})
	}
}
