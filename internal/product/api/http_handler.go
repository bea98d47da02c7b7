package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/product-catalog/internal/platform/auth"
	"github.com/ridloal/product-catalog/internal/platform/logger"
	"github.com/ridloal/product-catalog/internal/product/domain"
	"github.com/ridloal/product-catalog/internal/product/repository"
	"github.com/ridloal/product-catalog/internal/product/service"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(ps service.ProductService) *ProductHandler {
	return &ProductHandler{productService: ps}
}

// RegisterRoutes mounts read routes openly and write routes behind admin.
func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup, admin gin.HandlerFunc) {
	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", h.ListProducts)
		productRoutes.GET("/", h.ListProducts)
		productRoutes.GET("/:id", h.GetProduct)
		productRoutes.POST("", admin, h.CreateProduct)
		productRoutes.PATCH("/:id", admin, h.UpdateProduct)
		productRoutes.DELETE("/:id", admin, h.DeleteProduct)
		productRoutes.POST("/:id/stock", admin, h.AdjustStock)
	}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	var filter domain.ListFilter
	var err error
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset"})
		return
	}
	if v := c.Query("category_id"); v != "" {
		filter.CategoryID, err = strconv.ParseInt(v, 10, 64)
		if err != nil || filter.CategoryID < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return
		}
	}

	products, err := h.productService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, "ListProducts", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "GetProduct", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var in domain.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	product, err := h.productService.CreateProduct(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, "CreateProduct", err)
		return
	}
	logger.Info("Product %d created by %s", product.ID, auth.Subject(c))
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var patch domain.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	product, err := h.productService.UpdateProduct(c.Request.Context(), id, patch)
	if err != nil {
		h.writeError(c, "UpdateProduct", err)
		return
	}
	logger.Info("Product %d updated by %s", id, auth.Subject(c))
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		h.writeError(c, "DeleteProduct", err)
		return
	}
	logger.Info("Product %d deleted by %s", id, auth.Subject(c))
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req domain.StockAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	product, err := h.productService.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		h.writeError(c, "AdjustStock", err)
		return
	}
	logger.Info("Product %d stock adjusted by %d to %d by %s", id, req.Delta, product.Stock, auth.Subject(c))
	c.JSON(http.StatusOK, product)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return 0, false
	}
	return id, true
}

// queryInt returns 0 for an absent parameter; ListFilter.Normalize picks defaults.
func queryInt(c *gin.Context, name string) (int, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func (h *ProductHandler) writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidProduct):
		fields := gin.H{}
		for _, fe := range domain.FieldErrors(err) {
			fields[fe.Field] = fe.Err.Error()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product", "fields": fields})
	case errors.Is(err, service.ErrInvalidProductID),
		errors.Is(err, service.ErrEmptyPatch),
		errors.Is(err, service.ErrZeroDelta),
		errors.Is(err, repository.ErrValueOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrCategoryNotFound):
		// The request body names the category, so this is a client error.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "fields": gin.H{domain.FieldCategoryID: err.Error()}})
	case errors.Is(err, repository.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrInsufficientStock), errors.Is(err, repository.ErrConstraintViolation):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(op+": service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process product request"})
	}
}
