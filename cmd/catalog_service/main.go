package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	categoryAPI "github.com/ridloal/product-catalog/internal/category/api"
	categoryRepo "github.com/ridloal/product-catalog/internal/category/repository"
	categoryService "github.com/ridloal/product-catalog/internal/category/service"
	"github.com/ridloal/product-catalog/internal/platform/auth"
	"github.com/ridloal/product-catalog/internal/platform/cache"
	"github.com/ridloal/product-catalog/internal/platform/config"
	"github.com/ridloal/product-catalog/internal/platform/database"
	"github.com/ridloal/product-catalog/internal/platform/logger"
	productAPI "github.com/ridloal/product-catalog/internal/product/api"
	productRepo "github.com/ridloal/product-catalog/internal/product/repository"
	productService "github.com/ridloal/product-catalog/internal/product/service"
)

const cachePrefix = "catalog:"

func main() {
	if err := run(); err != nil {
		logger.Error("Catalog Service stopped with error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadCatalogConfig()
	if err != nil {
		return err
	}
	if err := logger.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}
	logger.Info("Starting Catalog Service...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Setup Database
	db, err := database.Connect(ctx, cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if cfg.DB.AutoMigrate {
		if err := database.EnsureSchema(ctx, db); err != nil {
			return err
		}
	}

	// Setup Dependencies
	var prodRepository productRepo.ProductRepository = productRepo.NewPostgresProductRepository(db)
	if cfg.Cache.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		defer rdb.Close()

		redisCache := cache.NewRedisCache(rdb, cachePrefix)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("Redis at %s is not reachable, product reads fall back to Postgres: %v", cfg.Cache.Addr, err)
		}
		prodRepository = productRepo.NewCachedProductRepository(prodRepository, redisCache, cfg.Cache.TTL,
			productRepo.WithRedeleteDelay(cfg.Cache.RedeleteDelay))
		logger.Info("Product cache enabled at %s (ttl %v)", cfg.Cache.Addr, cfg.Cache.TTL)
	}
	catRepository := categoryRepo.NewPostgresCategoryRepository(db)

	catService := categoryService.NewCategoryService(catRepository)
	prodService := productService.NewProductService(prodRepository, catRepository, cfg.LowStock.Threshold)

	monitor := productService.NewLowStockMonitor(prodService)
	if err := monitor.Start(cfg.LowStock.Schedule); err != nil {
		return err
	}
	defer monitor.Stop()

	signer := auth.NewSigner(cfg.Auth.JWTSecretKey)
	admin := auth.RequireRole(signer, auth.RoleAdmin)

	// Setup Gin Router
	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware())
	router.RedirectTrailingSlash = false

	router.GET("/healthz", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := router.Group("/api/v1")
	categoryAPI.NewCategoryHandler(catService).RegisterRoutes(apiV1, admin)
	productAPI.NewProductHandler(prodService).RegisterRoutes(apiV1, admin)

	server := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Catalog Service running on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down Catalog Service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
