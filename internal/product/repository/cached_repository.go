package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/ridloal/product-catalog/internal/platform/logger"
	"github.com/ridloal/product-catalog/internal/product/domain"
)

// Cache is the subset of a key/value cache the product repository needs.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const (
	defaultRedeleteDelay = 500 * time.Millisecond
	redeleteTimeout      = 2 * time.Second
)

// cachedProductRepository serves GetProductByID from the cache and drops the
// entry on every write. Cache failures are logged and never surface.
//
// A reader that missed the cache before a write can still Set the old row
// after the write's delete. The entry is therefore deleted again once
// redeleteDelay has passed, which bounds that staleness to the delay
// instead of the TTL.
type cachedProductRepository struct {
	next          ProductRepository
	cache         Cache
	ttl           time.Duration
	redeleteDelay time.Duration
}

type CacheOption func(*cachedProductRepository)

// WithRedeleteDelay sets the delay before the second delete; zero disables it.
func WithRedeleteDelay(d time.Duration) CacheOption {
	return func(r *cachedProductRepository) {
		r.redeleteDelay = d
	}
}

func NewCachedProductRepository(next ProductRepository, cache Cache, ttl time.Duration, opts ...CacheOption) ProductRepository {
	r := &cachedProductRepository{next: next, cache: cache, ttl: ttl, redeleteDelay: defaultRedeleteDelay}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func productKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}

func (r *cachedProductRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	var cached domain.Product
	found, err := r.cache.Get(ctx, productKey(id), &cached)
	if err != nil {
		logger.Warn("Cache read for product %d failed, falling back to database: %v", id, err)
	} else if found {
		return &cached, nil
	}

	p, err := r.next.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, productKey(id), p, r.ttl); err != nil {
		logger.Warn("Cache write for product %d failed: %v", id, err)
	}
	return p, nil
}

func (r *cachedProductRepository) invalidate(ctx context.Context, id int64) {
	r.deleteKey(ctx, id)
	if r.redeleteDelay <= 0 {
		return
	}
	time.AfterFunc(r.redeleteDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), redeleteTimeout)
		defer cancel()
		r.deleteKey(ctx, id)
	})
}

func (r *cachedProductRepository) deleteKey(ctx context.Context, id int64) {
	if err := r.cache.Delete(ctx, productKey(id)); err != nil {
		logger.Warn("Cache invalidation for product %d failed: %v", id, err)
	}
}

func (r *cachedProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	return r.next.CreateProduct(ctx, product)
}

func (r *cachedProductRepository) ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	return r.next.ListProducts(ctx, filter)
}

func (r *cachedProductRepository) ListLowStock(ctx context.Context, threshold int64) ([]domain.Product, error) {
	return r.next.ListLowStock(ctx, threshold)
}

func (r *cachedProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	if err := r.next.UpdateProduct(ctx, product); err != nil {
		return err
	}
	r.invalidate(ctx, product.ID)
	return nil
}

func (r *cachedProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	if err := r.next.DeleteProduct(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *cachedProductRepository) AdjustStock(ctx context.Context, id int64, delta int64) (*domain.Product, error) {
	p, err := r.next.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, id)
	return p, nil
}
