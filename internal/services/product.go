package service

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"log/slog"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/logging"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// ProductService serves the catalog. Reads go through the cache; checkout
// never uses this service for prices.
type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo      repository.ProductRepository
	cache     cache.Cache
	sanitizer *bluemonday.Policy
}

func NewProductService(repo repository.ProductRepository, c cache.Cache) ProductService {
	return &productService{repo: repo, cache: c, sanitizer: bluemonday.UGCPolicy()}
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		Title:       strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(req.Title)),
		Description: s.sanitizer.Sanitize(req.Description),
		ImageURL:    req.ImageURL,
		Variants:    make([]models.ProductVariant, 0, len(req.Variants)),
	}

	for _, v := range req.Variants {
		product.Variants = append(product.Variants, models.ProductVariant{
			Name:  strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(v.Name)),
			SKU:   strings.TrimSpace(v.SKU),
			Price: v.Price,
			Stock: v.Stock,
		})
	}

	if product.Title == "" {
		return nil, errors.AddValidationError("title", "must contain text")
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errors.DuplicateEntryError("SKU already exists")
		}

		return nil, errors.DatabaseError("Failed to create product").WithError(err)
	}

	s.invalidate(ctx, cache.CatalogListKey)

	return product, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	logger := logging.FromContext(ctx)

	product, err := cache.GetOrLoad(ctx, s.cache, logger, cache.Key(cache.ProductKeyPrefix, id.String()), 0,
		func(ctx context.Context) (*models.Product, error) {
			return s.repo.GetProductByID(ctx, id)
		})
	if err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Product not found")
		}

		return nil, errors.DatabaseError("Failed to load product").WithError(err)
	}

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	logger := logging.FromContext(ctx)

	products, err := cache.GetOrLoad(ctx, s.cache, logger, cache.CatalogListKey, 0, s.repo.ListProducts)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, nil
}

// UpdateProduct reads the row straight from storage so a stale cache entry
// never overwrites newer fields.
func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Product not found")
		}

		return nil, errors.DatabaseError("Failed to load product").WithError(err)
	}

	if req.Title != nil {
		product.Title = strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(*req.Title))
		if product.Title == "" {
			return nil, errors.AddValidationError("title", "must contain text")
		}
	}

	if req.Description != nil {
		product.Description = s.sanitizer.Sanitize(*req.Description)
	}

	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Product not found")
		}

		return nil, errors.DatabaseError("Failed to update product").WithError(err)
	}

	s.invalidate(ctx, cache.CatalogListKey, cache.Key(cache.ProductKeyPrefix, id.String()))

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		switch {
		case stdErrors.Is(err, sql.ErrNoRows):
			return errors.NotFoundError("Product not found")
		case repository.IsForeignKeyViolation(err):
			return errors.ConflictError("Product has variants in active carts")
		default:
			return errors.DatabaseError("Failed to delete product").WithError(err)
		}
	}

	s.invalidate(ctx, cache.CatalogListKey, cache.Key(cache.ProductKeyPrefix, id.String()))

	return nil
}

// invalidate logs cache failures without failing the write.
func (s *productService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logging.FromContext(ctx).Warn("Failed to invalidate catalog cache", slog.Any("error", err))
	}
}
