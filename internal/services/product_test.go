package service_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testCacheTTL = 10 * time.Minute

func setupProductService(t *testing.T) (service.ProductService, *mocks.ProductRepository, redismock.ClientMock) {
	t.Helper()

	repo := mocks.NewProductRepository(t)
	client, redisMock := redismock.NewClientMock()
	c := cache.NewRedisCache(client, &config.CacheConfig{DefaultTTL: testCacheTTL})

	t.Cleanup(func() { assert.NoError(t, redisMock.ExpectationsWereMet()) })

	return service.NewProductService(repo, c), repo, redisMock
}

func TestProductService_CreateProduct(t *testing.T) {
	t.Run("Success - sanitizes and invalidates the listing", func(t *testing.T) {
		// Arrange
		svc, repo, redisMock := setupProductService(t)
		ctx := context.Background()
		req := &models.CreateProductRequest{
			Title:       "Linen <script>alert(1)</script>Shirt",
			Description: "<p>Breathable</p><script>x</script>",
			Variants:    []models.CreateVariantRequest{{Name: "M", Price: 1999, Stock: 5, SKU: " SH-M "}},
		}

		repo.On("CreateProduct", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()
		redisMock.ExpectDel(cache.CatalogListKey).SetVal(1)

		// Act
		product, err := svc.CreateProduct(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Linen Shirt", product.Title)
		assert.Equal(t, "<p>Breathable</p>", product.Description)
		require.Len(t, product.Variants, 1)
		assert.Equal(t, "SH-M", product.Variants[0].SKU)
		assert.Equal(t, int64(1999), product.Variants[0].Price)
	})

	t.Run("Failure - Title empty after sanitizing", func(t *testing.T) {
		svc, _, _ := setupProductService(t)

		_, err := svc.CreateProduct(context.Background(), &models.CreateProductRequest{
			Title:    "<script>x</script>",
			Variants: []models.CreateVariantRequest{{Name: "M", Price: 1}},
		})

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeValidation))
	})

	t.Run("Failure - Duplicate SKU", func(t *testing.T) {
		svc, repo, _ := setupProductService(t)
		ctx := context.Background()

		repo.On("CreateProduct", ctx, mock.AnythingOfType("*models.Product")).Return(&pq.Error{Code: "23505"}).Once()

		_, err := svc.CreateProduct(ctx, &models.CreateProductRequest{
			Title:    "Shirt",
			Variants: []models.CreateVariantRequest{{Name: "M", Price: 1, SKU: "DUP"}},
		})

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeDuplicateEntry))
	})

	t.Run("Cache failure does not fail the write", func(t *testing.T) {
		svc, repo, redisMock := setupProductService(t)
		ctx := context.Background()

		repo.On("CreateProduct", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()
		redisMock.ExpectDel(cache.CatalogListKey).SetErr(errors.New("redis down"))

		product, err := svc.CreateProduct(ctx, &models.CreateProductRequest{
			Title:    "Shirt",
			Variants: []models.CreateVariantRequest{{Name: "M", Price: 1}},
		})

		require.NoError(t, err)
		assert.NotNil(t, product)
	})
}

func TestProductService_GetProductByID(t *testing.T) {
	id := uuid.New()
	key := cache.Key(cache.ProductKeyPrefix, id.String())
	product := &models.Product{
		ID:       id,
		Title:    "Shirt",
		Variants: []models.ProductVariant{{ID: uuid.New(), ProductID: id, Name: "M", Price: 1999}},
	}
	data, err := json.Marshal(product)
	require.NoError(t, err)

	t.Run("Cache hit skips the database", func(t *testing.T) {
		// Arrange
		svc, _, redisMock := setupProductService(t)
		redisMock.ExpectGet(key).SetVal(string(data))

		// Act
		got, err := svc.GetProductByID(context.Background(), id)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, product.Title, got.Title)
		assert.Equal(t, int64(1999), got.Variants[0].Price)
	})

	t.Run("Cache miss loads and stores", func(t *testing.T) {
		svc, repo, redisMock := setupProductService(t)
		ctx := context.Background()

		redisMock.ExpectGet(key).SetErr(redis.Nil)
		repo.On("GetProductByID", ctx, id).Return(product, nil).Once()
		redisMock.ExpectSet(key, data, testCacheTTL).SetVal("OK")

		got, err := svc.GetProductByID(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, product, got)
	})

	t.Run("Not found", func(t *testing.T) {
		svc, repo, redisMock := setupProductService(t)
		ctx := context.Background()

		redisMock.ExpectGet(key).SetErr(redis.Nil)
		repo.On("GetProductByID", ctx, id).Return(nil, sql.ErrNoRows).Once()

		_, err := svc.GetProductByID(ctx, id)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
	})
}

func TestProductService_ListProducts(t *testing.T) {
	t.Run("Cache read failure falls through to the database", func(t *testing.T) {
		// Arrange
		svc, repo, redisMock := setupProductService(t)
		ctx := context.Background()
		products := []*models.Product{{ID: uuid.New(), Title: "Shirt"}}
		data, err := json.Marshal(products)
		require.NoError(t, err)

		redisMock.ExpectGet(cache.CatalogListKey).SetErr(errors.New("redis down"))
		repo.On("ListProducts", ctx).Return(products, nil).Once()
		redisMock.ExpectSet(cache.CatalogListKey, data, testCacheTTL).SetVal("OK")

		// Act
		got, err := svc.ListProducts(ctx)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, products, got)
	})

	t.Run("Database error", func(t *testing.T) {
		svc, repo, redisMock := setupProductService(t)
		ctx := context.Background()

		redisMock.ExpectGet(cache.CatalogListKey).SetErr(redis.Nil)
		repo.On("ListProducts", ctx).Return(nil, errors.New("connection reset")).Once()

		_, err := svc.ListProducts(ctx)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeDatabaseError))
	})
}

func TestProductService_UpdateProduct(t *testing.T) {
	id := uuid.New()
	productKey := cache.Key(cache.ProductKeyPrefix, id.String())

	t.Run("Applies sent fields and invalidates both keys", func(t *testing.T) {
		// Arrange
		svc, repo, redisMock := setupProductService(t)
		ctx := context.Background()
		title := "Hoodie <i>v2</i>"
		stored := &models.Product{ID: id, Title: "Hoodie", Description: "Fleece", ImageURL: "https://img.example.com/h.png"}

		repo.On("GetProductByID", ctx, id).Return(stored, nil).Once()
		repo.On("UpdateProduct", ctx, mock.MatchedBy(func(p *models.Product) bool {
			return p.Title == "Hoodie v2" && p.Description == "Fleece"
		})).Return(nil).Once()
		redisMock.ExpectDel(cache.CatalogListKey, productKey).SetVal(2)

		// Act
		product, err := svc.UpdateProduct(ctx, id, &models.UpdateProductRequest{Title: &title})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Hoodie v2", product.Title)
		assert.Equal(t, "https://img.example.com/h.png", product.ImageURL)
	})

	t.Run("Not found", func(t *testing.T) {
		svc, repo, _ := setupProductService(t)
		ctx := context.Background()

		repo.On("GetProductByID", ctx, id).Return(nil, sql.ErrNoRows).Once()

		_, err := svc.UpdateProduct(ctx, id, &models.UpdateProductRequest{})

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
	})

	t.Run("Title stripped to nothing", func(t *testing.T) {
		svc, repo, _ := setupProductService(t)
		ctx := context.Background()
		title := "<script>x</script>"

		repo.On("GetProductByID", ctx, id).Return(&models.Product{ID: id, Title: "Hoodie"}, nil).Once()

		_, err := svc.UpdateProduct(ctx, id, &models.UpdateProductRequest{Title: &title})

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeValidation))
	})
}

func TestProductService_DeleteProduct(t *testing.T) {
	id := uuid.New()
	productKey := cache.Key(cache.ProductKeyPrefix, id.String())

	t.Run("Success", func(t *testing.T) {
		svc, repo, redisMock := setupProductService(t)
		ctx := context.Background()

		repo.On("DeleteProduct", ctx, id).Return(nil).Once()
		redisMock.ExpectDel(cache.CatalogListKey, productKey).SetVal(1)

		require.NoError(t, svc.DeleteProduct(ctx, id))
	})

	t.Run("Variants still in carts", func(t *testing.T) {
		svc, repo, _ := setupProductService(t)
		ctx := context.Background()

		repo.On("DeleteProduct", ctx, id).Return(&pq.Error{Code: "23503"}).Once()

		err := svc.DeleteProduct(ctx, id)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeConflict))
	})

	t.Run("Not found", func(t *testing.T) {
		svc, repo, _ := setupProductService(t)
		ctx := context.Background()

		repo.On("DeleteProduct", ctx, id).Return(sql.ErrNoRows).Once()

		err := svc.DeleteProduct(ctx, id)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
	})
}
