package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/services/mocks"
	"github.com/aaravmahajanofficial/storefront/internal/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProductHandler_CreateProduct(t *testing.T) {
	adminID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc := mocks.NewProductService(t)
		h := handlers.NewProductHandler(svc)
		product := &models.Product{ID: uuid.New(), Title: "Shirt", Variants: []models.ProductVariant{{Name: "M", Price: 1999}}}

		svc.On("CreateProduct", mock.Anything, mock.AnythingOfType("*models.CreateProductRequest")).Return(product, nil).Once()

		body := `{"title":"Shirt","variants":[{"name":"M","price":1999,"stock":3}]}`
		req := testutils.CreateTestRequestWithRole(http.MethodPost, "/api/products", strings.NewReader(body), adminID, models.RoleAdmin, nil)
		rr := httptest.NewRecorder()

		// Act
		h.CreateProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("Failure - No variants", func(t *testing.T) {
		svc := mocks.NewProductService(t)
		h := handlers.NewProductHandler(svc)

		req := testutils.CreateTestRequestWithRole(http.MethodPost, "/api/products", strings.NewReader(`{"title":"Shirt","variants":[]}`),
			adminID, models.RoleAdmin, nil)
		rr := httptest.NewRecorder()

		h.CreateProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "CreateProduct")
	})

	t.Run("Failure - Non-positive price", func(t *testing.T) {
		svc := mocks.NewProductService(t)
		h := handlers.NewProductHandler(svc)

		req := testutils.CreateTestRequestWithRole(http.MethodPost, "/api/products",
			strings.NewReader(`{"title":"Shirt","variants":[{"name":"M","price":0}]}`), adminID, models.RoleAdmin, nil)
		rr := httptest.NewRecorder()

		h.CreateProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestProductHandler_Reads(t *testing.T) {
	t.Run("GetProduct", func(t *testing.T) {
		svc := mocks.NewProductService(t)
		h := handlers.NewProductHandler(svc)
		id := uuid.New()

		svc.On("GetProductByID", mock.Anything, id).Return(&models.Product{ID: id, Title: "Shirt"}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/products/"+id.String(), nil, map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()

		h.GetProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var got models.Product
		decodeResponse(t, rr, &got)
		assert.Equal(t, "Shirt", got.Title)
	})

	t.Run("GetProduct not found", func(t *testing.T) {
		svc := mocks.NewProductService(t)
		h := handlers.NewProductHandler(svc)
		id := uuid.New()

		svc.On("GetProductByID", mock.Anything, id).Return(nil, appErrors.NotFoundError("Product not found")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/products/"+id.String(), nil, map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()

		h.GetProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("ListProducts unexpected error", func(t *testing.T) {
		svc := mocks.NewProductService(t)
		h := handlers.NewProductHandler(svc)

		svc.On("ListProducts", mock.Anything).Return(nil, errors.New("boom")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/products", nil, nil)
		rr := httptest.NewRecorder()

		h.ListProducts().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, appErrors.ErrCodeInternal, decodeResponse(t, rr, nil).Error.Code)
	})
}

func TestProductHandler_UpdateProduct(t *testing.T) {
	adminID := uuid.New()

	t.Run("Success - only sent fields", func(t *testing.T) {
		// Arrange
		svc := mocks.NewProductService(t)
		h := handlers.NewProductHandler(svc)
		id := uuid.New()

		svc.On("UpdateProduct", mock.Anything, id, mock.MatchedBy(func(req *models.UpdateProductRequest) bool {
			return req.Title != nil && *req.Title == "Hoodie" && req.Description == nil && req.ImageURL == nil
		})).Return(&models.Product{ID: id, Title: "Hoodie"}, nil).Once()

		req := testutils.CreateTestRequestWithRole(http.MethodPut, "/api/products/"+id.String(), strings.NewReader(`{"title":"Hoodie"}`),
			adminID, models.RoleAdmin, map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()

		// Act
		h.UpdateProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Bad image URL", func(t *testing.T) {
		svc := mocks.NewProductService(t)
		h := handlers.NewProductHandler(svc)
		id := uuid.New()

		req := testutils.CreateTestRequestWithRole(http.MethodPut, "/api/products/"+id.String(), strings.NewReader(`{"imageUrl":"not a url"}`),
			adminID, models.RoleAdmin, map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()

		h.UpdateProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "UpdateProduct")
	})
}

func TestProductHandler_DeleteProduct(t *testing.T) {
	adminID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		svc := mocks.NewProductService(t)
		h := handlers.NewProductHandler(svc)
		id := uuid.New()

		svc.On("DeleteProduct", mock.Anything, id).Return(nil).Once()

		req := testutils.CreateTestRequestWithRole(http.MethodDelete, "/api/products/"+id.String(), nil,
			adminID, models.RoleAdmin, map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()

		h.DeleteProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Zero(t, rr.Body.Len())
	})

	t.Run("Failure - Referenced by a cart", func(t *testing.T) {
		svc := mocks.NewProductService(t)
		h := handlers.NewProductHandler(svc)
		id := uuid.New()

		svc.On("DeleteProduct", mock.Anything, id).Return(appErrors.ConflictError("Product has variants in active carts")).Once()

		req := testutils.CreateTestRequestWithRole(http.MethodDelete, "/api/products/"+id.String(), nil,
			adminID, models.RoleAdmin, map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()

		h.DeleteProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, appErrors.ErrCodeConflict, decodeResponse(t, rr, nil).Error.Code)
	})
}
