package handlers_test

import (
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

func setupCartHandler(t *testing.T) (*mocks.CartService, *handlers.CartHandler) {
	t.Helper()

	svc := mocks.NewCartService(t)

	return svc, handlers.NewCartHandler(svc)
}

func TestCartHandler_GetCart(t *testing.T) {
	t.Run("Success - Retrieve Cart", func(t *testing.T) {
		// Arrange
		svc, h := setupCartHandler(t)
		userID := uuid.New()
		cart := &models.Cart{ID: uuid.New(), UserID: &userID, Status: models.CartStatusActive, Items: []models.CartItem{}}

		svc.On("GetOrCreateActiveCart", mock.Anything, userID).Return(cart, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/cart", nil, userID, nil)
		rr := httptest.NewRecorder()

		// Act
		h.GetCart().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var got models.Cart
		resp := decodeResponse(t, rr, &got)
		assert.True(t, resp.Success)
		assert.Equal(t, cart.ID, got.ID)
		assert.Equal(t, models.CartStatusActive, got.Status)
	})

	t.Run("Failure - Unauthorized", func(t *testing.T) {
		svc, h := setupCartHandler(t)
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/cart", nil, nil)
		rr := httptest.NewRecorder()

		h.GetCart().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		svc.AssertNotCalled(t, "GetOrCreateActiveCart")
	})
}

func TestCartHandler_AddItem(t *testing.T) {
	userID := uuid.New()
	variantID := uuid.New()
	body := `{"variantId":"` + variantID.String() + `","quantity":2}`

	t.Run("New line answers 201", func(t *testing.T) {
		// Arrange
		svc, h := setupCartHandler(t)
		item := &models.CartItem{ID: uuid.New(), VariantID: variantID, Quantity: 2}

		svc.On("AddItem", mock.Anything, userID, &models.AddItemRequest{VariantID: variantID, Quantity: 2}).Return(item, true, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/cart/items", strings.NewReader(body), userID, nil)
		rr := httptest.NewRecorder()

		// Act
		h.AddItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)

		var got models.CartItem
		decodeResponse(t, rr, &got)
		assert.Equal(t, item.ID, got.ID)
	})

	t.Run("Merged line answers 200", func(t *testing.T) {
		svc, h := setupCartHandler(t)
		item := &models.CartItem{ID: uuid.New(), VariantID: variantID, Quantity: 5}

		svc.On("AddItem", mock.Anything, userID, mock.AnythingOfType("*models.AddItemRequest")).Return(item, false, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/cart/items", strings.NewReader(body), userID, nil)
		rr := httptest.NewRecorder()

		h.AddItem().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Invalid quantity", func(t *testing.T) {
		svc, h := setupCartHandler(t)

		svc.On("AddItem", mock.Anything, userID, mock.AnythingOfType("*models.AddItemRequest")).
			Return(nil, false, appErrors.InvalidQuantityError()).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/cart/items",
			strings.NewReader(`{"variantId":"`+variantID.String()+`","quantity":0}`), userID, nil)
		rr := httptest.NewRecorder()

		h.AddItem().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		resp := decodeResponse(t, rr, nil)
		assert.False(t, resp.Success)
		assert.Equal(t, appErrors.ErrCodeInvalidQuantity, resp.Error.Code)
	})

	t.Run("Missing variant id", func(t *testing.T) {
		svc, h := setupCartHandler(t)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/cart/items", strings.NewReader(`{"quantity":1}`), userID, nil)
		rr := httptest.NewRecorder()

		h.AddItem().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "AddItem")
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		svc, h := setupCartHandler(t)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/cart/items", strings.NewReader(`{"quantity":`), userID, nil)
		rr := httptest.NewRecorder()

		h.AddItem().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "AddItem")
	})
}

func TestCartHandler_UpdateItem(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		svc, h := setupCartHandler(t)
		item := &models.CartItem{ID: itemID, Quantity: 4}

		svc.On("SetItemQuantity", mock.Anything, userID, itemID, 4).Return(item, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/api/cart/items/"+itemID.String(),
			strings.NewReader(`{"quantity":4}`), userID, map[string]string{"id": itemID.String()})
		rr := httptest.NewRecorder()

		h.UpdateItem().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Item not found", func(t *testing.T) {
		svc, h := setupCartHandler(t)

		svc.On("SetItemQuantity", mock.Anything, userID, itemID, 4).Return(nil, appErrors.ItemNotFoundError()).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/api/cart/items/"+itemID.String(),
			strings.NewReader(`{"quantity":4}`), userID, map[string]string{"id": itemID.String()})
		rr := httptest.NewRecorder()

		h.UpdateItem().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, appErrors.ErrCodeItemNotFound, decodeResponse(t, rr, nil).Error.Code)
	})

	t.Run("Invalid item id", func(t *testing.T) {
		svc, h := setupCartHandler(t)

		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/api/cart/items/abc",
			strings.NewReader(`{"quantity":4}`), userID, map[string]string{"id": "abc"})
		rr := httptest.NewRecorder()

		h.UpdateItem().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "SetItemQuantity")
	})
}

func TestCartHandler_RemoveItem(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		svc, h := setupCartHandler(t)

		svc.On("RemoveItem", mock.Anything, userID, itemID).Return(nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/cart/items/"+itemID.String(), nil, userID,
			map[string]string{"id": itemID.String()})
		rr := httptest.NewRecorder()

		h.RemoveItem().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	t.Run("Item not found", func(t *testing.T) {
		svc, h := setupCartHandler(t)

		svc.On("RemoveItem", mock.Anything, userID, itemID).Return(appErrors.ItemNotFoundError()).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/cart/items/"+itemID.String(), nil, userID,
			map[string]string{"id": itemID.String()})
		rr := httptest.NewRecorder()

		h.RemoveItem().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
