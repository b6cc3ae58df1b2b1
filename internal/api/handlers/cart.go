package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/logging"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

// GetCart returns the caller's ACTIVE cart, creating an empty one on first use.
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		cart, err := h.cartService.GetOrCreateActiveCart(r.Context(), actor.SubjectID)
		if err != nil {
			logger.Error("Failed to get cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// AddItem answers 201 for a new line and 200 when the quantity was merged
// into an existing one.
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized add to cart attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add item input")
			return
		}

		item, created, err := h.cartService.AddItem(r.Context(), actor.SubjectID, &req)
		if err != nil {
			logger.Warn("Failed to add item to cart",
				slog.String("variantId", req.VariantID.String()),
				slog.Any("error", err))
			response.Error(w, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}

		logger.Info("Cart item saved", slog.String("itemId", item.ID.String()), slog.Int("quantity", item.Quantity))
		response.Success(w, status, item)
	}
}

func (h *CartHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		itemID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		item, err := h.cartService.SetItemQuantity(r.Context(), actor.SubjectID, itemID, req.Quantity)
		if err != nil {
			logger.Warn("Failed to update cart item", slog.String("itemId", itemID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, item)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		itemID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.cartService.RemoveItem(r.Context(), actor.SubjectID, itemID); err != nil {
			logger.Warn("Failed to remove cart item", slog.String("itemId", itemID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.NoContent(w)
	}
}
