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

type OrderHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: validator.New()}
}

// CreateOrder checks out the caller's cart. The request has no body.
func (h *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized order creation attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		order, err := h.orderService.CreateOrder(r.Context(), actor)
		if err != nil {
			logger.Warn("Checkout failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order created successfully", slog.String("orderId", order.ID.String()))
		response.Success(w, http.StatusCreated, order)
	}
}

func (h *OrderHandler) ListMyOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		orders, err := h.orderService.ListMyOrders(r.Context(), actor)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

// ListAllOrders is the admin view over every customer's orders.
func (h *OrderHandler) ListAllOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		orders, err := h.orderService.ListAllOrders(r.Context(), actor)
		if err != nil {
			logger.Warn("Failed to list all orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized order access attempt: missing user claims")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("orderId", id.String()))

		order, err := h.orderService.GetOrder(r.Context(), actor, id)
		if err != nil {
			logger.Warn("Failed to get order", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

func (h *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateOrderStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid order status input")
			return
		}

		order, err := h.orderService.SetStatus(r.Context(), actor, id, req.Status)
		if err != nil {
			logger.Warn("Failed to update order status",
				slog.String("orderId", id.String()),
				slog.String("status", string(req.Status)),
				slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order status updated", slog.String("orderId", id.String()), slog.String("status", string(order.Status)))
		response.Success(w, http.StatusOK, order)
	}
}
