package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/logging"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: validator.New()}
}

// CreateProduct is mounted behind RequireAdmin.
func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid product input")
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create product", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product created", slog.String("productId", product.ID.String()), slog.Int("variants", len(product.Variants)))
		response.Success(w, http.StatusCreated, product)
	}
}

func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		product, err := h.productService.GetProductByID(r.Context(), id)
		if err != nil {
			logging.FromContext(r.Context()).Warn("Failed to get product", slog.String("productId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := h.productService.ListProducts(r.Context())
		if err != nil {
			logging.FromContext(r.Context()).Error("Failed to list products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			logger.Warn("Failed to update product", slog.String("productId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product updated", slog.String("productId", id.String()))
		response.Success(w, http.StatusOK, product)
	}
}

func (h *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
			logger.Warn("Failed to delete product", slog.String("productId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product deleted", slog.String("productId", id.String()))
		response.NoContent(w)
	}
}
