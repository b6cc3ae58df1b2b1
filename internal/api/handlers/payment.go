package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/logging"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

const maxWebhookBytes = 64 << 10

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) HandleStripeWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
		if err != nil {
			logger.Error("Error reading webhook body", slog.Any("error", err))
			response.Error(w, errors.BadRequestError("Failed to read request body"))
			return
		}

		signature := r.Header.Get("Stripe-Signature")
		if signature == "" {
			logger.Warn("Missing Stripe signature")
			response.Error(w, errors.BadRequestError("Stripe Signature is required"))
			return
		}

		result, err := h.paymentService.HandleWebhook(r.Context(), payload, signature)
		if err != nil {
			logger.Warn("Failed to process payment webhook", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Payment webhook processed",
			slog.String("eventType", result.EventType),
			slog.String("reference", result.Reference),
			slog.Bool("ignored", result.Ignored))
		response.Success(w, http.StatusOK, result)
	}
}
