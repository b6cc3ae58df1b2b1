package service

import (
	"context"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/logging"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/pkg/stripe"
)

const (
	eventPaymentSucceeded = "payment_intent.succeeded"
	eventPaymentFailed    = "payment_intent.payment_failed"
)

// PaymentService applies gateway callbacks to orders. Only the payment
// status column is touched.
type PaymentService interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*models.WebhookResult, error)
}

type paymentService struct {
	store        repository.Store
	stripeClient stripe.Client
}

func NewPaymentService(store repository.Store, stripeClient stripe.Client) PaymentService {
	return &paymentService{store: store, stripeClient: stripeClient}
}

func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*models.WebhookResult, error) {
	if s.stripeClient == nil {
		return nil, errors.NotFoundError("Payment webhooks are not enabled")
	}

	event, err := s.stripeClient.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return nil, errors.BadRequestError("Webhook signature verification failed").WithError(err)
	}

	result := &models.WebhookResult{EventType: string(event.Type)}

	var status models.PaymentStatus

	switch string(event.Type) {
	case eventPaymentSucceeded:
		status = models.PaymentStatusPaid
	case eventPaymentFailed:
		status = models.PaymentStatusFailed
	default:
		result.Ignored = true
		return result, nil
	}

	var reference string
	if event.Data != nil {
		reference, _ = event.Data.Object["id"].(string)
	}

	if reference == "" {
		return nil, errors.BadRequestError("Missing payment intent ID in webhook")
	}

	updated, err := s.store.Orders().UpdatePaymentStatusByReference(ctx, reference, status)
	if err != nil {
		return nil, errors.DatabaseError("Failed to update payment status").WithError(err)
	}

	result.Reference = reference
	result.PaymentStatus = status

	if updated == 0 {
		logging.FromContext(ctx).Info("Webhook for unknown payment reference", slog.String("reference", reference))
		result.Ignored = true
	}

	return result, nil
}
