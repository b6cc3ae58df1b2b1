package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/logging"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/pkg/stripe"
	stripego "github.com/stripe/stripe-go/v81"
)

type StripeGate struct {
	client        stripe.Client
	paymentMethod string
}

func NewStripeGate(client stripe.Client, paymentMethod string) *StripeGate {
	return &StripeGate{client: client, paymentMethod: paymentMethod}
}

// IdempotencyKey scopes Stripe's request replay to one checkout attempt.
// Network retries inside an attempt share the key; a new attempt never does.
func IdempotencyKey(req models.AuthorizationRequest) string {
	return fmt.Sprintf("checkout-%s-%d-%s", req.CartID, req.Amount, req.AttemptID)
}

// Authorize creates and confirms an automatically captured PaymentIntent.
// Only a succeeded intent is approved; anything else is cancelled and
// reported as a decline.
func (g *StripeGate) Authorize(ctx context.Context, req models.AuthorizationRequest) (models.Authorization, error) {
	logger := logging.FromContext(ctx)

	intent, err := g.client.CreatePaymentIntent(ctx, stripe.IntentParams{
		Amount:         req.Amount,
		Currency:       req.Currency,
		Description:    "Checkout for cart " + req.CartID.String(),
		IdempotencyKey: IdempotencyKey(req),
		Metadata: map[string]string{
			"customer_id": req.CustomerID.String(),
			"cart_id":     req.CartID.String(),
			"attempt_id":  req.AttemptID.String(),
		},
	})
	if err != nil {
		if cardErr, ok := stripe.IsCardError(err); ok {
			return declined(cardErr), nil
		}

		return models.Authorization{}, fmt.Errorf("failed to create payment intent: %w", err)
	}

	confirmed, err := g.client.ConfirmPaymentIntent(ctx, intent.ID, g.paymentMethod)
	if err != nil {
		if cardErr, ok := stripe.IsCardError(err); ok {
			logger.Info("Card declined", slog.String("paymentIntentId", intent.ID), slog.String("declineCode", string(cardErr.DeclineCode)))
			return declined(cardErr), nil
		}

		return models.Authorization{}, fmt.Errorf("failed to confirm payment intent: %w", err)
	}

	if confirmed.Status == stripego.PaymentIntentStatusSucceeded {
		return models.Authorization{Approved: true, Reference: confirmed.ID}, nil
	}

	if _, err := g.client.CancelPaymentIntent(ctx, confirmed.ID); err != nil {
		logger.Warn("Failed to cancel unconfirmed payment intent", slog.String("paymentIntentId", confirmed.ID), slog.Any("error", err))
	}

	reason := fmt.Sprintf("payment intent ended in status %s", confirmed.Status)
	if confirmed.LastPaymentError != nil && confirmed.LastPaymentError.Msg != "" {
		reason = confirmed.LastPaymentError.Msg
	}

	return models.Authorization{Approved: false, Reference: confirmed.ID, DeclineReason: reason}, nil
}

// Release refunds a captured intent in full.
func (g *StripeGate) Release(ctx context.Context, reference string) error {
	refund, err := g.client.RefundPaymentIntent(ctx, reference)
	if err != nil {
		return fmt.Errorf("failed to refund payment intent %s: %w", reference, err)
	}

	logging.FromContext(ctx).Info("Payment intent refunded", slog.String("paymentIntentId", reference), slog.String("refundId", refund.ID))

	return nil
}

func declined(err *stripego.Error) models.Authorization {
	reason := err.Msg
	if reason == "" {
		reason = string(err.Code)
	}

	return models.Authorization{Approved: false, DeclineReason: reason}
}
