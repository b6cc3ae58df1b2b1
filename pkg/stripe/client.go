package stripe

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/balance"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/refund"
	"github.com/stripe/stripe-go/v81/webhook"
)

type (
	Event         = stripe.Event
	PaymentIntent = stripe.PaymentIntent
	Error         = stripe.Error
)

// Client is the subset of the Stripe API used for checkout authorization.
type Client interface {
	CreatePaymentIntent(ctx context.Context, params IntentParams) (*stripe.PaymentIntent, error)
	ConfirmPaymentIntent(ctx context.Context, paymentIntentID, paymentMethodID string) (*stripe.PaymentIntent, error)
	CancelPaymentIntent(ctx context.Context, paymentIntentID string) (*stripe.PaymentIntent, error)
	RefundPaymentIntent(ctx context.Context, paymentIntentID string) (*stripe.Refund, error)
	VerifyWebhookSignature(payload []byte, signature string) (Event, error)
	Ping(ctx context.Context) error
}

type IntentParams struct {
	Amount         int64
	Currency       string
	Description    string
	IdempotencyKey string
	Metadata       map[string]string
}

type stripeClient struct {
	webhookSecret string
}

func NewStripeClient(apiKey string, webhookSecret string) Client {
	stripe.Key = apiKey

	return &stripeClient{webhookSecret: webhookSecret}
}

func (s *stripeClient) CreatePaymentIntent(ctx context.Context, in IntentParams) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(in.Amount),
		Currency:           stripe.String(in.Currency),
		Description:        stripe.String(in.Description),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	if in.IdempotencyKey != "" {
		params.SetIdempotencyKey(in.IdempotencyKey)
	}

	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}

	return paymentintent.New(params)
}

func (s *stripeClient) ConfirmPaymentIntent(ctx context.Context, paymentIntentID, paymentMethodID string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(paymentMethodID),
	}
	params.Context = ctx

	return paymentintent.Confirm(paymentIntentID, params)
}

func (s *stripeClient) CancelPaymentIntent(ctx context.Context, paymentIntentID string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	return paymentintent.Cancel(paymentIntentID, params)
}

// RefundPaymentIntent refunds the full captured amount. Repeating it for the
// same intent returns the first refund.
func (s *stripeClient) RefundPaymentIntent(ctx context.Context, paymentIntentID string) (*stripe.Refund, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Context = ctx
	params.SetIdempotencyKey("refund-" + paymentIntentID)

	return refund.New(params)
}

func (s *stripeClient) VerifyWebhookSignature(payload []byte, signature string) (Event, error) {
	if s.webhookSecret == "" {
		return Event{}, errors.New("webhook secret not configured")
	}

	return webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

// Ping reads the account balance; used by the health check.
func (s *stripeClient) Ping(ctx context.Context) error {
	params := &stripe.BalanceParams{}
	params.Context = ctx

	_, err := balance.Get(params)

	return err
}

// IsCardError reports whether err is a Stripe card decline.
func IsCardError(err error) (*stripe.Error, bool) {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
		return stripeErr, true
	}

	return nil, false
}
