// Package payment holds the authorization step run during checkout.
package payment

import (
	"context"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/pkg/stripe"
	"github.com/google/uuid"
)

// Gate authorizes a checkout amount. A declined charge is reported through
// Authorization with a nil error; errors are reserved for gateway failures.
// Release returns the money behind an approved reference whose order was
// never committed.
type Gate interface {
	Authorize(ctx context.Context, req models.AuthorizationRequest) (models.Authorization, error)
	Release(ctx context.Context, reference string) error
}

// StubGate approves everything.
type StubGate struct{}

func (StubGate) Authorize(ctx context.Context, _ models.AuthorizationRequest) (models.Authorization, error) {
	if err := ctx.Err(); err != nil {
		return models.Authorization{}, err
	}

	return models.Authorization{Approved: true, Reference: "stub_" + uuid.NewString()}, nil
}

func (StubGate) Release(context.Context, string) error { return nil }

// DeclineGate declines everything with Reason.
type DeclineGate struct {
	Reason string
}

func (g DeclineGate) Authorize(ctx context.Context, _ models.AuthorizationRequest) (models.Authorization, error) {
	if err := ctx.Err(); err != nil {
		return models.Authorization{}, err
	}

	return models.Authorization{Approved: false, DeclineReason: g.Reason}, nil
}

func (DeclineGate) Release(context.Context, string) error { return nil }

// NewGate returns the gate selected by cfg.Checkout.PaymentGate.
func NewGate(cfg *config.Config, client stripe.Client) (Gate, error) {
	switch cfg.Checkout.PaymentGate {
	case config.PaymentGateStub, "":
		return StubGate{}, nil
	case config.PaymentGateStripe:
		if client == nil {
			return nil, fmt.Errorf("stripe payment gate requires a stripe client")
		}

		return NewStripeGate(client, cfg.Stripe.PaymentMethod), nil
	default:
		return nil, fmt.Errorf("unsupported payment gate %q", cfg.Checkout.PaymentGate)
	}
}
