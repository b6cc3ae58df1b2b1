package health

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/pkg/stripe"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

const componentVersion = "1.0.0"

// Endpoints lists the optional dependencies to probe. Stripe is only
// checked when checkout authorizes through it.
type Endpoints struct {
	StripeClient stripe.Client
}

func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {
	checks := []health.Config{
		{
			Name:    "database",
			Timeout: 3 * time.Second,
			Check:   postgres.New(postgres.Config{DSN: cfg.Database.GetDSN()}),
		},
		{
			Name:    "redis",
			Timeout: 2 * time.Second,
			Check:   healthRedis.New(healthRedis.Config{DSN: cfg.RedisConnect.GetDSN()}),
		},
	}

	if cfg.Checkout.PaymentGate == config.PaymentGateStripe {
		checks = append(checks, health.Config{
			Name:      "stripe",
			Timeout:   5 * time.Second,
			SkipOnErr: true,
			Check:     stripeCheck(endpoints.StripeClient),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{Name: cfg.Otel.ServiceName, Version: componentVersion}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}

func stripeCheck(client stripe.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return fmt.Errorf("stripe client is not initialized")
		}

		if err := client.Ping(ctx); err != nil {
			return fmt.Errorf("failed to connect to stripe: %w", err)
		}

		return nil
	}
}
