package service

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/access"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/logging"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/payment"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
)

type OrderService interface {
	CreateOrder(ctx context.Context, actor access.Actor) (*models.Order, error)
	ListMyOrders(ctx context.Context, actor access.Actor) ([]models.Order, error)
	ListAllOrders(ctx context.Context, actor access.Actor) ([]models.Order, error)
	GetOrder(ctx context.Context, actor access.Actor, id uuid.UUID) (*models.Order, error)
	SetStatus(ctx context.Context, actor access.Actor, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
}

type orderService struct {
	store    repository.Store
	pricing  PricingService
	gate     payment.Gate
	policy   StatusPolicy
	notifier NotificationService
	currency string
}

// NewOrderService wires the checkout. notifier may be nil.
func NewOrderService(store repository.Store, pricing PricingService, gate payment.Gate, policy StatusPolicy, notifier NotificationService, currency string) OrderService {
	return &orderService{
		store:    store,
		pricing:  pricing,
		gate:     gate,
		policy:   policy,
		notifier: notifier,
		currency: currency,
	}
}

// CreateOrder converts the caller's ACTIVE cart into an order. The cart row
// stays locked from the first read until commit, payment authorization
// included, so a concurrent checkout for the same customer waits and then
// finds no ACTIVE cart. An approved payment whose transaction does not
// commit is released through the gate.
func (s *orderService) CreateOrder(ctx context.Context, actor access.Actor) (*models.Order, error) {
	logger := logging.FromContext(ctx)

	var (
		order   *models.Order
		charged string
	)

	orderID := uuid.New()

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		carts := tx.Carts()

		cart, err := carts.LockActiveCart(ctx, actor.SubjectID)
		if err != nil {
			if stdErrors.Is(err, sql.ErrNoRows) {
				return errors.EmptyCartError()
			}

			return errors.DatabaseError("Failed to load cart").WithError(err)
		}

		if err := access.RequireOwner(actor, cart); err != nil {
			return err
		}

		items, err := carts.ListItems(ctx, cart.ID)
		if err != nil {
			return errors.DatabaseError("Failed to load cart items").WithError(err)
		}

		if len(items) == 0 {
			return errors.EmptyCartError()
		}

		lines, err := s.pricing.PriceLineItems(ctx, tx.Variants(), items)
		if err != nil {
			return err
		}

		total, err := s.pricing.Total(lines)
		if err != nil {
			return err
		}

		auth, err := s.gate.Authorize(ctx, models.AuthorizationRequest{
			CustomerID: actor.SubjectID,
			CartID:     cart.ID,
			AttemptID:  orderID,
			Amount:     total,
			Currency:   s.currency,
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			return errors.ThirdPartyError("Payment authorization failed").WithError(err)
		}

		if !auth.Approved {
			logger.Info("Payment declined", slog.String("cartId", cart.ID.String()), slog.String("reason", auth.DeclineReason))
			return errors.PaymentDeclinedError(auth.DeclineReason)
		}

		charged = auth.Reference
		order = newOrder(orderID, actor.SubjectID, cart.ID, total, s.currency, auth.Reference, lines)

		if err := tx.Orders().CreateOrder(ctx, order); err != nil {
			if repository.IsUniqueViolation(err) {
				return errors.EmptyCartError()
			}

			return errors.DatabaseError("Failed to create order").WithError(err)
		}

		if err := carts.MarkConverted(ctx, cart.ID); err != nil {
			if stdErrors.Is(err, repository.ErrCartNotActive) {
				return errors.EmptyCartError()
			}

			return errors.DatabaseError("Failed to convert cart").WithError(err)
		}

		return nil
	})
	if err != nil {
		if charged != "" {
			s.releasePayment(ctx, order.CartID, charged)
		}

		err = asAppError(err, "Failed to create order")
		if appErr, ok := errors.IsAppError(err); ok {
			metrics.CheckoutFailed(appErr.Code)
		}

		return nil, err
	}

	metrics.OrderCreated(order.Currency, order.TotalAmount)
	logger.Info("Order created",
		slog.String("orderId", order.ID.String()),
		slog.Int64("totalAmount", order.TotalAmount),
		slog.Int("items", len(order.Items)),
	)

	if s.notifier != nil {
		if err := s.notifier.SendOrderConfirmation(context.WithoutCancel(ctx), order); err != nil {
			logger.Warn("Order confirmation not sent", slog.String("orderId", order.ID.String()), slog.Any("error", err))
		}
	}

	return order, nil
}

// releasePayment runs detached from ctx so a cancelled caller still gets
// the refund.
func (s *orderService) releasePayment(ctx context.Context, cartID uuid.UUID, reference string) {
	logger := logging.FromContext(ctx).With(slog.String("cartId", cartID.String()), slog.String("paymentReference", reference))

	if err := s.gate.Release(context.WithoutCancel(ctx), reference); err != nil {
		logger.Error("Failed to release payment for rolled back checkout", slog.Any("error", err))

		return
	}

	logger.Warn("Payment released after checkout rollback")
}

func newOrder(id, customerID, cartID uuid.UUID, total int64, currency, reference string, lines []models.PricedLine) *models.Order {
	order := &models.Order{
		ID:               id,
		CustomerID:       customerID,
		CartID:           cartID,
		TotalAmount:      total,
		Currency:         currency,
		Status:           models.OrderStatusProcessing,
		PaymentStatus:    models.PaymentStatusPaid,
		PaymentReference: reference,
		Items:            make([]models.OrderItem, 0, len(lines)),
	}

	for _, line := range lines {
		order.Items = append(order.Items, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Position:  len(order.Items),
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	return order
}

func (s *orderService) ListMyOrders(ctx context.Context, actor access.Actor) ([]models.Order, error) {
	orders, err := s.store.Orders().ListOrdersByCustomer(ctx, actor.SubjectID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list orders").WithError(err)
	}

	return orders, nil
}

func (s *orderService) ListAllOrders(ctx context.Context, actor access.Actor) ([]models.Order, error) {
	if err := access.RequireAdmin(actor); err != nil {
		return nil, err
	}

	orders, err := s.store.Orders().ListOrders(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list orders").WithError(err)
	}

	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, actor access.Actor, id uuid.UUID) (*models.Order, error) {
	order, err := s.store.Orders().GetOrderByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return nil, errors.OrderNotFoundError()
		}

		return nil, errors.DatabaseError("Failed to load order").WithError(err)
	}

	if err := access.RequireOwnerOrAdmin(actor, order); err != nil {
		return nil, err
	}

	return order, nil
}

// SetStatus changes only the status column. Whether a transition is
// accepted is up to the configured StatusPolicy.
func (s *orderService) SetStatus(ctx context.Context, actor access.Actor, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if err := access.RequireAdmin(actor); err != nil {
		return nil, err
	}

	if !status.Valid() {
		return nil, errors.ValidationError("Invalid order status").WithDetail(string(status))
	}

	var updated *models.Order

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		orders := tx.Orders()

		current, err := orders.LockOrder(ctx, id)
		if err != nil {
			if stdErrors.Is(err, sql.ErrNoRows) {
				return errors.OrderNotFoundError()
			}

			return errors.DatabaseError("Failed to load order").WithError(err)
		}

		if !s.policy.Allow(current.Status, status) {
			return errors.InvalidStatusTransitionError(string(current.Status), string(status))
		}

		updated, err = orders.UpdateOrderStatus(ctx, id, status)
		if err != nil {
			return errors.DatabaseError("Failed to update order status").WithError(err)
		}

		return nil
	})
	if err != nil {
		metrics.OrderStatusChanged(string(status), "rejected")
		return nil, asAppError(err, "Failed to update order status")
	}

	metrics.OrderStatusChanged(string(status), "applied")

	return updated, nil
}
