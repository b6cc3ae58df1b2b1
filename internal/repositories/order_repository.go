package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	LockOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
	UpdatePaymentStatusByReference(ctx context.Context, reference string, status models.PaymentStatus) (int64, error)
}

type orderRepository struct {
	DB DBTX
}

func NewOrderRepository(db DBTX) OrderRepository {
	return &orderRepository{DB: db}
}

const orderColumns = `id, user_id, cart_id, total_amount, currency, status, payment_status, payment_reference, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	order := &models.Order{}

	err := row.Scan(&order.ID, &order.CustomerID, &order.CartID, &order.TotalAmount, &order.Currency,
		&order.Status, &order.PaymentStatus, &order.PaymentReference, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return order, nil
}

// CreateOrder inserts the order row and its items. Callers run it inside
// the checkout transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO orders (id, user_id, cart_id, total_amount, currency, status, payment_status, payment_reference, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, order.ID, order.CustomerID, order.CartID, order.TotalAmount,
		order.Currency, order.Status, order.PaymentStatus, order.PaymentReference).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, variant_id, position, quantity, unit_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		item.Position = i

		err := r.DB.QueryRowContext(dbCtx, itemQuery, item.ID, order.ID, item.ProductID, item.VariantID, item.Position, item.Quantity, item.UnitPrice).
			Scan(&item.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert an order item: %w", err)
		}
	}

	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	if err := r.attachItems(dbCtx, []*models.Order{order}); err != nil {
		return nil, err
	}

	return order, nil
}

// LockOrder reads the order row FOR UPDATE without its items.
func (r *orderRepository) LockOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to lock the order: %w", err)
	}

	return order, nil
}

func (r *orderRepository) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	return r.listOrders(ctx, query, customerID)
}

func (r *orderRepository) ListOrders(ctx context.Context) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`

	return r.listOrders(ctx, query)
}

func (r *orderRepository) listOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	orders := []*models.Order{}

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			rows.Close()

			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		orders = append(orders, order)
	}

	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over the rows: %w", err)
	}

	if err := r.attachItems(dbCtx, orders); err != nil {
		return nil, err
	}

	result := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, *order)
	}

	return result, nil
}

// attachItems loads the items of all given orders with a single query, in
// the order they were written at checkout.
func (r *orderRepository) attachItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, 0, len(orders))
	byID := make(map[uuid.UUID]*models.Order, len(orders))

	for _, order := range orders {
		order.Items = []models.OrderItem{}
		ids = append(ids, order.ID.String())
		byID[order.ID] = order
	}

	query := `
		SELECT id, order_id, product_id, variant_id, position, quantity, unit_price, created_at
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position
	`

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to get the order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem

		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VariantID, &item.Position, &item.Quantity, &item.UnitPrice, &item.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}

		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating over the rows: %w", err)
	}

	return nil
}

// UpdateOrderStatus changes only status and updated_at.
func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + orderColumns

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to update the order status: %w", err)
	}

	if err := r.attachItems(dbCtx, []*models.Order{order}); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) UpdatePaymentStatusByReference(ctx context.Context, reference string, status models.PaymentStatus) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders
		SET payment_status = $1, updated_at = NOW()
		WHERE payment_reference = $2
	`

	result, err := r.DB.ExecContext(dbCtx, query, status, reference)
	if err != nil {
		return 0, fmt.Errorf("failed to update the payment status: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get updated rows: %w", err)
	}

	return updatedRows, nil
}
