package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
)

type CartRepository interface {
	GetActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	LockActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	LockCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
	CreateActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	UpsertItem(ctx context.Context, cartID, variantID uuid.UUID, quantity int) (*models.CartItem, bool, error)
	LockItem(ctx context.Context, itemID uuid.UUID) (*models.CartItem, *models.Cart, error)
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (*models.CartItem, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	MarkConverted(ctx context.Context, cartID uuid.UUID) error
}

type cartRepository struct {
	DB DBTX
}

func NewCartRepo(db DBTX) CartRepository {
	return &cartRepository{DB: db}
}

func scanCart(row *sql.Row) (*models.Cart, error) {
	cart := &models.Cart{}

	var userID uuid.NullUUID

	if err := row.Scan(&cart.ID, &userID, &cart.Status, &cart.CreatedAt, &cart.UpdatedAt); err != nil {
		return nil, err
	}

	if userID.Valid {
		cart.UserID = &userID.UUID
	}

	return cart, nil
}

func (r *cartRepository) GetActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, status, created_at, updated_at
		FROM carts
		WHERE user_id = $1 AND status = 'ACTIVE'
	`

	return scanCart(r.DB.QueryRowContext(dbCtx, query, userID))
}

// LockActiveCart must run inside a transaction. A concurrent checkout blocks
// here until the first one commits, then sees no active cart.
func (r *cartRepository) LockActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, status, created_at, updated_at
		FROM carts
		WHERE user_id = $1 AND status = 'ACTIVE'
		FOR UPDATE
	`

	return scanCart(r.DB.QueryRowContext(dbCtx, query, userID))
}

func (r *cartRepository) LockCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, status, created_at, updated_at
		FROM carts
		WHERE id = $1
		FOR UPDATE
	`

	return scanCart(r.DB.QueryRowContext(dbCtx, query, cartID))
}

// CreateActiveCart returns sql.ErrNoRows when another request created the
// user's active cart first.
func (r *cartRepository) CreateActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO carts (id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, 'ACTIVE', NOW(), NOW())
		ON CONFLICT DO NOTHING
		RETURNING id, user_id, status, created_at, updated_at
	`

	return scanCart(r.DB.QueryRowContext(dbCtx, query, uuid.New(), userID))
}

func (r *cartRepository) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ci.id, ci.cart_id, ci.variant_id, ci.quantity, ci.created_at, ci.updated_at,
			v.name, COALESCE(v.sku, ''), v.price, p.id, p.title
		FROM cart_items ci
		JOIN product_variants v ON v.id = ci.variant_id
		JOIN products p ON p.id = v.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at ASC
	`

	rows, err := r.DB.QueryContext(dbCtx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}

	for rows.Next() {
		var item models.CartItem

		err := rows.Scan(&item.ID, &item.CartID, &item.VariantID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
			&item.VariantName, &item.SKU, &item.UnitPrice, &item.ProductID, &item.ProductTitle)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over the rows: %w", err)
	}

	return items, nil
}

// UpsertItem merges into an existing (cart, variant) row. The boolean is
// true when a new row was inserted.
func (r *cartRepository) UpsertItem(ctx context.Context, cartID, variantID uuid.UUID, quantity int) (*models.CartItem, bool, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_items (id, cart_id, variant_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (cart_id, variant_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING id, cart_id, variant_id, quantity, created_at, updated_at, (xmax = 0) AS inserted
	`

	item := &models.CartItem{}

	var inserted bool

	err := r.DB.QueryRowContext(dbCtx, query, uuid.New(), cartID, variantID, quantity).
		Scan(&item.ID, &item.CartID, &item.VariantID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt, &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return item, inserted, nil
}

// LockItem loads an item together with its parent cart, locking both rows.
func (r *cartRepository) LockItem(ctx context.Context, itemID uuid.UUID) (*models.CartItem, *models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ci.id, ci.cart_id, ci.variant_id, ci.quantity, ci.created_at, ci.updated_at,
			c.id, c.user_id, c.status, c.created_at, c.updated_at
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		WHERE ci.id = $1
		FOR UPDATE OF ci, c
	`

	item := &models.CartItem{}
	cart := &models.Cart{}

	var userID uuid.NullUUID

	err := r.DB.QueryRowContext(dbCtx, query, itemID).Scan(
		&item.ID, &item.CartID, &item.VariantID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
		&cart.ID, &userID, &cart.Status, &cart.CreatedAt, &cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, err
		}

		return nil, nil, fmt.Errorf("failed to get cart item: %w", err)
	}

	if userID.Valid {
		cart.UserID = &userID.UUID
	}

	return item, cart, nil
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, cart_id, variant_id, quantity, created_at, updated_at
	`

	item := &models.CartItem{}

	err := r.DB.QueryRowContext(dbCtx, query, quantity, itemID).
		Scan(&item.ID, &item.CartID, &item.VariantID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return item, nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deleted == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// MarkConverted returns ErrCartNotActive if the cart already left ACTIVE.
func (r *cartRepository) MarkConverted(ctx context.Context, cartID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE carts
		SET status = 'CONVERTED', updated_at = NOW()
		WHERE id = $1 AND status = 'ACTIVE'
	`

	result, err := r.DB.ExecContext(dbCtx, query, cartID)
	if err != nil {
		return fmt.Errorf("failed to convert cart: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return ErrCartNotActive
	}

	return nil
}
