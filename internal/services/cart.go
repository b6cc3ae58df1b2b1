package service

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/access"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/logging"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
)

// maxCartResolveAttempts bounds the read/insert loop in activeCart. Each
// lost insert means another request committed the cart, so the next read
// finds it.
const maxCartResolveAttempts = 3

type CartService interface {
	GetOrCreateActiveCart(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, customerID uuid.UUID, req *models.AddItemRequest) (*models.CartItem, bool, error)
	SetItemQuantity(ctx context.Context, customerID, itemID uuid.UUID, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, customerID, itemID uuid.UUID) error
}

type cartService struct {
	store repository.Store
}

func NewCartService(store repository.Store) CartService {
	return &cartService{store: store}
}

// activeCart returns the customer's ACTIVE cart without items, creating it
// when absent.
func activeCart(ctx context.Context, carts repository.CartRepository, customerID uuid.UUID) (*models.Cart, error) {
	for range maxCartResolveAttempts {
		cart, err := carts.GetActiveCart(ctx, customerID)
		if err == nil {
			return cart, nil
		}

		if !stdErrors.Is(err, sql.ErrNoRows) {
			return nil, errors.DatabaseError("Failed to load cart").WithError(err)
		}

		cart, err = carts.CreateActiveCart(ctx, customerID)
		if err == nil {
			return cart, nil
		}

		if !stdErrors.Is(err, sql.ErrNoRows) {
			return nil, errors.DatabaseError("Failed to create cart").WithError(err)
		}

		logging.FromContext(ctx).Debug("Concurrent cart creation detected, re-reading", slog.String("customerId", customerID.String()))
	}

	return nil, errors.DatabaseError("Failed to resolve the active cart")
}

func (s *cartService) GetOrCreateActiveCart(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	carts := s.store.Carts()

	cart, err := activeCart(ctx, carts, customerID)
	if err != nil {
		return nil, err
	}

	items, err := carts.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load cart items").WithError(err)
	}

	cart.Items = items

	return cart, nil
}

func (s *cartService) AddItem(ctx context.Context, customerID uuid.UUID, req *models.AddItemRequest) (*models.CartItem, bool, error) {
	if req.Quantity <= 0 {
		return nil, false, errors.InvalidQuantityError()
	}

	if _, err := s.store.Variants().GetVariant(ctx, req.VariantID); err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return nil, false, errors.NotFoundError("Product variant not found")
		}

		return nil, false, errors.DatabaseError("Failed to load product variant").WithError(err)
	}

	var (
		item    *models.CartItem
		created bool
	)

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		carts := tx.Carts()

		cart, err := activeCart(ctx, carts, customerID)
		if err != nil {
			return err
		}

		cart, err = carts.LockCart(ctx, cart.ID)
		if err != nil {
			return errors.DatabaseError("Failed to lock cart").WithError(err)
		}

		if !cart.IsActive() {
			return errors.CartNotActiveError()
		}

		if err := access.RequireOwner(access.Actor{SubjectID: customerID}, cart); err != nil {
			return err
		}

		item, created, err = carts.UpsertItem(ctx, cart.ID, req.VariantID, req.Quantity)
		if err != nil {
			return errors.DatabaseError("Failed to add item to cart").WithError(err)
		}

		return nil
	})
	if err != nil {
		return nil, false, asAppError(err, "Failed to add item to cart")
	}

	return item, created, nil
}

func (s *cartService) SetItemQuantity(ctx context.Context, customerID, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, errors.InvalidQuantityError()
	}

	var item *models.CartItem

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		carts := tx.Carts()

		if err := lockOwnedItem(ctx, carts, customerID, itemID); err != nil {
			return err
		}

		var err error

		item, err = carts.UpdateItemQuantity(ctx, itemID, quantity)
		if err != nil {
			return errors.DatabaseError("Failed to update cart item").WithError(err)
		}

		return nil
	})
	if err != nil {
		return nil, asAppError(err, "Failed to update cart item")
	}

	return item, nil
}

func (s *cartService) RemoveItem(ctx context.Context, customerID, itemID uuid.UUID) error {
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		carts := tx.Carts()

		if err := lockOwnedItem(ctx, carts, customerID, itemID); err != nil {
			return err
		}

		if err := carts.DeleteItem(ctx, itemID); err != nil {
			if stdErrors.Is(err, sql.ErrNoRows) {
				return errors.ItemNotFoundError()
			}

			return errors.DatabaseError("Failed to remove cart item").WithError(err)
		}

		return nil
	})

	return asAppError(err, "Failed to remove cart item")
}

// lockOwnedItem reports ITEM_NOT_FOUND for a missing item, an item in a
// cart that is no longer ACTIVE, and an item in another customer's cart.
func lockOwnedItem(ctx context.Context, carts repository.CartRepository, customerID, itemID uuid.UUID) error {
	_, cart, err := carts.LockItem(ctx, itemID)
	if err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return errors.ItemNotFoundError()
		}

		return errors.DatabaseError("Failed to load cart item").WithError(err)
	}

	if !cart.IsActive() || !access.IsOwner(access.Actor{SubjectID: customerID}, cart) {
		return errors.ItemNotFoundError()
	}

	return nil
}

// asAppError passes AppErrors through and wraps anything else, such as a
// failed commit, as a database error.
func asAppError(err error, message string) error {
	if err == nil {
		return nil
	}

	if _, ok := errors.IsAppError(err); ok {
		return err
	}

	return errors.DatabaseError(message).WithError(err)
}
