package models

import (
	"time"

	"github.com/google/uuid"
)

type CartStatus string

const (
	CartStatusActive    CartStatus = "ACTIVE"
	CartStatusConverted CartStatus = "CONVERTED"
	CartStatusAbandoned CartStatus = "ABANDONED"
)

// CartItem references a variant by id. Price is resolved at checkout, the
// display fields are joined from the catalog on read.
type CartItem struct {
	ID           uuid.UUID `json:"id"`
	CartID       uuid.UUID `json:"cart_id"`
	VariantID    uuid.UUID `json:"variant_id"`
	Quantity     int       `json:"quantity"`
	VariantName  string    `json:"variant_name,omitempty"`
	SKU          string    `json:"sku,omitempty"`
	UnitPrice    int64     `json:"unit_price,omitempty"`
	ProductID    uuid.UUID `json:"product_id"`
	ProductTitle string    `json:"product_title,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Cart struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id"`
	Status    CartStatus `json:"status"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// OwnerID returns uuid.Nil for guest carts.
func (c *Cart) OwnerID() uuid.UUID {
	if c.UserID == nil {
		return uuid.Nil
	}

	return *c.UserID
}

func (c *Cart) IsActive() bool {
	return c.Status == CartStatusActive
}

type AddItemRequest struct {
	VariantID uuid.UUID `json:"variantId" validate:"required"`
	Quantity  int       `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}
