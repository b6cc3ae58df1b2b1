package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

type PaymentStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"

	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}

	return false
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// OrderItem is written once with the order. UnitPrice is the price at checkout.
type OrderItem struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	VariantID uuid.UUID `json:"variant_id"`
	Position  int       `json:"position"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
	CreatedAt time.Time `json:"created_at"`
}

type Order struct {
	ID               uuid.UUID     `json:"id"`
	CustomerID       uuid.UUID     `json:"customer_id"`
	CartID           uuid.UUID     `json:"cart_id"`
	TotalAmount      int64         `json:"total_amount"`
	Currency         string        `json:"currency"`
	Status           OrderStatus   `json:"status"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	PaymentReference string        `json:"payment_reference,omitempty"`
	Items            []OrderItem   `json:"items"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (o *Order) OwnerID() uuid.UUID {
	return o.CustomerID
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required"`
}

// PricedLine is one cart line with the unit price resolved at checkout.
type PricedLine struct {
	CartItemID uuid.UUID
	VariantID  uuid.UUID
	ProductID  uuid.UUID
	Quantity   int
	UnitPrice  int64
}
