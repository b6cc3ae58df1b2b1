package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	ImageURL    string           `json:"image_url,omitempty"`
	Variants    []ProductVariant `json:"variants"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ProductVariant prices are in minor currency units.
type ProductVariant struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku,omitempty"`
	Price     int64     `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateVariantRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Price int64  `json:"price" validate:"required,gt=0"`
	Stock int    `json:"stock" validate:"gte=0"`
	SKU   string `json:"sku,omitempty" validate:"omitempty,max=64"`
}

type CreateProductRequest struct {
	Title       string                 `json:"title" validate:"required,min=2,max=200"`
	Description string                 `json:"description" validate:"max=5000"`
	ImageURL    string                 `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Variants    []CreateVariantRequest `json:"variants" validate:"required,min=1,dive"`
}

// UpdateProductRequest changes display fields only. Nil fields are kept.
type UpdateProductRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	ImageURL    *string `json:"imageUrl,omitempty" validate:"omitempty,url"`
}
