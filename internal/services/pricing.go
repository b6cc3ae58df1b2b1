package service

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"math"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
)

// PricingService resolves unit prices at checkout. Prices are always read
// from storage through the caller's repository, never from cart rows or
// the catalog cache.
type PricingService interface {
	PriceLineItems(ctx context.Context, variants repository.VariantRepository, items []models.CartItem) ([]models.PricedLine, error)
	Total(lines []models.PricedLine) (int64, error)
}

type pricingService struct{}

func NewPricingService() PricingService {
	return pricingService{}
}

func (pricingService) PriceLineItems(ctx context.Context, variants repository.VariantRepository, items []models.CartItem) ([]models.PricedLine, error) {
	lines := make([]models.PricedLine, 0, len(items))

	for _, item := range items {
		variant, err := variants.GetVariant(ctx, item.VariantID)
		if err != nil {
			if stdErrors.Is(err, sql.ErrNoRows) {
				return nil, errors.NotFoundError("Product variant not found").WithDetail(item.VariantID.String())
			}

			return nil, errors.DatabaseError("Failed to price cart item").WithError(err)
		}

		lines = append(lines, models.PricedLine{
			CartItemID: item.ID,
			VariantID:  variant.ID,
			ProductID:  variant.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  variant.Price,
		})
	}

	return lines, nil
}

func (pricingService) Total(lines []models.PricedLine) (int64, error) {
	var total int64

	for _, line := range lines {
		if line.Quantity <= 0 || line.UnitPrice < 0 {
			return 0, errors.ValidationError("Invalid cart line").WithDetail(line.VariantID.String())
		}

		qty := int64(line.Quantity)
		if line.UnitPrice > math.MaxInt64/qty {
			return 0, errors.ValidationError("Order total exceeds the supported range")
		}

		subtotal := line.UnitPrice * qty
		if total > math.MaxInt64-subtotal {
			return 0, errors.ValidationError("Order total exceeds the supported range")
		}

		total += subtotal
	}

	return total, nil
}
