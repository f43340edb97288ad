package search

import (
	"context"

	"shop-finder/internal/models"
)

// ShopSource produces candidate shops around a center. A source returning
// zero shops is not an error.
type ShopSource interface {
	Search(ctx context.Context, center models.Coordinate, radiusKm float64) ([]models.Shop, error)
}

// SourceFunc adapts a function to ShopSource.
type SourceFunc func(ctx context.Context, center models.Coordinate, radiusKm float64) ([]models.Shop, error)

func (f SourceFunc) Search(ctx context.Context, center models.Coordinate, radiusKm float64) ([]models.Shop, error) {
	return f(ctx, center, radiusKm)
}
