package repository

import (
	"context"

	"blockchain-marketplace/internal/domain/entity"
)

// ProductRepository interface for catalog data operations
type ProductRepository interface {
	// List returns a snapshot of all products in insertion order.
	List(ctx context.Context) []entity.Product

	// FindByID returns a copy of the product with the given id, or
	// (nil, nil) when no such product exists. Absence is a distinct
	// outcome, not an error.
	FindByID(ctx context.Context, id string) (*entity.Product, error)

	// DecrementStock reduces the product's stock by exactly quantity.
	// Fails with an insufficient-stock error when quantity exceeds the
	// remaining stock; no partial effect in that case.
	DecrementStock(ctx context.Context, id string, quantity uint32) error

	// Count returns the number of catalog entries.
	Count(ctx context.Context) int
}
