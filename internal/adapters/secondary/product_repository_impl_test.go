package secondary

import (
	"context"
	"testing"

	"blockchain-marketplace/internal/domain/entity"
	"blockchain-marketplace/internal/infrastructure/config"
	"blockchain-marketplace/internal/infrastructure/logger"
	"blockchain-marketplace/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.NewLogger(&config.Config{
		App: config.AppConfig{Env: "development", LogLevel: "error"},
	})
	require.NoError(t, err)
	return log
}

func seedProducts() []entity.Product {
	return []entity.Product{
		{ID: "p1", Name: "First", Price: 0.5, Stock: 100},
		{ID: "p2", Name: "Second", Price: 1.2, Stock: 50},
		{ID: "p3", Name: "Third", Price: 2.0, Stock: 0},
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	repo := NewSeededProductRepository(seedProducts(), newTestLogger(t))

	products := repo.List(context.Background())
	require.Len(t, products, 3)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "p2", products[1].ID)
	assert.Equal(t, "p3", products[2].ID)
	assert.Equal(t, 3, repo.Count(context.Background()))
}

func TestFindByID(t *testing.T) {
	repo := NewSeededProductRepository(seedProducts(), newTestLogger(t))
	ctx := context.Background()

	product, err := repo.FindByID(ctx, "p2")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "Second", product.Name)

	// Absence is a distinct outcome, not an error.
	missing, err := repo.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFindByIDReturnsCopy(t *testing.T) {
	repo := NewSeededProductRepository(seedProducts(), newTestLogger(t))
	ctx := context.Background()

	product, err := repo.FindByID(ctx, "p1")
	require.NoError(t, err)
	product.Stock = 1

	fresh, err := repo.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, uint32(100), fresh.Stock)
}

func TestDecrementStock(t *testing.T) {
	repo := NewSeededProductRepository(seedProducts(), newTestLogger(t))
	ctx := context.Background()

	require.NoError(t, repo.DecrementStock(ctx, "p1", 10))

	product, err := repo.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, uint32(90), product.Stock)
}

func TestDecrementStockInsufficient(t *testing.T) {
	repo := NewSeededProductRepository(seedProducts(), newTestLogger(t))
	ctx := context.Background()

	err := repo.DecrementStock(ctx, "p2", 51)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInsufficientStock, errors.CodeOf(err))

	// No partial effect.
	product, findErr := repo.FindByID(ctx, "p2")
	require.NoError(t, findErr)
	assert.Equal(t, uint32(50), product.Stock)

	// Exact depletion is allowed; going below zero is not.
	require.NoError(t, repo.DecrementStock(ctx, "p2", 50))
	err = repo.DecrementStock(ctx, "p2", 1)
	assert.Equal(t, errors.ErrCodeInsufficientStock, errors.CodeOf(err))
}

func TestDecrementStockUnknownProduct(t *testing.T) {
	repo := NewSeededProductRepository(seedProducts(), newTestLogger(t))

	err := repo.DecrementStock(context.Background(), "nope", 1)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeProductNotFound, errors.CodeOf(err))
}

func TestDefaultCatalogSeed(t *testing.T) {
	repo := NewProductRepository(newTestLogger(t))

	products := repo.List(context.Background())
	require.Len(t, products, 6)
	assert.Equal(t, "Blockchain Developer Course", products[0].Name)
	assert.Equal(t, 0.5, products[0].Price)
	assert.Equal(t, uint32(100), products[0].Stock)

	// Every product gets a unique identifier.
	seen := map[string]bool{}
	for _, p := range products {
		assert.NotEmpty(t, p.ID)
		assert.False(t, seen[p.ID])
		seen[p.ID] = true
	}
}
