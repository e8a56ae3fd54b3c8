package secondary

import (
	"context"
	"sync"

	"blockchain-marketplace/internal/domain/entity"
	"blockchain-marketplace/internal/infrastructure/logger"
	"blockchain-marketplace/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductMemoryRepository implements ProductRepository over an in-memory
// catalog. Products are created once at construction and only their stock
// counters mutate afterwards.
type ProductMemoryRepository struct {
	mu       sync.RWMutex
	products []entity.Product
	index    map[string]int
	logger   *logger.Logger
}

// NewProductRepository creates a catalog repository seeded with the default
// product list.
func NewProductRepository(logger *logger.Logger) *ProductMemoryRepository {
	return NewSeededProductRepository(defaultCatalog(), logger)
}

// NewSeededProductRepository creates a catalog repository over the given
// products, preserving their order.
func NewSeededProductRepository(products []entity.Product, logger *logger.Logger) *ProductMemoryRepository {
	r := &ProductMemoryRepository{
		products: make([]entity.Product, len(products)),
		index:    make(map[string]int, len(products)),
		logger:   logger.WithComponent("product-repository"),
	}
	copy(r.products, products)
	for i, p := range r.products {
		r.index[p.ID] = i
	}

	r.logger.Info("Catalog seeded", zap.Int("products", len(r.products)))

	return r
}

// List returns a snapshot of all products in insertion order.
func (r *ProductMemoryRepository) List(ctx context.Context) []entity.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Product, len(r.products))
	copy(out, r.products)
	return out
}

// FindByID returns a copy of the product with the given id, or (nil, nil)
// when absent.
func (r *ProductMemoryRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, nil
	}
	product := r.products[i]
	return &product, nil
}

// DecrementStock reduces the product's stock by exactly quantity, or fails
// without any effect.
func (r *ProductMemoryRepository) DecrementStock(ctx context.Context, id string, quantity uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return errors.NewProductNotFoundError(id)
	}
	if quantity > r.products[i].Stock {
		return errors.NewInsufficientStockError(id, quantity, r.products[i].Stock)
	}
	r.products[i].Stock -= quantity

	r.logger.Debug("Stock decremented",
		zap.String("product_id", id),
		zap.Uint32("quantity", quantity),
		zap.Uint32("remaining", r.products[i].Stock))

	return nil
}

// Count returns the number of catalog entries.
func (r *ProductMemoryRepository) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}

// defaultCatalog builds the fixed seed list. Identifiers are fresh per
// process start.
func defaultCatalog() []entity.Product {
	return []entity.Product{
		{
			ID:          uuid.NewString(),
			Name:        "Blockchain Developer Course",
			Description: "Complete guide to blockchain development with Rust and Solana",
			Price:       0.5,
			Stock:       100,
			ImageURL:    "https://images.unsplash.com/photo-1639762681485-074b7f938ba0?w=400",
		},
		{
			ID:          uuid.NewString(),
			Name:        "NFT Art Collection",
			Description: "Exclusive digital art collection on the blockchain",
			Price:       1.2,
			Stock:       50,
			ImageURL:    "https://images.unsplash.com/photo-1620641788421-7a1c342ea42e?w=400",
		},
		{
			ID:          uuid.NewString(),
			Name:        "Smart Contract Template",
			Description: "Production-ready smart contract templates for e-commerce",
			Price:       0.8,
			Stock:       75,
			ImageURL:    "https://images.unsplash.com/photo-1551288049-bebda4e38f71?w=400",
		},
		{
			ID:          uuid.NewString(),
			Name:        "Web3 Starter Kit",
			Description: "Complete Web3 development toolkit with React integration",
			Price:       1.5,
			Stock:       30,
			ImageURL:    "https://images.unsplash.com/photo-1633356122544-f134324a6cee?w=400",
		},
		{
			ID:          uuid.NewString(),
			Name:        "Crypto Wallet Security Guide",
			Description: "Best practices for securing cryptocurrency wallets",
			Price:       0.3,
			Stock:       200,
			ImageURL:    "https://images.unsplash.com/photo-1563986768609-322da13575f3?w=400",
		},
		{
			ID:          uuid.NewString(),
			Name:        "DeFi Protocol Analysis",
			Description: "In-depth analysis of popular DeFi protocols and strategies",
			Price:       2.0,
			Stock:       25,
			ImageURL:    "https://images.unsplash.com/photo-1621761191319-c6fb62004040?w=400",
		},
	}
}
