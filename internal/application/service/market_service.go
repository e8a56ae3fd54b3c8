package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"blockchain-marketplace/internal/domain/entity"
	"blockchain-marketplace/internal/domain/repository"
	"blockchain-marketplace/internal/domain/service"
	"blockchain-marketplace/internal/infrastructure/config"
	"blockchain-marketplace/internal/infrastructure/logger"
	"blockchain-marketplace/pkg/errors"
	"blockchain-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MarketService coordinates catalog lookup, transaction construction,
// ledger mining and stock decrement as one logically atomic unit.
type MarketService struct {
	ledger    service.LedgerService
	products  repository.ProductRepository
	messaging service.MessagingService
	stream    service.BlockStreamService
	config    *config.Config
	logger    *logger.Logger

	// mu serializes purchases end to end: at most one mining operation
	// runs at a time and block indices are assigned in completion order.
	mu        sync.Mutex
	startTime time.Time
}

// PurchaseReceipt is the result of a purchase attempt.
type PurchaseReceipt struct {
	Success         bool   `json:"success"`
	TransactionID   string `json:"transaction_id"`
	TransactionHash string `json:"transaction_hash"`
	Message         string `json:"message"`
}

// HealthStatus reports process liveness and store sizes.
type HealthStatus struct {
	Status   string `json:"status"`
	Height   uint64 `json:"height"`
	Pending  int    `json:"pending"`
	Products int    `json:"products"`
	Uptime   string `json:"uptime"`
}

// NewMarketService creates new market service
func NewMarketService(
	ledger service.LedgerService,
	products repository.ProductRepository,
	messaging service.MessagingService,
	stream service.BlockStreamService,
	config *config.Config,
	logger *logger.Logger,
) *MarketService {
	return &MarketService{
		ledger:    ledger,
		products:  products,
		messaging: messaging,
		stream:    stream,
		config:    config,
		logger:    logger.WithComponent("market-service"),
		startTime: time.Now(),
	}
}

// Purchase resolves the product, records the purchase as a mined block and
// decrements stock. Rejections (unknown product, insufficient stock) leave
// chain and stock untouched.
func (s *MarketService) Purchase(ctx context.Context, productID, buyerAddress string, quantity uint32) (PurchaseReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return PurchaseReceipt{}, fmt.Errorf("failed to resolve product: %w", err)
	}
	if product == nil {
		return PurchaseReceipt{}, errors.NewProductNotFoundError(productID)
	}
	if quantity > product.Stock {
		return PurchaseReceipt{}, errors.NewInsufficientStockError(productID, quantity, product.Stock)
	}

	if !utils.IsValidWalletAddress(buyerAddress) {
		s.logger.Warn("Buyer address is not a well-formed wallet address",
			zap.String("buyer_address", buyerAddress))
	}

	amount := product.Price * float64(quantity)

	previous, err := s.ledger.LatestBlock()
	if err != nil {
		return PurchaseReceipt{}, fmt.Errorf("failed to read chain tip: %w", err)
	}

	tx := entity.Transaction{
		ID:            uuid.NewString(),
		ProductID:     productID,
		BuyerAddress:  buyerAddress,
		SellerAddress: s.config.Market.SellerAddress,
		Amount:        amount,
		Timestamp:     time.Now().Unix(),
		PreviousHash:  previous.Hash,
		Nonce:         0,
	}
	tx.Hash = s.ledger.TransactionHash(tx)

	s.ledger.AddTransaction(tx)
	block, err := s.ledger.MinePendingTransactions()
	if err != nil {
		return PurchaseReceipt{}, fmt.Errorf("failed to mine block: %w", err)
	}

	if err := s.products.DecrementStock(ctx, productID, quantity); err != nil {
		// Purchases are serialized, so the stock check above still holds
		// here; reaching this path means the stores disagree.
		return PurchaseReceipt{}, fmt.Errorf("failed to decrement stock: %w", err)
	}

	s.logger.Info("Purchase completed",
		zap.String("product_id", productID),
		zap.String("tx_id", tx.ID),
		zap.Uint64("block_index", block.Index),
		zap.Float64("amount", amount))

	s.publishPurchase(ctx, product, tx, block, quantity)
	s.stream.BroadcastBlock(*block)

	return PurchaseReceipt{
		Success:         true,
		TransactionID:   tx.ID,
		TransactionHash: tx.Hash,
		Message:         fmt.Sprintf("Successfully purchased %s x%d", product.Name, quantity),
	}, nil
}

// publishPurchase emits the purchase event. Best effort: a messaging
// failure never fails the purchase.
func (s *MarketService) publishPurchase(ctx context.Context, product *entity.Product, tx entity.Transaction, block *entity.Block, quantity uint32) {
	event := &entity.PurchaseEvent{
		TransactionID:   tx.ID,
		TransactionHash: tx.Hash,
		ProductID:       product.ID,
		ProductName:     product.Name,
		BuyerAddress:    tx.BuyerAddress,
		SellerAddress:   tx.SellerAddress,
		Amount:          tx.Amount,
		Quantity:        quantity,
		BlockIndex:      block.Index,
		BlockHash:       block.Hash,
		Timestamp:       tx.Timestamp,
	}

	if err := s.messaging.PublishPurchase(ctx, event); err != nil {
		s.logger.Warn("Failed to publish purchase event",
			zap.String("tx_id", tx.ID),
			zap.Error(err))
	}
}

// ListProducts returns the catalog snapshot in insertion order.
func (s *MarketService) ListProducts(ctx context.Context) []entity.Product {
	return s.products.List(ctx)
}

// ChainSnapshot returns a consistent copy of the full ledger state.
func (s *MarketService) ChainSnapshot() entity.LedgerSnapshot {
	return s.ledger.Snapshot()
}

// AllTransactions returns every mined transaction, block order then
// in-block order.
func (s *MarketService) AllTransactions() []entity.Transaction {
	return s.ledger.AllTransactions()
}

// ValidateChain checks the chain's integrity invariants.
func (s *MarketService) ValidateChain() error {
	return s.ledger.Validate()
}

// Health reports liveness and store sizes.
func (s *MarketService) Health(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:   "ok",
		Height:   s.ledger.Height(),
		Pending:  s.ledger.PendingCount(),
		Products: s.products.Count(ctx),
		Uptime:   utils.FormatDuration(time.Since(s.startTime)),
	}
}
