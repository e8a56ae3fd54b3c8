package service

import (
	"context"

	"blockchain-marketplace/internal/domain/entity"
)

// MessagingService defines the interface for publishing purchase events
type MessagingService interface {
	// Connect establishes connection to the messaging system
	Connect(ctx context.Context) error

	// Disconnect closes connection to the messaging system
	Disconnect() error

	// IsConnected checks if connected to the messaging system
	IsConnected() bool

	// PublishPurchase publishes a single purchase event
	PublishPurchase(ctx context.Context, event *entity.PurchaseEvent) error
}
