package service

import (
	"blockchain-marketplace/internal/domain/entity"
)

// BlockStreamService pushes newly mined blocks to live subscribers.
// Delivery is best effort; a slow or closed subscriber never blocks mining.
type BlockStreamService interface {
	BroadcastBlock(block entity.Block)
}
