package service

import (
	"blockchain-marketplace/internal/domain/entity"
)

// LedgerService interface for the append-only purchase ledger
type LedgerService interface {
	// LatestBlock returns a copy of the chain's last block. The chain is
	// never empty after construction, so an error here is an invariant
	// violation, not a normal outcome.
	LatestBlock() (entity.Block, error)

	// AddTransaction appends a transaction to the pending pool. Callers are
	// responsible for the transaction's correctness before enqueueing.
	AddTransaction(tx entity.Transaction)

	// TransactionHash computes a transaction's content hash using the
	// current chain length as the positional index input, mirroring block
	// hashing's first argument.
	TransactionHash(tx entity.Transaction) string

	// MinePendingTransactions drains the pending pool into a new mined
	// block and appends it. Returns (nil, nil) when there is nothing to
	// mine.
	MinePendingTransactions() (*entity.Block, error)

	// Height returns the number of blocks in the chain.
	Height() uint64

	// PendingCount returns the number of transactions waiting to be mined.
	PendingCount() int

	// Snapshot returns a consistent deep copy of the full chain state.
	Snapshot() entity.LedgerSnapshot

	// AllTransactions returns every mined transaction in block order, then
	// in-block order.
	AllTransactions() []entity.Transaction

	// Validate walks the chain and checks linkage, stored hashes and the
	// difficulty predicate for every non-genesis block.
	Validate() error
}
