package blockchain

import (
	"fmt"
	"sync"
	"time"

	"blockchain-marketplace/internal/domain/entity"
	"blockchain-marketplace/internal/infrastructure/config"
	"blockchain-marketplace/internal/infrastructure/logger"
	"blockchain-marketplace/pkg/errors"

	"go.uber.org/zap"
)

// Ledger implements LedgerService over an in-memory, single-node
// append-only chain plus a pending-transaction pool. The ledger exclusively
// owns both; all access goes through its lock.
type Ledger struct {
	mu         sync.RWMutex
	chain      []entity.Block
	pending    []entity.Transaction
	difficulty int
	valid      func(hash string) bool
	logger     *logger.Logger
}

// NewLedger creates a new ledger with a synthesized genesis block. The
// genesis block uses the sentinel for both previous-hash and hash, carries
// nonce 0 and is exempt from the difficulty predicate.
func NewLedger(cfg *config.Config, logger *logger.Logger) *Ledger {
	l := &Ledger{
		difficulty: cfg.Ledger.Difficulty,
		valid:      difficultyPredicate(cfg.Ledger.Difficulty),
		logger:     logger.WithComponent("ledger"),
	}

	genesis := entity.Block{
		Index:        0,
		Timestamp:    time.Now().Unix(),
		Transactions: []entity.Transaction{},
		PreviousHash: GenesisHash,
		Hash:         GenesisHash,
		Nonce:        0,
	}
	l.chain = append(l.chain, genesis)

	l.logger.Info("Ledger initialized",
		zap.Int("difficulty", cfg.Ledger.Difficulty))

	return l
}

// LatestBlock returns a copy of the chain's last block.
func (l *Ledger) LatestBlock() (entity.Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.latestBlockLocked()
}

func (l *Ledger) latestBlockLocked() (entity.Block, error) {
	if len(l.chain) == 0 {
		// Unreachable after construction; treated as fatal corruption.
		return entity.Block{}, errors.NewLedgerInvariantError("chain is empty", nil)
	}
	return l.chain[len(l.chain)-1], nil
}

// AddTransaction appends a transaction to the pending pool.
func (l *Ledger) AddTransaction(tx entity.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append(l.pending, tx)
}

// TransactionHash computes a transaction's content hash, using the current
// chain length as the positional index input. The transaction's own Hash
// field is expected to be empty and its nonce 0 at this point; the result
// is independent of the nonce search performed for the enclosing block.
func (l *Ledger) TransactionHash(tx entity.Transaction) string {
	l.mu.RLock()
	index := uint64(len(l.chain))
	l.mu.RUnlock()
	return CalculateHash(index, tx.Timestamp, []entity.Transaction{tx}, tx.PreviousHash, 0)
}

// MinePendingTransactions atomically drains the pending pool, mines a block
// over the drained transactions and appends it to the chain. An empty pool
// is a no-op, signalled by a nil block and nil error.
func (l *Ledger) MinePendingTransactions() (*entity.Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.pending) == 0 {
		return nil, nil
	}

	previous, err := l.latestBlockLocked()
	if err != nil {
		return nil, err
	}

	transactions := l.pending
	l.pending = nil

	started := time.Now()
	block := l.mineBlock(transactions, previous.Hash)
	l.chain = append(l.chain, block)

	l.logger.Info("Block mined",
		zap.Uint64("index", block.Index),
		zap.String("hash", block.Hash),
		zap.Uint64("nonce", block.Nonce),
		zap.Int("transactions", len(block.Transactions)),
		zap.Duration("elapsed", time.Since(started)))

	return &block, nil
}

// mineBlock runs the nonce search for the next block. Caller must hold the
// write lock; the search blocks for its duration (fixed low difficulty, no
// timeout).
func (l *Ledger) mineBlock(transactions []entity.Transaction, previousHash string) entity.Block {
	index := uint64(len(l.chain))
	timestamp := time.Now().Unix()

	nonce, hash := proofOfWork(func(nonce uint64) string {
		return CalculateHash(index, timestamp, transactions, previousHash, nonce)
	}, l.valid)

	return entity.Block{
		Index:        index,
		Timestamp:    timestamp,
		Transactions: transactions,
		PreviousHash: previousHash,
		Hash:         hash,
		Nonce:        nonce,
	}
}

// Height returns the number of blocks in the chain.
func (l *Ledger) Height() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return uint64(len(l.chain))
}

// PendingCount returns the number of unmined transactions.
func (l *Ledger) PendingCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.pending)
}

// Snapshot returns a deep copy of the full chain state.
func (l *Ledger) Snapshot() entity.LedgerSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	chain := make([]entity.Block, len(l.chain))
	for i, block := range l.chain {
		chain[i] = copyBlock(block)
	}

	pending := make([]entity.Transaction, len(l.pending))
	copy(pending, l.pending)

	return entity.LedgerSnapshot{
		Chain:               chain,
		PendingTransactions: pending,
		Difficulty:          l.difficulty,
	}
}

// AllTransactions returns every mined transaction, block order first, then
// in-block order.
func (l *Ledger) AllTransactions() []entity.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	transactions := []entity.Transaction{}
	for _, block := range l.chain {
		transactions = append(transactions, block.Transactions...)
	}
	return transactions
}

// Validate walks the chain and checks, for every non-genesis block, the
// linkage to its predecessor, the stored hash against a recomputation and
// the difficulty predicate.
func (l *Ledger) Validate() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.chain) == 0 {
		return errors.NewLedgerInvariantError("chain is empty", nil)
	}

	for i := 1; i < len(l.chain); i++ {
		block := l.chain[i]
		previous := l.chain[i-1]

		if block.Index != uint64(i) {
			return errors.NewLedgerInvariantError("block index out of sequence",
				fmt.Errorf("block at position %d has index %d", i, block.Index))
		}
		if block.PreviousHash != previous.Hash {
			return errors.NewLedgerInvariantError("broken chain linkage",
				fmt.Errorf("block %d previous_hash does not match hash of block %d", block.Index, previous.Index))
		}
		recomputed := CalculateHash(block.Index, block.Timestamp, block.Transactions, block.PreviousHash, block.Nonce)
		if recomputed != block.Hash {
			return errors.NewLedgerInvariantError("stored hash mismatch",
				fmt.Errorf("block %d hash does not match its contents", block.Index))
		}
		if !l.valid(block.Hash) {
			return errors.NewLedgerInvariantError("difficulty not satisfied",
				fmt.Errorf("block %d hash lacks %d leading zeros", block.Index, l.difficulty))
		}
	}

	return nil
}

func copyBlock(block entity.Block) entity.Block {
	out := block
	out.Transactions = make([]entity.Transaction, len(block.Transactions))
	copy(out.Transactions, block.Transactions)
	return out
}
