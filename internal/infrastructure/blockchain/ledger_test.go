package blockchain

import (
	"strings"
	"testing"

	"blockchain-marketplace/internal/domain/entity"
	"blockchain-marketplace/internal/infrastructure/config"
	"blockchain-marketplace/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T, difficulty int) *Ledger {
	t.Helper()

	cfg := &config.Config{
		App:    config.AppConfig{Env: "development", LogLevel: "error"},
		Ledger: config.LedgerConfig{Difficulty: difficulty},
	}
	log, err := logger.NewLogger(cfg)
	require.NoError(t, err)

	return NewLedger(cfg, log)
}

func TestNewLedgerGenesis(t *testing.T) {
	ledger := newTestLedger(t, 2)

	require.Equal(t, uint64(1), ledger.Height())

	genesis, err := ledger.LatestBlock()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), genesis.Index)
	assert.Equal(t, GenesisHash, genesis.Hash)
	assert.Equal(t, GenesisHash, genesis.PreviousHash)
	assert.Equal(t, uint64(0), genesis.Nonce)
	assert.Empty(t, genesis.Transactions)
	assert.Equal(t, 0, ledger.PendingCount())
}

func TestMinePendingTransactionsEmptyPool(t *testing.T) {
	ledger := newTestLedger(t, 1)

	block, err := ledger.MinePendingTransactions()

	require.NoError(t, err)
	assert.Nil(t, block)
	assert.Equal(t, uint64(1), ledger.Height())
}

func TestMinePendingTransactionsAppendsBlock(t *testing.T) {
	ledger := newTestLedger(t, 1)

	tx := sampleTransaction()
	ledger.AddTransaction(tx)
	require.Equal(t, 1, ledger.PendingCount())

	block, err := ledger.MinePendingTransactions()
	require.NoError(t, err)
	require.NotNil(t, block)

	assert.Equal(t, uint64(1), block.Index)
	assert.Equal(t, GenesisHash, block.PreviousHash)
	require.Len(t, block.Transactions, 1)
	assert.Equal(t, tx.ID, block.Transactions[0].ID)
	assert.True(t, strings.HasPrefix(block.Hash, "0"))
	assert.Equal(t, 0, ledger.PendingCount())
	assert.Equal(t, uint64(2), ledger.Height())

	// Stored hash matches a recomputation over the block's fields.
	recomputed := CalculateHash(block.Index, block.Timestamp, block.Transactions, block.PreviousHash, block.Nonce)
	assert.Equal(t, block.Hash, recomputed)
}

func TestChainLinkage(t *testing.T) {
	ledger := newTestLedger(t, 1)

	for i := 0; i < 3; i++ {
		tx := sampleTransaction()
		tx.ID = strings.Repeat("a", i+1)
		ledger.AddTransaction(tx)
		_, err := ledger.MinePendingTransactions()
		require.NoError(t, err)
	}

	snapshot := ledger.Snapshot()
	require.Len(t, snapshot.Chain, 4)

	seen := map[string]bool{}
	for i := 1; i < len(snapshot.Chain); i++ {
		block := snapshot.Chain[i]
		assert.Equal(t, uint64(i), block.Index)
		assert.Equal(t, snapshot.Chain[i-1].Hash, block.PreviousHash)
		assert.False(t, seen[block.Hash], "duplicate block hash")
		seen[block.Hash] = true
	}

	require.NoError(t, ledger.Validate())
}

func TestTransactionHashUsesChainLength(t *testing.T) {
	ledger := newTestLedger(t, 1)

	tx := sampleTransaction()
	hash := ledger.TransactionHash(tx)

	// The positional index input is the pre-mining chain length.
	expected := CalculateHash(1, tx.Timestamp, []entity.Transaction{tx}, tx.PreviousHash, 0)
	assert.Equal(t, expected, hash)

	// Growing the chain changes the hash of an otherwise identical
	// transaction.
	ledger.AddTransaction(tx)
	_, err := ledger.MinePendingTransactions()
	require.NoError(t, err)
	assert.NotEqual(t, hash, ledger.TransactionHash(tx))
}

func TestValidateDetectsTampering(t *testing.T) {
	ledger := newTestLedger(t, 1)

	ledger.AddTransaction(sampleTransaction())
	_, err := ledger.MinePendingTransactions()
	require.NoError(t, err)
	require.NoError(t, ledger.Validate())

	// Mutating an embedded transaction without re-mining breaks the stored
	// hash.
	ledger.mu.Lock()
	ledger.chain[1].Transactions[0].Amount = 999
	ledger.mu.Unlock()

	assert.Error(t, ledger.Validate())
}

func TestValidateDetectsBrokenLinkage(t *testing.T) {
	ledger := newTestLedger(t, 1)

	ledger.AddTransaction(sampleTransaction())
	_, err := ledger.MinePendingTransactions()
	require.NoError(t, err)

	ledger.mu.Lock()
	ledger.chain[1].PreviousHash = "deadbeef"
	ledger.mu.Unlock()

	assert.Error(t, ledger.Validate())
}

func TestSnapshotIsDetached(t *testing.T) {
	ledger := newTestLedger(t, 1)

	ledger.AddTransaction(sampleTransaction())
	_, err := ledger.MinePendingTransactions()
	require.NoError(t, err)

	snapshot := ledger.Snapshot()
	snapshot.Chain[1].Transactions[0].Amount = 999

	require.NoError(t, ledger.Validate())
	assert.Equal(t, 5.0, ledger.Snapshot().Chain[1].Transactions[0].Amount)
}

func TestAllTransactionsOrdering(t *testing.T) {
	ledger := newTestLedger(t, 0)

	ids := []string{"first", "second", "third"}
	for _, id := range ids {
		tx := sampleTransaction()
		tx.ID = id
		ledger.AddTransaction(tx)
		_, err := ledger.MinePendingTransactions()
		require.NoError(t, err)
	}

	all := ledger.AllTransactions()
	require.Len(t, all, 3)
	for i, id := range ids {
		assert.Equal(t, id, all[i].ID)
	}
}

func TestMiningIsDeterministicForFixedInputs(t *testing.T) {
	ledger := newTestLedger(t, 2)

	ledger.AddTransaction(sampleTransaction())
	block, err := ledger.MinePendingTransactions()
	require.NoError(t, err)
	require.NotNil(t, block)

	// Re-running the search over the same inputs and timestamp finds the
	// same nonce and hash.
	nonce, hash := proofOfWork(func(n uint64) string {
		return CalculateHash(block.Index, block.Timestamp, block.Transactions, block.PreviousHash, n)
	}, difficultyPredicate(2))

	assert.Equal(t, block.Nonce, nonce)
	assert.Equal(t, block.Hash, hash)
}
