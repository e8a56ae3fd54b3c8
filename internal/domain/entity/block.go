package entity

// Block is an ordered container of transactions with a chain linkage.
// PreviousHash must equal the hash of the block at Index-1; the genesis
// block uses a fixed sentinel instead.
type Block struct {
	Index        uint64        `json:"index"`
	Timestamp    int64         `json:"timestamp"`
	Transactions []Transaction `json:"transactions"`
	PreviousHash string        `json:"previous_hash"`
	Hash         string        `json:"hash"`
	Nonce        uint64        `json:"nonce"`
}

// LedgerSnapshot is a consistent copy of the full chain state, produced
// for read-only endpoints.
type LedgerSnapshot struct {
	Chain               []Block       `json:"chain"`
	PendingTransactions []Transaction `json:"pending_transactions"`
	Difficulty          int           `json:"difficulty"`
}
