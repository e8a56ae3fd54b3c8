package blockchain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"blockchain-marketplace/internal/domain/entity"
)

// GenesisHash is the sentinel used as both previous-hash and hash of the
// genesis block.
const GenesisHash = "0"

// CalculateHash produces the hex-encoded SHA-256 digest of a block's
// contents. The transaction list is serialized in a canonical,
// order-preserving textual form so that reordering the list or changing any
// transaction field changes the digest.
func CalculateHash(index uint64, timestamp int64, transactions []entity.Transaction, previousHash string, nonce uint64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%d|%d", index, timestamp)
	for _, tx := range transactions {
		fmt.Fprintf(&b, "|tx{%s|%s|%s|%s|%.8f|%d|%s|%s|%d}",
			tx.ID,
			tx.ProductID,
			tx.BuyerAddress,
			tx.SellerAddress,
			tx.Amount,
			tx.Timestamp,
			tx.Hash,
			tx.PreviousHash,
			tx.Nonce,
		)
	}
	fmt.Fprintf(&b, "|%s|%d", previousHash, nonce)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
