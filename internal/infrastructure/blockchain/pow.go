package blockchain

import (
	"strings"
)

// proofOfWork returns the first nonce, counting up from 0, whose digest
// satisfies valid, together with that digest. The search is sequential and
// deterministic: identical digest inputs always yield the same winning
// nonce. Unbounded in the worst case; termination is guaranteed in practice
// by the fixed small difficulty.
func proofOfWork(digest func(nonce uint64) string, valid func(hash string) bool) (uint64, string) {
	for nonce := uint64(0); ; nonce++ {
		hash := digest(nonce)
		if valid(hash) {
			return nonce, hash
		}
	}
}

// difficultyPredicate accepts digests with at least difficulty leading '0'
// hex characters.
func difficultyPredicate(difficulty int) func(hash string) bool {
	prefix := strings.Repeat("0", difficulty)
	return func(hash string) bool {
		return strings.HasPrefix(hash, prefix)
	}
}
