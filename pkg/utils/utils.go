package utils

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// FormatDuration formats duration in human readable format
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	} else if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	} else if d < 24*time.Hour {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else {
		return fmt.Sprintf("%.1fd", d.Hours()/24)
	}
}

// IsValidWalletAddress reports whether address is a well-formed 20-byte
// 0x-prefixed hex wallet address. Used to flag suspicious buyer addresses;
// the purchase contract does not reject on this alone.
func IsValidWalletAddress(address string) bool {
	return common.IsHexAddress(address)
}

// IsValidDigest reports whether hash is a well-formed hex-encoded SHA-256
// digest (64 hex characters, no prefix), as produced by the ledger's
// hashing utility.
func IsValidDigest(hash string) bool {
	if len(hash) != 64 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

// LeadingZeros counts the leading '0' characters of a hex digest.
func LeadingZeros(hash string) int {
	return len(hash) - len(strings.TrimLeft(hash, "0"))
}
