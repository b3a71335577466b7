// Package digest provides the canonical hashing support for the ledger.
package digest

import (
	"crypto/sha256"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ZeroHash represents a hash code of zeros. It is the previous hash for the
// genesis block and the merkle root of an empty transaction set.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// Hash returns a unique string for the value. The value is serialized to
// JSON first, with struct fields marshaled in declaration order, so two
// values carrying the same field content always produce the same digest.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}

// DoubleHash hashes the value and then hashes the resulting hex string a
// second time.
func DoubleHash(value any) string {
	first := Hash(value)

	hash := sha256.Sum256([]byte(first))
	return hexutil.Encode(hash[:])
}

// Verify reports whether the value still hashes to the specified hash code.
func Verify(value any, hash string) bool {
	return Hash(value) == hash
}
