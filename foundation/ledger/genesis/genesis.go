// Package genesis maintains access to the genesis settings file.
package genesis

import (
	"encoding/json"
	"os"
	"time"
)

// Genesis represents the settings the chain starts from. The difficulty is
// purely illustrative; it counts leading zero hex characters and anything
// beyond a few characters makes mining impractically slow.
type Genesis struct {
	Date            time.Time `json:"date"`
	ChainName       string    `json:"chain_name"`        // Human readable name for this running instance.
	Difficulty      uint      `json:"difficulty"`        // How difficult it needs to be to solve the work problem.
	TransPerBlock   int       `json:"trans_per_block"`   // The maximum number of transactions that can be in a block.
	MaxMineAttempts uint64    `json:"max_mine_attempts"` // Bound on the nonce search, zero means unbounded.
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}
