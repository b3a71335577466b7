package state

import "github.com/minichain/ledger/foundation/ledger/database"

// ValidateChain walks the whole chain recomputing every hash and link and
// reports every infraction found. Tampering is reported, never corrected.
func (s *State) ValidateChain() ([]database.Infraction, error) {
	return s.db.ValidateChain()
}

// IsChainValid reports whether the chain is intact. Callers needing to
// know which blocks failed and why should use ValidateChain.
func (s *State) IsChainValid() (bool, error) {
	infractions, err := s.db.ValidateChain()
	if err != nil {
		return false, err
	}

	return len(infractions) == 0, nil
}
