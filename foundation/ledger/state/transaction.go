package state

import "github.com/minichain/ledger/foundation/ledger/database"

// SubmitTransaction accepts a transaction into the pending pool for
// inclusion in a future block. The transaction is validated locally; no
// chain state is consulted.
func (s *State) SubmitTransaction(tx database.Tx) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	n := s.mempool.Upsert(tx)
	s.evHandler("state: SubmitTransaction: tx[%s] pool[%d]", tx, n)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return nil
}
