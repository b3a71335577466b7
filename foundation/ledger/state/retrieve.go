package state

import (
	"github.com/minichain/ledger/foundation/ledger/database"
	"github.com/minichain/ledger/foundation/ledger/genesis"
)

// RetrieveGenesis returns a copy of the genesis settings.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns the current tip of the chain.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.db.LatestBlock()
}

// RetrieveHeight returns the number of blocks in the chain.
func (s *State) RetrieveHeight() uint64 {
	return s.db.Height()
}

// RetrieveBlock returns the contents of the specified block by number.
func (s *State) RetrieveBlock(num uint64) (database.Block, error) {
	return s.db.GetBlock(num)
}

// RetrieveBlocks returns the chain as an ordered slice of serializable
// blocks from a stable snapshot.
func (s *State) RetrieveBlocks() ([]database.BlockData, error) {
	return s.db.AllBlocks()
}

// RetrieveAllTransactions returns every transaction recorded in the chain
// in block order.
func (s *State) RetrieveAllTransactions() ([]database.Tx, error) {
	return s.db.AllTransactions()
}

// RetrieveMempool returns a copy of the pending transactions in the
// configured strategy's ordering.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.PickBest(-1)
}

// QueryMempoolLength returns the current number of pending transactions.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}
