package state

import (
	"context"
	"errors"

	"github.com/minichain/ledger/foundation/ledger/database"
)

// ErrNoTransactions is returned when a block is requested to be created
// and there are no pending transactions.
var ErrNoTransactions = errors.New("no transactions in mempool")

// =============================================================================

// AddBlock creates the next block from the specified transactions, mines
// it and appends it to the chain. Reading the current tip, mining and the
// append happen as one atomic unit so a concurrent append can never
// compute from a stale tip.
func (s *State) AddBlock(ctx context.Context, trans []database.Tx) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: AddBlock: MINING: perform POW")

	block, err := database.POW(ctx, s.genesis.Difficulty, s.genesis.MaxMineAttempts, s.db.LatestBlock(), trans, s.evHandler)
	if err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	s.evHandler("state: AddBlock: MINING: validate and update local state")

	if err := block.ValidateBlock(s.db.LatestBlock(), s.evHandler); err != nil {
		return database.Block{}, err
	}

	if err := s.db.Write(block); err != nil {
		return database.Block{}, err
	}

	// Remove the mined transactions from the pending pool.
	for _, tx := range trans {
		s.mempool.Delete(tx)
	}

	return block, nil
}

// MineNextBlock drains the best pending transactions from the mempool into
// the next block of the chain.
func (s *State) MineNextBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineNextBlock: MINING: check mempool count")

	if s.mempool.Count() == 0 {
		return database.Block{}, ErrNoTransactions
	}

	howMany := s.genesis.TransPerBlock
	if howMany <= 0 {
		howMany = -1
	}

	return s.AddBlock(ctx, s.mempool.PickBest(howMany))
}
