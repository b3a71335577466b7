// Package mempool maintains the pool of transactions waiting to be
// included in a block.
package mempool

import (
	"sync"

	"github.com/minichain/ledger/foundation/ledger/database"
	"github.com/minichain/ledger/foundation/ledger/mempool/selector"
)

// Mempool represents a cache of pending transactions keyed by their
// transaction id.
type Mempool struct {
	mu       sync.RWMutex
	pool     map[string]database.Tx
	selectFn selector.Func
}

// New constructs a new mempool using the fifo select strategy.
func New() (*Mempool, error) {
	return NewWithStrategy(selector.StrategyFIFO)
}

// NewWithStrategy constructs a new mempool with the specified select
// strategy.
func NewWithStrategy(strategy string) (*Mempool, error) {
	selectFn, err := selector.Retrieve(strategy)
	if err != nil {
		return nil, err
	}

	mp := Mempool{
		pool:     make(map[string]database.Tx),
		selectFn: selectFn,
	}

	return &mp, nil
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds or replaces a transaction in the mempool.
func (mp *Mempool) Upsert(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool[tx.ID] = tx

	return len(mp.pool)
}

// Delete removes a transaction from the mempool.
func (mp *Mempool) Delete(tx database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	delete(mp.pool, tx.ID)
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[string]database.Tx)
}

// PickBest uses the configured select strategy to return the next set of
// transactions for the next block. Receiving -1 returns the whole pool in
// the strategy's ordering.
func (mp *Mempool) PickBest(howMany int) []database.Tx {
	var trans []database.Tx
	mp.mu.RLock()
	{
		for _, tx := range mp.pool {
			trans = append(trans, tx)
		}
	}
	mp.mu.RUnlock()

	return mp.selectFn(trans, howMany)
}
