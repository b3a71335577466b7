// Package memory implements the ability to read and write blocks to memory
// using a slice. This is the only storage the core ships; persistence is a
// collaborator concern.
package memory

import (
	"errors"
	"sync"

	"github.com/minichain/ledger/foundation/ledger/database"
)

// Memory represents the storage implementation for reading and storing
// blocks in memory using a slice. This implements the database.Storage
// interface.
type Memory struct {
	mu     sync.RWMutex
	blocks []database.BlockData
}

// New constructs a Memory value for use.
func New() (*Memory, error) {
	return &Memory{}, nil
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Write takes the specified block data and appends it in memory. Blocks
// must arrive in chain order.
func (m *Memory) Write(blockData database.BlockData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if uint64(len(m.blocks)) != blockData.Header.Number {
		return errors.New("block is out of order")
	}

	m.blocks = append(m.blocks, blockData)

	return nil
}

// GetBlock locates and returns the contents of the specified block
// by number.
func (m *Memory) GetBlock(num uint64) (database.BlockData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l := uint64(len(m.blocks))
	if l == 0 || num >= l {
		return database.BlockData{}, errors.New("block does not exist")
	}

	return m.blocks[num], nil
}

// ForEach returns an iterator to walk through all the blocks starting with
// the genesis block. The chain length is captured up front so an append
// happening mid iteration can't expose a partially linked tail.
func (m *Memory) ForEach() database.Iterator {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return &memoryIterator{storage: m, end: uint64(len(m.blocks))}
}

// Reset clears out the chain in memory.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = []database.BlockData{}

	return nil
}

// =============================================================================

// memoryIterator represents the iteration implementation for walking
// through and reading blocks in memory. This implements the database
// Iterator interface.
type memoryIterator struct {
	storage *Memory
	current uint64
	end     uint64
	eoc     bool
}

// Next retrieves the next block in the snapshot.
func (mi *memoryIterator) Next() (database.BlockData, error) {
	if mi.current >= mi.end {
		mi.eoc = true
		return database.BlockData{}, nil
	}

	blockData, err := mi.storage.GetBlock(mi.current)
	if err != nil {
		return database.BlockData{}, err
	}
	mi.current++

	return blockData, nil
}

// Done returns the end of chain value.
func (mi *memoryIterator) Done() bool {
	return mi.eoc
}
