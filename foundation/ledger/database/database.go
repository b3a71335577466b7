// Package database manages the append-only chain of blocks and provides
// the chain wide tamper detection support.
package database

import (
	"fmt"
	"sync"

	"github.com/minichain/ledger/foundation/ledger/digest"
)

// Storage interface represents the behavior required to be implemented by
// any package providing support for storing and reading the chain.
type Storage interface {
	Write(blockData BlockData) error
	GetBlock(num uint64) (BlockData, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by
// any package providing support to iterate over the blocks. An iterator
// walks a stable snapshot of the chain taken at its construction.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}

// =============================================================================

// Set of checks a block can fail during chain validation.
const (
	CheckHash      = "hash"       // Stored hash does not match the header recomputation.
	CheckTransRoot = "trans_root" // Stored merkle root does not match the transactions.
	CheckPOW       = "pow"        // Hash does not solve the recorded difficulty.
	CheckSequence  = "sequence"   // Block number is out of sequence.
	CheckLink      = "link"       // Previous hash does not match the preceding block.
)

// Infraction reports a single failure found while validating the chain.
type Infraction struct {
	Number uint64 `json:"number"` // Block number that failed the check.
	Check  string `json:"check"`  // Which check failed.
	Detail string `json:"detail"` // Human readable description of the mismatch.
}

// =============================================================================

// Database manages the chain of blocks behind a storage implementation and
// keeps the current tip for linking new blocks.
type Database struct {
	mu          sync.RWMutex
	latestBlock Block
	storage     Storage
	evHandler   func(v string, args ...any)
}

// New constructs a new database over the specified storage, loading any
// existing blocks to locate the tip. Loading does not judge the chain;
// tampering is reported through ValidateChain, never repaired.
func New(storage Storage, evHandler func(v string, args ...any)) (*Database, error) {
	db := Database{
		storage:   storage,
		evHandler: evHandler,
	}

	iter := storage.ForEach()
	for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		block, err := ToBlock(blockData)
		if err != nil {
			return nil, err
		}

		evHandler("database: New: load: blk[%d] hash[%s]", block.Header.Number, blockData.Hash)

		db.latestBlock = block
	}

	return &db, nil
}

// Close closes the underlying storage.
func (db *Database) Close() {
	db.storage.Close()
}

// Reset clears the chain back to empty.
func (db *Database) Reset() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.storage.Reset(); err != nil {
		return err
	}

	db.latestBlock = Block{}

	return nil
}

// Write adds a new block to the chain and moves the tip. The caller is
// responsible for having validated the block against the current tip.
func (db *Database) Write(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.storage.Write(NewBlockData(block)); err != nil {
		return err
	}

	db.latestBlock = block

	return nil
}

// LatestBlock returns the current tip of the chain.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.latestBlock
}

// Height returns the number of blocks in the chain.
func (db *Database) Height() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.latestBlock.Trans == nil {
		return 0
	}

	return db.latestBlock.Header.Number + 1
}

// GetBlock returns the contents of the specified block by number.
func (db *Database) GetBlock(num uint64) (Block, error) {
	blockData, err := db.storage.GetBlock(num)
	if err != nil {
		return Block{}, err
	}

	return ToBlock(blockData)
}

// AllBlocks returns the chain as an ordered slice of serializable blocks
// from a stable snapshot.
func (db *Database) AllBlocks() ([]BlockData, error) {
	var blocks []BlockData

	iter := db.storage.ForEach()
	for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, blockData)
	}

	return blocks, nil
}

// AllTransactions returns every transaction recorded in the chain in
// block order.
func (db *Database) AllTransactions() ([]Tx, error) {
	blocks, err := db.AllBlocks()
	if err != nil {
		return nil, err
	}

	var trans []Tx
	for _, blockData := range blocks {
		trans = append(trans, blockData.Trans...)
	}

	return trans, nil
}

// ValidateChain walks a stable snapshot of the chain recomputing every
// hash and link. Validation runs to completion and reports every
// infraction found rather than stopping at the first, so a broken link
// never hides a tampered block further down. An empty report means the
// chain is intact.
func (db *Database) ValidateChain() ([]Infraction, error) {
	db.evHandler("database: ValidateChain: started")
	defer db.evHandler("database: ValidateChain: completed")

	blocks, err := db.AllBlocks()
	if err != nil {
		return nil, err
	}

	var infractions []Infraction
	report := func(num uint64, check string, format string, args ...any) {
		infractions = append(infractions, Infraction{
			Number: num,
			Check:  check,
			Detail: fmt.Sprintf(format, args...),
		})
	}

	prevHash := digest.ZeroHash
	for i, blockData := range blocks {
		num := blockData.Header.Number

		// The hash travels with the block; recompute it from the header
		// fields to detect content or nonce tampering.
		hash := digest.Hash(blockData.Header)
		if hash != blockData.Hash {
			report(num, CheckHash, "stored hash %s does not match recomputation %s", blockData.Hash, hash)
		}

		// Rebuild the merkle tree from the stored transactions to detect
		// transaction tampering behind an untouched header.
		block, err := ToBlock(blockData)
		if err != nil {
			return nil, err
		}
		if root := block.Trans.RootHex(); root != blockData.Header.TransRoot {
			report(num, CheckTransRoot, "merkle root %s does not match transactions root %s", blockData.Header.TransRoot, root)
		}

		if !isHashSolved(blockData.Header.Difficulty, hash) {
			report(num, CheckPOW, "hash %s does not solve difficulty %d", hash, blockData.Header.Difficulty)
		}

		if num != uint64(i) {
			report(num, CheckSequence, "block is out of sequence, got %d, exp %d", num, i)
		}

		// Genesis links to the zero hash sentinel, every other block links
		// to the recomputed hash of its predecessor.
		if blockData.Header.PrevBlockHash != prevHash {
			report(num, CheckLink, "previous hash %s does not match parent %s", blockData.Header.PrevBlockHash, prevHash)
		}

		prevHash = hash
	}

	return infractions, nil
}
