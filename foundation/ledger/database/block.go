package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minichain/ledger/foundation/ledger/digest"
	"github.com/minichain/ledger/foundation/ledger/merkle"
)

// ErrNoSolution is returned from the mining operation when the attempt
// bound is exhausted before a nonce solving the difficulty is found.
var ErrNoSolution = errors.New("no valid nonce found within the attempt bound")

// =============================================================================

// BlockHeader represents common information required for each block. The
// block hash is the digest of this header alone, so the chain can be
// cryptographically checked without re-reading full transaction data.
type BlockHeader struct {
	Number        uint64 `json:"number"`          // Position of the block in the chain, zero based.
	PrevBlockHash string `json:"prev_block_hash"` // Hash of the previous block, the zero hash for genesis.
	TimeStamp     uint64 `json:"timestamp"`       // Time the block was created.
	TransRoot     string `json:"trans_root"`      // Merkle tree root hash of the transactions in this block.
	Nonce         uint64 `json:"nonce"`           // Value identified to solve the hash solution.
	Difficulty    uint   `json:"difficulty"`      // Number of leading zero characters required in the hash.
}

// Block represents a group of transactions batched together.
type Block struct {
	Header BlockHeader
	Trans  *merkle.Tree[Tx]
}

// Genesis constructs and mines block number zero. The genesis block has no
// transactions and links to the zero hash sentinel.
func Genesis(ctx context.Context, difficulty uint, maxAttempts uint64, ev func(v string, args ...any)) (Block, error) {
	tree, err := merkle.NewTree[Tx](nil)
	if err != nil {
		return Block{}, err
	}

	header := BlockHeader{
		Number:        0,
		PrevBlockHash: digest.ZeroHash,
		TimeStamp:     uint64(time.Now().UTC().Unix()),
		TransRoot:     tree.RootHex(),
		Nonce:         0,
		Difficulty:    difficulty,
	}

	return mine(ctx, header, tree, maxAttempts, ev)
}

// POW constructs the next block in the chain from the specified
// transactions and performs the work to find a nonce that solves the
// cryptographic puzzle. The puzzle is a teaching exercise with no economic
// meaning and a difficulty beyond a few characters is impractically slow.
func POW(ctx context.Context, difficulty uint, maxAttempts uint64, prevBlock Block, trans []Tx, ev func(v string, args ...any)) (Block, error) {
	tree, err := merkle.NewTree(trans)
	if err != nil {
		return Block{}, err
	}

	header := BlockHeader{
		Number:        prevBlock.Header.Number + 1,
		PrevBlockHash: prevBlock.Hash(),
		TimeStamp:     uint64(time.Now().UTC().Unix()),
		TransRoot:     tree.RootHex(),
		Nonce:         0,
		Difficulty:    difficulty,
	}

	return mine(ctx, header, tree, maxAttempts, ev)
}

// mine walks the nonce space from zero until the block hash solves the
// difficulty, the context is cancelled, or the attempt bound is reached.
// A maxAttempts of zero means no bound.
func mine(ctx context.Context, header BlockHeader, tree *merkle.Tree[Tx], maxAttempts uint64, ev func(v string, args ...any)) (Block, error) {
	b := Block{
		Header: header,
		Trans:  tree,
	}

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: mine: MINING: blk[%d]: attempts[%d]", b.Header.Number, attempts)
		}

		if ctx.Err() != nil {
			ev("database: mine: MINING: blk[%d]: CANCELLED", b.Header.Number)
			return Block{}, ctx.Err()
		}

		hash := b.Hash()
		if isHashSolved(b.Header.Difficulty, hash) {
			ev("database: mine: MINING: blk[%d]: SOLVED: nonce[%d] hash[%s]", b.Header.Number, b.Header.Nonce, hash)
			return b, nil
		}

		if maxAttempts > 0 && attempts >= maxAttempts {
			return Block{}, ErrNoSolution
		}

		b.Header.Nonce++
	}
}

// Hash returns the unique hash for the block by recomputing it from the
// header fields. Any mutation of the header shows up as a different hash.
func (b Block) Hash() string {
	return digest.Hash(b.Header)
}

// ValidateBlock takes a block and validates it to be included into the
// chain after the specified previous block.
func (b Block) ValidateBlock(prevBlock Block, ev func(v string, args ...any)) error {
	ev("database: ValidateBlock: validate: blk[%d]: check: block number is the next number", b.Header.Number)

	nextNumber := prevBlock.Header.Number + 1
	if b.Header.Number != nextNumber {
		return fmt.Errorf("this block is not the next number, got %d, exp %d", b.Header.Number, nextNumber)
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: parent hash does match parent block", b.Header.Number)

	if b.Header.PrevBlockHash != prevBlock.Hash() {
		return fmt.Errorf("parent block hash doesn't match our known parent, got %s, exp %s", b.Header.PrevBlockHash, prevBlock.Hash())
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: block hash has been solved", b.Header.Number)

	hash := b.Hash()
	if !isHashSolved(b.Header.Difficulty, hash) {
		return fmt.Errorf("%s invalid block hash", hash)
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: merkle root does match transactions", b.Header.Number)

	if b.Header.TransRoot != b.Trans.RootHex() {
		return fmt.Errorf("merkle root does not match transactions, got %s, exp %s", b.Trans.RootHex(), b.Header.TransRoot)
	}

	return nil
}

// isHashSolved checks the hash to make sure it complies with the POW
// rules. We need to match a difficulty number of leading zero characters
// after the hex prefix.
func isHashSolved(difficulty uint, hash string) bool {
	const match = "0x00000000000000000"

	if len(hash) != 66 {
		return false
	}

	return hash[:2+difficulty] == match[:2+difficulty]
}

// =============================================================================

// BlockData represents the serializable form of a block, carrying the
// stored hash alongside the header so tampering with the content is
// detectable by recomputation.
type BlockData struct {
	Hash   string      `json:"hash"`
	Header BlockHeader `json:"block"`
	Trans  []Tx        `json:"trans"`
}

// NewBlockData constructs the value to serialize from a block.
func NewBlockData(block Block) BlockData {
	return BlockData{
		Hash:   block.Hash(),
		Header: block.Header,
		Trans:  block.Trans.Values(),
	}
}

// ToBlock converts a BlockData back into a Block by rebuilding the merkle
// tree from the stored transactions.
func ToBlock(blockData BlockData) (Block, error) {
	tree, err := merkle.NewTree(blockData.Trans)
	if err != nil {
		return Block{}, err
	}

	nb := Block{
		Header: blockData.Header,
		Trans:  tree,
	}

	return nb, nil
}
