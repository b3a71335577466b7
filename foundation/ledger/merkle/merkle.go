// Package merkle provides a merkle tree over an ordered set of values for
// transaction set fingerprinting and inclusion proofs.
package merkle

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Hashable represents the behavior concrete data must exhibit to be used in
// the merkle tree.
type Hashable[T any] interface {
	Hash() ([]byte, error)
	Equals(other T) bool
}

// =============================================================================

// Tree represents a merkle tree that uses data of some type T that exhibits
// the behavior defined by the Hashable constraint. The tree is built level
// by level from the leaves up. An odd number of hashes at any level is
// closed by duplicating the last hash, a single leaf is the root itself and
// an empty tree carries the zero hash root.
type Tree[T Hashable[T]] struct {
	MerkleRoot   []byte
	values       []T
	levels       [][][]byte
	hashStrategy func() hash.Hash
}

// WithHashStrategy is used to change the default hash strategy of using
// sha256 when constructing a new tree.
func WithHashStrategy[T Hashable[T]](hashStrategy func() hash.Hash) func(t *Tree[T]) {
	return func(t *Tree[T]) {
		t.hashStrategy = hashStrategy
	}
}

// NewTree constructs a new merkle tree that uses data of some type T that
// exhibits the behavior defined by the Hashable interface.
func NewTree[T Hashable[T]](values []T, options ...func(t *Tree[T])) (*Tree[T], error) {
	var defaultHashStrategy = sha256.New

	t := Tree[T]{
		hashStrategy: defaultHashStrategy,
	}

	for _, option := range options {
		option(&t)
	}

	if err := t.Generate(values); err != nil {
		return nil, err
	}

	return &t, nil
}

// Generate constructs the levels of the tree from the specified data. If the
// tree has been generated previously, the tree is re-generated from scratch.
func (t *Tree[T]) Generate(values []T) error {
	t.values = append([]T(nil), values...)
	t.levels = nil

	var leaves [][]byte
	for _, value := range values {
		hash, err := value.Hash()
		if err != nil {
			return err
		}
		leaves = append(leaves, hash)
	}

	// An empty set of values is structurally different from a one leaf tree
	// and is pinned to the zero hash sentinel.
	if len(leaves) == 0 {
		t.MerkleRoot = make([]byte, t.hashStrategy().Size())
		return nil
	}

	// Walk the tree bottom up. Each stored level has an even number of
	// hashes, except a level holding the root alone.
	level := leaves
	for {
		if len(level) > 1 && len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		t.levels = append(t.levels, level)

		if len(level) == 1 {
			break
		}

		next := make([][]byte, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			h := t.hashStrategy()
			if _, err := h.Write(level[i]); err != nil {
				return err
			}
			if _, err := h.Write(level[i+1]); err != nil {
				return err
			}
			next = append(next, h.Sum(nil))
		}
		level = next
	}

	t.MerkleRoot = level[0]

	return nil
}

// Rebuild is a helper function that will rebuild the tree reusing only the
// values that it currently holds.
func (t *Tree[T]) Rebuild() error {
	return t.Generate(t.values)
}

// Proof returns the set of sibling hashes and the order of concatenating
// those hashes for proving a value is in the tree. An order flag of 0 means
// the proof hash is concatenated before the running hash, a flag of 1 means
// after. Feed the value's leaf hash and this proof to VerifyProof to
// recompute the root.
func (t *Tree[T]) Proof(value T) ([][]byte, []int64, error) {
	idx := -1
	for i, v := range t.values {
		if v.Equals(value) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, nil, errors.New("unable to find value in tree")
	}

	var proof [][]byte
	var order []int64

	for _, level := range t.levels[:len(t.levels)-1] {
		sibling := idx ^ 1
		proof = append(proof, level[sibling])

		if idx%2 == 0 {
			order = append(order, 1) // Sibling is on the right, concat second.
		} else {
			order = append(order, 0) // Sibling is on the left, concat first.
		}

		idx /= 2
	}

	return proof, order, nil
}

// Verify recomputes the tree from the values it holds and returns an error
// if the resulting root hash does not match the stored root hash.
func (t *Tree[T]) Verify() error {
	nt, err := NewTree(t.values, WithHashStrategy[T](t.hashStrategy))
	if err != nil {
		return err
	}

	if !bytes.Equal(t.MerkleRoot, nt.MerkleRoot) {
		return errors.New("root hash invalid")
	}

	return nil
}

// VerifyData indicates whether a given value is in the tree by producing its
// inclusion proof and recomputing the root from it.
func (t *Tree[T]) VerifyData(value T) error {
	proof, order, err := t.Proof(value)
	if err != nil {
		return err
	}

	leafHash, err := value.Hash()
	if err != nil {
		return err
	}

	if !VerifyProof(leafHash, proof, order, t.MerkleRoot, t.hashStrategy) {
		return errors.New("value proof does not reproduce the root hash")
	}

	return nil
}

// Values returns a copy of the values stored in the tree in leaf order.
// Duplicates produced by the odd level rule are never part of this set.
func (t *Tree[T]) Values() []T {
	return append([]T(nil), t.values...)
}

// RootHex converts the merkle root byte hash to a hex encoded string.
func (t *Tree[T]) RootHex() string {
	return hexutil.Encode(t.MerkleRoot)
}

// String returns a string representation of the tree. Only leaf values are
// included in the output.
func (t *Tree[T]) String() string {
	s := ""

	for _, v := range t.values {
		s += fmt.Sprintf("%v", v)
		s += "\n"
	}

	return s
}

// MarshalText implements the TextMarshaler interface and produces a panic
// if anyone tries to marshal the merkle tree. I don't want this to happen.
// Use the Values function to return a slice that can be marshaled.
func (t *Tree[T]) MarshalText() (text []byte, err error) {
	panic("do not marshal the merkle tree, use Values")
}

// =============================================================================

// VerifyProof recomputes the root hash from the specified leaf hash and
// inclusion proof and reports whether it matches the specified root. The
// hash strategy defaults to sha256 when nil.
func VerifyProof(leafHash []byte, proof [][]byte, order []int64, root []byte, hashStrategy func() hash.Hash) bool {
	if len(proof) != len(order) {
		return false
	}

	if hashStrategy == nil {
		hashStrategy = sha256.New
	}

	current := leafHash
	for i, sibling := range proof {
		h := hashStrategy()

		switch order[i] {
		case 0:
			h.Write(sibling)
			h.Write(current)
		case 1:
			h.Write(current)
			h.Write(sibling)
		default:
			return false
		}

		current = h.Sum(nil)
	}

	return bytes.Equal(current, root)
}
