// Package merkletree builds a commitment-aggregate-carrying Merkle tree
// over a list of commitments, following the level-major construction used
// throughout this stack's commitment trees.
package merkletree

import (
	"crypto/sha256"
	"errors"

	"github.com/wienerlabs/archimedes/crypto"
	"github.com/wienerlabs/archimedes/types"
)

// ErrEmptyTree is returned by operations that require at least one leaf.
var ErrEmptyTree = errors.New("merkletree: tree has no leaves")

// ErrIndexOutOfRange is returned when a leaf index is outside [0, LeafCount).
var ErrIndexOutOfRange = errors.New("merkletree: index out of range")

// ErrInvalidRange is returned by RangeAggregate for an out-of-order or
// out-of-bounds range.
var ErrInvalidRange = errors.New("merkletree: invalid aggregate range")

// Node is one slot of the tree: a hash together with the aggregate
// commitment summed over every leaf beneath it.
type Node struct {
	Hash      types.Hash
	Aggregate crypto.AggregateCommitment
}

// hashLeaf computes SHA-256(index_be(8) || compressed_group_element),
// the contract-fixed leaf hash layout. index must fit in 64 bits.
func hashLeaf(index int, compressed [32]byte) types.Hash {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[7-i] = byte(index >> (8 * uint(i)))
	}
	h := sha256.New()
	h.Write(buf[:])
	h.Write(compressed[:])
	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// hashNode computes SHA-256(left.hash || right.hash), the contract-fixed
// interior node hash layout.
func hashNode(left, right types.Hash) types.Hash {
	h := sha256.New()
	h.Write(left[:])
	h.Write(right[:])
	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// Tree is a commitment Merkle tree built bottom-up in levels, where each
// level pairs adjacent nodes and, for an odd tail, promotes the unpaired
// node unchanged to the next level rather than duplicating it.
type Tree struct {
	levels [][]Node
}

// Build constructs a Tree over commitments, one leaf per commitment. Each
// leaf's hash is SHA-256(index_be(8) || compressed(commitments[i])), per
// the contract-fixed leaf layout.
func Build(commitments []crypto.Commitment) (*Tree, error) {
	if len(commitments) == 0 {
		return nil, ErrEmptyTree
	}

	level := make([]Node, len(commitments))
	for i, c := range commitments {
		level[i] = Node{
			Hash:      hashLeaf(i, c.Point.Compressed()),
			Aggregate: crypto.AggregateFromCommitments([]crypto.Commitment{c}),
		}
	}

	levels := [][]Node{level}
	for len(level) > 1 {
		next := make([]Node, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				left, right := level[i], level[i+1]
				next = append(next, Node{
					Hash:      hashNode(left.Hash, right.Hash),
					Aggregate: left.Aggregate.Merge(right.Aggregate),
				})
			} else {
				// Odd tail: promote unchanged, do not self-pair.
				next = append(next, level[i])
			}
		}
		levels = append(levels, next)
		level = next
	}

	return &Tree{levels: levels}, nil
}

// LeafCount returns the number of leaves the tree was built over.
func (t *Tree) LeafCount() int {
	return len(t.levels[0])
}

// RootHash returns the hash carried by the tree's single top-level node.
func (t *Tree) RootHash() types.Hash {
	top := t.levels[len(t.levels)-1]
	return top[0].Hash
}

// Aggregate returns the commitment aggregate carried by the tree's
// top-level node — the sum of every leaf's commitment.
func (t *Tree) Aggregate() crypto.AggregateCommitment {
	top := t.levels[len(t.levels)-1]
	return top[0].Aggregate
}

// RangeAggregate sums the commitments of leaves in [lo, hi) by walking the
// leaf level directly; the level-major layout has no stored per-range
// aggregate, so this recomputes from leaves.
func (t *Tree) RangeAggregate(lo, hi int) (crypto.AggregateCommitment, error) {
	leaves := t.levels[0]
	if lo > hi || hi > len(leaves) || lo < 0 {
		return crypto.AggregateCommitment{}, ErrInvalidRange
	}
	agg := crypto.EmptyAggregate()
	for i := lo; i < hi; i++ {
		agg = agg.Merge(leaves[i].Aggregate)
	}
	return agg, nil
}

// LeafAggregate returns the single-leaf aggregate at index.
func (t *Tree) LeafAggregate(index int) (crypto.AggregateCommitment, error) {
	if index < 0 || index >= len(t.levels[0]) {
		return crypto.AggregateCommitment{}, ErrIndexOutOfRange
	}
	return t.levels[0][index].Aggregate, nil
}

// LeafHash returns the contract-fixed leaf hash at index: this is the
// value an inclusion proof for index must be checked against, not the
// raw commitment encoding.
func (t *Tree) LeafHash(index int) (types.Hash, error) {
	if index < 0 || index >= len(t.levels[0]) {
		return types.Hash{}, ErrIndexOutOfRange
	}
	return t.levels[0][index].Hash, nil
}
