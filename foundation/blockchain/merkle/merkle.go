// Package merkle implements a binary hash tree over an ordered list of
// hashable items, with proof generation and verification.
//
// The source this was distilled from represents each node as a reference-
// counted cell so the tree can share subtrees; here the levels are flat
// slices indexed by position, which removes the need for any node pointers
// at all.
package merkle

import (
	"github.com/qcbit/powchain/foundation/blockchain/hash"
)

// Hashable is implemented by anything that can be placed in a Tree leaf.
type Hashable interface {
	Hash() (hash.Hash256, error)
}

// Tree is a merkle tree over a list of T. The zero value is not usable;
// construct with NewTree.
type Tree[T Hashable] struct {
	values []T
	levels [][]hash.Hash256 // levels[0] = leaf hashes, levels[len-1] = [root]
}

// NewTree builds a tree over items in order. An empty item list yields a
// tree whose root is the all-zero hash.
func NewTree[T Hashable](items []T) (*Tree[T], error) {
	t := &Tree[T]{values: items}

	if len(items) == 0 {
		t.levels = [][]hash.Hash256{{hash.ZeroHash256}}
		return t, nil
	}

	leaves := make([]hash.Hash256, len(items))
	for i, item := range items {
		h, err := item.Hash()
		if err != nil {
			return nil, err
		}
		leaves[i] = h
	}

	t.levels = append(t.levels, leaves)
	cur := leaves
	for len(cur) > 1 {
		next := make([]hash.Hash256, 0, (len(cur)+1)/2)
		for i := 0; i < len(cur); i += 2 {
			left := cur[i]
			right := cur[i]
			if i+1 < len(cur) {
				right = cur[i+1]
			}
			next = append(next, parentHash(left, right))
		}
		t.levels = append(t.levels, next)
		cur = next
	}

	return t, nil
}

// parentHash computes SHA256(left || right).
func parentHash(left, right hash.Hash256) hash.Hash256 {
	buf := make([]byte, 0, 64)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return hash.Sum256(buf)
}

// Root returns the root hash of the tree.
func (t *Tree[T]) Root() hash.Hash256 {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// RootHex returns the 0x-prefixed hex encoding of the root hash.
func (t *Tree[T]) RootHex() string {
	return t.Root().String()
}

// Values returns the original items backing the tree's leaves, in order.
func (t *Tree[T]) Values() []T {
	return t.values
}

// Proof returns the sibling path for the leaf at index i, walking bottom-up.
// For a level with odd cardinality, the last node was paired with itself
// during construction and its sibling is omitted from the proof; Verify
// reconstructs that self-pairing from the leaf count alone.
func (t *Tree[T]) Proof(i int) ([]hash.Hash256, error) {
	if i < 0 || i >= len(t.values) {
		return nil, ErrIndexOutOfRange
	}

	var proof []hash.Hash256
	idx := i
	for level := 0; level < len(t.levels)-1; level++ {
		lvl := t.levels[level]
		width := len(lvl)

		switch {
		case idx%2 == 1:
			proof = append(proof, lvl[idx-1])
		case idx != width-1:
			proof = append(proof, lvl[idx+1])
		}
		// idx == width-1 with width odd: self-paired, no sibling recorded.

		idx = idx / 2
	}

	return proof, nil
}

// Verify reports whether datum, combined with proof, folds up to root given
// its original index and the total leaf count.
func Verify(root, datum hash.Hash256, proof []hash.Hash256, index, leafCount int) bool {
	cur := datum
	idx := index
	width := leafCount
	pi := 0 // proof entries are consumed in the same level-order Proof built them

	for width > 1 {
		switch {
		case idx%2 == 1:
			if pi >= len(proof) {
				return false
			}
			cur = parentHash(proof[pi], cur)
			pi++
		case idx == width-1:
			cur = parentHash(cur, cur)
		default:
			if pi >= len(proof) {
				return false
			}
			cur = parentHash(cur, proof[pi])
			pi++
		}

		idx = idx / 2
		width = (width + 1) / 2
	}

	return cur == root
}

// ErrIndexOutOfRange is returned by Proof for an index outside the leaf list.
var ErrIndexOutOfRange = indexOutOfRangeErr{}

type indexOutOfRangeErr struct{}

func (indexOutOfRangeErr) Error() string { return "merkle: index out of range" }
