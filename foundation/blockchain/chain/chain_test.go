package chain

import (
	"testing"

	"github.com/qcbit/powchain/foundation/blockchain/block"
	"github.com/qcbit/powchain/foundation/blockchain/genesis"
	"github.com/qcbit/powchain/foundation/blockchain/hash"
)

func childOf(t *testing.T, parent hash.Hash256, salt byte) block.Block {
	t.Helper()
	b, err := block.New(parent, genesis.Difficulty, uint32(salt), uint64(salt), nil)
	if err != nil {
		t.Fatalf("block.New: %s", err)
	}
	return b
}

func TestLongestChainWalkE4(t *testing.T) {
	c := New()

	a := childOf(t, genesis.ID(), 1)
	c.Insert(a)

	b := childOf(t, a.ID(), 2)
	c.Insert(b)

	cBlk := childOf(t, b.ID(), 3)
	c.Insert(cBlk)

	bPrime := childOf(t, a.ID(), 4)
	c.Insert(bPrime)

	chain := c.AllBlocksInLongestChain()
	if len(chain) != 4 {
		t.Fatalf("chain length = %d, want 4", len(chain))
	}

	want := []hash.Hash256{genesis.ID(), a.ID(), b.ID(), cBlk.ID()}
	for i, id := range want {
		if chain[i].ID() != id {
			t.Fatalf("chain[%d] id = %s, want %s", i, chain[i].ID(), id)
		}
	}

	if c.Tip() != cBlk.ID() {
		t.Fatalf("tip = %s, want C = %s", c.Tip(), cBlk.ID())
	}
}

func TestTieBreakFirstSeenWinsE8(t *testing.T) {
	c := New()

	a := childOf(t, genesis.ID(), 1)
	c.Insert(a)

	b1 := childOf(t, a.ID(), 10)
	c.Insert(b1)

	b2 := childOf(t, a.ID(), 11)
	c.Insert(b2)

	if c.Tip() != b1.ID() {
		t.Fatalf("tip after equal-depth tie = %s, want first-seen %s", c.Tip(), b1.ID())
	}
}

func TestDepthInvariant(t *testing.T) {
	c := New()

	if d, _ := c.Depth(genesis.ID()); d != 1 {
		t.Fatalf("genesis depth = %d, want 1", d)
	}

	a := childOf(t, genesis.ID(), 1)
	depth, _ := c.Insert(a)
	if depth != 2 {
		t.Fatalf("depth(A) = %d, want 2", depth)
	}

	b := childOf(t, a.ID(), 2)
	depth, becameTip := c.Insert(b)
	if depth != 3 || !becameTip {
		t.Fatalf("depth(B) = %d, becameTip=%v, want 3,true", depth, becameTip)
	}
}
