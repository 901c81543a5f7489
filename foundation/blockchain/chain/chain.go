// Package chain implements the block-tree: every block ever seen, keyed by
// id, with per-id chain depth and the current longest-chain tip.
//
// Validation (PoW, difficulty, signatures) is not this package's job —
// callers (the network worker, the miner worker) are responsible for
// checking a block before calling Insert. See SPEC_FULL.md §7 for the Insert
// looseness this preserves from the reference implementation.
package chain

import (
	"sync"

	"github.com/qcbit/powchain/foundation/blockchain/block"
	"github.com/qcbit/powchain/foundation/blockchain/genesis"
	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/transaction"
)

// Chain is the block-tree: all seen blocks keyed by id, their chain depths,
// and the current tip. Guarded by a single mutex.
type Chain struct {
	mu      sync.Mutex
	blocks  map[hash.Hash256]block.Block
	depths  map[hash.Hash256]int
	tip     hash.Hash256
	maxLen  int
}

// New constructs a Chain with the genesis block inserted: tip = genesis id,
// maxLen = 1.
func New() *Chain {
	c := &Chain{
		blocks: make(map[hash.Hash256]block.Block),
		depths: make(map[hash.Hash256]int),
	}

	gid := genesis.ID()
	c.blocks[gid] = genesis.Block
	c.depths[gid] = 1
	c.tip = gid
	c.maxLen = 1

	return c
}

// Insert unconditionally places b into the id-map and computes its depth as
// depth(parent)+1, defaulting to a parent depth of 1 (so the inserted block
// gets depth 2) when the parent is not present. This intentionally does not
// require the parent to be genesis or present — see the design notes' open
// question on the genesis-parent placeholder: callers must pre-check parent
// presence themselves if they care. The anomalous case passes through
// debugAssertParentPresent, which is empty: nothing is flagged, logged or
// rejected.
func (c *Chain) Insert(b block.Block) (depth int, becameTip bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.InsertNoLock(b)
}

// Lock acquires the chain's mutex for an external multi-structure critical
// section (the network worker's block-admission algorithm, which must hold
// Blockchain before OrphanBuffer and Mempool). Callers must pair with
// Unlock and use the *NoLock methods while held.
func (c *Chain) Lock() { c.mu.Lock() }

// Unlock releases the mutex acquired by Lock.
func (c *Chain) Unlock() { c.mu.Unlock() }

// InsertNoLock is Insert's body, callable by a caller already holding the
// chain's mutex (via Lock).
func (c *Chain) InsertNoLock(b block.Block) (depth int, becameTip bool) {
	id := b.ID()

	parentDepth, parentKnown := c.depths[b.Header.Parent]
	if !parentKnown {
		parentDepth = 1
	}
	depth = parentDepth + 1

	if !parentKnown && b.Header.Parent != hash.ZeroHash256 {
		// The block's parent is neither genesis's placeholder nor a block we
		// have. Insert still assigns it a depth as if the parent were
		// present at depth 1; a correct caller gates on parent presence
		// before ever reaching here. The hook below neither panics nor logs,
		// so this case changes no behavior.
		debugAssertParentPresent(b, c.blocks)
	}

	c.blocks[id] = b
	c.depths[id] = depth

	if depth > c.maxLen {
		c.maxLen = depth
		c.tip = id
	}
	// Tie-break: equal depth keeps the incumbent tip (first-seen wins), so
	// no action is taken when depth == c.maxLen.

	becameTip = c.tip == id
	return depth, becameTip
}

// debugAssertParentPresent is a no-op in every build: it is the named place
// for the "tighten insert" alternative design the reference implementation
// calls out, and it performs no check of its own.
func debugAssertParentPresent(b block.Block, blocks map[hash.Hash256]block.Block) {
	if _, ok := blocks[b.Header.Parent]; !ok && b.Header.Parent != hash.ZeroHash256 {
		// Intentionally not panicking: see Insert's doc comment. A caller
		// reached this package with an orphan, which is a bug in whatever
		// gated admission upstream.
	}
}

// Tip returns the current longest-chain tip id.
func (c *Chain) Tip() hash.Hash256 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.TipNoLock()
}

// TipNoLock is Tip's body for a caller already holding the chain's mutex.
func (c *Chain) TipNoLock() hash.Hash256 {
	return c.tip
}

// TipBlock returns a copy of the current tip block.
func (c *Chain) TipBlock() block.Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blocks[c.tip]
}

// TipDifficultyNoLock returns the current tip's recorded difficulty target,
// for a caller already holding the chain's mutex.
func (c *Chain) TipDifficultyNoLock() hash.Hash256 {
	return c.blocks[c.tip].Header.Difficulty
}

// MaxLen returns the depth of the current tip.
func (c *Chain) MaxLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxLen
}

// Has reports whether id is present in the block-tree.
func (c *Chain) Has(id hash.Hash256) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.HasNoLock(id)
}

// HasNoLock is Has's body for a caller already holding the chain's mutex.
func (c *Chain) HasNoLock(id hash.Hash256) bool {
	_, ok := c.blocks[id]
	return ok
}

// Get returns the block stored under id, if any.
func (c *Chain) Get(id hash.Hash256) (block.Block, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.GetNoLock(id)
}

// GetNoLock is Get's body for a caller already holding the chain's mutex.
func (c *Chain) GetNoLock(id hash.Hash256) (block.Block, bool) {
	b, ok := c.blocks[id]
	return b, ok
}

// Depth returns the chain depth recorded for id, if any.
func (c *Chain) Depth(id hash.Hash256) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.depths[id]
	return d, ok
}

// AllBlocksInLongestChain walks parent pointers from the tip back to
// genesis and returns them genesis-to-tip ordered.
func (c *Chain) AllBlocksInLongestChain() []block.Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.walkLocked()
}

// AllTransactionsInLongestChain performs the same walk, returning each
// block's transaction content in chain order.
func (c *Chain) AllTransactionsInLongestChain() [][]transaction.SignedTransaction {
	c.mu.Lock()
	defer c.mu.Unlock()

	blocks := c.walkLocked()
	out := make([][]transaction.SignedTransaction, len(blocks))
	for i, b := range blocks {
		out[i] = b.Content
	}
	return out
}

func (c *Chain) walkLocked() []block.Block {
	var chain []block.Block
	cur := c.tip
	for {
		b, ok := c.blocks[cur]
		if !ok {
			break
		}
		chain = append([]block.Block{b}, chain...)
		if b.ID() == genesis.ID() {
			break
		}
		cur = b.Header.Parent
	}
	return chain
}
