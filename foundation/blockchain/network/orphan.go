package network

import (
	"sync"

	"github.com/qcbit/powchain/foundation/blockchain/block"
	"github.com/qcbit/powchain/foundation/blockchain/hash"
)

// OrphanBuffer holds blocks received before their parent, keyed by the
// missing parent's id. Guarded by a single mutex; acquired after Blockchain
// and before Mempool in the package lock ordering.
type OrphanBuffer struct {
	mu       sync.Mutex
	children map[hash.Hash256][]block.Block
}

// NewOrphanBuffer constructs an empty OrphanBuffer.
func NewOrphanBuffer() *OrphanBuffer {
	return &OrphanBuffer{children: make(map[hash.Hash256][]block.Block)}
}

// Add appends b to the list of blocks waiting on parentID.
func (o *OrphanBuffer) Add(parentID hash.Hash256, b block.Block) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.children[parentID] = append(o.children[parentID], b)
}

// TakeChildren removes and returns every block waiting on id, if any.
func (o *OrphanBuffer) TakeChildren(id hash.Hash256) []block.Block {
	o.mu.Lock()
	defer o.mu.Unlock()
	children := o.children[id]
	delete(o.children, id)
	return children
}

// Lock acquires the orphan buffer's mutex for an external multi-structure
// critical section (the network worker's block-admission algorithm, which
// must hold Blockchain before OrphanBuffer and Mempool). Pair with Unlock
// and use the *NoLock methods while held.
func (o *OrphanBuffer) Lock() { o.mu.Lock() }

// Unlock releases the mutex acquired by Lock.
func (o *OrphanBuffer) Unlock() { o.mu.Unlock() }

// AddNoLock is Add's body for a caller already holding the orphan buffer's
// mutex.
func (o *OrphanBuffer) AddNoLock(parentID hash.Hash256, b block.Block) {
	o.children[parentID] = append(o.children[parentID], b)
}

// TakeChildrenNoLock is TakeChildren's body for a caller already holding the
// orphan buffer's mutex.
func (o *OrphanBuffer) TakeChildrenNoLock(id hash.Hash256) []block.Block {
	children := o.children[id]
	delete(o.children, id)
	return children
}
