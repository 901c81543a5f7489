// Package mempool holds signed transactions not yet included in any adopted
// block on the longest chain.
package mempool

import (
	"sync"

	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/transaction"
)

// Mempool is a hash-to-signed-transaction map guarded by a single mutex.
// Insertion order is irrelevant; the only invariant is that every entry
// carries a well-formed signature.
type Mempool struct {
	mu  sync.Mutex
	txs map[hash.Hash256]transaction.SignedTransaction
}

// New constructs an empty Mempool.
func New() *Mempool {
	return &Mempool{
		txs: make(map[hash.Hash256]transaction.SignedTransaction),
	}
}

// Insert adds tx under its hash. Idempotent: inserting an already-present
// transaction is a no-op.
func (m *Mempool) Insert(tx transaction.SignedTransaction) (hash.Hash256, error) {
	h, err := tx.Hash()
	if err != nil {
		return hash.Hash256{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.txs[h]; !exists {
		m.txs[h] = tx
	}
	return h, nil
}

// Remove deletes the transaction with the given hash. No-op if absent.
func (m *Mempool) Remove(h hash.Hash256) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.txs, h)
}

// Lock acquires the mempool's mutex for an external multi-structure
// critical section (the network worker's block-admission algorithm, which
// must hold Blockchain and OrphanBuffer before Mempool). Pair with Unlock
// and use the *NoLock methods while held.
func (m *Mempool) Lock() { m.mu.Lock() }

// Unlock releases the mutex acquired by Lock.
func (m *Mempool) Unlock() { m.mu.Unlock() }

// InsertNoLock is Insert's body for a caller already holding the mempool's
// mutex.
func (m *Mempool) InsertNoLock(tx transaction.SignedTransaction) (hash.Hash256, error) {
	h, err := tx.Hash()
	if err != nil {
		return hash.Hash256{}, err
	}
	if _, exists := m.txs[h]; !exists {
		m.txs[h] = tx
	}
	return h, nil
}

// RemoveNoLock is Remove's body for a caller already holding the mempool's
// mutex.
func (m *Mempool) RemoveNoLock(h hash.Hash256) {
	delete(m.txs, h)
}

// ContainsNoLock is Contains's body for a caller already holding the
// mempool's mutex.
func (m *Mempool) ContainsNoLock(h hash.Hash256) bool {
	_, ok := m.txs[h]
	return ok
}

// GetNoLock is Get's body for a caller already holding the mempool's mutex.
func (m *Mempool) GetNoLock(h hash.Hash256) (transaction.SignedTransaction, bool) {
	tx, ok := m.txs[h]
	return tx, ok
}

// Contains reports whether h is present.
func (m *Mempool) Contains(h hash.Hash256) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.txs[h]
	return ok
}

// Get returns the transaction stored under h, if any.
func (m *Mempool) Get(h hash.Hash256) (transaction.SignedTransaction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.txs[h]
	return tx, ok
}

// Count returns the number of transactions currently held.
func (m *Mempool) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.txs)
}

// Drain removes and returns every transaction currently held, in no
// particular order, whatever their count. The miner harvests through
// HarvestIfAtLeast, not Drain.
func (m *Mempool) Drain() []transaction.SignedTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]transaction.SignedTransaction, 0, len(m.txs))
	for h, tx := range m.txs {
		out = append(out, tx)
		delete(m.txs, h)
	}
	return out
}

// HarvestIfAtLeast atomically drains and returns every held transaction, but
// only if at least n are currently held; otherwise it leaves the mempool
// untouched and returns nil. Used by the miner: harvesting must see a
// consistent count-and-drain in one critical section, not a racy
// Count-then-Drain pair.
func (m *Mempool) HarvestIfAtLeast(n int) []transaction.SignedTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.txs) < n {
		return nil
	}

	out := make([]transaction.SignedTransaction, 0, len(m.txs))
	for h, tx := range m.txs {
		out = append(out, tx)
		delete(m.txs, h)
	}
	return out
}

// RemoveAll removes each transaction in txs from the mempool, by hash.
func (m *Mempool) RemoveAll(txs []transaction.SignedTransaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range txs {
		h, err := tx.Hash()
		if err != nil {
			continue
		}
		delete(m.txs, h)
	}
}
