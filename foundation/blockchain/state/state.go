// Package state implements per-address account state and its per-block-id
// derivation. Rather than one mutable account database, this package keeps
// one State snapshot per block id (StatePerBlock), since forks must be
// able to carry independent account balances.
package state

import (
	"sync"

	"github.com/qcbit/powchain/foundation/blockchain/genesis"
	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/transaction"
)

// GenesisState returns the bootstrap State: the genesis address credited
// with its fixed starting balance.
func GenesisState() State {
	return State{
		genesis.BootstrapAddress: {Nonce: 0, Balance: genesis.BootstrapBalance},
	}
}

// Account is the per-address (nonce, balance) pair. Nonce is a monotonically
// increasing per-sender counter; balance never underflows.
type Account struct {
	Nonce   uint32
	Balance uint32
}

// State is an immutable-by-convention snapshot of every account's state at
// one point in the chain. Callers obtain a new State by cloning and
// mutating, never by mutating a State another block id already points to.
type State map[hash.Address]Account

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := make(State, len(s))
	for addr, acct := range s {
		out[addr] = acct
	}
	return out
}

// Check reports whether tx is valid against s: the sender account must
// exist, tx.AccNonce must be exactly sender.Nonce+1, and sender.Balance must
// be at least tx.Value.
func (s State) Check(tx transaction.Transaction) bool {
	sender, ok := s[tx.Sender]
	if !ok {
		return false
	}
	if tx.AccNonce != sender.Nonce+1 {
		return false
	}
	return sender.Balance >= tx.Value
}

// Update applies tx to s in place if Check passes: debits the sender's
// balance, advances its nonce, and credits the receiver (creating the
// receiver account with nonce 0 if it is new). Returns false and leaves s
// unchanged if Check fails.
func (s State) Update(tx transaction.Transaction) bool {
	if !s.Check(tx) {
		return false
	}

	sender := s[tx.Sender]
	sender.Balance -= tx.Value
	sender.Nonce++
	s[tx.Sender] = sender

	receiver := s[tx.Receiver] // zero value (nonce 0, balance 0) if new
	receiver.Balance += tx.Value
	s[tx.Receiver] = receiver

	return true
}

// ----------------------------------------------------------------------------

// PerBlock maps block id to the State that results from folding that
// block's transactions atop its parent's State. Guarded by a single mutex.
type PerBlock struct {
	mu     sync.Mutex
	states map[hash.Hash256]State
}

// NewPerBlock constructs a PerBlock seeded with the genesis block id mapped
// to genesisState.
func NewPerBlock(genesisID hash.Hash256, genesisState State) *PerBlock {
	return &PerBlock{
		states: map[hash.Hash256]State{
			genesisID: genesisState,
		},
	}
}

// Get returns the State stored for id, if any.
func (p *PerBlock) Get(id hash.Hash256) (State, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.states[id]
	return s, ok
}

// Update clones the State at parentID, applies each of txs in order
// (silently skipping any that fail Check — this matches the reference
// behavior: a transaction's effect is simply dropped, never retried), and
// stores the result under blockID. Must never be called before parentID's
// state exists.
func (p *PerBlock) Update(blockID, parentID hash.Hash256, txs []transaction.SignedTransaction) State {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.states[parentID].Clone()
	for _, stx := range txs {
		next.Update(stx.Transaction)
	}
	p.states[blockID] = next

	return next
}
