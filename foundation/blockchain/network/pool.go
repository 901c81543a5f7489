package network

import (
	"github.com/qcbit/powchain/foundation/blockchain/block"
	"github.com/qcbit/powchain/foundation/blockchain/chain"
	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/mempool"
	"github.com/qcbit/powchain/foundation/blockchain/state"
	"github.com/qcbit/powchain/foundation/blockchain/transaction"
)

// EventHandler receives a log line, wired the same way as the miner and
// txgen packages' EventHandler.
type EventHandler func(format string, v ...any)

// Pool is the bounded worker pool that reacts to inbound (message, peer)
// pairs.
type Pool struct {
	transport     Transport
	chain         *chain.Chain
	orphans       *OrphanBuffer
	mempool       *mempool.Mempool
	statePerBlock *state.PerBlock
	log           EventHandler
}

// NewPool constructs a Pool over the given shared structures.
func NewPool(transport Transport, c *chain.Chain, orphans *OrphanBuffer, mp *mempool.Mempool, sp *state.PerBlock, log EventHandler) *Pool {
	return &Pool{
		transport:     transport,
		chain:         c,
		orphans:       orphans,
		mempool:       mp,
		statePerBlock: sp,
		log:           log,
	}
}

// Run starts n worker goroutines, each draining transport.Inbox() until it
// is closed. Blocks until every worker has exited.
func (p *Pool) Run(n int) {
	done := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		go func(id int) {
			p.log("network: pool: worker %d started", id)
			defer p.log("network: pool: worker %d stopped", id)
			for env := range p.transport.Inbox() {
				p.dispatch(env)
			}
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < n; i++ {
		<-done
	}
}

func (p *Pool) dispatch(env Envelope) {
	switch m := env.Message.(type) {
	case Ping:
		p.reply(env.Peer, Pong{Nonce: m.Nonce})

	case Pong:
		p.log("network: pool: pong: %s", m.Nonce)

	case NewBlockHashes:
		var pull []hash.Hash256
		for _, h := range m.Hashes {
			if !p.chain.Has(h) {
				pull = append(pull, h)
			}
		}
		if len(pull) > 0 {
			p.reply(env.Peer, GetBlocks{Hashes: pull})
		}

	case GetBlocks:
		var blocks []block.Block
		for _, h := range m.Hashes {
			if b, ok := p.chain.Get(h); ok {
				blocks = append(blocks, b)
			}
		}
		if len(blocks) > 0 {
			p.reply(env.Peer, Blocks{Blocks: blocks})
		}

	case Blocks:
		p.admitBlocks(m.Blocks, env.Peer)

	case NewTransactionHashes:
		var pull []hash.Hash256
		for _, h := range m.Hashes {
			if !p.mempool.Contains(h) {
				pull = append(pull, h)
			}
		}
		if len(pull) > 0 {
			p.reply(env.Peer, GetTransactions{Hashes: pull})
		}

	case GetTransactions:
		var txs []transaction.SignedTransaction
		for _, h := range m.Hashes {
			if tx, ok := p.mempool.Get(h); ok {
				txs = append(txs, tx)
			}
		}
		if len(txs) > 0 {
			p.reply(env.Peer, Transactions{Transactions: txs})
		}

	case Transactions:
		// Inbound transactions are added to the mempool without
		// rebroadcasting NewTransactionHashes: gossip is limited to one
		// hop here.
		for _, stx := range m.Transactions {
			if stx.VerifySignature() {
				if _, err := p.mempool.Insert(stx); err != nil {
					p.log("network: pool: transactions: insert: %s", err)
				}
			}
		}
	}
}

func (p *Pool) reply(peer PeerHandle, msg Message) {
	if peer == nil {
		return
	}
	if err := peer.Send(msg); err != nil {
		p.log("network: pool: reply to %s: %s", peer.ID(), err)
	}
}

// admitBlocks runs the block-admission algorithm as a single critical
// section over the chain, orphan buffer, and mempool — acquired in that
// fixed order, per the package lock ordering. The state lock is taken and
// released per individual block inside this section (state.PerBlock.Update
// already does so), never held across the whole section.
func (p *Pool) admitBlocks(blocks []block.Block, peer PeerHandle) {
	p.chain.Lock()
	defer p.chain.Unlock()
	p.orphans.Lock()
	defer p.orphans.Unlock()
	p.mempool.Lock()
	defer p.mempool.Unlock()

	difficulty := p.chain.TipDifficultyNoLock()

	var newBlocks []hash.Hash256
	var missingParents []hash.Hash256

	for _, b := range blocks {
		id := b.ID()

		if !id.LessOrEqual(difficulty) {
			continue // insufficient PoW
		}

		parentID := b.Header.Parent
		if p.chain.HasNoLock(parentID) {
			if b.Header.Difficulty == difficulty && !p.chain.HasNoLock(id) && b.AllSignaturesValid() {
				p.adopt(b)
				newBlocks = append(newBlocks, id)
			}
			continue
		}

		missingParents = append(missingParents, parentID)
		p.orphans.AddNoLock(parentID, b)
	}

	if len(missingParents) > 0 {
		p.reply(peer, GetBlocks{Hashes: missingParents})
	}

	// Orphan reattachment: iteratively drain children of every id just
	// adopted, seeded by newBlocks.
	worklist := append([]hash.Hash256(nil), newBlocks...)
	for len(worklist) > 0 {
		var next []hash.Hash256
		for _, h := range worklist {
			for _, child := range p.orphans.TakeChildrenNoLock(h) {
				if child.Header.Difficulty != difficulty || !child.AllSignaturesValid() {
					continue
				}
				p.adopt(child)
				childID := child.ID()
				next = append(next, childID)
				newBlocks = append(newBlocks, childID)
			}
		}
		worklist = next
	}

	if len(newBlocks) > 0 {
		p.transport.Broadcast(NewBlockHashes{Hashes: newBlocks})
	}
}

// adopt inserts b into the chain, folds its state atop its parent, and
// removes its transactions from the mempool. Caller must already hold the
// chain, orphan buffer, and mempool locks.
func (p *Pool) adopt(b block.Block) {
	id := b.ID()
	p.chain.InsertNoLock(b)
	p.statePerBlock.Update(id, b.Header.Parent, b.Content)
	for _, stx := range b.Content {
		if h, err := stx.Hash(); err == nil {
			p.mempool.RemoveNoLock(h)
		}
	}
}
