package miner

import (
	"github.com/qcbit/powchain/foundation/blockchain/block"
	"github.com/qcbit/powchain/foundation/blockchain/chain"
	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/state"
)

// BroadcastFunc announces newly mined block ids to peers. Kept as a plain
// function value (rather than importing the network package directly) so
// miner has no dependency on the transport; main.go wires the two together.
type BroadcastFunc func(ids []hash.Hash256)

// RunWorker consumes mined blocks, adopting each one: acquire the chain
// lock and insert, then acquire the state lock and fold its content atop
// its parent's state, then release both locks before broadcasting. This is
// the chain-before-state slice of the package's full lock ordering
// (Blockchain -> OrphanBuffer -> Mempool -> StatePerBlock); the worker never
// touches the orphan buffer or mempool, so it only ever holds the first and
// last locks in that order. Intended to run on its own goroutine; returns
// when blocks is closed.
func RunWorker(blocks <-chan block.Block, c *chain.Chain, sp *state.PerBlock, broadcast BroadcastFunc, log EventHandler) {
	log("miner: worker: goroutine started")
	defer log("miner: worker: goroutine completed")

	for b := range blocks {
		id := b.ID()

		c.Insert(b)
		sp.Update(id, b.Header.Parent, b.Content)

		log("miner: worker: adopted own block: %s", id)
		if broadcast != nil {
			broadcast([]hash.Hash256{id})
		}
	}
}
