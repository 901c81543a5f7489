package txgen

import (
	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/mempool"
	"github.com/qcbit/powchain/foundation/blockchain/transaction"
)

// BroadcastFunc announces a newly generated transaction's hash to peers.
type BroadcastFunc func(ids []hash.Hash256)

// RunWorker consumes generated transactions, inserting each into the
// mempool and broadcasting its hash. Intended to run on its own goroutine;
// returns when txs is closed.
func RunWorker(txs <-chan transaction.SignedTransaction, mp *mempool.Mempool, broadcast BroadcastFunc, log EventHandler) {
	log("txgen: worker: goroutine started")
	defer log("txgen: worker: goroutine completed")

	for stx := range txs {
		id, err := mp.Insert(stx)
		if err != nil {
			log("txgen: worker: insert: %s", err)
			continue
		}

		log("txgen: worker: generated transaction: %s", id)
		if broadcast != nil {
			broadcast([]hash.Hash256{id})
		}
	}
}
