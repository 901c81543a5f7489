package miner

import (
	"testing"
	"time"

	"github.com/qcbit/powchain/foundation/blockchain/chain"
	"github.com/qcbit/powchain/foundation/blockchain/genesis"
	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/mempool"
	"github.com/qcbit/powchain/foundation/blockchain/signature"
	"github.com/qcbit/powchain/foundation/blockchain/transaction"
)

func noopLog(string, ...any) {}

func fillMempool(t *testing.T, mp *mempool.Mempool, n int) {
	t.Helper()
	kp, err := signature.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %s", err)
	}
	for i := 0; i < n; i++ {
		var receiver hash.Address
		receiver[0] = byte(i)
		tx := transaction.New(genesis.BootstrapAddress, uint32(i+1), receiver, 1)
		stx := tx.Sign(kp)
		if _, err := mp.Insert(stx); err != nil {
			t.Fatalf("Insert: %s", err)
		}
	}
}

func TestMinerThreeBlockChainE3(t *testing.T) {
	c := chain.New()
	mp := mempool.New()
	fillMempool(t, mp, 30)

	e, h, blocks := New(c, mp, noopLog)
	go e.Run()
	defer h.Exit()

	h.Start(0)

	var prev hash.Hash256
	for i := 0; i < 3; i++ {
		select {
		case b := <-blocks:
			if i > 0 && b.Header.Parent != prev {
				t.Fatalf("block %d parent = %s, want %s", i, b.Header.Parent, prev)
			}
			prev = b.ID()
		case <-time.After(10 * time.Second):
			t.Fatalf("timed out waiting for block %d", i)
		}
	}
}

func TestMinerStaysPausedUntilStarted(t *testing.T) {
	c := chain.New()
	mp := mempool.New()
	fillMempool(t, mp, 30)

	e, _, blocks := New(c, mp, noopLog)
	go e.Run()

	select {
	case <-blocks:
		t.Fatal("miner emitted a block while paused")
	case <-time.After(100 * time.Millisecond):
	}
}
