package network

import (
	"sync"
	"testing"

	"github.com/qcbit/powchain/foundation/blockchain/block"
	"github.com/qcbit/powchain/foundation/blockchain/chain"
	"github.com/qcbit/powchain/foundation/blockchain/genesis"
	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/mempool"
	"github.com/qcbit/powchain/foundation/blockchain/state"
)

func noopLog(string, ...any) {}

// mineBlock brute-forces a nonce that solves difficulty, for test fixtures
// only: production mining is the miner package's single-attempt-per-
// iteration loop, not a sweep.
func mineBlock(t *testing.T, parent, difficulty hash.Hash256, salt uint64) block.Block {
	t.Helper()
	for nonce := uint32(0); nonce < 500_000; nonce++ {
		b, err := block.New(parent, difficulty, nonce, salt, nil)
		if err != nil {
			t.Fatalf("block.New: %s", err)
		}
		if b.ValidPoW() {
			return b
		}
	}
	t.Fatal("failed to find a valid nonce within the search bound")
	return block.Block{}
}

type fakePeer struct {
	id   string
	mu   sync.Mutex
	sent []Message
}

func (p *fakePeer) ID() string { return p.id }

func (p *fakePeer) Send(msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, msg)
	return nil
}

func (p *fakePeer) lastSent() Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.sent) == 0 {
		return nil
	}
	return p.sent[len(p.sent)-1]
}

type fakeTransport struct {
	mu        sync.Mutex
	broadcast []Message
}

func (tr *fakeTransport) Inbox() <-chan Envelope { return nil }

func (tr *fakeTransport) Broadcast(msg Message) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.broadcast = append(tr.broadcast, msg)
}

func newTestPool() (*Pool, *fakeTransport) {
	c := chain.New()
	orphans := NewOrphanBuffer()
	mp := mempool.New()
	sp := state.NewPerBlock(genesis.ID(), state.GenesisState())
	tr := &fakeTransport{}
	return NewPool(tr, c, orphans, mp, sp, noopLog), tr
}

func TestOrphanReattachmentE5(t *testing.T) {
	pool, tr := newTestPool()

	a := mineBlock(t, genesis.ID(), genesis.Difficulty, 1)
	b := mineBlock(t, a.ID(), genesis.Difficulty, 2)
	c := mineBlock(t, b.ID(), genesis.Difficulty, 3)

	peer := &fakePeer{id: "p1"}

	// C arrives first; its parent B is unknown, so it is orphaned and a
	// GetBlocks pull for B is sent back.
	pool.dispatch(Envelope{Message: Blocks{Blocks: []block.Block{c}}, Peer: peer})

	if !pool.chain.Has(genesis.ID()) {
		t.Fatal("genesis missing")
	}
	if pool.chain.Has(c.ID()) {
		t.Fatal("C should not be adopted before its ancestors arrive")
	}
	req, ok := peer.lastSent().(GetBlocks)
	if !ok || len(req.Hashes) != 1 || req.Hashes[0] != b.ID() {
		t.Fatalf("expected a GetBlocks pull for B's id, got %#v", peer.lastSent())
	}

	// A and B arrive together; A completes the chain to genesis and C's
	// orphaned entry (keyed by B's id) should reattach in the same pass.
	pool.dispatch(Envelope{Message: Blocks{Blocks: []block.Block{a, b}}, Peer: peer})

	for name, id := range map[string]hash.Hash256{"A": a.ID(), "B": b.ID(), "C": c.ID()} {
		if !pool.chain.Has(id) {
			t.Fatalf("%s was not adopted", name)
		}
	}
	if pool.chain.Tip() != c.ID() {
		t.Fatalf("tip = %s, want C = %s", pool.chain.Tip(), c.ID())
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	var sawAll bool
	for _, m := range tr.broadcast {
		nb, ok := m.(NewBlockHashes)
		if !ok {
			continue
		}
		seen := map[hash.Hash256]bool{}
		for _, h := range nb.Hashes {
			seen[h] = true
		}
		if seen[a.ID()] && seen[b.ID()] && seen[c.ID()] {
			sawAll = true
		}
	}
	if !sawAll {
		t.Fatalf("expected a NewBlockHashes broadcast containing A, B, and C; got %#v", tr.broadcast)
	}
}

func TestInsufficientPoWDiscarded(t *testing.T) {
	pool, _ := newTestPool()

	// The tip (genesis) is compared against genesis.Difficulty; find a
	// nonce whose id exceeds it, so admission discards it in step 1 before
	// ever looking at parent presence.
	var b block.Block
	found := false
	for nonce := uint32(0); nonce < 500_000; nonce++ {
		cand, err := block.New(genesis.ID(), genesis.Difficulty, nonce, 1, nil)
		if err != nil {
			t.Fatalf("block.New: %s", err)
		}
		if !cand.ValidPoW() {
			b, found = cand, true
			break
		}
	}
	if !found {
		t.Fatal("failed to find an over-difficulty nonce within the search bound")
	}

	peer := &fakePeer{id: "p1"}
	pool.dispatch(Envelope{Message: Blocks{Blocks: []block.Block{b}}, Peer: peer})

	if pool.chain.Has(b.ID()) {
		t.Fatal("block failing the tip-difficulty PoW check must be discarded")
	}
}

func TestMessageEncodeDecodeRoundTrip(t *testing.T) {
	orig := NewBlockHashes{Hashes: []hash.Hash256{genesis.ID()}}
	data, err := Encode(orig)
	if err != nil {
		t.Fatalf("Encode: %s", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %s", err)
	}
	got, ok := decoded.(NewBlockHashes)
	if !ok || len(got.Hashes) != 1 || got.Hashes[0] != genesis.ID() {
		t.Fatalf("round trip mismatch: got %#v", decoded)
	}
}
