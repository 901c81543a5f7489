package mempool

import (
	"testing"

	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/signature"
	"github.com/qcbit/powchain/foundation/blockchain/transaction"
)

func testSignedTx(t *testing.T, nonce uint32) transaction.SignedTransaction {
	t.Helper()
	kp, err := signature.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %s", err)
	}
	sender := hash.AddressFromPublicKey(kp.Public)
	receiver := hash.AddressFromPublicKey([]byte("receiver"))
	tx := transaction.New(sender, nonce, receiver, 10)
	return tx.Sign(kp)
}

func TestInsertGetContains(t *testing.T) {
	m := New()
	stx := testSignedTx(t, 1)

	h, err := m.Insert(stx)
	if err != nil {
		t.Fatalf("Insert: %s", err)
	}

	if !m.Contains(h) {
		t.Fatal("Contains = false after Insert")
	}
	got, ok := m.Get(h)
	if !ok {
		t.Fatal("Get: not found after Insert")
	}
	if got.Transaction != stx.Transaction {
		t.Fatalf("Get returned %+v, want %+v", got.Transaction, stx.Transaction)
	}
	if m.Count() != 1 {
		t.Fatalf("Count = %d, want 1", m.Count())
	}
}

func TestInsertIsIdempotent(t *testing.T) {
	m := New()
	stx := testSignedTx(t, 1)

	h1, err := m.Insert(stx)
	if err != nil {
		t.Fatalf("Insert: %s", err)
	}
	h2, err := m.Insert(stx)
	if err != nil {
		t.Fatalf("Insert: %s", err)
	}
	if h1 != h2 {
		t.Fatal("re-inserting the same transaction produced a different hash")
	}
	if m.Count() != 1 {
		t.Fatalf("Count = %d, want 1 after duplicate insert", m.Count())
	}
}

func TestRemove(t *testing.T) {
	m := New()
	stx := testSignedTx(t, 1)
	h, _ := m.Insert(stx)

	m.Remove(h)
	if m.Contains(h) {
		t.Fatal("Contains = true after Remove")
	}

	m.Remove(h) // no-op, must not panic
}

func TestDrainEmptiesMempool(t *testing.T) {
	m := New()
	m.Insert(testSignedTx(t, 1))
	m.Insert(testSignedTx(t, 2))

	drained := m.Drain()
	if len(drained) != 2 {
		t.Fatalf("Drain returned %d transactions, want 2", len(drained))
	}
	if m.Count() != 0 {
		t.Fatalf("Count after Drain = %d, want 0", m.Count())
	}
}

func TestHarvestIfAtLeast(t *testing.T) {
	m := New()
	m.Insert(testSignedTx(t, 1))

	if out := m.HarvestIfAtLeast(2); out != nil {
		t.Fatalf("HarvestIfAtLeast(2) = %v, want nil with only 1 transaction held", out)
	}
	if m.Count() != 1 {
		t.Fatal("HarvestIfAtLeast drained the mempool despite being below threshold")
	}

	m.Insert(testSignedTx(t, 2))
	out := m.HarvestIfAtLeast(2)
	if len(out) != 2 {
		t.Fatalf("HarvestIfAtLeast(2) returned %d transactions, want 2", len(out))
	}
	if m.Count() != 0 {
		t.Fatal("mempool not drained after a successful HarvestIfAtLeast")
	}
}

func TestRemoveAll(t *testing.T) {
	m := New()
	stx1 := testSignedTx(t, 1)
	stx2 := testSignedTx(t, 2)
	m.Insert(stx1)
	m.Insert(stx2)

	m.RemoveAll([]transaction.SignedTransaction{stx1})
	if m.Count() != 1 {
		t.Fatalf("Count = %d, want 1 after RemoveAll of one transaction", m.Count())
	}
	h2, _ := stx2.Hash()
	if !m.Contains(h2) {
		t.Fatal("RemoveAll removed a transaction that was not in its list")
	}
}

func TestLockUnlockNoLockVariants(t *testing.T) {
	m := New()
	stx := testSignedTx(t, 1)

	m.Lock()
	h, err := m.InsertNoLock(stx)
	if err != nil {
		m.Unlock()
		t.Fatalf("InsertNoLock: %s", err)
	}
	if !m.ContainsNoLock(h) {
		m.Unlock()
		t.Fatal("ContainsNoLock = false after InsertNoLock")
	}
	got, ok := m.GetNoLock(h)
	if !ok || got.Transaction != stx.Transaction {
		m.Unlock()
		t.Fatal("GetNoLock did not return the inserted transaction")
	}
	m.RemoveNoLock(h)
	if m.ContainsNoLock(h) {
		m.Unlock()
		t.Fatal("ContainsNoLock = true after RemoveNoLock")
	}
	m.Unlock()
}
