package merkle

import (
	"testing"

	"github.com/qcbit/powchain/foundation/blockchain/hash"
)

// rawLeaf is a Hashable wrapper around a raw 32-byte value; its leaf hash is
// the SHA-256 of those 32 bytes (mirrors the reference implementation's
// tests, which feed raw H256 values into the tree and hash each one).
type rawLeaf hash.Hash256

func (l rawLeaf) Hash() (hash.Hash256, error) {
	return hash.Sum256(l[:]), nil
}

func mustHex(t *testing.T, s string) hash.Hash256 {
	t.Helper()
	h, err := hash.FromHex(s)
	if err != nil {
		t.Fatalf("bad test hex %q: %s", s, err)
	}
	return h
}

func testLeaves(t *testing.T) []rawLeaf {
	return []rawLeaf{
		rawLeaf(mustHex(t, "0x0a0b0c0d0e0f0e0d0a0b0c0d0e0f0e0d0a0b0c0d0e0f0e0d0a0b0c0d0e0f0e0d")),
		rawLeaf(mustHex(t, "0x0101010101010101010101010101010101010101010101010101010101010202")),
	}
}

func TestTreeRootE1(t *testing.T) {
	leaves := testLeaves(t)

	tree, err := NewTree(leaves)
	if err != nil {
		t.Fatalf("NewTree: %s", err)
	}

	want := mustHex(t, "0x6b787718210e0b3b608814e04e61fde06d0df794319a12162f287412df3ec920")
	if tree.Root() != want {
		t.Fatalf("root = %s, want %s", tree.Root(), want)
	}
}

func TestTreeProofE2(t *testing.T) {
	leaves := testLeaves(t)

	tree, err := NewTree(leaves)
	if err != nil {
		t.Fatalf("NewTree: %s", err)
	}

	proof, err := tree.Proof(0)
	if err != nil {
		t.Fatalf("Proof: %s", err)
	}
	if len(proof) != 1 {
		t.Fatalf("proof length = %d, want 1", len(proof))
	}

	want := mustHex(t, "0x965b093a75a75895a351786dd7a188515173f6928a8af8c9baa4dcff268a4f0f")
	if proof[0] != want {
		t.Fatalf("proof[0] = %s, want %s", proof[0], want)
	}

	leafHash, _ := leaves[0].Hash()
	if !Verify(tree.Root(), leafHash, proof, 0, len(leaves)) {
		t.Fatal("Verify returned false for valid proof")
	}
}

func TestEmptyTreeRootIsZero(t *testing.T) {
	tree, err := NewTree[rawLeaf](nil)
	if err != nil {
		t.Fatalf("NewTree: %s", err)
	}
	if tree.Root() != hash.ZeroHash256 {
		t.Fatalf("empty tree root = %s, want zero hash", tree.Root())
	}
}

func TestProofRoundTripOddLength(t *testing.T) {
	var leaves []rawLeaf
	for i := 0; i < 5; i++ {
		var h hash.Hash256
		h[0] = byte(i + 1)
		leaves = append(leaves, rawLeaf(h))
	}

	tree, err := NewTree(leaves)
	if err != nil {
		t.Fatalf("NewTree: %s", err)
	}

	for i, leaf := range leaves {
		proof, err := tree.Proof(i)
		if err != nil {
			t.Fatalf("Proof(%d): %s", i, err)
		}
		leafHash, _ := leaf.Hash()
		if !Verify(tree.Root(), leafHash, proof, i, len(leaves)) {
			t.Fatalf("Verify failed for leaf %d", i)
		}
	}
}
