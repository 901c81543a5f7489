// Package block implements the block header, block content, and the
// block-id derivation (SHA-256 of the canonical header encoding).
package block

import (
	"github.com/qcbit/powchain/foundation/blockchain/codec"
	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/merkle"
	"github.com/qcbit/powchain/foundation/blockchain/transaction"
)

// Header carries everything needed to compute a block's id and validate its
// proof of work, independent of its content.
type Header struct {
	Parent     hash.Hash256 `json:"parent"`
	Nonce      uint32       `json:"nonce"`
	Difficulty hash.Hash256 `json:"difficulty"`
	Timestamp  uint64       `json:"timestamp"` // milliseconds since epoch
	MerkleRoot hash.Hash256 `json:"merkle_root"`
}

// Encode produces the canonical byte encoding of the header: the bytes
// hashed to produce the block id.
func (h Header) Encode() []byte {
	w := codec.NewWriter()
	w.WriteHash256(h.Parent)
	w.WriteUint32(h.Nonce)
	w.WriteHash256(h.Difficulty)
	w.WriteTimestamp(h.Timestamp)
	w.WriteHash256(h.MerkleRoot)
	return w.Bytes()
}

// ID returns the block id: SHA-256 of the header's canonical encoding.
func (h Header) ID() hash.Hash256 {
	return hash.Sum256(h.Encode())
}

// ----------------------------------------------------------------------------

// Block is a header plus the ordered list of signed transactions whose
// merkle root the header records.
type Block struct {
	Header  Header
	Content []transaction.SignedTransaction
}

// New builds a Block from a parent id, difficulty target, nonce, timestamp
// and transaction list, computing the merkle root over the content.
func New(parent hash.Hash256, difficulty hash.Hash256, nonce uint32, timestampMS uint64, content []transaction.SignedTransaction) (Block, error) {
	tree, err := merkle.NewTree(content)
	if err != nil {
		return Block{}, err
	}

	return Block{
		Header: Header{
			Parent:     parent,
			Nonce:      nonce,
			Difficulty: difficulty,
			Timestamp:  timestampMS,
			MerkleRoot: tree.Root(),
		},
		Content: content,
	}, nil
}

// ID returns the block's id (its header hash).
func (b Block) ID() hash.Hash256 {
	return b.Header.ID()
}

// ValidPoW reports whether the block's id, interpreted as a big-endian
// integer, is at most the header's recorded difficulty target.
func (b Block) ValidPoW() bool {
	return b.ID().LessOrEqual(b.Header.Difficulty)
}

// MerkleRootMatches reports whether the header's merkle root equals the
// root computed over Content.
func (b Block) MerkleRootMatches() (bool, error) {
	tree, err := merkle.NewTree(b.Content)
	if err != nil {
		return false, err
	}
	return tree.Root() == b.Header.MerkleRoot, nil
}

// Encode produces the wire encoding of the full block: the header followed
// by a length-prefixed list of signed transactions.
func (b Block) Encode() []byte {
	w := codec.NewWriter()
	w.WriteFixedBytes(b.Header.Encode())
	w.WriteUint32(uint32(len(b.Content)))
	for _, stx := range b.Content {
		stxBytes, _ := stx.Encode() // content was already validated by AllSignaturesValid at admission
		w.WriteFixedBytes(stxBytes)
	}
	return w.Bytes()
}

// Decode reads a Block from r in the exact layout Encode writes.
func Decode(r *codec.Reader) (Block, error) {
	headerBytes, err := r.ReadFixedBytes(headerSize)
	if err != nil {
		return Block{}, err
	}
	hr := codec.NewReader(headerBytes)

	var h Header
	if h.Parent, err = hr.ReadHash256(); err != nil {
		return Block{}, err
	}
	if h.Nonce, err = hr.ReadUint32(); err != nil {
		return Block{}, err
	}
	if h.Difficulty, err = hr.ReadHash256(); err != nil {
		return Block{}, err
	}
	if h.Timestamp, err = hr.ReadTimestamp(); err != nil {
		return Block{}, err
	}
	if h.MerkleRoot, err = hr.ReadHash256(); err != nil {
		return Block{}, err
	}

	n, err := r.ReadUint32()
	if err != nil {
		return Block{}, err
	}

	content := make([]transaction.SignedTransaction, 0, n)
	for i := uint32(0); i < n; i++ {
		stx, err := transaction.DecodeSigned(r)
		if err != nil {
			return Block{}, err
		}
		content = append(content, stx)
	}

	return Block{Header: h, Content: content}, nil
}

// headerSize is the exact byte width of Header.Encode's output: three
// 32-byte hashes, one 4-byte nonce, and one 16-byte timestamp.
const headerSize = 32 + 4 + 32 + 16 + 32

// AllSignaturesValid reports whether every transaction in Content carries a
// valid Ed25519 signature over its own unsigned encoding.
func (b Block) AllSignaturesValid() bool {
	for _, tx := range b.Content {
		if !tx.VerifySignature() {
			return false
		}
	}
	return true
}
