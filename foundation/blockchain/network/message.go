// Package network implements the peer-to-peer wire message set, the
// bounded worker pool that reacts to inbound (message, peer) pairs, and the
// block-admission critical section (orphan buffering and reattachment).
package network

import (
	"errors"

	"github.com/qcbit/powchain/foundation/blockchain/block"
	"github.com/qcbit/powchain/foundation/blockchain/codec"
	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/transaction"
)

// Tag discriminates the wire message set. Values are part of the stable
// wire format and must never be renumbered.
type Tag byte

const (
	TagPing Tag = iota
	TagPong
	TagNewBlockHashes
	TagGetBlocks
	TagBlocks
	TagNewTransactionHashes
	TagGetTransactions
	TagTransactions
)

// Message is any of the eight wire message variants. Each concrete type's
// Tag method identifies which.
type Message interface {
	Tag() Tag
}

// Ping is a liveness probe carrying an opaque nonce string.
type Ping struct{ Nonce string }

// Pong answers a Ping with the same nonce.
type Pong struct{ Nonce string }

// NewBlockHashes advertises block ids the sender has.
type NewBlockHashes struct{ Hashes []hash.Hash256 }

// GetBlocks requests the full blocks for the given ids.
type GetBlocks struct{ Hashes []hash.Hash256 }

// Blocks answers a GetBlocks (or unsolicited-pushes new blocks).
type Blocks struct{ Blocks []block.Block }

// NewTransactionHashes advertises transaction ids the sender has.
type NewTransactionHashes struct{ Hashes []hash.Hash256 }

// GetTransactions requests the full transactions for the given ids.
type GetTransactions struct{ Hashes []hash.Hash256 }

// Transactions answers a GetTransactions.
type Transactions struct{ Transactions []transaction.SignedTransaction }

func (Ping) Tag() Tag                 { return TagPing }
func (Pong) Tag() Tag                 { return TagPong }
func (NewBlockHashes) Tag() Tag       { return TagNewBlockHashes }
func (GetBlocks) Tag() Tag            { return TagGetBlocks }
func (Blocks) Tag() Tag               { return TagBlocks }
func (NewTransactionHashes) Tag() Tag { return TagNewTransactionHashes }
func (GetTransactions) Tag() Tag      { return TagGetTransactions }
func (Transactions) Tag() Tag         { return TagTransactions }

// ErrUnknownTag is returned by Decode for a tag byte outside the known set.
var ErrUnknownTag = errors.New("network: unknown message tag")

// Encode produces the wire encoding of msg: a leading tag byte followed by
// the variant's own fields, via the shared canonical codec.
func Encode(msg Message) ([]byte, error) {
	w := codec.NewWriter()
	w.WriteByte(byte(msg.Tag()))

	switch m := msg.(type) {
	case Ping:
		w.WriteVarBytes([]byte(m.Nonce))
	case Pong:
		w.WriteVarBytes([]byte(m.Nonce))
	case NewBlockHashes:
		writeHashes(w, m.Hashes)
	case GetBlocks:
		writeHashes(w, m.Hashes)
	case Blocks:
		w.WriteUint32(uint32(len(m.Blocks)))
		for _, b := range m.Blocks {
			w.WriteVarBytes(b.Encode())
		}
	case NewTransactionHashes:
		writeHashes(w, m.Hashes)
	case GetTransactions:
		writeHashes(w, m.Hashes)
	case Transactions:
		w.WriteUint32(uint32(len(m.Transactions)))
		for _, stx := range m.Transactions {
			stxBytes, err := stx.Encode()
			if err != nil {
				return nil, err
			}
			w.WriteVarBytes(stxBytes)
		}
	default:
		return nil, ErrUnknownTag
	}

	return w.Bytes(), nil
}

// Decode parses a wire-encoded message produced by Encode.
func Decode(data []byte) (Message, error) {
	r := codec.NewReader(data)

	tagByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	switch Tag(tagByte) {
	case TagPing:
		nonce, err := readString(r)
		if err != nil {
			return nil, err
		}
		return Ping{Nonce: nonce}, nil

	case TagPong:
		nonce, err := readString(r)
		if err != nil {
			return nil, err
		}
		return Pong{Nonce: nonce}, nil

	case TagNewBlockHashes:
		hs, err := readHashes(r)
		if err != nil {
			return nil, err
		}
		return NewBlockHashes{Hashes: hs}, nil

	case TagGetBlocks:
		hs, err := readHashes(r)
		if err != nil {
			return nil, err
		}
		return GetBlocks{Hashes: hs}, nil

	case TagBlocks:
		n, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		blocks := make([]block.Block, 0, n)
		for i := uint32(0); i < n; i++ {
			raw, err := r.ReadVarBytes()
			if err != nil {
				return nil, err
			}
			b, err := block.Decode(codec.NewReader(raw))
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, b)
		}
		return Blocks{Blocks: blocks}, nil

	case TagNewTransactionHashes:
		hs, err := readHashes(r)
		if err != nil {
			return nil, err
		}
		return NewTransactionHashes{Hashes: hs}, nil

	case TagGetTransactions:
		hs, err := readHashes(r)
		if err != nil {
			return nil, err
		}
		return GetTransactions{Hashes: hs}, nil

	case TagTransactions:
		n, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		txs := make([]transaction.SignedTransaction, 0, n)
		for i := uint32(0); i < n; i++ {
			raw, err := r.ReadVarBytes()
			if err != nil {
				return nil, err
			}
			stx, err := transaction.DecodeSigned(codec.NewReader(raw))
			if err != nil {
				return nil, err
			}
			txs = append(txs, stx)
		}
		return Transactions{Transactions: txs}, nil

	default:
		return nil, ErrUnknownTag
	}
}

func writeHashes(w *codec.Writer, hs []hash.Hash256) {
	w.WriteUint32(uint32(len(hs)))
	for _, h := range hs {
		w.WriteHash256(h)
	}
}

func readHashes(r *codec.Reader) ([]hash.Hash256, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	hs := make([]hash.Hash256, 0, n)
	for i := uint32(0); i < n; i++ {
		h, err := r.ReadHash256()
		if err != nil {
			return nil, err
		}
		hs = append(hs, h)
	}
	return hs, nil
}

func readString(r *codec.Reader) (string, error) {
	b, err := r.ReadVarBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
