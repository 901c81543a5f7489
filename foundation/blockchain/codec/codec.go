// Package codec implements the stable binary encoding peers use to exchange
// transactions, block headers, and wire messages. The encoding must be
// byte-identical across every node: fixed-width integers, length-prefixed
// byte sequences, and a tag-discriminated enum for the message set. The
// genesis block id is a constant computed under this exact scheme, so the
// layout here can never change without changing that constant.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/qcbit/powchain/foundation/blockchain/hash"
)

// byteOrder is the fixed integer encoding used by every node. The choice
// itself is arbitrary; what matters is that it is the same one used to
// derive the genesis hash.
var byteOrder = binary.BigEndian

// Writer accumulates a canonical byte encoding.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated encoding.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// WriteByte writes a single tag or flag byte.
func (w *Writer) WriteByte(b byte) {
	w.buf.WriteByte(b)
}

// WriteUint32 writes a fixed-width 32-bit unsigned integer.
func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	byteOrder.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// WriteUint64 writes a fixed-width 64-bit unsigned integer.
func (w *Writer) WriteUint64(v uint64) {
	var b [8]byte
	byteOrder.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// WriteTimestamp writes a millisecond timestamp as a fixed 16-byte field,
// matching the u128-milliseconds-since-epoch header field used on the wire.
// The top 8 bytes are always zero: no representable wall-clock timestamp
// needs the extra width, but the field stays 16 bytes wide for wire
// compatibility.
func (w *Writer) WriteTimestamp(ms uint64) {
	var b [16]byte
	byteOrder.PutUint64(b[8:], ms)
	w.buf.Write(b[:])
}

// WriteHash256 writes a fixed 32-byte hash.
func (w *Writer) WriteHash256(h hash.Hash256) {
	w.buf.Write(h[:])
}

// WriteAddress writes a fixed 20-byte address.
func (w *Writer) WriteAddress(a hash.Address) {
	w.buf.Write(a[:])
}

// WriteFixedBytes writes raw bytes with no length prefix; the caller is
// responsible for the field always being exactly n bytes (e.g. an Ed25519
// signature or public key).
func (w *Writer) WriteFixedBytes(b []byte) {
	w.buf.Write(b)
}

// WriteVarBytes writes a length-prefixed (uint32) byte sequence.
func (w *Writer) WriteVarBytes(b []byte) {
	w.WriteUint32(uint32(len(b)))
	w.buf.Write(b)
}

// ----------------------------------------------------------------------------

// Reader consumes a canonical byte encoding produced by Writer.
type Reader struct {
	r *bytes.Reader
}

// NewReader wraps data for sequential decoding.
func NewReader(data []byte) *Reader {
	return &Reader{r: bytes.NewReader(data)}
}

// ReadByte reads a single tag or flag byte.
func (r *Reader) ReadByte() (byte, error) {
	return r.r.ReadByte()
}

// ReadUint32 reads a fixed-width 32-bit unsigned integer.
func (r *Reader) ReadUint32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, err
	}
	return byteOrder.Uint32(b[:]), nil
}

// ReadUint64 reads a fixed-width 64-bit unsigned integer.
func (r *Reader) ReadUint64() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, err
	}
	return byteOrder.Uint64(b[:]), nil
}

// ReadTimestamp reads the 16-byte millisecond timestamp field.
func (r *Reader) ReadTimestamp() (uint64, error) {
	var b [16]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, err
	}
	return byteOrder.Uint64(b[8:]), nil
}

// ReadHash256 reads a fixed 32-byte hash.
func (r *Reader) ReadHash256() (hash.Hash256, error) {
	var h hash.Hash256
	if _, err := io.ReadFull(r.r, h[:]); err != nil {
		return hash.Hash256{}, err
	}
	return h, nil
}

// ReadAddress reads a fixed 20-byte address.
func (r *Reader) ReadAddress() (hash.Address, error) {
	var a hash.Address
	if _, err := io.ReadFull(r.r, a[:]); err != nil {
		return hash.Address{}, err
	}
	return a, nil
}

// ReadFixedBytes reads exactly n raw bytes.
func (r *Reader) ReadFixedBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ReadVarBytes reads a length-prefixed (uint32) byte sequence.
func (r *Reader) ReadVarBytes() ([]byte, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	return r.ReadFixedBytes(int(n))
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return r.r.Len()
}

// ErrTrailingBytes is the error for a decode that leaves unconsumed input.
// The Reader methods never return it themselves.
var ErrTrailingBytes = errors.New("codec: trailing bytes after decode")
