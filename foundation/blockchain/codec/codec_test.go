package codec

import (
	"bytes"
	"testing"

	"github.com/qcbit/powchain/foundation/blockchain/hash"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	h := hash.Sum256([]byte("header"))
	addr := hash.AddressFromPublicKey([]byte("pub key"))

	w := NewWriter()
	w.WriteByte(0x07)
	w.WriteUint32(42)
	w.WriteUint64(1 << 40)
	w.WriteTimestamp(1_700_000_000_000)
	w.WriteHash256(h)
	w.WriteAddress(addr)
	w.WriteFixedBytes([]byte("fixed"))
	w.WriteVarBytes([]byte("variable length"))

	r := NewReader(w.Bytes())

	tag, err := r.ReadByte()
	if err != nil || tag != 0x07 {
		t.Fatalf("ReadByte = %v, %v, want 0x07, nil", tag, err)
	}
	u32, err := r.ReadUint32()
	if err != nil || u32 != 42 {
		t.Fatalf("ReadUint32 = %v, %v, want 42, nil", u32, err)
	}
	u64, err := r.ReadUint64()
	if err != nil || u64 != 1<<40 {
		t.Fatalf("ReadUint64 = %v, %v, want %d, nil", u64, err, uint64(1)<<40)
	}
	ts, err := r.ReadTimestamp()
	if err != nil || ts != 1_700_000_000_000 {
		t.Fatalf("ReadTimestamp = %v, %v, want 1700000000000, nil", ts, err)
	}
	gotHash, err := r.ReadHash256()
	if err != nil || gotHash != h {
		t.Fatalf("ReadHash256 = %v, %v, want %s, nil", gotHash, err, h)
	}
	gotAddr, err := r.ReadAddress()
	if err != nil || gotAddr != addr {
		t.Fatalf("ReadAddress = %v, %v, want %s, nil", gotAddr, err, addr)
	}
	fixed, err := r.ReadFixedBytes(5)
	if err != nil || !bytes.Equal(fixed, []byte("fixed")) {
		t.Fatalf("ReadFixedBytes = %v, %v, want %q, nil", fixed, err, "fixed")
	}
	variable, err := r.ReadVarBytes()
	if err != nil || !bytes.Equal(variable, []byte("variable length")) {
		t.Fatalf("ReadVarBytes = %v, %v, want %q, nil", variable, err, "variable length")
	}

	if r.Remaining() != 0 {
		t.Fatalf("Remaining = %d, want 0", r.Remaining())
	}
}

func TestReadFailsOnShortInput(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	if _, err := r.ReadUint64(); err == nil {
		t.Fatal("ReadUint64 succeeded on a 2-byte input")
	}
}

func TestWriteTimestampZerosTopBytes(t *testing.T) {
	w := NewWriter()
	w.WriteTimestamp(1)
	b := w.Bytes()

	if len(b) != 16 {
		t.Fatalf("timestamp field length = %d, want 16", len(b))
	}
	for i := 0; i < 8; i++ {
		if b[i] != 0 {
			t.Fatalf("top byte %d = %#x, want 0", i, b[i])
		}
	}
}
