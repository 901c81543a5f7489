package hash

import (
	"encoding/json"
	"testing"
)

func TestHash256HexRoundTrip(t *testing.T) {
	h := Sum256([]byte("block header bytes"))

	s := h.String()
	got, err := FromHex(s)
	if err != nil {
		t.Fatalf("FromHex(%q): %s", s, err)
	}
	if got != h {
		t.Fatalf("FromHex(String()) = %s, want %s", got, h)
	}
}

func TestHash256JSONRoundTrip(t *testing.T) {
	h := Sum256([]byte("payload"))

	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal: %s", err)
	}

	var got Hash256
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %s", err)
	}
	if got != h {
		t.Fatalf("round trip = %s, want %s", got, h)
	}
}

func TestFromHexRejectsWrongLength(t *testing.T) {
	if _, err := FromHex("0x0102"); err == nil {
		t.Fatal("FromHex accepted a short hex string")
	}
}

func TestLessOrEqual(t *testing.T) {
	low := Hash256{0x00, 0x01}
	high := Hash256{0x01, 0x00}

	if !low.LessOrEqual(high) {
		t.Fatal("low.LessOrEqual(high) = false, want true")
	}
	if high.LessOrEqual(low) {
		t.Fatal("high.LessOrEqual(low) = true, want false")
	}
	if !low.LessOrEqual(low) {
		t.Fatal("low.LessOrEqual(low) = false, want true")
	}
}

func TestIsZero(t *testing.T) {
	if !ZeroHash256.IsZero() {
		t.Fatal("ZeroHash256.IsZero() = false")
	}
	if Sum256([]byte("x")).IsZero() {
		t.Fatal("non-zero hash reported as zero")
	}
}

func TestAddressFromPublicKeyIsDeterministic(t *testing.T) {
	pub := []byte("a fake 32-byte ed25519 public key!!")

	a1 := AddressFromPublicKey(pub)
	a2 := AddressFromPublicKey(pub)
	if a1 != a2 {
		t.Fatal("AddressFromPublicKey is not deterministic")
	}

	other := AddressFromPublicKey([]byte("a different public key............"))
	if a1 == other {
		t.Fatal("two distinct public keys produced the same address")
	}
}

func TestAddressHexRoundTrip(t *testing.T) {
	a := AddressFromPublicKey([]byte("some public key bytes"))

	got, err := AddressFromHex(a.String())
	if err != nil {
		t.Fatalf("AddressFromHex(%q): %s", a.String(), err)
	}
	if got != a {
		t.Fatalf("round trip = %s, want %s", got, a)
	}
}

func TestAddressFromBytesRejectsWrongLength(t *testing.T) {
	if _, err := AddressFromBytes([]byte{0x01, 0x02, 0x03}); err == nil {
		t.Fatal("AddressFromBytes accepted a short slice")
	}
}
