// Package hash provides the fixed-width identifier types used throughout the
// blockchain: 32-byte content/difficulty hashes and 20-byte account addresses.
package hash

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Hash256 is a 32-byte SHA-256 digest. It is compared as an unsigned
// big-endian integer, which is exactly what a byte-wise comparison of two
// fixed-width big-endian arrays gives us.
type Hash256 [32]byte

// ZeroHash256 is the all-zero hash, used as the genesis parent placeholder
// and as the merkle root of an empty transaction list.
var ZeroHash256 Hash256

// Sum256 returns the SHA-256 digest of data as a Hash256.
func Sum256(data []byte) Hash256 {
	return Hash256(sha256.Sum256(data))
}

// Bytes returns the raw 32 bytes of the hash.
func (h Hash256) Bytes() []byte {
	return h[:]
}

// String returns the 0x-prefixed hex encoding of the hash.
func (h Hash256) String() string {
	return hexutil.Encode(h[:])
}

// MarshalJSON implements json.Marshaler using the 0x-prefixed hex form.
func (h Hash256) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON implements json.Unmarshaler from the 0x-prefixed hex form.
func (h *Hash256) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := FromHex(s)
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// LessOrEqual reports whether h, interpreted as an unsigned big-endian
// integer, is less than or equal to target. Used for the PoW difficulty
// check: a block id is valid iff id <= difficulty target.
func (h Hash256) LessOrEqual(target Hash256) bool {
	return bytes.Compare(h[:], target[:]) <= 0
}

// IsZero reports whether h is the all-zero hash.
func (h Hash256) IsZero() bool {
	return h == ZeroHash256
}

// FromHex parses a 0x-prefixed hex string into a Hash256.
func FromHex(s string) (Hash256, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return Hash256{}, err
	}
	if len(b) != 32 {
		return Hash256{}, errors.New("hash: wrong length, want 32 bytes")
	}
	var h Hash256
	copy(h[:], b)
	return h, nil
}

// FromBytes copies b into a new Hash256. b must be exactly 32 bytes.
func FromBytes(b []byte) (Hash256, error) {
	if len(b) != 32 {
		return Hash256{}, errors.New("hash: wrong length, want 32 bytes")
	}
	var h Hash256
	copy(h[:], b)
	return h, nil
}

// ----------------------------------------------------------------------------

// Address is a 20-byte account identifier: the last 20 bytes of the SHA-256
// of the account's public key.
type Address [20]byte

// ZeroAddress is the all-zero address.
var ZeroAddress Address

// AddressFromPublicKey derives the Address bound to a public key: the last
// 20 bytes of SHA-256(pubKeyBytes).
func AddressFromPublicKey(pubKey []byte) Address {
	sum := sha256.Sum256(pubKey)
	var a Address
	copy(a[:], sum[len(sum)-20:])
	return a
}

// Bytes returns the raw 20 bytes of the address.
func (a Address) Bytes() []byte {
	return a[:]
}

// String returns the 0x-prefixed hex encoding of the address.
func (a Address) String() string {
	return hexutil.Encode(a[:])
}

// MarshalJSON implements json.Marshaler using the 0x-prefixed hex form.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON implements json.Unmarshaler from the 0x-prefixed hex form.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := AddressFromHex(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// AddressFromHex parses a 0x-prefixed hex string into an Address.
func AddressFromHex(s string) (Address, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return Address{}, err
	}
	if len(b) != 20 {
		return Address{}, errors.New("hash: wrong length, want 20 bytes")
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// AddressFromBytes copies b into a new Address. b must be exactly 20 bytes.
func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != 20 {
		return Address{}, errors.New("hash: wrong length, want 20 bytes")
	}
	var a Address
	copy(a[:], b)
	return a, nil
}
