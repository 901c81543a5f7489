// Package signature handles all lower level support for signing and
// verifying transactions. The signing primitive itself (Ed25519) is treated
// as an opaque black box: this package never manipulates key material beyond
// handing it to crypto/ed25519.
package signature

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
)

// ErrInvalidSignature is returned when a signature does not verify against
// the given public key and message.
var ErrInvalidSignature = errors.New("signature: invalid signature")

// ErrInvalidPublicKey is returned when a public key is not the expected
// ed25519.PublicKeySize.
var ErrInvalidPublicKey = errors.New("signature: invalid public key length")

// KeyPair is an Ed25519 signing identity.
type KeyPair struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// GenerateKeyPair creates a fresh random Ed25519 key pair.
func GenerateKeyPair() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{Public: pub, Private: priv}, nil
}

// Sign signs message with the key pair's private key.
func (kp KeyPair) Sign(message []byte) []byte {
	return ed25519.Sign(kp.Private, message)
}

// Verify reports whether sig is a valid Ed25519 signature over message under
// publicKey.
func Verify(publicKey, message, sig []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(publicKey, message, sig)
}

// VerifyOrError is Verify but returns a sentinel error instead of a bool, for
// call sites that want to wrap the failure with %w.
func VerifyOrError(publicKey, message, sig []byte) error {
	if len(publicKey) != ed25519.PublicKeySize {
		return ErrInvalidPublicKey
	}
	if !ed25519.Verify(publicKey, message, sig) {
		return ErrInvalidSignature
	}
	return nil
}
