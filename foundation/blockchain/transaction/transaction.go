// Package transaction implements the value-transfer transaction type, its
// canonical encoding, and Ed25519 signing/verification over that encoding.
package transaction

import (
	"crypto/ed25519"
	"errors"

	"github.com/qcbit/powchain/foundation/blockchain/codec"
	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/signature"
)

// Transaction is an unsigned value transfer.
type Transaction struct {
	Sender   hash.Address `json:"sender"`
	AccNonce uint32       `json:"acc_nonce"`
	Receiver hash.Address `json:"receiver"`
	Value    uint32       `json:"value"`
}

// New constructs a Transaction.
func New(sender hash.Address, accNonce uint32, receiver hash.Address, value uint32) Transaction {
	return Transaction{
		Sender:   sender,
		AccNonce: accNonce,
		Receiver: receiver,
		Value:    value,
	}
}

// Encode produces the canonical byte encoding of the unsigned transaction:
// fixed field order, fixed integer widths. This is exactly what gets signed
// and hashed.
func (tx Transaction) Encode() []byte {
	w := codec.NewWriter()
	w.WriteAddress(tx.Sender)
	w.WriteUint32(tx.AccNonce)
	w.WriteAddress(tx.Receiver)
	w.WriteUint32(tx.Value)
	return w.Bytes()
}

// Decode reads a Transaction from r in the exact field order Encode writes.
func Decode(r *codec.Reader) (Transaction, error) {
	var tx Transaction
	var err error

	if tx.Sender, err = r.ReadAddress(); err != nil {
		return Transaction{}, err
	}
	if tx.AccNonce, err = r.ReadUint32(); err != nil {
		return Transaction{}, err
	}
	if tx.Receiver, err = r.ReadAddress(); err != nil {
		return Transaction{}, err
	}
	if tx.Value, err = r.ReadUint32(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Sign signs the transaction's canonical encoding with kp, producing a
// SignedTransaction. The signer's public key need not correspond to Sender,
// and nothing here checks that it does; State.Check does not check it either
// (see §9 of the design notes on the transaction generator's ephemeral keys).
func (tx Transaction) Sign(kp signature.KeyPair) SignedTransaction {
	sig := kp.Sign(tx.Encode())
	return SignedTransaction{
		Transaction: tx,
		Signature:   sig,
		PublicKey:   append([]byte(nil), kp.Public...),
	}
}

// ----------------------------------------------------------------------------

// SignedTransaction pairs a Transaction with the signature and public key
// that produced it.
type SignedTransaction struct {
	Transaction Transaction `json:"transaction"`
	Signature   []byte      `json:"signature"`
	PublicKey   []byte      `json:"public_key"`
}

// ErrBadSignatureLength is returned when a decoded signature or public key is
// not the Ed25519-fixed length expected.
var ErrBadSignatureLength = errors.New("transaction: signature or public key has wrong length")

// Encode produces the canonical byte encoding of the full signed record:
// the unsigned transaction encoding followed by fixed-width signature and
// public key fields. This is what gets hashed for the transaction's id.
func (stx SignedTransaction) Encode() ([]byte, error) {
	if len(stx.Signature) != ed25519.SignatureSize || len(stx.PublicKey) != ed25519.PublicKeySize {
		return nil, ErrBadSignatureLength
	}

	w := codec.NewWriter()
	w.WriteFixedBytes(stx.Transaction.Encode())
	w.WriteFixedBytes(stx.Signature)
	w.WriteFixedBytes(stx.PublicKey)
	return w.Bytes(), nil
}

// DecodeSigned reads a SignedTransaction from r: the fixed 48-byte unsigned
// transaction encoding, followed by the fixed-width Ed25519 signature and
// public key fields.
func DecodeSigned(r *codec.Reader) (SignedTransaction, error) {
	txBytes, err := r.ReadFixedBytes(unsignedTxSize)
	if err != nil {
		return SignedTransaction{}, err
	}
	tx, err := Decode(codec.NewReader(txBytes))
	if err != nil {
		return SignedTransaction{}, err
	}

	sig, err := r.ReadFixedBytes(ed25519.SignatureSize)
	if err != nil {
		return SignedTransaction{}, err
	}
	pub, err := r.ReadFixedBytes(ed25519.PublicKeySize)
	if err != nil {
		return SignedTransaction{}, err
	}

	return SignedTransaction{Transaction: tx, Signature: sig, PublicKey: pub}, nil
}

// unsignedTxSize is the exact byte width of Transaction.Encode's output:
// two 20-byte addresses and two 4-byte integers.
const unsignedTxSize = 20 + 4 + 20 + 4

// Hash returns the SHA-256 digest of the signed transaction's canonical
// encoding: its identity on the wire and in the mempool.
func (stx SignedTransaction) Hash() (hash.Hash256, error) {
	data, err := stx.Encode()
	if err != nil {
		return hash.Hash256{}, err
	}
	return hash.Sum256(data), nil
}

// VerifySignature reports whether Signature is a valid Ed25519 signature by
// PublicKey over the unsigned transaction's canonical encoding. It does not
// check that PublicKey corresponds to Transaction.Sender; that binding is
// reported by SenderMatchesPublicKey, which no admission or state-update
// path calls.
func (stx SignedTransaction) VerifySignature() bool {
	return signature.Verify(stx.PublicKey, stx.Transaction.Encode(), stx.Signature)
}

// SenderMatchesPublicKey reports whether Transaction.Sender is the address
// derived from PublicKey, i.e. the strict sender/key binding the transaction
// generator's ephemeral-key transactions deliberately fail.
func (stx SignedTransaction) SenderMatchesPublicKey() bool {
	return stx.Transaction.Sender == hash.AddressFromPublicKey(stx.PublicKey)
}
