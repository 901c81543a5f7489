// Package genesis holds the hard-coded genesis block and bootstrap account
// every node agrees on. The genesis is fixed rather than loaded from a
// config file: the wire codec must be byte-identical across peers, and
// these constants are what fixes the genesis block id every node checks
// against.
package genesis

import (
	"github.com/qcbit/powchain/foundation/blockchain/block"
	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/transaction"
)

// Difficulty is the fixed, never-retargeted difficulty target every block in
// this chain must meet.
var Difficulty = mustHash("0x0881281823" + "0e0b3b608814e05e61fde06d0df794468a12162f287412df3ec890")

// BootstrapAddress is the single account genesis credits with a starting
// balance.
var BootstrapAddress = mustAddress("0x12345678123456781234567812345678123456" + "78")

// BootstrapBalance is BootstrapAddress's genesis balance.
const BootstrapBalance = 1000

// Block is the hard-coded genesis block: all-zero parent, nonce 0, fixed
// Difficulty, timestamp 0, and an empty transaction list.
var Block = mustGenesisBlock()

func mustGenesisBlock() block.Block {
	b, err := block.New(hash.ZeroHash256, Difficulty, 0, 0, nil)
	if err != nil {
		panic("genesis: failed to construct genesis block: " + err.Error())
	}
	return b
}

// ID returns the genesis block's id, the GENESIS_ID constant every node must
// agree on.
func ID() hash.Hash256 {
	return Block.ID()
}

// BootstrapTransactions is always empty; genesis carries no content. Kept as
// a named value so callers building a state snapshot have one obvious
// starting point.
var BootstrapTransactions []transaction.SignedTransaction

func mustHash(s string) hash.Hash256 {
	h, err := hash.FromHex(s)
	if err != nil {
		panic("genesis: bad difficulty constant: " + err.Error())
	}
	return h
}

func mustAddress(s string) hash.Address {
	a, err := hash.AddressFromHex(s)
	if err != nil {
		panic("genesis: bad bootstrap address constant: " + err.Error())
	}
	return a
}
