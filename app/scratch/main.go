package main

import (
	"fmt"
	"log"

	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/signature"
	"github.com/qcbit/powchain/foundation/blockchain/transaction"
)

// Throwaway sandbox for poking at the signing and transaction encoding
// paths by hand; not wired into the node.
func main() {
	if err := run(); err != nil {
		log.Fatalln(err)
	}
}

func run() error {
	aliceKP, err := signature.GenerateKeyPair()
	if err != nil {
		return fmt.Errorf("generate alice key: %w", err)
	}
	bobKP, err := signature.GenerateKeyPair()
	if err != nil {
		return fmt.Errorf("generate bob key: %w", err)
	}

	alice := hash.AddressFromPublicKey(aliceKP.Public)
	bob := hash.AddressFromPublicKey(bobKP.Public)

	tx := transaction.New(alice, 1, bob, 100)
	signedTx := tx.Sign(aliceKP)

	fmt.Println("sender:  ", alice)
	fmt.Println("receiver:", bob)
	fmt.Println("valid signature:", signedTx.VerifySignature())
	fmt.Println("sender matches public key:", signedTx.SenderMatchesPublicKey())

	id, err := signedTx.Hash()
	if err != nil {
		return fmt.Errorf("hash tx: %w", err)
	}
	fmt.Println("tx id:", id)

	return nil
}
