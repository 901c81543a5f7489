package cmd

import (
	"encoding/hex"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/transaction"
)

var (
	nonce uint64
	from  string
	to    string
	value uint64
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a value transfer and print its hex wire encoding",
	Run:   signRun,
}

func init() {
	rootCmd.AddCommand(signCmd)
	signCmd.Flags().Uint64VarP(&nonce, "nonce", "n", 1, "sender's next account nonce")
	signCmd.Flags().StringVarP(&from, "from", "f", "", "sender address (0x-prefixed)")
	signCmd.Flags().StringVarP(&to, "to", "t", "", "receiver address (0x-prefixed)")
	signCmd.Flags().Uint64VarP(&value, "value", "v", 0, "amount to transfer")
}

func signRun(cmd *cobra.Command, args []string) {
	kp, err := loadKeyPair(keyPath)
	if err != nil {
		log.Fatal(err)
	}

	sender, err := hash.AddressFromHex(from)
	if err != nil {
		log.Fatalf("invalid --from: %s", err)
	}
	receiver, err := hash.AddressFromHex(to)
	if err != nil {
		log.Fatalf("invalid --to: %s", err)
	}

	tx := transaction.New(sender, uint32(nonce), receiver, uint32(value))
	signedTx := tx.Sign(kp)

	wire, err := signedTx.Encode()
	if err != nil {
		log.Fatal(err)
	}

	id, err := signedTx.Hash()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("id:   %s\n", id)
	fmt.Printf("wire: %s\n", hex.EncodeToString(wire))
}
