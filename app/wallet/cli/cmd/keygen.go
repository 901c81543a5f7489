package cmd

import (
	"crypto/ed25519"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/signature"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a fresh Ed25519 key pair and write the private key to --key",
	Run:   keygenRun,
}

func init() {
	rootCmd.AddCommand(keygenCmd)
}

func keygenRun(cmd *cobra.Command, args []string) {
	kp, err := signature.GenerateKeyPair()
	if err != nil {
		log.Fatal(err)
	}

	if err := os.WriteFile(keyPath, kp.Private, 0o600); err != nil {
		log.Fatal(err)
	}

	addr := hash.AddressFromPublicKey(kp.Public)
	fmt.Printf("private key written to %s\n", keyPath)
	fmt.Printf("address: %s\n", addr)
}

// loadKeyPair reads an Ed25519 private key written by keygenRun and
// reconstructs the full KeyPair (the private key's last 32 bytes are its
// public half, per crypto/ed25519's seed+public encoding).
func loadKeyPair(path string) (signature.KeyPair, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return signature.KeyPair{}, err
	}
	if len(raw) != ed25519.PrivateKeySize {
		return signature.KeyPair{}, fmt.Errorf("key file %s: want %d bytes, got %d", path, ed25519.PrivateKeySize, len(raw))
	}

	priv := ed25519.PrivateKey(raw)
	pub := priv.Public().(ed25519.PublicKey)

	return signature.KeyPair{Public: pub, Private: priv}, nil
}
