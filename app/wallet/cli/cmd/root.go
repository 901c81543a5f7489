// Package cmd implements the wallet command-line tool: Ed25519 key
// generation and offline transaction signing. There is no submit command:
// the admin HTTP surface has no endpoint that accepts a wallet transaction
// (see the design notes), so a signed transaction's hex wire encoding is
// meant to be handed to a node operator or fed into a test harness by hand.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var keyPath string

var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Offline Ed25519 key and transaction tooling for the node",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&keyPath, "key", "k", "wallet.key", "path to the Ed25519 private key file")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
