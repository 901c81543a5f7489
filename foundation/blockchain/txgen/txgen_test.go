package txgen

import (
	"testing"
	"time"

	"github.com/qcbit/powchain/foundation/blockchain/chain"
	"github.com/qcbit/powchain/foundation/blockchain/genesis"
	"github.com/qcbit/powchain/foundation/blockchain/state"
)

func noopLog(string, ...any) {}

func TestGeneratorEmitsValidNonceAgainstTip(t *testing.T) {
	c := chain.New()
	sp := state.NewPerBlock(genesis.ID(), state.GenesisState())

	e, h, txs := New(c, sp, noopLog)
	go e.Run()
	defer h.Exit()

	h.Start(0)

	select {
	case stx := <-txs:
		if stx.Transaction.Sender != genesis.BootstrapAddress {
			t.Fatalf("sender = %s, want bootstrap address", stx.Transaction.Sender)
		}
		if stx.Transaction.AccNonce != 1 {
			t.Fatalf("acc_nonce = %d, want 1", stx.Transaction.AccNonce)
		}
		if stx.Transaction.Value >= genesis.BootstrapBalance {
			t.Fatalf("value = %d, want < %d", stx.Transaction.Value, genesis.BootstrapBalance)
		}
		if stx.Transaction.Sender == stx.Transaction.Receiver {
			t.Fatal("generated a self-transfer with the only account present")
		}
		if !stx.VerifySignature() {
			t.Fatal("expected a validly-signed transaction")
		}
		if stx.SenderMatchesPublicKey() {
			t.Fatal("expected the ephemeral key to NOT match the claimed sender")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a generated transaction")
	}
}

func TestGeneratorStaysPausedUntilStarted(t *testing.T) {
	c := chain.New()
	sp := state.NewPerBlock(genesis.ID(), state.GenesisState())

	e, _, txs := New(c, sp, noopLog)
	go e.Run()

	select {
	case <-txs:
		t.Fatal("generator emitted a transaction while paused")
	case <-time.After(100 * time.Millisecond):
	}
}
