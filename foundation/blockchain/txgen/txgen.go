// Package txgen implements the transaction generator: the same three-state
// control-channel FSM as foundation/blockchain/miner, but each running
// iteration synthesizes one signed transaction "valid against the current
// tip" using a freshly generated ephemeral key rather than mining a block.
package txgen

import (
	crand "crypto/rand"
	"math/rand"
	"time"

	"github.com/qcbit/powchain/foundation/blockchain/chain"
	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/signature"
	"github.com/qcbit/powchain/foundation/blockchain/state"
	"github.com/qcbit/powchain/foundation/blockchain/transaction"
)

// EventHandler receives a log line, wired the same way as miner.EventHandler.
type EventHandler func(format string, v ...any)

type commandKind int

const (
	cmdStart commandKind = iota
	cmdUpdate
	cmdExit
)

type command struct {
	kind   commandKind
	lambda uint64
}

// Handle lets callers (the admin HTTP surface) drive the generator's FSM.
type Handle struct {
	control chan command
}

// Start transitions the generator to Run(lambda).
func (h Handle) Start(lambda uint64) {
	h.control <- command{kind: cmdStart, lambda: lambda}
}

// Update is a no-op: the generator always reads live tip state on each
// iteration, so there is nothing cached to refresh. Kept (rather than
// removed) to preserve the reference FSM's transition table exactly.
func (h Handle) Update() {
	h.control <- command{kind: cmdUpdate}
}

// Exit transitions the generator to ShutDown.
func (h Handle) Exit() {
	h.control <- command{kind: cmdExit}
}

type engineState int

const (
	statePaused engineState = iota
	stateRun
	stateShutDown
)

// Engine runs the generation loop described in the package doc.
type Engine struct {
	control chan command
	txs     chan transaction.SignedTransaction

	chain         *chain.Chain
	statePerBlock *state.PerBlock
	log           EventHandler

	state  engineState
	lambda uint64
}

// New constructs an Engine paused, along with its Handle and the channel its
// generated transactions arrive on.
func New(c *chain.Chain, sp *state.PerBlock, log EventHandler) (*Engine, Handle, <-chan transaction.SignedTransaction) {
	control := make(chan command, 256)
	txs := make(chan transaction.SignedTransaction, 256)

	e := &Engine{
		control:       control,
		txs:           txs,
		chain:         c,
		statePerBlock: sp,
		log:           log,
		state:         statePaused,
	}

	return e, Handle{control: control}, txs
}

// Run executes the FSM loop until a cmdExit is processed. Intended to run on
// its own goroutine.
func (e *Engine) Run() {
	e.log("txgen: run: goroutine started")
	defer e.log("txgen: run: goroutine completed")

	for {
		switch e.state {
		case statePaused:
			cmd := <-e.control
			switch cmd.kind {
			case cmdExit:
				e.state = stateShutDown
			case cmdStart:
				e.log("txgen: run: starting with lambda[%d]", cmd.lambda)
				e.lambda = cmd.lambda
				e.state = stateRun
			case cmdUpdate:
				// Paused: nothing to do.
			}
			continue

		case stateShutDown:
			return

		default: // stateRun
			select {
			case cmd := <-e.control:
				switch cmd.kind {
				case cmdExit:
					e.state = stateShutDown
				case cmdStart:
					e.lambda = cmd.lambda
				case cmdUpdate:
					// The generator always reads live state; nothing cached.
				}
			default:
			}
		}

		if e.state == stateShutDown {
			return
		}
		if e.state != stateRun {
			continue
		}

		if stx, ok := e.generate(); ok {
			e.txs <- stx
		}

		if e.lambda != 0 {
			time.Sleep(time.Duration(e.lambda) * time.Microsecond)
		}
	}
}

// generate synthesizes one signed transaction against the current tip's
// state. Returns false if the tip's state has no accounts to draw a sender
// from (only possible before the bootstrap state exists, which never
// happens in practice since genesis always seeds one account).
func (e *Engine) generate() (transaction.SignedTransaction, bool) {
	tipState, ok := e.statePerBlock.Get(e.chain.Tip())
	if !ok || len(tipState) == 0 {
		return transaction.SignedTransaction{}, false
	}

	sender, senderAcct := pickAccount(tipState)

	receiver, ok := pickOtherAccount(tipState, sender)
	if !ok || rand.Intn(2) == 0 {
		receiver = randomAddress()
	}

	value := uint32(0)
	if senderAcct.Balance > 0 {
		value = uint32(rand.Intn(int(senderAcct.Balance)))
	}

	tx := transaction.New(sender, senderAcct.Nonce+1, receiver, value)

	kp, err := signature.GenerateKeyPair()
	if err != nil {
		e.log("txgen: generate: GenerateKeyPair: %s", err)
		return transaction.SignedTransaction{}, false
	}

	return tx.Sign(kp), true
}

// pickAccount returns a pseudo-random (address, account) pair from s. s must
// be non-empty.
func pickAccount(s state.State) (hash.Address, state.Account) {
	addrs := make([]hash.Address, 0, len(s))
	for a := range s {
		addrs = append(addrs, a)
	}
	addr := addrs[rand.Intn(len(addrs))]
	return addr, s[addr]
}

// pickOtherAccount returns a pseudo-random address from s other than
// exclude. ok is false if no such address exists.
func pickOtherAccount(s state.State, exclude hash.Address) (hash.Address, bool) {
	addrs := make([]hash.Address, 0, len(s))
	for a := range s {
		if a != exclude {
			addrs = append(addrs, a)
		}
	}
	if len(addrs) == 0 {
		return hash.Address{}, false
	}
	return addrs[rand.Intn(len(addrs))], true
}

// randomAddress returns a fresh, effectively-never-before-seen address.
func randomAddress() hash.Address {
	var a hash.Address
	crand.Read(a[:])
	return a
}
