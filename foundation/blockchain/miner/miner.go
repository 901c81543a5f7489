// Package miner implements the mining engine: a three-state control-channel
// FSM ({Paused, Run(lambda), ShutDown}) that, while running, harvests the
// mempool and attempts exactly one proof-of-work nonce per iteration.
package miner

import (
	"crypto/rand"
	"math"
	"math/big"
	"time"

	"github.com/qcbit/powchain/foundation/blockchain/block"
	"github.com/qcbit/powchain/foundation/blockchain/chain"
	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/mempool"
	"github.com/qcbit/powchain/foundation/blockchain/transaction"
)

// harvestThreshold is the minimum number of pending transactions the engine
// requires before attempting a block.
const harvestThreshold = 10

// EventHandler receives a log line; wired to a zap SugaredLogger by callers.
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

// Handle lets callers (the admin HTTP surface) drive the engine's FSM.
type Handle struct {
	control chan command
}

// Start transitions the engine to Run(lambda).
func (h Handle) Start(lambda uint64) {
	h.control <- command{kind: cmdStart, lambda: lambda}
}

// Update asks the engine to refresh its cached tip and difficulty.
func (h Handle) Update() {
	h.control <- command{kind: cmdUpdate}
}

// Exit transitions the engine to ShutDown; Run returns after its current
// iteration.
func (h Handle) Exit() {
	h.control <- command{kind: cmdExit}
}

type engineState int

const (
	statePaused engineState = iota
	stateRun
	stateShutDown
)

// Engine runs the mining loop described in the package doc. It owns no
// goroutine itself; callers launch Run on one.
type Engine struct {
	control chan command
	blocks  chan block.Block

	chain   *chain.Chain
	mempool *mempool.Mempool
	log     EventHandler

	state  engineState
	lambda uint64
}

// New constructs an Engine paused at the chain's current tip, along with the
// Handle used to drive it and the channel its mined blocks arrive on. The
// control and block channels are generously buffered to approximate the
// reference implementation's unbounded channels (see DESIGN.md).
func New(c *chain.Chain, mp *mempool.Mempool, log EventHandler) (*Engine, Handle, <-chan block.Block) {
	control := make(chan command, 256)
	blocks := make(chan block.Block, 256)

	e := &Engine{
		control: control,
		blocks:  blocks,
		chain:   c,
		mempool: mp,
		log:     log,
		state:   statePaused,
	}

	return e, Handle{control: control}, blocks
}

// Run executes the FSM loop until a cmdExit is processed. Intended to run on
// its own goroutine.
func (e *Engine) Run() {
	e.log("miner: run: goroutine started")
	defer e.log("miner: run: goroutine completed")

	parent := e.chain.Tip()
	tip, _ := e.chain.Get(parent)
	difficulty := tip.Header.Difficulty

	for {
		switch e.state {
		case statePaused:
			cmd := <-e.control
			switch cmd.kind {
			case cmdExit:
				e.log("miner: run: shutting down from paused state")
				e.state = stateShutDown
			case cmdStart:
				e.log("miner: run: starting with lambda[%d]", cmd.lambda)
				e.lambda = cmd.lambda
				e.state = stateRun
			case cmdUpdate:
				// Paused: nothing to refresh yet.
			}
			continue

		case stateShutDown:
			return

		default: // stateRun
			select {
			case cmd := <-e.control:
				switch cmd.kind {
				case cmdExit:
					e.log("miner: run: shutting down")
					e.state = stateShutDown
				case cmdStart:
					e.lambda = cmd.lambda
				case cmdUpdate:
					parent = e.chain.Tip()
					tip, _ = e.chain.Get(parent)
					difficulty = tip.Header.Difficulty
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

		// Harvesting is gated on a 10-tx minimum, but a mining attempt is
		// made every iteration regardless — even an empty harvest still
		// mines an (empty-content) block, per the empty-merkle-root case.
		harvested := e.mempool.HarvestIfAtLeast(harvestThreshold)
		if newParent, mined := e.attempt(parent, difficulty, harvested); mined {
			parent = newParent
		}

		if e.lambda != 0 {
			time.Sleep(time.Duration(e.lambda) * time.Microsecond)
		}
	}
}

// attempt constructs exactly one candidate block with a single random nonce
// and emits it on the block channel if it solves the puzzle. Harvested
// transactions are already removed from the mempool by the time this runs,
// so a failed attempt simply loses them. Returns the new
// parent (the mined block's id) and whether mining succeeded.
func (e *Engine) attempt(parent, difficulty hash.Hash256, harvested []transaction.SignedTransaction) (hash.Hash256, bool) {
	nonce, err := randomNonce()
	if err != nil {
		e.log("miner: attempt: nonce: %s", err)
		return parent, false
	}

	b, err := block.New(parent, difficulty, nonce, uint64(time.Now().UnixMilli()), harvested)
	if err != nil {
		e.log("miner: attempt: block.New: %s", err)
		return parent, false
	}

	if !b.ValidPoW() {
		return parent, false
	}

	id := b.ID()
	e.blocks <- b
	return id, true
}

// randomNonce picks a uniformly random uint32 using crypto/rand over
// math/big for a single draw.
func randomNonce() (uint32, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxUint32+1))
	if err != nil {
		return 0, err
	}
	return uint32(n.Uint64()), nil
}
